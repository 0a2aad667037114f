package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/blockvault/storage-proof-relayer/internal/relay"
)

const getTimeout = time.Second * 30

// RelayerClient provides high level methods to work with the relayer webserver api
type RelayerClient struct {
	host   *url.URL
	client http.Client
}

// NewRelayerClient takes a host as a single argument and returns a RelayerClient in case of well formatted host arg
// host format is <scheme>://<host>[:<port>], e.g. http://relayer.host, https://relayer.host, http://relayer.host:3001
func NewRelayerClient(host string) (*RelayerClient, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("host parsing error: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("host must be an http(s) url, got %q", host)
	}

	u.Path = ""
	u.RawQuery = ""
	return &RelayerClient{
		host: u,
		client: http.Client{
			Timeout: getTimeout,
		},
	}, nil
}

// Status returns the body of the status resource.
func (c RelayerClient) Status() (string, error) {
	u := *c.host
	u.Path = StatusResource

	res, err := c.client.Get(u.String())
	if err != nil {
		return "", fmt.Errorf("failed to make http request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("got unexpected http response status code: %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// GetProof posts req to the proof resource. A decoded response is returned for
// every status code the relayer answers with; callers check Success.
func (c RelayerClient) GetProof(req relay.ProofRequest) (*relay.ProofResponse, error) {
	u := *c.host
	u.Path = ProofResource

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proof request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make http request: %w", err)
	}
	defer res.Body.Close()

	var proofRes relay.ProofResponse
	if err := json.NewDecoder(res.Body).Decode(&proofRes); err != nil {
		return nil, fmt.Errorf("failed to decode response body (status %d): %w", res.StatusCode, err)
	}

	return &proofRes, nil
}
