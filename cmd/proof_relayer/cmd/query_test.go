package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relayerhttp "github.com/blockvault/storage-proof-relayer/internal/http"
	"github.com/blockvault/storage-proof-relayer/internal/relay"
)

func newRelayerServer(t *testing.T, res relay.ProofResponse, requests chan<- relay.ProofRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == relayerhttp.StatusResource {
			_, _ = w.Write([]byte(relayerhttp.StatusText))
			return
		}

		var req relay.ProofRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		requests <- req
		_ = json.NewEncoder(w).Encode(res)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestQueryStatus(t *testing.T) {
	srv := newRelayerServer(t, relay.ProofResponse{}, nil)

	out, err := execute(t, "query", "status", "-u", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, relayerhttp.StatusText)
}

func TestQueryProof(t *testing.T) {
	requests := make(chan relay.ProofRequest, 1)
	srv := newRelayerServer(t, relay.ProofResponse{Success: true, MerkleProof: []string{"0xe2a020cc"}}, requests)

	out, err := execute(t, "query", "proof", "-u", srv.URL, "--block", "0x10", "--slot", "0x1",
		"--contract", "0x6B175474E89094C44Da98b954EedeAC495271d0F")
	require.NoError(t, err)
	assert.Contains(t, out, "0xe2a020cc")

	req := <-requests
	assert.Equal(t, relay.ProofRequest{
		BlockNumber:     "0x10",
		StorageSlot:     "0x1",
		ContractAddress: "0x6B175474E89094C44Da98b954EedeAC495271d0F",
	}, req)
}

func TestQueryProofReportsFailure(t *testing.T) {
	requests := make(chan relay.ProofRequest, 1)
	srv := newRelayerServer(t, relay.ProofResponse{
		MerkleProof: []string{},
		Error:       &relay.ErrorInfo{Kind: "MalformedInput", Message: "storage slot is longer than 32 bytes"},
	}, requests)

	out, err := execute(t, "query", "proof", "-u", srv.URL, "--block", "latest", "--slot", "0x2", "--contract", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MalformedInput")
	assert.Contains(t, out, `"success": false`)
	<-requests
}

func TestQueryRejectsBadURL(t *testing.T) {
	_, err := execute(t, "query", "status", "-u", "127.0.0.1:3001")
	require.Error(t, err)
}
