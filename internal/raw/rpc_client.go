package raw

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// NewRPCClient returns a JSON-RPC client for eth queries. For http(s) endpoints
// nothing is dialed up front: the first call opens the connection, so a node
// that is down at startup does not prevent the client from being created.
func NewRPCClient(ctx context.Context, addr string, timeout time.Duration, logger *zap.Logger) (*rpc.Client, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid url: %w", addr, err)
	}

	var opts []rpc.ClientOption
	switch u.Scheme {
	case "http", "https":
		opts = append(opts, rpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported rpc url scheme %q", u.Scheme)
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := rpc.DialOptions(dialCtx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not initialize rpc client with address=%s: %w", redact(u), err)
	}

	logger.Info("rpc client initialized",
		zap.String("address", redact(u)),
		zap.Duration("timeout", timeout),
	)
	return client, nil
}

// redact drops credentials and the query string; hosted node URLs often carry API keys.
func redact(u *url.URL) string {
	c := *u
	c.User = nil
	c.RawQuery = ""
	return c.String()
}
