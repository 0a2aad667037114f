package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	nlogger "github.com/neutron-org/neutron-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blockvault/storage-proof-relayer/internal/config"
	"github.com/blockvault/storage-proof-relayer/internal/proof"
	"github.com/blockvault/storage-proof-relayer/internal/relay"
)

const fixturePath = "../proof/testdata/eth_getProof_usdt.json"

// newNode answers eth_chainId with 0x1 once failures calls have been rejected
// with a 503, and eth_getProof with the recorded fixture.
func newNode(t *testing.T, failures int32) (*httptest.Server, *int32) {
	t.Helper()
	fixture, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	var recorded struct {
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(fixture, &recorded))

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= failures {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}

		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result interface{}
		switch req.Method {
		case "eth_chainId":
			result = "0x1"
		case "eth_getProof":
			result = recorded.Result
		default:
			http.Error(w, "unknown method", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newConfig(t *testing.T, rpcAddr string) config.ProofRelayerConfig {
	t.Helper()
	t.Setenv("RELAYER_RPC_ADDR", rpcAddr)
	cfg, err := config.NewProofRelayerConfig(zap.NewNop())
	require.NoError(t, err)
	return cfg
}

func newLogRegistry(t *testing.T) *nlogger.Registry {
	t.Helper()
	logRegistry, err := nlogger.NewRegistry(AppContext, RelayerContext, RPCClientContext)
	require.NoError(t, err)
	return logRegistry
}

func TestProbeUpstreamRetries(t *testing.T) {
	node, calls := newNode(t, 2)
	deps, err := NewDefaultDependencyContainer(context.Background(), newConfig(t, node.URL), newLogRegistry(t))
	require.NoError(t, err)
	defer deps.Close()

	err = ProbeUpstream(context.Background(), deps.GetRPCClient(), 3, time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestProbeUpstreamGivesUp(t *testing.T) {
	node, calls := newNode(t, 10)
	deps, err := NewDefaultDependencyContainer(context.Background(), newConfig(t, node.URL), newLogRegistry(t))
	require.NoError(t, err)
	defer deps.Close()

	err = ProbeUpstream(context.Background(), deps.GetRPCClient(), 2, time.Millisecond, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestProbeUpstreamDisabled(t *testing.T) {
	node, calls := newNode(t, 0)
	deps, err := NewDefaultDependencyContainer(context.Background(), newConfig(t, node.URL), newLogRegistry(t))
	require.NoError(t, err)
	defer deps.Close()

	require.NoError(t, ProbeUpstream(context.Background(), deps.GetRPCClient(), 0, time.Millisecond, zap.NewNop()))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestDefaultRelayerServesFixture(t *testing.T) {
	node, _ := newNode(t, 0)
	logRegistry := newLogRegistry(t)
	cfg := newConfig(t, node.URL)

	deps, err := NewDefaultDependencyContainer(context.Background(), cfg, logRegistry)
	require.NoError(t, err)
	defer deps.Close()

	res := NewDefaultRelayer(cfg, logRegistry, deps).
		RelayProof(context.Background(), relay.ProofRequest{BlockNumber: "0x10", StorageSlot: "0x1"})
	require.True(t, res.Success, "%+v", res.Error)
	require.NotEmpty(t, res.MerkleProof)
	assert.Equal(t, "0xdAC17F958D2ee523a2206206994597C13D831ec7", res.Address)
}

func TestDependencyContainerRejectsBadRegistry(t *testing.T) {
	node, _ := newNode(t, 0)
	cfg := newConfig(t, node.URL)
	cfg.Registry.Addresses = []string{"nope"}

	_, err := NewDefaultDependencyContainer(context.Background(), cfg, newLogRegistry(t))
	require.Error(t, err)
}

func TestDefaultRelayerHonorsRegistry(t *testing.T) {
	node, calls := newNode(t, 0)
	logRegistry := newLogRegistry(t)
	cfg := newConfig(t, node.URL)
	cfg.Registry.Addresses = []string{"0x6B175474E89094C44Da98b954EedeAC495271d0F"}

	deps, err := NewDefaultDependencyContainer(context.Background(), cfg, logRegistry)
	require.NoError(t, err)
	defer deps.Close()

	res := NewDefaultRelayer(cfg, logRegistry, deps).
		RelayProof(context.Background(), relay.ProofRequest{BlockNumber: "0x10", StorageSlot: "0x1"})
	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, string(proof.ContractNotAllowed), res.Error.Kind)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}
