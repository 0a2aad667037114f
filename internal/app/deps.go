package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	nlogger "github.com/neutron-org/neutron-logger"
	"go.uber.org/zap"

	"github.com/blockvault/storage-proof-relayer/internal/config"
	"github.com/blockvault/storage-proof-relayer/internal/proof"
	"github.com/blockvault/storage-proof-relayer/internal/raw"
	"github.com/blockvault/storage-proof-relayer/internal/registry"
	"github.com/blockvault/storage-proof-relayer/internal/relay"
)

// DependencyContainer owns the process wide clients. It is created once at
// startup and closed at shutdown; request handlers only borrow from it.
type DependencyContainer struct {
	rpcClient *rpc.Client
	proofer   relay.Proofer
	registry  *registry.Registry
}

func NewDefaultDependencyContainer(ctx context.Context,
	cfg config.ProofRelayerConfig,
	logRegistry *nlogger.Registry) (*DependencyContainer, error) {
	reg, err := registry.New(&registry.RegistryConfig{Addresses: cfg.Registry.Addresses})
	if err != nil {
		return nil, fmt.Errorf("could not initialize contract registry: %w", err)
	}
	if reg.IsEmpty() {
		logRegistry.Get(AppContext).Info("contract registry is empty, proofs for any contract are relayed")
	} else {
		addrs := make([]string, 0, len(cfg.Registry.Addresses))
		for _, addr := range reg.GetAddresses() {
			addrs = append(addrs, addr.Hex())
		}
		logRegistry.Get(AppContext).Info("contract registry loaded", zap.Strings("addresses", addrs))
	}

	rpcClient, err := raw.NewRPCClient(ctx, cfg.RPCAddr, cfg.RPCTimeout, logRegistry.Get(RPCClientContext))
	if err != nil {
		return nil, fmt.Errorf("could not initialize upstream rpc client: %w", err)
	}

	return &DependencyContainer{
		rpcClient: rpcClient,
		proofer:   proof.NewQuerier(rpcClient),
		registry:  reg,
	}, nil
}

func (c DependencyContainer) GetRPCClient() *rpc.Client {
	return c.rpcClient
}

func (c DependencyContainer) GetProofer() relay.Proofer {
	return c.proofer
}

func (c DependencyContainer) GetRegistry() *registry.Registry {
	return c.registry
}

// Close releases the upstream connection.
func (c DependencyContainer) Close() {
	c.rpcClient.Close()
}
