package app

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	nlogger "github.com/neutron-org/neutron-logger"

	"github.com/blockvault/storage-proof-relayer/internal/config"
	"github.com/blockvault/storage-proof-relayer/internal/relay"
)

var (
	Version = ""
	Commit  = ""
)

const (
	AppContext       = "app"
	RelayerContext   = "relayer"
	RPCClientContext = "rpc_client"
)

// NewDefaultRelayer returns a relayer built with cfg.
func NewDefaultRelayer(
	cfg config.ProofRelayerConfig,
	logRegistry *nlogger.Registry,
	deps *DependencyContainer,
) *relay.Relayer {
	relayCfg := relay.Config{
		TargetContract: common.HexToAddress(cfg.TargetContract),
		ProofTimeout:   cfg.ProofTimeout,
	}
	return relay.NewRelayer(relayCfg, deps.GetProofer(), deps.GetRegistry(), logRegistry.Get(RelayerContext))
}

// ProbeUpstream asks the node for its chain id, retrying attempts times. It is
// informational only: the relayer serves requests whether the probe succeeds or not.
func ProbeUpstream(ctx context.Context, client *rpc.Client, attempts uint, delay time.Duration, logger *zap.Logger) error {
	if attempts == 0 {
		return nil
	}

	eth := ethclient.NewClient(client)
	var (
		rtyAtt = retry.Attempts(attempts)
		rtyDel = retry.Delay(delay)
		rtyErr = retry.LastErrorOnly(true)
	)

	if err := retry.Do(func() error {
		chainID, err := eth.ChainID(ctx)
		if err != nil {
			return err
		}

		logger.Info("upstream node is reachable", zap.String("chain_id", chainID.String()))
		return nil
	}, retry.Context(ctx), rtyAtt, rtyDel, rtyErr, retry.DelayType(retry.FixedDelay), retry.OnRetry(func(n uint, err error) {
		logger.Info("failed to query upstream chain id", zap.Uint("attempt", n+1), zap.Error(err))
	})); err != nil {
		return fmt.Errorf("upstream node did not answer eth_chainId: %w", err)
	}

	return nil
}
