package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const EnvPrefix = "RELAYER"

// DefaultTargetContract is queried when a proof request names no contract (USDT on mainnet).
const DefaultTargetContract = "0xdAC17F958D2ee523a2206206994597C13D831ec7"

// ProofRelayerConfig describes the configuration of the relayer, read from RELAYER_* env vars
type ProofRelayerConfig struct {
	RPCAddr         string        `envconfig:"RPC_ADDR" default:"http://127.0.0.1:8545"`
	RPCTimeout      time.Duration `envconfig:"RPC_TIMEOUT" default:"10s"`
	ListenAddr      string        `envconfig:"LISTEN_ADDR" default:"127.0.0.1:3001"`
	ProofTimeout    time.Duration `envconfig:"PROOF_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	TargetContract  string        `envconfig:"TARGET_CONTRACT" default:"0xdAC17F958D2ee523a2206206994597C13D831ec7"`
	Registry        RegistryAddresses
	ProbeAttempts   uint          `envconfig:"PROBE_ATTEMPTS" default:"3"`
	ProbeDelay      time.Duration `envconfig:"PROBE_DELAY" default:"2s"`
}

type RegistryAddresses struct {
	Addresses []string `envconfig:"ADDRESSES"`
}

// NewProofRelayerConfig reads the config from the environment and validates it.
func NewProofRelayerConfig(logger *zap.Logger) (ProofRelayerConfig, error) {
	var cfg ProofRelayerConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read config from the environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("loaded config",
		zap.String("listen_addr", cfg.ListenAddr),
		zap.Duration("rpc_timeout", cfg.RPCTimeout),
		zap.Duration("proof_timeout", cfg.ProofTimeout),
		zap.String("target_contract", cfg.TargetContract),
		zap.Int("registry_size", len(cfg.Registry.Addresses)),
		zap.Uint("probe_attempts", cfg.ProbeAttempts),
	)
	return cfg, nil
}

func (c ProofRelayerConfig) Validate() error {
	u, err := url.Parse(c.RPCAddr)
	if err != nil {
		return fmt.Errorf("RPC_ADDR %q is not a valid url: %w", c.RPCAddr, err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("RPC_ADDR scheme must be one of http, https, ws, wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("RPC_ADDR %q has no host", c.RPCAddr)
	}

	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR must be set")
	}
	if c.RPCTimeout <= 0 {
		return fmt.Errorf("RPC_TIMEOUT must be positive, got %s", c.RPCTimeout)
	}
	if c.ProofTimeout <= 0 {
		return fmt.Errorf("PROOF_TIMEOUT must be positive, got %s", c.ProofTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if !common.IsHexAddress(c.TargetContract) {
		return fmt.Errorf("TARGET_CONTRACT %q is not a valid address", c.TargetContract)
	}
	for _, addr := range c.Registry.Addresses {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("REGISTRY_ADDRESSES contains invalid address %q", addr)
		}
	}
	return nil
}
