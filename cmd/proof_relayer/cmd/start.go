package cmd

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	nlogger "github.com/neutron-org/neutron-logger"

	"github.com/blockvault/storage-proof-relayer/internal/app"
	"github.com/blockvault/storage-proof-relayer/internal/config"
	relayerhttp "github.com/blockvault/storage-proof-relayer/internal/http"
)

const (
	mainContext = "main"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the proof relayer webserver",
	Run: func(cmd *cobra.Command, args []string) {
		startRelayer()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func startRelayer() {
	logRegistry, err := nlogger.NewRegistry(
		mainContext,
		app.AppContext,
		app.RelayerContext,
		app.RPCClientContext,
		relayerhttp.ServerContext,
	)
	if err != nil {
		log.Fatalf("couldn't initialize loggers registry: %s", err)
	}
	logger := logRegistry.Get(mainContext)
	logger.Info("storage-proof-relayer starts...")

	cfg, err := config.NewProofRelayerConfig(logger)
	if err != nil {
		logger.Fatal("cannot initialize relayer config", zap.Error(err))
	}

	listener, err := relayerhttp.Listen(cfg.ListenAddr)
	if err != nil {
		logger.Fatal("cannot bind the api http address", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		select {
		case s := <-sigs:
			logger.Info("Received termination signal, gracefully shutting down...",
				zap.String("signal", s.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	err = runRelayer(ctx, cfg, logRegistry, listener)
	cancel()
	if err != nil {
		logger.Fatal("relayer exited with an error", zap.Error(err))
	}
	logger.Info("storage-proof-relayer stopped")
}

// runRelayer serves on an already bound listener until ctx is done. The
// upstream probe runs next to the server and never delays it. Everything
// runRelayer opens is closed by the time it returns.
func runRelayer(ctx context.Context, cfg config.ProofRelayerConfig, logRegistry *nlogger.Registry, listener net.Listener) error {
	deps, err := app.NewDefaultDependencyContainer(ctx, cfg, logRegistry)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to create NewDefaultDependencyContainer: %w", err)
	}
	defer deps.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()

		// A node that is down at startup is not fatal: requests report it as unreachable.
		appLogger := logRegistry.Get(app.AppContext)
		if err := app.ProbeUpstream(ctx, deps.GetRPCClient(), cfg.ProbeAttempts, cfg.ProbeDelay, appLogger); err != nil {
			appLogger.Warn("upstream node is not reachable yet", zap.Error(err))
		}
	}()

	relayer := app.NewDefaultRelayer(cfg, logRegistry, deps)
	err = relayerhttp.Run(ctx, logRegistry, relayer, listener, cfg.ShutdownTimeout)

	cancel()
	wg.Wait()
	return err
}
