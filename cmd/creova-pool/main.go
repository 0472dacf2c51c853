package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Creova-Group/Creova-sub000/config"
	"github.com/Creova-Group/Creova-sub000/draft"
	"github.com/Creova-Group/Creova-sub000/httpapi"
	"github.com/Creova-Group/Creova-sub000/ipfs"
	"github.com/Creova-Group/Creova-sub000/journal"
	"github.com/Creova-Group/Creova-sub000/kyc"
	"github.com/Creova-Group/Creova-sub000/pool"
)

func startServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	events, err := journal.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open event journal: %w", err)
	}
	defer events.Close()

	// Restore the journaled stream so timelines, leaderboards and event
	// queries keep serving across restarts.
	var history []pool.Event
	if err := events.Replay(func(ev pool.Event) error {
		history = append(history, ev)
		return nil
	}); err != nil {
		return fmt.Errorf("replay event journal: %w", err)
	}

	drafts, err := draft.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open draft store: %w", err)
	}
	defer drafts.Close()

	var registry pool.KYCRegistry
	if cfg.KYC.BaseURL != "" {
		provider := kyc.NewHTTPProvider(cfg.KYC.BaseURL, cfg.KYC.Token)
		registry = kyc.NewCachedRegistry(provider, cfg.KYC.CacheTTL, logger.Named("kyc"))
	} else {
		logger.Warn("no kyc provider configured, addresses above the thresholds stay blocked")
		registry = kyc.NewMemoryRegistry()
	}

	p := pool.New(cfg.Owner(), registry,
		pool.WithParams(cfg.PoolParams()),
		pool.WithLogger(logger.Named("pool")),
		pool.WithSink(events),
		pool.WithEventHistory(history),
	)
	if len(history) > 0 {
		logger.Info("restored event history", zap.Int("events", len(history)))
	}
	for _, addr := range cfg.VoterAddresses() {
		if err := p.GrantVoter(cfg.Owner(), addr); err != nil {
			return fmt.Errorf("seed voter %s: %w", addr.Hex(), err)
		}
	}
	for _, addr := range cfg.VerifiedCreatorAddresses() {
		if err := p.GrantVerifiedCreator(cfg.Owner(), addr); err != nil {
			return fmt.Errorf("seed creator %s: %w", addr.Hex(), err)
		}
	}

	appOpts := []httpapi.AppOption{
		httpapi.WithDrafts(drafts),
		httpapi.WithLogger(logger.Named("http")),
	}
	if cfg.IPFS.BaseURL != "" {
		appOpts = append(appOpts, httpapi.WithPins(
			ipfs.NewClient(cfg.IPFS.BaseURL, cfg.IPFS.Token, logger.Named("ipfs"))))
	}
	app := httpapi.NewApp(p, appOpts...)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpapi.NewRouter(app, nil),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

func startServerCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the campaign funding pool API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "creova-pool",
		Short: "Creova campaign lifecycle service",
	}
	rootCmd.AddCommand(startServerCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
