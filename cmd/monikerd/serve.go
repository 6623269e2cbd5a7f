package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GanizaniSitara/monikerd/internal/cache"
	"github.com/GanizaniSitara/monikerd/internal/catalog"
	"github.com/GanizaniSitara/monikerd/internal/config"
	"github.com/GanizaniSitara/monikerd/internal/httpapi"
	"github.com/GanizaniSitara/monikerd/internal/loader"
	"github.com/GanizaniSitara/monikerd/internal/logging"
	"github.com/GanizaniSitara/monikerd/internal/resolver"
)

var serveDebugLog bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP resolution API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveDebugLog, "debug", false, "Enable development-mode logging")
	rootCmd.AddCommand(serveCmd)
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if v := os.Getenv("MONIKERD_CONFIG_PATH"); v != "" {
		return v
	}
	return "monikerd.yaml"
}

func runServe(cmd *cobra.Command, args []string) error {
	logging.Init(serveDebugLog)
	defer logging.Sync()
	log := logging.Get(logging.CategoryHTTPAPI)

	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	registry := catalog.NewRegistry()
	rel := loader.NewReloader(cfg.Catalog.Path, registry, cfg.ReloadInterval(), cfg.Catalog.WatchFiles)

	if err := rel.Reload(context.Background()); err != nil {
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := rel.Start(ctx); err != nil {
		return fmt.Errorf("start reloader: %w", err)
	}
	defer rel.Stop()

	res := resolver.New(registry)
	c := cache.New(cfg.Cache.MaxSize, cfg.CacheTTL(), cfg.Cache.Enabled)

	srv := httpapi.NewServer(httpapi.Config{
		Addr:         cfg.Addr(),
		DrainTimeout: cfg.DrainTimeout(),
	}, registry, res, rel, c)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-sigCh:
		log.Infow("shutdown signal received", "signal", sig.String())
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.DrainTimeout())
	defer drainCancel()

	if err := srv.Shutdown(drainCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
		return err
	}
	log.Info("shutdown complete")
	return nil
}
