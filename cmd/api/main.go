package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traveltime.dev/engine/internal/app"
	"traveltime.dev/engine/internal/appconf"
	"traveltime.dev/engine/internal/engine"
	"traveltime.dev/engine/internal/logging"
	"traveltime.dev/engine/internal/restapi"
	"traveltime.dev/engine/transitdb"
)

func main() {
	f, set, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(f.logLevel))
	slog.SetDefault(logger)

	if err := run(f, set, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(f flags, set map[string]bool, logger *slog.Logger) error {
	if err := appconf.LoadDotEnv(f.envFile); err != nil {
		return err
	}

	cfg, err := appconf.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg, f, set)
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig := cfg.AppConfig()

	storeConfig := transitdb.NewConfig(cfg.Store.Driver, cfg.Store.DSN, appConfig.Env, f.verbose)
	storeConfig.Logger = logger
	store, err := transitdb.NewClient(storeConfig)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer logging.SafeCloseWithLogging(store, logger, "transit_store")

	ctx := context.Background()
	manager, err := engine.InitManager(ctx, store, engine.Config{
		WalkingRadius:   cfg.Graph.WalkingRadiusMeters,
		SnapshotPath:    cfg.Graph.SnapshotPath,
		RefreshInterval: cfg.Graph.RefreshInterval,
		Env:             appConfig.Env,
		Verbose:         f.verbose,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	defer manager.Shutdown()
	manager.PrintStatistics()

	api := restapi.NewRestAPI(&app.Application{
		Config:        appConfig,
		Logger:        logger,
		EngineManager: manager,
	})
	defer api.Shutdown()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", appConfig.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return serve(srv, logger, appConfig.Env)
}

// serve runs srv until SIGINT or SIGTERM, then drains in-flight requests.
func serve(srv *http.Server, logger *slog.Logger, env appconf.Environment) error {
	errs := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", env.String())
		errs <- srv.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case err := <-errs:
		return err
	case sig := <-sigs:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server shut down successfully")
	return nil
}
