package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodeforest/graphd/src/api"
	"github.com/nodeforest/graphd/src/config"
	"github.com/nodeforest/graphd/src/logging"
	"github.com/nodeforest/graphd/src/model"
	"github.com/nodeforest/graphd/src/pgpool"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <service>",
		Short: "run the HTTP server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args[0])
		},
	}
}

func runServe(service string) error {
	log := logging.New(service)

	cfg, err := config.LoadConfig(config.Path(service))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx := context.Background()

	var m model.Model
	var closePool func()

	switch cfg.DB {
	case "mem":
		m = model.NewInMemoryModel()
	case "pg":
		pool, err := pgpool.Open(ctx, pgpool.Config{
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			MinSize:  cfg.Postgres.MinSize,
			MaxSize:  cfg.Postgres.MaxSize,
		})
		if err != nil {
			return fmt.Errorf("opening postgres pool: %w", err)
		}
		exists, err := pgpool.TableExists(ctx, pool)
		if err != nil {
			pool.Close()
			return fmt.Errorf("checking graph table: %w", err)
		}
		if !exists {
			pool.Close()
			return fmt.Errorf("graph table does not exist: run %q first", "provision "+service)
		}
		m = model.NewPgModel(pool)
		closePool = pool.Close
	default:
		return fmt.Errorf("unknown db %q (want \"mem\" or \"pg\")", cfg.DB)
	}
	if closePool != nil {
		defer closePool()
	}

	router := api.NewRouter(m, log)
	mux := http.NewServeMux()
	router.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-shutdown:
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
