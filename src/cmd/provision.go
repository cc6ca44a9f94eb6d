package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodeforest/graphd/src/config"
	"github.com/nodeforest/graphd/src/logging"
	"github.com/nodeforest/graphd/src/pgpool"
)

// newProvisionCmd is the separate, explicit schema-(re)creation step
// SPEC_FULL.md §3 resolves spec.md §9's open question with: it is
// never run implicitly by serve, only by this command.
func newProvisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision <service>",
		Short: "(re)create the Postgres graph schema, destroying existing data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(args[0])
		},
	}
}

func runProvision(service string) error {
	log := logging.New(service)

	cfg, err := config.LoadConfig(config.Path(service))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.DB != "pg" {
		return fmt.Errorf("provision requires db=\"pg\" in config/%s.json, got %q", service, cfg.DB)
	}

	ctx := context.Background()
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
	defer pool.Close()

	if err := pgpool.Provision(ctx, pool); err != nil {
		return fmt.Errorf("provisioning schema: %w", err)
	}

	log.Info("schema provisioned")
	return nil
}
