package main

import (
	"context"
	"fmt"
	"os"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/common/logger"
	"devhubtrader.app/forge/core/config"
	"devhubtrader.app/forge/core/db"
	"devhubtrader.app/forge/internal/generation"
	"devhubtrader.app/forge/internal/service"
	"devhubtrader.app/forge/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	if err := id.Init(cfg.NodeID); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize id generator: %v\n", err)
		os.Exit(1)
	}

	app := newCLIApp(func(ctx context.Context) (*backend, error) {
		return openBackend(ctx, cfg)
	})
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	orchestrator, err := generation.NewFromConfig(ctx, cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}

	services := service.NewServices(
		store.NewStores(database.Queries()),
		service.NewTxRunner(database),
		orchestrator,
		nil,
		cfg.Generation.TokenCost,
	)
	return &backend{services: services, close: database.Close}, nil
}
