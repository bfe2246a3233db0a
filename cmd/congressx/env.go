package main

import (
	"context"

	"github.com/congress-network/congressx/pkg/config"
	"github.com/congress-network/congressx/pkg/db/postgres"
	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/congress-network/congressx/pkg/db/staging"
	"github.com/congress-network/congressx/pkg/expect"
	"github.com/congress-network/congressx/pkg/logging"
	"github.com/congress-network/congressx/pkg/utils"
	"go.uber.org/zap"
)

// env bundles the shared dependencies every subcommand needs.
type env struct {
	Cfg     config.Config
	DB      postgres.Client
	Staging *staging.Store
	Engine  *production.Engine
	Runner  *expect.Runner
	Logger  *zap.Logger
}

func connect(ctx context.Context) (*env, error) {
	logger, err := logging.New("cli")
	if err != nil {
		return nil, err
	}

	cfg := config.FromEnv()
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	db, err := postgres.New(ctx, logger, cfg.DatabaseURL, postgres.GetPoolConfigForComponent("cli"))
	if err != nil {
		return nil, err
	}

	store := staging.New(&db, cfg.StagingSchema, cfg.CongressNumber, logger)
	engine := production.NewEngine(&db, cfg.StagingSchema, cfg.ProductionSchema, cfg.SchemaVersion, cfg.VersionsToKeep, logger)

	suites, err := expect.LoadSuites(utils.Env("VALIDATION_SUITES_PATH", ""))
	if err != nil {
		db.Close()
		return nil, err
	}
	runner := expect.NewRunner(&db, engine, cfg.StagingSchema, suites, logger)
	runner.MaxConcurrent = cfg.MaxConcurrent

	return &env{
		Cfg:     cfg,
		DB:      db,
		Staging: store,
		Engine:  engine,
		Runner:  runner,
		Logger:  logger,
	}, nil
}

func (e *env) Close() {
	e.DB.Close()
}
