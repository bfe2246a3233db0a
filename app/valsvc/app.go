// Package valsvc is the validation service: an HTTP surface over the
// expectation runner, the promotion engine and the staging store.
package valsvc

import (
	"context"
	"time"

	"github.com/congress-network/congressx/app/valsvc/types"
	"github.com/congress-network/congressx/pkg/config"
	"github.com/congress-network/congressx/pkg/db/postgres"
	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/congress-network/congressx/pkg/db/staging"
	"github.com/congress-network/congressx/pkg/expect"
	"github.com/congress-network/congressx/pkg/logging"
	"github.com/congress-network/congressx/pkg/redis"
	"github.com/congress-network/congressx/pkg/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Initialize initializes the application.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New("valsvc")
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	cfg := config.FromEnv()
	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal("Configuration invalid", zap.Error(err))
	}

	db, err := postgres.New(ctx, logger, cfg.DatabaseURL, postgres.GetPoolConfigForComponent("valsvc"))
	if err != nil {
		logger.Fatal("Unable to connect to database", zap.Error(err))
	}

	stagingStore := staging.New(&db, cfg.StagingSchema, cfg.CongressNumber, logger)
	if err := stagingStore.InitSchema(ctx); err != nil {
		logger.Fatal("Unable to initialize staging schema", zap.Error(err))
	}

	engine := production.NewEngine(&db, cfg.StagingSchema, cfg.ProductionSchema, cfg.SchemaVersion, cfg.VersionsToKeep, logger)
	if err := engine.InitTables(ctx); err != nil {
		logger.Fatal("Unable to initialize production tables", zap.Error(err))
	}

	suites, err := expect.LoadSuites(utils.Env("VALIDATION_SUITES_PATH", ""))
	if err != nil {
		logger.Fatal("Unable to load validation suites", zap.Error(err))
	}
	runner := expect.NewRunner(&db, engine, cfg.StagingSchema, suites, logger)
	runner.MaxConcurrent = cfg.MaxConcurrent

	// Optional event stream for validation results.
	var redisClient *redis.Client
	if utils.EnvBool("REDIS_ENABLED", false) {
		redisClient, err = redis.NewClient(ctx, logger)
		if err != nil {
			logger.Warn("Failed to initialize Redis client - validation events will be disabled",
				zap.Error(err))
			redisClient = nil
		} else {
			logger.Info("Redis client initialized for validation events")
		}
	}
	if redisClient != nil {
		runner.Publisher = redisClient
	}

	app := &types.App{
		DB:          db,
		Staging:     stagingStore,
		Engine:      engine,
		Runner:      runner,
		RedisClient: redisClient,
		Logger:      logger,
		StartedAt:   time.Now(),
	}

	// Standalone scheduler for deployments without a workflow engine. The
	// expression is standard five-field cron; empty disables it.
	if expr := utils.Env("VALSVC_VALIDATE_CRON", ""); expr != "" {
		c := cron.New()
		_, cronErr := c.AddFunc(expr, func() {
			results, runErr := runner.RunAll(context.Background())
			if runErr != nil {
				logger.Error("Scheduled validation failed", zap.Error(runErr))
				return
			}
			logger.Info("Scheduled validation finished",
				zap.Int("tables", len(results)),
				zap.Bool("all_passed", expect.AllPassed(results)))
		})
		if cronErr != nil {
			logger.Fatal("Invalid VALSVC_VALIDATE_CRON expression",
				zap.String("expression", expr), zap.Error(cronErr))
		}
		app.Cron = c
		logger.Info("Standalone validation schedule enabled", zap.String("cron", expr))
	}

	return app
}
