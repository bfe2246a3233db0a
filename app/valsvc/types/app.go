package types

import (
	"context"
	"net/http"
	"time"

	"github.com/congress-network/congressx/pkg/db/postgres"
	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/congress-network/congressx/pkg/db/staging"
	"github.com/congress-network/congressx/pkg/expect"
	"github.com/congress-network/congressx/pkg/redis"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type App struct {
	DB      postgres.Client
	Staging *staging.Store
	Engine  *production.Engine
	Runner  *expect.Runner
	// RedisClient is nil when no event stream is configured.
	RedisClient *redis.Client
	// Cron drives standalone validation runs when no workflow engine is
	// deployed. Nil when disabled.
	Cron   *cron.Cron
	Logger *zap.Logger
	// StartedAt feeds the uptime field of /status.
	StartedAt time.Time
	// Server represents the HTTP server instance used to handle incoming client requests.
	Server *http.Server
}

// Start starts the application.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	if a.Cron != nil {
		a.Cron.Start()
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
	a.DB.Close()

	_ = a.Server.Shutdown(shutdownCtx)
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("Validation service stopped")
}
