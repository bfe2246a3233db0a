// Package activity implements the pipeline's Temporal activities: ingest,
// relationships, reconciliation, validation, promotion and housekeeping.
package activity

import (
	"time"

	"github.com/congress-network/congressx/pkg/config"
	"github.com/congress-network/congressx/pkg/congress"
	"github.com/congress-network/congressx/pkg/db/postgres"
	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/congress-network/congressx/pkg/db/staging"
	"github.com/congress-network/congressx/pkg/expect"
	"github.com/congress-network/congressx/pkg/reconcile"
	"github.com/congress-network/congressx/pkg/redis"
	"github.com/congress-network/congressx/pkg/relate"
	"github.com/congress-network/congressx/pkg/resolve"
	"github.com/congress-network/congressx/pkg/scrape"
	"github.com/congress-network/congressx/pkg/temporal"
	"go.uber.org/zap"
)

// Context carries the shared dependencies every activity needs. One
// instance is built at worker startup and registered with Temporal.
type Context struct {
	Logger *zap.Logger
	Config config.Config

	DB         *postgres.Client
	Staging    *staging.Store
	Production *production.Engine
	Resolver   *resolve.Resolver

	Congress *congress.Client
	House    *scrape.HouseScraper
	Senate   *scrape.SenateScraper

	Populator  *relate.Populator
	Runner     *expect.Runner
	Reconciler *reconcile.Reconciler

	// Events is nil when no event stream is configured.
	Events *redis.Client

	// Temporal is used by activities that start other workflows.
	Temporal *temporal.Client
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

func (c *Context) batchSize() int {
	if c.Config.BatchSize > 0 {
		return c.Config.BatchSize
	}
	return 100
}
