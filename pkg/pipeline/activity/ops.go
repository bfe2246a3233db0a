package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/congress-network/congressx/pkg/pipeline/types"
	"go.uber.org/zap"
)

// Tables with a suite are validated; these match the promotable set where
// a suite exists.
var validatedTables = []string{"members", "committees", "hearings"}

// PopulateRelationships runs the membership, hierarchy and hearing
// attachment passes.
func (c *Context) PopulateRelationships(ctx context.Context, _ types.IngestInput) (types.RelateOutput, error) {
	start := time.Now()

	summary, err := c.Populator.PopulateAll(ctx)
	if err != nil {
		return types.RelateOutput{}, err
	}

	return types.RelateOutput{
		Memberships:      summary.MembershipsWritten,
		ParentsLinked:    summary.ParentsLinked,
		HearingsAttached: summary.HearingsAttached,
		Unmatched:        summary.Unmatched,
		DurationMs:       durationMs(start),
	}, nil
}

// Reconcile runs the catalog repair passes over staging.
func (c *Context) Reconcile(ctx context.Context, _ types.IngestInput) (types.ReconcileOutput, error) {
	start := time.Now()

	if c.Reconciler == nil {
		c.Logger.Warn("No reconciler wired, skipping reconciliation")
		return types.ReconcileOutput{DurationMs: durationMs(start)}, nil
	}

	report, err := c.Reconciler.Run(ctx)
	if err != nil {
		return types.ReconcileOutput{}, err
	}

	return types.ReconcileOutput{
		Renamed:            report.Renamed,
		Added:              report.Added,
		LeadershipRepaired: report.LeadershipRepaired,
		Deactivated:        report.Deactivated,
		Discrepancies:      len(report.Discrepancies),
		DurationMs:         durationMs(start),
	}, nil
}

// ValidateTable runs the expectation suite for one staging table. A
// failing suite is a successful activity; the caller inspects Success.
func (c *Context) ValidateTable(ctx context.Context, in types.ValidateInput) (types.ValidateOutput, error) {
	start := time.Now()

	result, err := c.Runner.RunTable(ctx, in.Table)
	if err != nil {
		return types.ValidateOutput{}, err
	}

	return types.ValidateOutput{
		Table:      result.Table,
		Suite:      result.Suite,
		ResultID:   result.ID,
		Success:    result.Success,
		Passed:     result.Passed,
		Failed:     result.Failed,
		DurationMs: durationMs(start),
	}, nil
}

// ValidateAll runs every suite. RunID identifies this validation run for
// downstream promotion dedup.
func (c *Context) ValidateAll(ctx context.Context, _ types.IngestInput) (types.ValidateAllOutput, error) {
	start := time.Now()
	out := types.ValidateAllOutput{AllPassed: true}

	results, err := c.Runner.RunAll(ctx)
	if err != nil {
		return out, err
	}

	tables := make([]string, 0, len(results))
	for table := range results {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		r := results[table]
		out.Results = append(out.Results, types.ValidateOutput{
			Table:    r.Table,
			Suite:    r.Suite,
			ResultID: r.ID,
			Success:  r.Success,
			Passed:   r.Passed,
			Failed:   r.Failed,
		})
		if !r.Success {
			out.AllPassed = false
		}
		if out.RunID == "" {
			out.RunID = r.ID
		}
	}

	out.DurationMs = durationMs(start)
	return out, nil
}

// PromoteTable promotes one validated table into production.
func (c *Context) PromoteTable(ctx context.Context, in types.PromoteInput) (types.PromoteOutput, error) {
	start := time.Now()

	promotion, err := c.Production.Promote(ctx, in.Table)
	if c.Events != nil {
		c.Events.PublishPromotion(ctx, promotion)
	}
	if err != nil {
		return types.PromoteOutput{}, err
	}

	return types.PromoteOutput{
		Table:      promotion.Table,
		Version:    promotion.Version,
		Rows:       promotion.RowsPromoted,
		DurationMs: durationMs(start),
	}, nil
}

// PromoteAll promotes every promotable table.
func (c *Context) PromoteAll(ctx context.Context, _ types.IngestInput) (types.PromoteAllOutput, error) {
	start := time.Now()
	out := types.PromoteAllOutput{}

	promotions, err := c.Production.PromoteAll(ctx)
	for _, p := range promotions {
		if c.Events != nil {
			c.Events.PublishPromotion(ctx, p)
		}
		if p.Success {
			out.Promotions = append(out.Promotions, types.PromoteOutput{
				Table:   p.Table,
				Version: p.Version,
				Rows:    p.RowsPromoted,
			})
		}
	}
	out.DurationMs = durationMs(start)
	return out, err
}

// freshnessWindow is how recently staging must have been written for the
// pipeline to be considered healthy.
const freshnessWindow = time.Hour

// CheckFreshness reports whether any staging table was written within the
// freshness window.
func (c *Context) CheckFreshness(ctx context.Context, _ types.IngestInput) (types.FreshnessOutput, error) {
	start := time.Now()
	out := types.FreshnessOutput{}

	for _, table := range validatedTables {
		updated, err := c.Staging.LastUpdated(ctx, table)
		if err != nil {
			return out, fmt.Errorf("freshness of %s: %w", table, err)
		}
		if updated == nil {
			continue
		}
		if out.LastUpdated == nil || updated.After(*out.LastUpdated) {
			out.LastUpdated = updated
		}
	}

	if out.LastUpdated != nil {
		age := time.Since(*out.LastUpdated)
		out.AgeSeconds = age.Seconds()
		out.Fresh = age <= freshnessWindow
	}
	if !out.Fresh {
		c.Logger.Warn("Staging data is stale",
			zap.Timep("last_updated", out.LastUpdated),
			zap.Float64("age_seconds", out.AgeSeconds))
	}

	out.DurationMs = durationMs(start)
	return out, nil
}

// CleanupVersions drops stale versioned production tables.
func (c *Context) CleanupVersions(ctx context.Context, _ types.IngestInput) (types.CleanupOutput, error) {
	start := time.Now()

	dropped, err := c.Production.CleanupVersions(ctx)
	if err != nil {
		return types.CleanupOutput{}, err
	}

	return types.CleanupOutput{
		Dropped:    dropped,
		DurationMs: durationMs(start),
	}, nil
}
