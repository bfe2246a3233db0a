package production

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// InitTables creates the bookkeeping tables that live alongside the
// versioned production tables.
func (e *Engine) InitTables(ctx context.Context) error {
	if err := e.DB.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{e.TargetSchema}.Sanitize())); err != nil {
		return fmt.Errorf("create schema %s: %w", e.TargetSchema, err)
	}

	inits := []func(context.Context) error{
		e.initValidationResults,
		e.initDataPromotions,
		e.initReconciliationDiscrepancies,
	}
	for _, init := range inits {
		if err := init(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) initValidationResults(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                 UUID PRIMARY KEY,
			table_name         TEXT NOT NULL,
			suite              TEXT NOT NULL,
			success            BOOLEAN NOT NULL,
			total_expectations INTEGER NOT NULL,
			passed             INTEGER NOT NULL,
			failed             INTEGER NOT NULL,
			detail             JSONB NOT NULL DEFAULT '{}',
			evaluated_at       TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_validation_results_table
			ON %s(table_name, evaluated_at DESC);
	`, e.table("validation_results"), e.table("validation_results"))

	return e.DB.Exec(ctx, query)
}

func (e *Engine) initDataPromotions(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id            UUID PRIMARY KEY,
			table_name    TEXT NOT NULL,
			source_schema TEXT NOT NULL,
			target_schema TEXT NOT NULL,
			version       TEXT NOT NULL,
			rows_promoted BIGINT NOT NULL DEFAULT 0,
			success       BOOLEAN NOT NULL,
			error         TEXT,
			promoted_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_data_promotions_table
			ON %s(table_name, promoted_at DESC);
	`, e.table("data_promotions"), e.table("data_promotions"))

	return e.DB.Exec(ctx, query)
}

func (e *Engine) initReconciliationDiscrepancies(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			kind        TEXT NOT NULL,
			committee   TEXT NOT NULL,
			chamber     TEXT NOT NULL,
			detail      TEXT NOT NULL,
			recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
	`, e.table("reconciliation_discrepancies"))

	return e.DB.Exec(ctx, query)
}
