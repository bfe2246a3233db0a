package production

import (
	"context"
	"fmt"

	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/db/postgres"
)

func (e *Engine) recordPromotion(ctx context.Context, p models.DataPromotion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, table_name, source_schema, target_schema, version,
			rows_promoted, success, error, promoted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		e.table("data_promotions"))
	return e.DB.Exec(ctx, query,
		p.ID, p.Table, p.SourceSchema, p.TargetSchema, p.Version,
		p.RowsPromoted, p.Success, p.Error, p.PromotedAt)
}

// RecordValidationResult persists one suite run.
func (e *Engine) RecordValidationResult(ctx context.Context, r models.ValidationResult) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, table_name, suite, success, total_expectations,
			passed, failed, detail, evaluated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		e.table("validation_results"))
	return e.DB.Exec(ctx, query,
		r.ID, r.Table, r.Suite, r.Success, r.Total,
		r.Passed, r.Failed, r.Detail, r.EvaluatedAt)
}

// ValidationResults lists the most recent suite runs.
func (e *Engine) ValidationResults(ctx context.Context, limit int) ([]models.ValidationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT id, table_name, suite, success, total_expectations, passed,
			failed, detail, evaluated_at
		FROM %s ORDER BY evaluated_at DESC LIMIT $1`,
		e.table("validation_results"))

	rows, err := e.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ValidationResult
	for rows.Next() {
		var r models.ValidationResult
		if err := rows.Scan(&r.ID, &r.Table, &r.Suite, &r.Success, &r.Total,
			&r.Passed, &r.Failed, &r.Detail, &r.EvaluatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestValidation returns the newest suite run for a table, nil when none.
func (e *Engine) LatestValidation(ctx context.Context, table string) (*models.ValidationResult, error) {
	query := fmt.Sprintf(`
		SELECT id, table_name, suite, success, total_expectations, passed,
			failed, detail, evaluated_at
		FROM %s WHERE table_name = $1
		ORDER BY evaluated_at DESC LIMIT 1`,
		e.table("validation_results"))

	var r models.ValidationResult
	err := e.DB.QueryRow(ctx, query, table).Scan(&r.ID, &r.Table, &r.Suite,
		&r.Success, &r.Total, &r.Passed, &r.Failed, &r.Detail, &r.EvaluatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// Promotions lists the most recent promotion records.
func (e *Engine) Promotions(ctx context.Context, limit int) ([]models.DataPromotion, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT id, table_name, source_schema, target_schema, version,
			rows_promoted, success, error, promoted_at
		FROM %s ORDER BY promoted_at DESC LIMIT $1`,
		e.table("data_promotions"))

	rows, err := e.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DataPromotion
	for rows.Next() {
		var p models.DataPromotion
		if err := rows.Scan(&p.ID, &p.Table, &p.SourceSchema, &p.TargetSchema,
			&p.Version, &p.RowsPromoted, &p.Success, &p.Error, &p.PromotedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecordDiscrepancy persists a reconciliation condition that needs a human.
func (e *Engine) RecordDiscrepancy(ctx context.Context, d models.ReconciliationDiscrepancy) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (kind, committee, chamber, detail)
		VALUES ($1,$2,$3,$4)`,
		e.table("reconciliation_discrepancies"))
	return e.DB.Exec(ctx, query, d.Kind, d.Committee, d.Chamber, d.Detail)
}

// Discrepancies lists recorded reconciliation discrepancies, newest first.
func (e *Engine) Discrepancies(ctx context.Context, limit int) ([]models.ReconciliationDiscrepancy, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT id, kind, committee, chamber, detail, recorded_at
		FROM %s ORDER BY recorded_at DESC LIMIT $1`,
		e.table("reconciliation_discrepancies"))

	rows, err := e.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReconciliationDiscrepancy
	for rows.Next() {
		var d models.ReconciliationDiscrepancy
		if err := rows.Scan(&d.ID, &d.Kind, &d.Committee, &d.Chamber, &d.Detail, &d.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
