package expect

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/db/postgres"
	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Publisher is notified after each persisted suite run. Wired to the event
// stream when one is configured; nil otherwise.
type Publisher interface {
	PublishValidation(ctx context.Context, result models.ValidationResult) error
}

// Runner evaluates suites against staging tables and persists the results.
type Runner struct {
	DB        *postgres.Client
	Engine    *production.Engine
	Logger    *zap.Logger
	Schema    string
	Suites    map[string]Suite
	Publisher Publisher

	// MaxConcurrent bounds parallel table runs in RunAll.
	MaxConcurrent int
}

func NewRunner(db *postgres.Client, engine *production.Engine, schema string, suites map[string]Suite, logger *zap.Logger) *Runner {
	if schema == "" {
		schema = "staging"
	}
	if suites == nil {
		suites = BuiltinSuites()
	}
	return &Runner{
		DB:            db,
		Engine:        engine,
		Logger:        logger,
		Schema:        schema,
		Suites:        suites,
		MaxConcurrent: 3,
	}
}

// fetchTable pulls a full table snapshot into memory. Staging tables are
// bounded by the row-count expectations, so this stays small.
func (r *Runner) fetchTable(ctx context.Context, table string) (TableData, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{r.Schema, table}.Sanitize())
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return TableData{}, fmt.Errorf("fetch %s: %w", table, err)
	}
	defer rows.Close()

	var data TableData
	for _, fd := range rows.FieldDescriptions() {
		data.Columns = append(data.Columns, string(fd.Name))
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return TableData{}, err
		}
		row := make(map[string]any, len(data.Columns))
		for i, col := range data.Columns {
			row[col] = values[i]
		}
		data.Rows = append(data.Rows, row)
	}
	return data, rows.Err()
}

// EvaluateSuite runs a suite over an already-fetched snapshot.
func EvaluateSuite(suite Suite, data TableData) []Result {
	results := make([]Result, 0, len(suite.Expectations))
	for _, e := range suite.Expectations {
		results = append(results, e.Evaluate(data))
	}
	return results
}

// RunTable evaluates the suite for one table, persists the outcome and
// returns it. An unknown table is an error; a failing suite is not.
func (r *Runner) RunTable(ctx context.Context, table string) (models.ValidationResult, error) {
	suite, ok := r.Suites[table]
	if !ok {
		return models.ValidationResult{}, fmt.Errorf("no suite for table %q", table)
	}

	start := time.Now()
	data, err := r.fetchTable(ctx, table)
	if err != nil {
		return models.ValidationResult{}, err
	}

	results := EvaluateSuite(suite, data)
	result := models.ValidationResult{
		ID:          uuid.NewString(),
		Table:       table,
		Suite:       suite.Name,
		Success:     true,
		Total:       len(results),
		EvaluatedAt: time.Now().UTC(),
	}
	for _, res := range results {
		if res.Success {
			result.Passed++
		} else {
			result.Failed++
			result.Success = false
		}
	}

	detail, err := json.Marshal(results)
	if err != nil {
		return result, fmt.Errorf("encode results: %w", err)
	}
	result.Detail = string(detail)

	if err := r.Engine.RecordValidationResult(ctx, result); err != nil {
		return result, fmt.Errorf("persist result: %w", err)
	}
	if r.Publisher != nil {
		if err := r.Publisher.PublishValidation(ctx, result); err != nil {
			r.Logger.Warn("Validation event publish failed", zap.Error(err))
		}
	}

	level := zapcore.InfoLevel
	if !result.Success {
		level = zapcore.WarnLevel
	}
	r.Logger.Log(level, "Suite evaluated",
		zap.String("table", table),
		zap.String("suite", suite.Name),
		zap.Bool("success", result.Success),
		zap.Int("passed", result.Passed),
		zap.Int("failed", result.Failed),
		zap.Int("rows", len(data.Rows)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return result, nil
}

// RunAll evaluates every configured suite in parallel. The returned map is
// keyed by table. The error reflects runner failures only, never failing
// expectations.
func (r *Runner) RunAll(ctx context.Context) (map[string]models.ValidationResult, error) {
	tables := make([]string, 0, len(r.Suites))
	for table := range r.Suites {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	workers := r.MaxConcurrent
	if workers <= 0 {
		workers = 1
	}
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	type outcome struct {
		table  string
		result models.ValidationResult
	}
	outcomes := make(chan outcome, len(tables))

	group := pool.NewGroup()
	for _, table := range tables {
		tbl := table
		group.SubmitErr(func() error {
			result, err := r.RunTable(ctx, tbl)
			if err != nil {
				return fmt.Errorf("suite for %s: %w", tbl, err)
			}
			outcomes <- outcome{table: tbl, result: result}
			return nil
		})
	}
	err := group.Wait()
	close(outcomes)

	results := make(map[string]models.ValidationResult, len(tables))
	for o := range outcomes {
		results[o.table] = o.result
	}
	return results, err
}

// AllPassed reports whether every result in a RunAll outcome succeeded.
func AllPassed(results map[string]models.ValidationResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.Success {
			return false
		}
	}
	return true
}
