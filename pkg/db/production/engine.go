// Package production promotes validated staging tables into versioned
// production tables and swaps the public views that readers query.
package production

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/db/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PromotableTables is the fixed set of tables the engine will promote.
var PromotableTables = []string{
	"members",
	"committees",
	"committee_memberships",
	"hearings",
	"witnesses",
	"hearing_documents",
	"congressional_sessions",
}

// Engine copies staging tables into versioned production tables. Readers
// only ever see a consistent version because the view swap is the last
// statement of the promotion transaction.
type Engine struct {
	DB             *postgres.Client
	Logger         *zap.Logger
	SourceSchema   string
	TargetSchema   string
	Version        string
	VersionsToKeep int
}

func NewEngine(db *postgres.Client, sourceSchema, targetSchema, version string, versionsToKeep int, logger *zap.Logger) *Engine {
	if sourceSchema == "" {
		sourceSchema = "staging"
	}
	if targetSchema == "" {
		targetSchema = "public"
	}
	if versionsToKeep <= 0 {
		versionsToKeep = 3
	}
	return &Engine{
		DB:             db,
		Logger:         logger,
		SourceSchema:   sourceSchema,
		TargetSchema:   targetSchema,
		Version:        version,
		VersionsToKeep: versionsToKeep,
	}
}

func (e *Engine) table(name string) string {
	return pgx.Identifier{e.TargetSchema, name}.Sanitize()
}

func (e *Engine) sourceTable(name string) string {
	return pgx.Identifier{e.SourceSchema, name}.Sanitize()
}

// VersionedName returns the physical table name for a logical table under
// the engine's version, e.g. members_v20250708.
func (e *Engine) VersionedName(table string) string {
	return fmt.Sprintf("%s_%s", table, e.Version)
}

func IsPromotable(table string) bool {
	for _, t := range PromotableTables {
		if t == table {
			return true
		}
	}
	return false
}

// Promote copies one staging table into its versioned production table and
// repoints the public view at it, all in a single transaction. On any
// failure the transaction rolls back and the previous view target keeps
// serving readers.
func (e *Engine) Promote(ctx context.Context, table string) (models.DataPromotion, error) {
	promotion := models.DataPromotion{
		ID:           uuid.NewString(),
		Table:        table,
		SourceSchema: e.SourceSchema,
		TargetSchema: e.TargetSchema,
		Version:      e.Version,
		PromotedAt:   time.Now().UTC(),
	}

	if !IsPromotable(table) {
		err := fmt.Errorf("table %q is not promotable", table)
		e.recordFailure(ctx, &promotion, err)
		return promotion, err
	}

	exists, err := e.DB.TableExists(ctx, e.SourceSchema, table)
	if err != nil {
		e.recordFailure(ctx, &promotion, err)
		return promotion, err
	}
	if !exists {
		err := fmt.Errorf("staging table %s.%s does not exist", e.SourceSchema, table)
		e.recordFailure(ctx, &promotion, err)
		return promotion, err
	}

	versioned := e.table(e.VersionedName(table))
	source := e.sourceTable(table)
	view := e.table(table)

	txErr := e.DB.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (LIKE %s INCLUDING ALL)", versioned, source)); err != nil {
			return fmt.Errorf("create versioned table: %w", err)
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", versioned)); err != nil {
			return fmt.Errorf("clear versioned table: %w", err)
		}
		tag, err := tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", versioned, source))
		if err != nil {
			return fmt.Errorf("copy rows: %w", err)
		}
		promotion.RowsPromoted = tag.RowsAffected()

		if _, err := tx.Exec(ctx, fmt.Sprintf(
			"CREATE OR REPLACE VIEW %s AS SELECT * FROM %s", view, versioned)); err != nil {
			return fmt.Errorf("swap view: %w", err)
		}
		return nil
	})
	if txErr != nil {
		e.recordFailure(ctx, &promotion, txErr)
		return promotion, fmt.Errorf("promote %s: %w", table, txErr)
	}

	promotion.Success = true
	if err := e.recordPromotion(ctx, promotion); err != nil {
		e.Logger.Warn("Promotion succeeded but bookkeeping write failed",
			zap.String("table", table), zap.Error(err))
	}

	e.Logger.Info("Table promoted",
		zap.String("table", table),
		zap.String("version", e.Version),
		zap.Int64("rows", promotion.RowsPromoted))
	return promotion, nil
}

// PromoteAll promotes every promotable table, continuing past per-table
// failures so one bad table does not block the rest.
func (e *Engine) PromoteAll(ctx context.Context) ([]models.DataPromotion, error) {
	var promotions []models.DataPromotion
	var firstErr error
	for _, table := range PromotableTables {
		p, err := e.Promote(ctx, table)
		promotions = append(promotions, p)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return promotions, firstErr
}

func (e *Engine) recordFailure(ctx context.Context, p *models.DataPromotion, cause error) {
	msg := cause.Error()
	p.Error = &msg
	if err := e.recordPromotion(ctx, *p); err != nil {
		e.Logger.Warn("Failed to record promotion failure",
			zap.String("table", p.Table), zap.Error(err))
	}
}

// versionedTables lists the physical versioned tables for one logical
// table, newest version first.
func (e *Engine) versionedTables(ctx context.Context, table string) ([]string, error) {
	rows, err := e.DB.Query(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_name LIKE $2 AND table_type = 'BASE TABLE'`,
		e.TargetSchema, table+"\\_v%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Version suffixes are date-stamped so lexical order is age order.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// viewTarget returns the versioned table the public view currently reads
// from, empty when the view does not exist.
func (e *Engine) viewTarget(ctx context.Context, table string) (string, error) {
	var definition string
	err := e.DB.QueryRow(ctx, `
		SELECT definition FROM pg_views
		WHERE schemaname = $1 AND viewname = $2`,
		e.TargetSchema, table).Scan(&definition)
	if err != nil {
		if postgres.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}

	prefix := table + "_v"
	for _, token := range strings.FieldsFunc(definition, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if strings.HasPrefix(token, prefix) {
			return token, nil
		}
	}
	return "", nil
}

// CleanupVersions drops versioned tables beyond the newest VersionsToKeep
// per logical table. The view's current target is never dropped regardless
// of age.
func (e *Engine) CleanupVersions(ctx context.Context) (int, error) {
	dropped := 0
	for _, table := range PromotableTables {
		names, err := e.versionedTables(ctx, table)
		if err != nil {
			return dropped, fmt.Errorf("list versions of %s: %w", table, err)
		}
		if len(names) <= e.VersionsToKeep {
			continue
		}

		target, err := e.viewTarget(ctx, table)
		if err != nil {
			return dropped, fmt.Errorf("resolve view target of %s: %w", table, err)
		}

		for _, name := range names[e.VersionsToKeep:] {
			if name == target {
				continue
			}
			if err := e.DB.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", e.table(name))); err != nil {
				return dropped, fmt.Errorf("drop %s: %w", name, err)
			}
			dropped++
			e.Logger.Info("Dropped stale version",
				zap.String("table", table), zap.String("versioned", name))
		}
	}
	return dropped, nil
}
