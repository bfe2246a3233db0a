// Package staging writes resolved congressional records into the staging
// schema. All promotion to production happens in pkg/db/production; this
// package never touches the versioned tables.
package staging

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/congress-network/congressx/pkg/db/postgres"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Field bounds enforced before insert. Longer values are truncated with a
// warning rather than failing the row.
const (
	maxTitleLen       = 500
	maxDescriptionLen = 1000
	maxLocationLen    = 255
)

// Store is the staging-schema writer and lookup surface.
type Store struct {
	DB              *postgres.Client
	Schema          string
	Logger          *zap.Logger
	CongressSession int
}

func New(db *postgres.Client, schema string, congressSession int, logger *zap.Logger) *Store {
	if schema == "" {
		schema = "staging"
	}
	return &Store{
		DB:              db,
		Schema:          schema,
		Logger:          logger,
		CongressSession: congressSession,
	}
}

// InitSchema creates the staging schema and all tables.
func (s *Store) InitSchema(ctx context.Context) error {
	if err := s.DB.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{s.Schema}.Sanitize())); err != nil {
		return fmt.Errorf("create schema %s: %w", s.Schema, err)
	}

	inits := []func(context.Context) error{
		s.initMembers,
		s.initCommittees,
		s.initCommitteeMemberships,
		s.initHearings,
		s.initWitnesses,
		s.initHearingDocuments,
		s.initCongressionalSessions,
	}
	for _, init := range inits {
		if err := init(ctx); err != nil {
			return err
		}
	}
	return nil
}

// WithTx runs fn in one transaction; every store call made through the
// returned context joins it. When the context already carries a
// transaction fn joins that one instead of opening a second.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.DB.InTx(ctx) {
		return fn(ctx)
	}
	return s.DB.BeginFunc(ctx, func(tx pgx.Tx) error {
		return fn(s.DB.WithTx(ctx, tx))
	})
}

// table qualifies a table name with the staging schema.
func (s *Store) table(name string) string {
	return pgx.Identifier{s.Schema, name}.Sanitize()
}

// truncate bounds a value, logging when data is lost. The cut backs up to
// a rune boundary so a multi-byte character is dropped whole rather than
// split into invalid UTF-8.
func (s *Store) truncate(field, value string, max int) string {
	if len(value) <= max {
		return value
	}
	s.Logger.Warn("Truncating oversized field",
		zap.String("field", field),
		zap.Int("len", len(value)),
		zap.Int("max", max))
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}

func truncatePtr(s *Store, field string, value *string, max int) *string {
	if value == nil {
		return nil
	}
	v := s.truncate(field, *value, max)
	return &v
}

// BatchSummary reports the outcome of a batched write.
type BatchSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

func (b BatchSummary) Total() int { return b.Created + b.Updated + b.Failed }
