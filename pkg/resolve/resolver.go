// Package resolve maps raw upstream and scraped records onto existing
// staging rows, canonicalizing committee names against the authoritative
// catalog on the way.
package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/congress-network/congressx/pkg/catalog"
	"github.com/congress-network/congressx/pkg/db/models"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"
)

// Lookup is the subset of the staging store the resolver needs. Absent
// rows are returned as nil with no error.
type Lookup interface {
	MemberByBioguide(ctx context.Context, bioguideID string) (*models.Member, error)
	CommitteeByCongressGovID(ctx context.Context, id string) (*models.Committee, error)
	CommitteeByCode(ctx context.Context, code string) (*models.Committee, error)
	CommitteeByNameChamber(ctx context.Context, name, chamber string) (*models.Committee, error)
	HearingByCongressGovID(ctx context.Context, id string) (*models.Hearing, error)
	HearingByTitleDate(ctx context.Context, title string, date time.Time) (*models.Hearing, error)
}

// Resolver resolves incoming records to existing rows. Thresholds default
// to the values the catalog matching was tuned with.
type Resolver struct {
	store  Lookup
	logger *zap.Logger

	// MatchThreshold is the token-sort ratio required for a full-name
	// catalog match; SimplifiedThreshold applies to the stripped-name
	// second pass.
	MatchThreshold      int
	SimplifiedThreshold int
}

func New(store Lookup, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:               store,
		logger:              logger,
		MatchThreshold:      80,
		SimplifiedThreshold: 70,
	}
}

// Member resolves by bioguide ID. Returns nil when the member is unknown
// and should be created.
func (r *Resolver) Member(ctx context.Context, bioguideID string) (*models.Member, error) {
	if bioguideID == "" {
		return nil, nil
	}
	return r.store.MemberByBioguide(ctx, bioguideID)
}

// Committee resolves in priority order: congress.gov ID, committee code,
// then canonicalized (name, chamber). Returns nil when no row matches.
func (r *Resolver) Committee(ctx context.Context, congressGovID, code, name, chamber string) (*models.Committee, error) {
	if congressGovID != "" {
		c, err := r.store.CommitteeByCongressGovID(ctx, congressGovID)
		if err != nil || c != nil {
			return c, err
		}
	}
	if code != "" {
		c, err := r.store.CommitteeByCode(ctx, code)
		if err != nil || c != nil {
			return c, err
		}
	}
	if name == "" {
		return nil, nil
	}

	chamber = ChamberName(chamber)
	canonical := r.CanonicalCommitteeName(name, chamber)
	return r.store.CommitteeByNameChamber(ctx, canonical, chamber)
}

// Hearing resolves by congress.gov ID, then by (title, scheduled date).
func (r *Resolver) Hearing(ctx context.Context, congressGovID, title string, scheduled *time.Time) (*models.Hearing, error) {
	if congressGovID != "" {
		h, err := r.store.HearingByCongressGovID(ctx, congressGovID)
		if err != nil || h != nil {
			return h, err
		}
	}
	if title == "" || scheduled == nil {
		return nil, nil
	}
	return r.store.HearingByTitleDate(ctx, title, *scheduled)
}

// CanonicalCommitteeName maps a committee name onto its authoritative
// catalog spelling when a sufficiently close match exists, otherwise it
// returns the input unchanged. Catalog spellings map to themselves, so
// the operation is idempotent.
func (r *Resolver) CanonicalCommitteeName(name, chamber string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	if catalog.Contains(name, chamber) {
		return name
	}

	candidates := catalog.Names(chamber)
	if len(candidates) == 0 {
		return name
	}

	bestName, bestScore := "", 0
	for _, cand := range candidates {
		if score := fuzzy.TokenSortRatio(name, cand); score > bestScore {
			bestName, bestScore = cand, score
		}
	}
	if bestScore >= r.MatchThreshold {
		r.logCanonicalized(name, bestName, bestScore)
		return bestName
	}

	// Second pass on stripped names catches inputs that drop the
	// "Committee on" boilerplate entirely.
	simplified := SimplifyCommitteeName(name)
	bestName, bestScore = "", 0
	for _, cand := range candidates {
		if score := fuzzy.Ratio(simplified, SimplifyCommitteeName(cand)); score > bestScore {
			bestName, bestScore = cand, score
		}
	}
	if bestScore >= r.SimplifiedThreshold {
		r.logCanonicalized(name, bestName, bestScore)
		return bestName
	}

	return name
}

func (r *Resolver) logCanonicalized(from, to string, score int) {
	if from == to || r.logger == nil {
		return
	}
	r.logger.Debug("Canonicalized committee name",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("score", score))
}
