// Package relate fills in the relationships ingestion leaves open: member
// committee assignments, subcommittee parents and hearing-to-committee
// links.
package relate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/congress-network/congressx/pkg/congress"
	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/db/staging"
	"github.com/congress-network/congressx/pkg/resolve"
	"go.uber.org/zap"
)

// AssignmentSource fetches per-member assignments and per-committee
// rosters. Satisfied by *congress.Client.
type AssignmentSource interface {
	MemberAssignments(ctx context.Context, bioguideID string) ([]congress.AssignmentRecord, error)
	CommitteeMembers(ctx context.Context, chamber, systemCode string) ([]congress.CommitteeMemberRecord, error)
}

// Populator wires the three relationship passes over the staging schema.
type Populator struct {
	Store       *staging.Store
	Resolver    *resolve.Resolver
	Assignments AssignmentSource
	Logger      *zap.Logger

	// MaxConcurrent bounds parallel per-member assignment fetches.
	MaxConcurrent int
	// MinParentOverlap is the content-word overlap a hierarchy match needs.
	MinParentOverlap float64
}

func NewPopulator(store *staging.Store, resolver *resolve.Resolver, assignments AssignmentSource, logger *zap.Logger) *Populator {
	return &Populator{
		Store:            store,
		Resolver:         resolver,
		Assignments:      assignments,
		Logger:           logger,
		MaxConcurrent:    3,
		MinParentOverlap: 0.5,
	}
}

// Summary reports what one relationship pass changed.
type Summary struct {
	MembershipsWritten int `json:"memberships_written"`
	LeadersAssigned    int `json:"leaders_assigned"`
	ParentsLinked      int `json:"parents_linked"`
	HearingsAttached   int `json:"hearings_attached"`
	Unmatched          int `json:"unmatched"`
}

// PopulateMemberships fetches each current member's committee assignments
// and upserts the membership rows. Per-member failures are logged and
// counted, not fatal.
func (p *Populator) PopulateMemberships(ctx context.Context) (Summary, error) {
	var summary Summary

	members, err := p.Store.CurrentMembers(ctx, "")
	if err != nil {
		return summary, fmt.Errorf("list current members: %w", err)
	}

	workers := p.MaxConcurrent
	if workers <= 0 {
		workers = 1
	}
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	results := make(chan int, len(members))
	group := pool.NewGroup()
	for _, member := range members {
		m := member
		group.SubmitErr(func() error {
			written, err := p.populateMemberAssignments(ctx, m)
			if err != nil {
				p.Logger.Warn("Assignment fetch failed",
					zap.String("bioguide_id", m.BioguideID), zap.Error(err))
				return nil
			}
			results <- written
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return summary, err
	}
	close(results)
	for n := range results {
		summary.MembershipsWritten += n
	}

	p.Logger.Info("Memberships populated",
		zap.Int("members", len(members)),
		zap.Int("written", summary.MembershipsWritten))
	return summary, nil
}

func (p *Populator) populateMemberAssignments(ctx context.Context, m models.Member) (int, error) {
	assignments, err := p.Assignments.MemberAssignments(ctx, m.BioguideID)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, a := range assignments {
		chamber := a.Chamber
		if chamber == "" {
			chamber = m.Chamber
		}
		committee, err := p.Resolver.Committee(ctx, "", a.CommitteeSystemCode, a.CommitteeName, chamber)
		if err != nil {
			return written, err
		}
		if committee == nil {
			p.Logger.Debug("Assignment names unknown committee",
				zap.String("bioguide_id", m.BioguideID),
				zap.String("committee", a.CommitteeName))
			continue
		}

		mm := models.CommitteeMembership{
			MemberID:    m.ID,
			CommitteeID: committee.ID,
			Position:    normalizePosition(a.Position),
			IsCurrent:   true,
		}
		if err := p.Store.UpsertMembership(ctx, &mm); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func normalizePosition(position string) string {
	switch lower := strings.ToLower(strings.TrimSpace(position)); {
	case strings.Contains(lower, "chair") && !strings.Contains(lower, "vice"):
		return "Chair"
	case strings.Contains(lower, "ranking"):
		return "Ranking Member"
	case lower == "":
		return "Member"
	default:
		return strings.TrimSpace(position)
	}
}

// PopulateLeadership walks each committee's roster and records the chair
// and ranking member designations the per-member endpoint leaves out.
// Roster fetches stop at quota exhaustion; the pass is resumed by the
// next run.
func (p *Populator) PopulateLeadership(ctx context.Context) (Summary, error) {
	var summary Summary

	committees, err := p.Store.ActiveCommittees(ctx, "")
	if err != nil {
		return summary, fmt.Errorf("list committees: %w", err)
	}

	for _, c := range committees {
		if c.CongressGovID == nil || c.IsSubcommittee {
			continue
		}
		roster, err := p.Assignments.CommitteeMembers(ctx, c.Chamber, *c.CongressGovID)
		if err != nil {
			if errors.Is(err, congress.ErrQuotaExhausted) {
				p.Logger.Warn("Roster fetch hit daily quota, stopping leadership pass",
					zap.Int("assigned", summary.LeadersAssigned))
				break
			}
			p.Logger.Warn("Roster fetch failed",
				zap.String("committee", c.Name), zap.Error(err))
			continue
		}

		var chairID, rankingID *int64
		for _, r := range roster {
			position := normalizePosition(r.Title)
			if position != "Chair" && position != "Ranking Member" {
				continue
			}
			member, err := p.Store.MemberByBioguide(ctx, r.BioguideID)
			if err != nil {
				return summary, err
			}
			if member == nil {
				summary.Unmatched++
				p.Logger.Debug("Roster names unknown member",
					zap.String("bioguide_id", r.BioguideID),
					zap.String("committee", c.Name))
				continue
			}
			if err := p.Store.SetMembershipPosition(ctx, member.ID, c.ID, position); err != nil {
				return summary, err
			}
			if position == "Chair" {
				chairID = &member.ID
			} else {
				rankingID = &member.ID
			}
			summary.LeadersAssigned++
		}
		if chairID != nil || rankingID != nil {
			if err := p.Store.SetCommitteeLeadership(ctx, c.ID, chairID, rankingID); err != nil {
				return summary, err
			}
		}
	}

	p.Logger.Info("Leadership populated",
		zap.Int("assigned", summary.LeadersAssigned),
		zap.Int("unmatched", summary.Unmatched))
	return summary, nil
}

// PopulateHierarchy links subcommittees to their parent committees.
func (p *Populator) PopulateHierarchy(ctx context.Context) (Summary, error) {
	var summary Summary

	committees, err := p.Store.ActiveCommittees(ctx, "")
	if err != nil {
		return summary, fmt.Errorf("list committees: %w", err)
	}

	for _, c := range committees {
		if !IsSubcommitteeName(c.Name) || c.ParentCommitteeID != nil {
			continue
		}
		parent := FindParent(c, committees, p.MinParentOverlap)
		if parent == nil {
			summary.Unmatched++
			p.Logger.Debug("No parent found for subcommittee",
				zap.String("name", c.Name), zap.String("chamber", c.Chamber))
			continue
		}
		if err := p.Store.SetCommitteeParent(ctx, c.ID, parent.ID); err != nil {
			return summary, fmt.Errorf("link %q to %q: %w", c.Name, parent.Name, err)
		}
		summary.ParentsLinked++
	}

	p.Logger.Info("Hierarchy populated",
		zap.Int("linked", summary.ParentsLinked),
		zap.Int("unmatched", summary.Unmatched))
	return summary, nil
}

// AttachHearings links hearings without a committee reference to the
// committee their text names. Unmatched hearings stay unattached.
func (p *Populator) AttachHearings(ctx context.Context) (Summary, error) {
	var summary Summary

	hearings, err := p.Store.UnattachedHearings(ctx)
	if err != nil {
		return summary, fmt.Errorf("list unattached hearings: %w", err)
	}
	if len(hearings) == 0 {
		return summary, nil
	}

	committees, err := p.Store.ActiveCommittees(ctx, "")
	if err != nil {
		return summary, fmt.Errorf("list committees: %w", err)
	}

	for _, h := range hearings {
		committee := FindCommitteeForHearing(h, committees)
		if committee == nil {
			summary.Unmatched++
			continue
		}
		if err := p.Store.SetHearingCommittee(ctx, h.ID, committee.ID); err != nil {
			return summary, fmt.Errorf("attach hearing %d: %w", h.ID, err)
		}
		summary.HearingsAttached++
	}

	p.Logger.Info("Hearings attached",
		zap.Int("attached", summary.HearingsAttached),
		zap.Int("unmatched", summary.Unmatched))
	return summary, nil
}

// PopulateAll runs all four passes in order. Leadership runs after the
// membership pass so the rows it promotes already exist.
func (p *Populator) PopulateAll(ctx context.Context) (Summary, error) {
	var total Summary

	memberships, err := p.PopulateMemberships(ctx)
	if err != nil {
		return total, err
	}
	total.MembershipsWritten = memberships.MembershipsWritten

	leadership, err := p.PopulateLeadership(ctx)
	if err != nil {
		return total, err
	}
	total.LeadersAssigned = leadership.LeadersAssigned

	hierarchy, err := p.PopulateHierarchy(ctx)
	if err != nil {
		return total, err
	}
	total.ParentsLinked = hierarchy.ParentsLinked

	hearings, err := p.AttachHearings(ctx)
	if err != nil {
		return total, err
	}
	total.HearingsAttached = hearings.HearingsAttached
	total.Unmatched = leadership.Unmatched + hierarchy.Unmatched + hearings.Unmatched
	return total, nil
}
