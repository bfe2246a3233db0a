// Package reconcile repairs the staging committee data against the
// authoritative catalog: misspelled names, missing committees, leadership
// on the wrong side of the aisle and committees that no longer exist. An
// optional encyclopedic snapshot supplies named leadership on top.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/congress-network/congressx/pkg/catalog"
	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/congress-network/congressx/pkg/db/staging"
	"github.com/congress-network/congressx/pkg/resolve"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"
)

// Reconciler runs the four repair passes in one transaction. When any pass
// fails the whole run rolls back and the data is untouched. The catalog is
// the ground truth for which committees exist; Data, when loaded, names
// who chairs them.
type Reconciler struct {
	Store    *staging.Store
	Engine   *production.Engine
	Resolver *resolve.Resolver
	Logger   *zap.Logger
	Data     WikipediaData

	// RenameThreshold is the token-sort score at which an existing
	// committee is treated as a misspelling of a catalog name.
	RenameThreshold int
}

func NewReconciler(store *staging.Store, engine *production.Engine, resolver *resolve.Resolver, data WikipediaData, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		Store:           store,
		Engine:          engine,
		Resolver:        resolver,
		Logger:          logger,
		Data:            data,
		RenameThreshold: 80,
	}
}

// Report summarizes one reconciliation run. Manifest holds the pre-run row
// counts so an operator can judge the blast radius of a rollback.
type Report struct {
	Manifest           map[string]int64                   `json:"manifest"`
	Renamed            int                                `json:"renamed"`
	Added              int                                `json:"added"`
	LeadershipRepaired int                                `json:"leadership_repaired"`
	Deactivated        int                                `json:"deactivated"`
	Discrepancies      []models.ReconciliationDiscrepancy `json:"discrepancies,omitempty"`
}

// Run executes the repair passes. Discrepancy records are persisted after
// the transaction commits so a rollback never leaves phantom reports.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	report := Report{}

	manifest, err := r.Store.TableCounts(ctx)
	if err != nil {
		return report, fmt.Errorf("snapshot row counts: %w", err)
	}
	report.Manifest = manifest
	r.Logger.Info("Reconciliation starting",
		zap.Int64("committees", manifest["committees"]),
		zap.Int64("members", manifest["members"]))

	txErr := r.Store.WithTx(ctx, func(ctx context.Context) error {
		if err := r.renameMisspelled(ctx, &report); err != nil {
			return fmt.Errorf("rename pass: %w", err)
		}
		if err := r.addMissing(ctx, &report); err != nil {
			return fmt.Errorf("add pass: %w", err)
		}
		if err := r.repairLeadership(ctx, &report); err != nil {
			return fmt.Errorf("leadership pass: %w", err)
		}
		if err := r.deactivateUnknown(ctx, &report); err != nil {
			return fmt.Errorf("deactivate pass: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return report, txErr
	}

	for _, d := range report.Discrepancies {
		if err := r.Engine.RecordDiscrepancy(ctx, d); err != nil {
			r.Logger.Warn("Failed to persist discrepancy",
				zap.String("kind", d.Kind), zap.Error(err))
		}
	}

	r.Logger.Info("Reconciliation complete",
		zap.Int("renamed", report.Renamed),
		zap.Int("added", report.Added),
		zap.Int("leadership_repaired", report.LeadershipRepaired),
		zap.Int("deactivated", report.Deactivated),
		zap.Int("discrepancies", len(report.Discrepancies)))
	return report, nil
}

func (r *Reconciler) discrepancy(report *Report, kind, committee, chamber, detail string) {
	report.Discrepancies = append(report.Discrepancies, models.ReconciliationDiscrepancy{
		Kind:      kind,
		Committee: committee,
		Chamber:   chamber,
		Detail:    detail,
	})
	r.Logger.Warn("Reconciliation discrepancy",
		zap.String("kind", kind),
		zap.String("committee", committee),
		zap.String("detail", detail))
}

// renameMisspelled snaps close-but-wrong committee names onto the
// catalog spelling.
func (r *Reconciler) renameMisspelled(ctx context.Context, report *Report) error {
	for _, ref := range catalog.Committees("") {
		existing, err := r.Store.CommitteeByNameChamber(ctx, ref.Name, ref.Chamber)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		committees, err := r.Store.ActiveCommittees(ctx, ref.Chamber)
		if err != nil {
			return err
		}
		for _, c := range committees {
			if c.Name == ref.Name {
				continue
			}
			if fuzzy.TokenSortRatio(c.Name, ref.Name) >= r.RenameThreshold {
				if err := r.Store.RenameCommittee(ctx, c.ID, ref.Name); err != nil {
					return err
				}
				report.Renamed++
				r.Logger.Info("Committee renamed",
					zap.String("from", c.Name), zap.String("to", ref.Name))
				break
			}
		}
	}
	return nil
}

// addMissing creates catalog committees absent from the data as active
// standing committees.
func (r *Reconciler) addMissing(ctx context.Context, report *Report) error {
	for _, ref := range catalog.Committees("") {
		existing, err := r.Store.CommitteeByNameChamber(ctx, ref.Name, ref.Chamber)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		c := models.Committee{
			Name:          ref.Name,
			Chamber:       ref.Chamber,
			CommitteeType: "Standing",
			IsActive:      true,
		}
		created, err := r.Store.UpsertCommittee(ctx, &c)
		if err != nil {
			return err
		}
		if created {
			report.Added++
			r.Logger.Info("Committee added from catalog",
				zap.String("name", ref.Name), zap.String("chamber", ref.Chamber))
		}
	}
	return nil
}

// referenceCommittee finds the encyclopedic snapshot entry for a catalog
// committee, tolerating spelling drift between the two sources.
func (r *Reconciler) referenceCommittee(name, chamber string) *WikipediaCommittee {
	candidates := r.Data.ByChamber(chamber)
	for i := range candidates {
		if strings.EqualFold(candidates[i].Name, name) {
			return &candidates[i]
		}
	}
	for i := range candidates {
		if fuzzy.TokenSortRatio(candidates[i].Name, name) >= r.RenameThreshold {
			return &candidates[i]
		}
	}
	return nil
}

// repairLeadership assigns the chair and ranking member each catalog
// committee should have. A leader named by the encyclopedic snapshot wins
// when that member sits on the committee; otherwise the party rule holds:
// the chair belongs to the chamber's majority party and the ranking member
// to the minority, replaced from the rank and file when violated.
func (r *Reconciler) repairLeadership(ctx context.Context, report *Report) error {
	for _, ref := range catalog.Committees("") {
		committee, err := r.Store.CommitteeByNameChamber(ctx, ref.Name, ref.Chamber)
		if err != nil {
			return err
		}
		if committee == nil {
			continue
		}

		rows, err := r.Store.CurrentCommitteeMembers(ctx, committee.ID)
		if err != nil {
			return err
		}

		var chairName, rankingName string
		if wiki := r.referenceCommittee(ref.Name, ref.Chamber); wiki != nil {
			chairName = wiki.Chair
			rankingName = wiki.RankingMember
		}

		if err := r.repairPosition(ctx, report, committee, rows, "Chair", catalog.MajorityParty(ref.Chamber), chairName); err != nil {
			return err
		}
		if err := r.repairPosition(ctx, report, committee, rows, "Ranking Member", catalog.MinorityParty(ref.Chamber), rankingName); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) repairPosition(ctx context.Context, report *Report, committee *models.Committee, rows []staging.CommitteeMemberRow, position, wantParty, refLeader string) error {
	var current *staging.CommitteeMemberRow
	for i := range rows {
		if rows[i].Membership.Position == position {
			current = &rows[i]
			break
		}
	}

	if refLeader != "" {
		leader := ParseLeader(refLeader)
		named := findMemberRow(rows, leader.Name, r.RenameThreshold)
		if named != nil && (wantParty == "" || partyMatches(named.Member.Party, wantParty)) {
			if current != nil && current.Member.ID == named.Member.ID {
				return nil
			}
			if err := r.assignPosition(ctx, committee, current, named, position); err != nil {
				return err
			}
			report.LeadershipRepaired++
			r.Logger.Info("Leadership assigned from reference snapshot",
				zap.String("committee", committee.Name),
				zap.String("position", position),
				zap.String("to", named.Member.LastName))
			return nil
		}
	}

	if wantParty == "" {
		return nil
	}
	if current == nil || partyMatches(current.Member.Party, wantParty) {
		return nil
	}

	var replacement *staging.CommitteeMemberRow
	for i := range rows {
		if rows[i].Membership.Position == "Member" && partyMatches(rows[i].Member.Party, wantParty) {
			replacement = &rows[i]
			break
		}
	}
	if replacement == nil {
		r.discrepancy(report, "leadership_party", committee.Name, committee.Chamber,
			fmt.Sprintf("%s %s %s is %s, expected %s, no eligible replacement",
				position, current.Member.FirstName, current.Member.LastName,
				current.Member.Party, wantParty))
		return nil
	}

	if err := r.assignPosition(ctx, committee, current, replacement, position); err != nil {
		return err
	}
	report.LeadershipRepaired++
	r.Logger.Info("Leadership repaired",
		zap.String("committee", committee.Name),
		zap.String("position", position),
		zap.String("from", current.Member.LastName),
		zap.String("to", replacement.Member.LastName))
	return nil
}

// assignPosition demotes the current holder, promotes next into position
// and updates the committee's leadership references.
func (r *Reconciler) assignPosition(ctx context.Context, committee *models.Committee, current, next *staging.CommitteeMemberRow, position string) error {
	if current != nil {
		if err := r.Store.SetMembershipPosition(ctx, current.Member.ID, committee.ID, "Member"); err != nil {
			return err
		}
	}
	if err := r.Store.SetMembershipPosition(ctx, next.Member.ID, committee.ID, position); err != nil {
		return err
	}

	chairID, rankingID := committee.ChairMemberID, committee.RankingMemberID
	if position == "Chair" {
		chairID = &next.Member.ID
	} else {
		rankingID = &next.Member.ID
	}
	if err := r.Store.SetCommitteeLeadership(ctx, committee.ID, chairID, rankingID); err != nil {
		return err
	}
	if position == "Chair" {
		committee.ChairMemberID = chairID
	} else {
		committee.RankingMemberID = rankingID
	}
	return nil
}

// findMemberRow matches a leader's name against the committee roster.
// Exact case-folded matches win; fuzzy matching absorbs middle names and
// nicknames the snapshot includes.
func findMemberRow(rows []staging.CommitteeMemberRow, name string, threshold int) *staging.CommitteeMemberRow {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	var best *staging.CommitteeMemberRow
	bestScore := 0
	for i := range rows {
		full := strings.TrimSpace(rows[i].Member.FirstName + " " + rows[i].Member.LastName)
		if strings.EqualFold(full, name) {
			return &rows[i]
		}
		if score := fuzzy.TokenSortRatio(full, name); score > bestScore {
			bestScore = score
			best = &rows[i]
		}
	}
	if bestScore >= threshold {
		return best
	}
	return nil
}

func partyMatches(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// deactivateUnknown retires full committees the catalog does not list.
// Committees that still carry members are flagged instead of silently
// retired.
func (r *Reconciler) deactivateUnknown(ctx context.Context, report *Report) error {
	committees, err := r.Store.ActiveCommittees(ctx, "")
	if err != nil {
		return err
	}
	for _, c := range committees {
		if c.IsSubcommittee || c.Chamber == catalog.ChamberJoint {
			continue
		}
		if catalog.Contains(c.Name, c.Chamber) {
			continue
		}

		n, err := r.Store.CurrentMembershipCount(ctx, c.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			r.discrepancy(report, "unknown_committee", c.Name, c.Chamber,
				fmt.Sprintf("not in catalog but has %d current members", n))
			continue
		}
		if err := r.Store.DeactivateCommittee(ctx, c.ID); err != nil {
			return err
		}
		report.Deactivated++
		r.Logger.Info("Committee deactivated", zap.String("name", c.Name))
	}
	return nil
}
