package staging

import (
	"context"
	"fmt"
	"time"

	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/db/postgres"
)

const memberColumns = `
	id, bioguide_id, congress_gov_id, first_name, last_name, middle_name,
	suffix, nickname, party, chamber, state, district, term_start, term_end,
	is_current, official_website_url, contact_form_url, official_photo_url,
	congress_session, last_scraped_at, created_at, updated_at`

const committeeColumns = `
	id, congress_gov_id, committee_code, name, chamber, committee_type,
	is_subcommittee, parent_committee_id, chair_member_id, ranking_member_id,
	phone, email, office_location, website_url, hearings_url, members_url,
	is_active, congress_session, last_scraped_at, created_at, updated_at`

const hearingColumns = `
	id, congress_gov_id, title, description, committee_id, scheduled_date,
	location, room, hearing_type, status, video_url, webcast_url,
	transcript_url, scraped_video_urls, scraped_document_urls,
	last_scraped_at, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.ID, &m.BioguideID, &m.CongressGovID, &m.FirstName, &m.LastName, &m.MiddleName,
		&m.Suffix, &m.Nickname, &m.Party, &m.Chamber, &m.State, &m.District, &m.TermStart, &m.TermEnd,
		&m.IsCurrent, &m.OfficialWebsiteURL, &m.ContactFormURL, &m.OfficialPhotoURL,
		&m.CongressSession, &m.LastScrapedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func scanCommittee(row interface{ Scan(...any) error }) (*models.Committee, error) {
	var c models.Committee
	err := row.Scan(
		&c.ID, &c.CongressGovID, &c.CommitteeCode, &c.Name, &c.Chamber, &c.CommitteeType,
		&c.IsSubcommittee, &c.ParentCommitteeID, &c.ChairMemberID, &c.RankingMemberID,
		&c.Phone, &c.Email, &c.OfficeLocation, &c.WebsiteURL, &c.HearingsURL, &c.MembersURL,
		&c.IsActive, &c.CongressSession, &c.LastScrapedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func scanHearing(row interface{ Scan(...any) error }) (*models.Hearing, error) {
	var h models.Hearing
	err := row.Scan(
		&h.ID, &h.CongressGovID, &h.Title, &h.Description, &h.CommitteeID, &h.ScheduledDate,
		&h.Location, &h.Room, &h.HearingType, &h.Status, &h.VideoURL, &h.WebcastURL,
		&h.TranscriptURL, &h.ScrapedVideoURLs, &h.ScrapedDocumentURLs,
		&h.LastScrapedAt, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// MemberByBioguide returns the member with the given bioguide ID, nil if absent.
func (s *Store) MemberByBioguide(ctx context.Context, bioguideID string) (*models.Member, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE bioguide_id = $1", memberColumns, s.table("members"))
	return scanMember(ex.QueryRow(ctx, query, bioguideID))
}

func (s *Store) CommitteeByCongressGovID(ctx context.Context, id string) (*models.Committee, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE congress_gov_id = $1", committeeColumns, s.table("committees"))
	return scanCommittee(ex.QueryRow(ctx, query, id))
}

func (s *Store) CommitteeByCode(ctx context.Context, code string) (*models.Committee, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE committee_code = $1", committeeColumns, s.table("committees"))
	return scanCommittee(ex.QueryRow(ctx, query, code))
}

func (s *Store) CommitteeByNameChamber(ctx context.Context, name, chamber string) (*models.Committee, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = $1 AND chamber = $2", committeeColumns, s.table("committees"))
	return scanCommittee(ex.QueryRow(ctx, query, name, chamber))
}

func (s *Store) HearingByCongressGovID(ctx context.Context, id string) (*models.Hearing, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE congress_gov_id = $1", hearingColumns, s.table("hearings"))
	return scanHearing(ex.QueryRow(ctx, query, id))
}

func (s *Store) HearingByTitleDate(ctx context.Context, title string, date time.Time) (*models.Hearing, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE title = $1 AND scheduled_date::date = $2::date",
		hearingColumns, s.table("hearings"))
	return scanHearing(ex.QueryRow(ctx, query, title, date))
}

// ActiveCommittees lists active committees, optionally for one chamber.
func (s *Store) ActiveCommittees(ctx context.Context, chamber string) ([]models.Committee, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_active = TRUE", committeeColumns, s.table("committees"))
	args := []any{}
	if chamber != "" {
		query += " AND chamber = $1"
		args = append(args, chamber)
	}
	query += " ORDER BY chamber, name"

	rows, err := ex.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Committee
	for rows.Next() {
		c, scanErr := scanCommittee(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CurrentMembers lists current members, optionally for one chamber.
func (s *Store) CurrentMembers(ctx context.Context, chamber string) ([]models.Member, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_current = TRUE", memberColumns, s.table("members"))
	args := []any{}
	if chamber != "" {
		query += " AND chamber = $1"
		args = append(args, chamber)
	}
	query += " ORDER BY last_name, first_name"

	rows, err := ex.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Member
	for rows.Next() {
		m, scanErr := scanMember(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// UnattachedHearings lists hearings with no committee reference.
func (s *Store) UnattachedHearings(ctx context.Context) ([]models.Hearing, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE committee_id IS NULL", hearingColumns, s.table("hearings"))

	rows, err := ex.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Hearing
	for rows.Next() {
		h, scanErr := scanHearing(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// CurrentMembershipCount counts current memberships of one committee.
func (s *Store) CurrentMembershipCount(ctx context.Context, committeeID int64) (int, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE committee_id = $1 AND is_current = TRUE",
		s.table("committee_memberships"))
	var n int
	err := ex.QueryRow(ctx, query, committeeID).Scan(&n)
	return n, err
}

// CurrentCommitteeMembers lists current members of a committee with their
// membership position.
type CommitteeMemberRow struct {
	Member     models.Member
	Membership models.CommitteeMembership
}

func (s *Store) CurrentCommitteeMembers(ctx context.Context, committeeID int64) ([]CommitteeMemberRow, error) {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(`
		SELECT m.id, m.bioguide_id, m.first_name, m.last_name, m.party, m.chamber, m.state,
		       cm.id, cm.position, cm.is_current
		FROM %s cm
		JOIN %s m ON m.id = cm.member_id
		WHERE cm.committee_id = $1 AND cm.is_current = TRUE
		ORDER BY m.last_name`,
		s.table("committee_memberships"), s.table("members"))

	rows, err := ex.Query(ctx, query, committeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CommitteeMemberRow
	for rows.Next() {
		var r CommitteeMemberRow
		if err := rows.Scan(
			&r.Member.ID, &r.Member.BioguideID, &r.Member.FirstName, &r.Member.LastName,
			&r.Member.Party, &r.Member.Chamber, &r.Member.State,
			&r.Membership.ID, &r.Membership.Position, &r.Membership.IsCurrent,
		); err != nil {
			return nil, err
		}
		r.Membership.MemberID = r.Member.ID
		r.Membership.CommitteeID = committeeID
		out = append(out, r)
	}
	return out, rows.Err()
}

// TableCounts returns row counts for the staging tables.
func (s *Store) TableCounts(ctx context.Context) (map[string]int64, error) {
	ex := s.DB.GetExecutor(ctx)
	counts := map[string]int64{}
	for _, table := range []string{"members", "committees", "committee_memberships", "hearings", "witnesses", "hearing_documents", "congressional_sessions"} {
		var n int64
		if err := ex.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table(table))).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// LastUpdated returns MAX(updated_at) for a staging table, nil when empty.
func (s *Store) LastUpdated(ctx context.Context, table string) (*time.Time, error) {
	ex := s.DB.GetExecutor(ctx)
	var t *time.Time
	query := fmt.Sprintf("SELECT MAX(updated_at) FROM %s", s.table(table))
	if err := ex.QueryRow(ctx, query).Scan(&t); err != nil {
		return nil, err
	}
	return t, nil
}
