package staging

import (
	"context"
	"fmt"
	"time"

	"github.com/congress-network/congressx/pkg/db/models"
	"go.uber.org/zap"
)

// UpsertMember inserts or updates a member keyed by bioguide_id. Returns
// true when a new row was created.
func (s *Store) UpsertMember(ctx context.Context, m *models.Member) (bool, error) {
	ex := s.DB.GetExecutor(ctx)
	now := time.Now().UTC()
	if m.CongressSession == 0 {
		m.CongressSession = s.CongressSession
	}
	m.LastScrapedAt = &now

	existing, err := s.MemberByBioguide(ctx, m.BioguideID)
	if err != nil {
		return false, fmt.Errorf("lookup member %s: %w", m.BioguideID, err)
	}

	if existing == nil {
		query := fmt.Sprintf(`
			INSERT INTO %s (
				bioguide_id, congress_gov_id, first_name, last_name, middle_name,
				suffix, nickname, party, chamber, state, district, term_start, term_end,
				is_current, official_website_url, contact_form_url, official_photo_url,
				congress_session, last_scraped_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
			RETURNING id`, s.table("members"))
		err = ex.QueryRow(ctx, query,
			m.BioguideID, m.CongressGovID, m.FirstName, m.LastName, m.MiddleName,
			m.Suffix, m.Nickname, m.Party, m.Chamber, m.State, m.District, m.TermStart, m.TermEnd,
			m.IsCurrent, m.OfficialWebsiteURL, m.ContactFormURL, m.OfficialPhotoURL,
			m.CongressSession, m.LastScrapedAt,
		).Scan(&m.ID)
		if err != nil {
			return false, fmt.Errorf("insert member %s: %w", m.BioguideID, err)
		}
		return true, nil
	}

	m.ID = existing.ID
	query := fmt.Sprintf(`
		UPDATE %s SET
			congress_gov_id = $2, first_name = $3, last_name = $4, middle_name = $5,
			suffix = $6, nickname = $7, party = $8, chamber = $9, state = $10,
			district = $11, term_start = $12, term_end = $13, is_current = $14,
			official_website_url = $15, contact_form_url = $16, official_photo_url = $17,
			congress_session = $18, last_scraped_at = $19, updated_at = NOW()
		WHERE id = $1`, s.table("members"))
	_, err = ex.Exec(ctx, query,
		m.ID, m.CongressGovID, m.FirstName, m.LastName, m.MiddleName,
		m.Suffix, m.Nickname, m.Party, m.Chamber, m.State,
		m.District, m.TermStart, m.TermEnd, m.IsCurrent,
		m.OfficialWebsiteURL, m.ContactFormURL, m.OfficialPhotoURL,
		m.CongressSession, m.LastScrapedAt)
	if err != nil {
		return false, fmt.Errorf("update member %s: %w", m.BioguideID, err)
	}
	return false, nil
}

// UpsertCommittee inserts or updates a committee keyed by (name, chamber).
// Callers resolve the name first so spelling variants collapse onto one row.
func (s *Store) UpsertCommittee(ctx context.Context, c *models.Committee) (bool, error) {
	ex := s.DB.GetExecutor(ctx)
	now := time.Now().UTC()
	if c.CongressSession == 0 {
		c.CongressSession = s.CongressSession
	}
	if c.CommitteeType == "" {
		c.CommitteeType = "Standing"
	}
	c.LastScrapedAt = &now

	existing, err := s.CommitteeByNameChamber(ctx, c.Name, c.Chamber)
	if err != nil {
		return false, fmt.Errorf("lookup committee %q: %w", c.Name, err)
	}

	if existing == nil {
		query := fmt.Sprintf(`
			INSERT INTO %s (
				congress_gov_id, committee_code, name, chamber, committee_type,
				is_subcommittee, parent_committee_id, chair_member_id, ranking_member_id,
				phone, email, office_location, website_url, hearings_url, members_url,
				is_active, congress_session, last_scraped_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
			RETURNING id`, s.table("committees"))
		err = ex.QueryRow(ctx, query,
			c.CongressGovID, c.CommitteeCode, c.Name, c.Chamber, c.CommitteeType,
			c.IsSubcommittee, c.ParentCommitteeID, c.ChairMemberID, c.RankingMemberID,
			c.Phone, c.Email, c.OfficeLocation, c.WebsiteURL, c.HearingsURL, c.MembersURL,
			c.IsActive, c.CongressSession, c.LastScrapedAt,
		).Scan(&c.ID)
		if err != nil {
			return false, fmt.Errorf("insert committee %q: %w", c.Name, err)
		}
		return true, nil
	}

	c.ID = existing.ID
	// Identifiers only accumulate: never blank one the API stopped sending.
	if c.CongressGovID == nil {
		c.CongressGovID = existing.CongressGovID
	}
	if c.CommitteeCode == nil {
		c.CommitteeCode = existing.CommitteeCode
	}
	if c.ParentCommitteeID == nil {
		c.ParentCommitteeID = existing.ParentCommitteeID
	}
	if c.ChairMemberID == nil {
		c.ChairMemberID = existing.ChairMemberID
	}
	if c.RankingMemberID == nil {
		c.RankingMemberID = existing.RankingMemberID
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			congress_gov_id = $2, committee_code = $3, committee_type = $4,
			is_subcommittee = $5, parent_committee_id = $6, chair_member_id = $7,
			ranking_member_id = $8, phone = $9, email = $10, office_location = $11,
			website_url = $12, hearings_url = $13, members_url = $14,
			is_active = $15, congress_session = $16, last_scraped_at = $17,
			updated_at = NOW()
		WHERE id = $1`, s.table("committees"))
	_, err = ex.Exec(ctx, query,
		c.ID, c.CongressGovID, c.CommitteeCode, c.CommitteeType,
		c.IsSubcommittee, c.ParentCommitteeID, c.ChairMemberID,
		c.RankingMemberID, c.Phone, c.Email, c.OfficeLocation,
		c.WebsiteURL, c.HearingsURL, c.MembersURL,
		c.IsActive, c.CongressSession, c.LastScrapedAt)
	if err != nil {
		return false, fmt.Errorf("update committee %q: %w", c.Name, err)
	}
	return false, nil
}

// UpsertHearing inserts or updates a hearing. The resolver decides identity
// before this is called; h.ID non-zero means update that row.
func (s *Store) UpsertHearing(ctx context.Context, h *models.Hearing) (bool, error) {
	ex := s.DB.GetExecutor(ctx)
	now := time.Now().UTC()
	h.LastScrapedAt = &now

	h.Title = s.truncate("title", h.Title, maxTitleLen)
	h.Description = truncatePtr(s, "description", h.Description, maxDescriptionLen)
	h.Location = truncatePtr(s, "location", h.Location, maxLocationLen)
	if h.Status == "" {
		h.Status = "Scheduled"
	}

	if h.ID == 0 {
		query := fmt.Sprintf(`
			INSERT INTO %s (
				congress_gov_id, title, description, committee_id, scheduled_date,
				location, room, hearing_type, status, video_url, webcast_url,
				transcript_url, scraped_video_urls, scraped_document_urls, last_scraped_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			RETURNING id`, s.table("hearings"))
		err := ex.QueryRow(ctx, query,
			h.CongressGovID, h.Title, h.Description, h.CommitteeID, h.ScheduledDate,
			h.Location, h.Room, h.HearingType, h.Status, h.VideoURL, h.WebcastURL,
			h.TranscriptURL, h.ScrapedVideoURLs, h.ScrapedDocumentURLs, h.LastScrapedAt,
		).Scan(&h.ID)
		if err != nil {
			return false, fmt.Errorf("insert hearing %q: %w", h.Title, err)
		}
		return true, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			congress_gov_id = $2, title = $3, description = $4, committee_id = $5,
			scheduled_date = $6, location = $7, room = $8, hearing_type = $9,
			status = $10, video_url = $11, webcast_url = $12, transcript_url = $13,
			scraped_video_urls = $14, scraped_document_urls = $15,
			last_scraped_at = $16, updated_at = NOW()
		WHERE id = $1`, s.table("hearings"))
	_, err := ex.Exec(ctx, query,
		h.ID, h.CongressGovID, h.Title, h.Description, h.CommitteeID,
		h.ScheduledDate, h.Location, h.Room, h.HearingType,
		h.Status, h.VideoURL, h.WebcastURL, h.TranscriptURL,
		h.ScrapedVideoURLs, h.ScrapedDocumentURLs, h.LastScrapedAt)
	if err != nil {
		return false, fmt.Errorf("update hearing %q: %w", h.Title, err)
	}
	return false, nil
}

// UpsertMembership records a member's seat on a committee, keyed by the
// (member, committee) pair.
func (s *Store) UpsertMembership(ctx context.Context, mm *models.CommitteeMembership) error {
	ex := s.DB.GetExecutor(ctx)
	if mm.Position == "" {
		mm.Position = "Member"
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (member_id, committee_id, position, is_current, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (member_id, committee_id) DO UPDATE SET
			position = EXCLUDED.position,
			is_current = EXCLUDED.is_current,
			start_date = COALESCE(EXCLUDED.start_date, %s.start_date),
			end_date = EXCLUDED.end_date,
			updated_at = NOW()
		RETURNING id`,
		s.table("committee_memberships"), s.table("committee_memberships"))
	return ex.QueryRow(ctx, query,
		mm.MemberID, mm.CommitteeID, mm.Position, mm.IsCurrent, mm.StartDate, mm.EndDate,
	).Scan(&mm.ID)
}

// SetMembershipPosition updates the position of one current membership.
func (s *Store) SetMembershipPosition(ctx context.Context, memberID, committeeID int64, position string) error {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(`
		UPDATE %s SET position = $3, updated_at = NOW()
		WHERE member_id = $1 AND committee_id = $2`,
		s.table("committee_memberships"))
	_, err := ex.Exec(ctx, query, memberID, committeeID, position)
	return err
}

// ReplaceWitnesses swaps the witness list of a hearing.
func (s *Store) ReplaceWitnesses(ctx context.Context, hearingID int64, witnesses []models.Witness) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		ex := s.DB.GetExecutor(ctx)
		if _, err := ex.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE hearing_id = $1", s.table("witnesses")), hearingID); err != nil {
			return err
		}
		query := fmt.Sprintf(
			"INSERT INTO %s (hearing_id, name, title, organization) VALUES ($1,$2,$3,$4)",
			s.table("witnesses"))
		for _, w := range witnesses {
			if _, err := ex.Exec(ctx, query, hearingID, w.Name, w.Title, w.Organization); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceHearingDocuments swaps the document list of a hearing.
func (s *Store) ReplaceHearingDocuments(ctx context.Context, hearingID int64, docs []models.HearingDocument) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		ex := s.DB.GetExecutor(ctx)
		if _, err := ex.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE hearing_id = $1", s.table("hearing_documents")), hearingID); err != nil {
			return err
		}
		query := fmt.Sprintf(
			"INSERT INTO %s (hearing_id, title, document_type, url) VALUES ($1,$2,$3,$4)",
			s.table("hearing_documents"))
		for _, d := range docs {
			if _, err := ex.Exec(ctx, query, hearingID, d.Title, d.DocumentType, d.URL); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertSession records a congressional session, clearing is_current on any
// other session when this one is current.
func (s *Store) UpsertSession(ctx context.Context, session *models.CongressionalSession) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		ex := s.DB.GetExecutor(ctx)
		if session.IsCurrent {
			clear := fmt.Sprintf(
				"UPDATE %s SET is_current = FALSE WHERE congress_number <> $1",
				s.table("congressional_sessions"))
			if _, err := ex.Exec(ctx, clear, session.CongressNumber); err != nil {
				return err
			}
		}
		query := fmt.Sprintf(`
			INSERT INTO %s (congress_number, start_date, end_date, is_current,
				house_majority_party, senate_majority_party, election_year)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (congress_number) DO UPDATE SET
				start_date = EXCLUDED.start_date,
				end_date = EXCLUDED.end_date,
				is_current = EXCLUDED.is_current,
				house_majority_party = EXCLUDED.house_majority_party,
				senate_majority_party = EXCLUDED.senate_majority_party,
				election_year = EXCLUDED.election_year
			RETURNING id`,
			s.table("congressional_sessions"))
		return ex.QueryRow(ctx, query,
			session.CongressNumber, session.StartDate, session.EndDate, session.IsCurrent,
			session.HouseMajorityParty, session.SenateMajorityParty, session.ElectionYear,
		).Scan(&session.ID)
	})
}

// SetCommitteeLeadership updates the chair and ranking member references.
func (s *Store) SetCommitteeLeadership(ctx context.Context, committeeID int64, chairID, rankingID *int64) error {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(`
		UPDATE %s SET chair_member_id = $2, ranking_member_id = $3, updated_at = NOW()
		WHERE id = $1`, s.table("committees"))
	_, err := ex.Exec(ctx, query, committeeID, chairID, rankingID)
	return err
}

// SetCommitteeParent links a subcommittee to its parent.
func (s *Store) SetCommitteeParent(ctx context.Context, committeeID, parentID int64) error {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(`
		UPDATE %s SET parent_committee_id = $2, is_subcommittee = TRUE, updated_at = NOW()
		WHERE id = $1`, s.table("committees"))
	_, err := ex.Exec(ctx, query, committeeID, parentID)
	return err
}

// SetHearingCommittee attaches a hearing to a committee.
func (s *Store) SetHearingCommittee(ctx context.Context, hearingID, committeeID int64) error {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(`
		UPDATE %s SET committee_id = $2, updated_at = NOW()
		WHERE id = $1`, s.table("hearings"))
	_, err := ex.Exec(ctx, query, hearingID, committeeID)
	return err
}

// RenameCommittee changes a committee's canonical name.
func (s *Store) RenameCommittee(ctx context.Context, committeeID int64, name string) error {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(`
		UPDATE %s SET name = $2, updated_at = NOW()
		WHERE id = $1`, s.table("committees"))
	_, err := ex.Exec(ctx, query, committeeID, name)
	return err
}

// DeactivateCommittee marks a committee inactive.
func (s *Store) DeactivateCommittee(ctx context.Context, committeeID int64) error {
	ex := s.DB.GetExecutor(ctx)
	query := fmt.Sprintf(`
		UPDATE %s SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1`, s.table("committees"))
	_, err := ex.Exec(ctx, query, committeeID)
	return err
}

// UpsertMembers writes a batch in one transaction. A failed row fails the
// whole batch so reruns start from a clean slate.
func (s *Store) UpsertMembers(ctx context.Context, members []*models.Member) (BatchSummary, error) {
	var summary BatchSummary
	err := s.WithTx(ctx, func(ctx context.Context) error {
		for _, m := range members {
			created, err := s.UpsertMember(ctx, m)
			if err != nil {
				return err
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		s.Logger.Error("Member batch rolled back", zap.Int("size", len(members)), zap.Error(err))
		return BatchSummary{Failed: len(members)}, err
	}
	return summary, nil
}

// UpsertCommittees writes a batch in one transaction.
func (s *Store) UpsertCommittees(ctx context.Context, committees []*models.Committee) (BatchSummary, error) {
	var summary BatchSummary
	err := s.WithTx(ctx, func(ctx context.Context) error {
		for _, c := range committees {
			created, err := s.UpsertCommittee(ctx, c)
			if err != nil {
				return err
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		s.Logger.Error("Committee batch rolled back", zap.Int("size", len(committees)), zap.Error(err))
		return BatchSummary{Failed: len(committees)}, err
	}
	return summary, nil
}

// UpsertHearings writes a batch in one transaction.
func (s *Store) UpsertHearings(ctx context.Context, hearings []*models.Hearing) (BatchSummary, error) {
	var summary BatchSummary
	err := s.WithTx(ctx, func(ctx context.Context) error {
		for _, h := range hearings {
			created, err := s.UpsertHearing(ctx, h)
			if err != nil {
				return err
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		s.Logger.Error("Hearing batch rolled back", zap.Int("size", len(hearings)), zap.Error(err))
		return BatchSummary{Failed: len(hearings)}, err
	}
	return summary, nil
}
