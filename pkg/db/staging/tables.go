package staging

import (
	"context"
	"fmt"
)

// initMembers creates the members table.
func (s *Store) initMembers(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                   BIGSERIAL PRIMARY KEY,
			bioguide_id          TEXT NOT NULL UNIQUE,
			congress_gov_id      TEXT,
			first_name           TEXT NOT NULL,
			last_name            TEXT NOT NULL,
			middle_name          TEXT,
			suffix               TEXT,
			nickname             TEXT,
			party                TEXT NOT NULL,
			chamber              TEXT NOT NULL,
			state                TEXT NOT NULL,
			district             INTEGER,
			term_start           DATE,
			term_end             DATE,
			is_current           BOOLEAN NOT NULL DEFAULT TRUE,
			official_website_url TEXT,
			contact_form_url     TEXT,
			official_photo_url   TEXT,
			congress_session     INTEGER NOT NULL,
			last_scraped_at      TIMESTAMP WITH TIME ZONE,
			created_at           TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at           TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_members_state ON %s(state);
		CREATE INDEX IF NOT EXISTS idx_members_chamber ON %s(chamber);
	`, s.table("members"), s.table("members"), s.table("members"))

	return s.DB.Exec(ctx, query)
}

// initCommittees creates the committees table. Chair, ranking member and
// parent references are nullable so rows can land before their targets.
func (s *Store) initCommittees(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                  BIGSERIAL PRIMARY KEY,
			congress_gov_id     TEXT,
			committee_code      TEXT,
			name                TEXT NOT NULL,
			chamber             TEXT NOT NULL,
			committee_type      TEXT NOT NULL DEFAULT 'Standing',
			is_subcommittee     BOOLEAN NOT NULL DEFAULT FALSE,
			parent_committee_id BIGINT REFERENCES %s(id),
			chair_member_id     BIGINT REFERENCES %s(id),
			ranking_member_id   BIGINT REFERENCES %s(id),
			phone               TEXT,
			email               TEXT,
			office_location     TEXT,
			website_url         TEXT,
			hearings_url        TEXT,
			members_url         TEXT,
			is_active           BOOLEAN NOT NULL DEFAULT TRUE,
			congress_session    INTEGER NOT NULL,
			last_scraped_at     TIMESTAMP WITH TIME ZONE,
			created_at          TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			UNIQUE (name, chamber)
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_committees_congress_gov_id
			ON %s(congress_gov_id) WHERE congress_gov_id IS NOT NULL;
		CREATE UNIQUE INDEX IF NOT EXISTS idx_committees_code
			ON %s(committee_code) WHERE committee_code IS NOT NULL;
	`,
		s.table("committees"), s.table("committees"), s.table("members"), s.table("members"),
		s.table("committees"), s.table("committees"))

	return s.DB.Exec(ctx, query)
}

// initCommitteeMemberships creates the memberships join table.
func (s *Store) initCommitteeMemberships(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           BIGSERIAL PRIMARY KEY,
			member_id    BIGINT NOT NULL REFERENCES %s(id),
			committee_id BIGINT NOT NULL REFERENCES %s(id),
			position     TEXT NOT NULL DEFAULT 'Member',
			is_current   BOOLEAN NOT NULL DEFAULT TRUE,
			start_date   DATE,
			end_date     DATE,
			created_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			UNIQUE (member_id, committee_id)
		);

		CREATE INDEX IF NOT EXISTS idx_memberships_committee ON %s(committee_id);
	`,
		s.table("committee_memberships"), s.table("members"), s.table("committees"),
		s.table("committee_memberships"))

	return s.DB.Exec(ctx, query)
}

// initHearings creates the hearings table.
func (s *Store) initHearings(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                    BIGSERIAL PRIMARY KEY,
			congress_gov_id       TEXT,
			title                 VARCHAR(%d) NOT NULL,
			description           VARCHAR(%d),
			committee_id          BIGINT REFERENCES %s(id),
			scheduled_date        TIMESTAMP WITH TIME ZONE,
			location              VARCHAR(%d),
			room                  TEXT,
			hearing_type          TEXT,
			status                TEXT NOT NULL DEFAULT 'Scheduled',
			video_url             TEXT,
			webcast_url           TEXT,
			transcript_url        TEXT,
			scraped_video_urls    TEXT[],
			scraped_document_urls TEXT[],
			last_scraped_at       TIMESTAMP WITH TIME ZONE,
			created_at            TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at            TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_hearings_congress_gov_id
			ON %s(congress_gov_id) WHERE congress_gov_id IS NOT NULL;
		CREATE INDEX IF NOT EXISTS idx_hearings_scheduled ON %s(scheduled_date);
		CREATE INDEX IF NOT EXISTS idx_hearings_committee ON %s(committee_id);
	`,
		s.table("hearings"), maxTitleLen, maxDescriptionLen, s.table("committees"), maxLocationLen,
		s.table("hearings"), s.table("hearings"), s.table("hearings"))

	return s.DB.Exec(ctx, query)
}

// initWitnesses creates the witnesses table, owned by hearings.
func (s *Store) initWitnesses(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           BIGSERIAL PRIMARY KEY,
			hearing_id   BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			name         TEXT NOT NULL,
			title        TEXT,
			organization TEXT
		);
	`, s.table("witnesses"), s.table("hearings"))

	return s.DB.Exec(ctx, query)
}

// initHearingDocuments creates the hearing_documents table.
func (s *Store) initHearingDocuments(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id            BIGSERIAL PRIMARY KEY,
			hearing_id    BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			title         TEXT NOT NULL,
			document_type TEXT,
			url           TEXT NOT NULL
		);
	`, s.table("hearing_documents"), s.table("hearings"))

	return s.DB.Exec(ctx, query)
}

// initCongressionalSessions creates the sessions table.
func (s *Store) initCongressionalSessions(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                    BIGSERIAL PRIMARY KEY,
			congress_number       INTEGER NOT NULL UNIQUE,
			start_date            DATE NOT NULL,
			end_date              DATE,
			is_current            BOOLEAN NOT NULL DEFAULT FALSE,
			house_majority_party  TEXT NOT NULL,
			senate_majority_party TEXT NOT NULL,
			election_year         INTEGER NOT NULL
		);
	`, s.table("congressional_sessions"))

	return s.DB.Exec(ctx, query)
}
