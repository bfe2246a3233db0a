// Package models defines the row types shared by the staging writer, the
// resolver and the reconciler.
package models

import "time"

type Member struct {
	ID            int64      `json:"id"`
	BioguideID    string     `json:"bioguide_id"`
	CongressGovID *string    `json:"congress_gov_id,omitempty"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	MiddleName    *string    `json:"middle_name,omitempty"`
	Suffix        *string    `json:"suffix,omitempty"`
	Nickname      *string    `json:"nickname,omitempty"`
	Party         string     `json:"party"`
	Chamber       string     `json:"chamber"`
	State         string     `json:"state"`
	District      *int       `json:"district,omitempty"`
	TermStart     *time.Time `json:"term_start,omitempty"`
	TermEnd       *time.Time `json:"term_end,omitempty"`
	IsCurrent     bool       `json:"is_current"`

	OfficialWebsiteURL *string `json:"official_website_url,omitempty"`
	ContactFormURL     *string `json:"contact_form_url,omitempty"`
	OfficialPhotoURL   *string `json:"official_photo_url,omitempty"`

	CongressSession int        `json:"congress_session"`
	LastScrapedAt   *time.Time `json:"last_scraped_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Committee struct {
	ID            int64   `json:"id"`
	CongressGovID *string `json:"congress_gov_id,omitempty"`
	CommitteeCode *string `json:"committee_code,omitempty"`
	Name          string  `json:"name"`
	Chamber       string  `json:"chamber"`
	CommitteeType string  `json:"committee_type"`

	IsSubcommittee    bool   `json:"is_subcommittee"`
	ParentCommitteeID *int64 `json:"parent_committee_id,omitempty"`
	ChairMemberID     *int64 `json:"chair_member_id,omitempty"`
	RankingMemberID   *int64 `json:"ranking_member_id,omitempty"`

	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	OfficeLocation *string `json:"office_location,omitempty"`
	WebsiteURL     *string `json:"website_url,omitempty"`
	HearingsURL    *string `json:"hearings_url,omitempty"`
	MembersURL     *string `json:"members_url,omitempty"`

	IsActive        bool       `json:"is_active"`
	CongressSession int        `json:"congress_session"`
	LastScrapedAt   *time.Time `json:"last_scraped_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CommitteeMembership struct {
	ID          int64      `json:"id"`
	MemberID    int64      `json:"member_id"`
	CommitteeID int64      `json:"committee_id"`
	Position    string     `json:"position"`
	IsCurrent   bool       `json:"is_current"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Hearing struct {
	ID            int64      `json:"id"`
	CongressGovID *string    `json:"congress_gov_id,omitempty"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	CommitteeID   *int64     `json:"committee_id,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Location      *string    `json:"location,omitempty"`
	Room          *string    `json:"room,omitempty"`
	HearingType   *string    `json:"hearing_type,omitempty"`
	Status        string     `json:"status"`

	VideoURL      *string `json:"video_url,omitempty"`
	WebcastURL    *string `json:"webcast_url,omitempty"`
	TranscriptURL *string `json:"transcript_url,omitempty"`

	ScrapedVideoURLs    []string `json:"scraped_video_urls,omitempty"`
	ScrapedDocumentURLs []string `json:"scraped_document_urls,omitempty"`

	LastScrapedAt *time.Time `json:"last_scraped_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Witness struct {
	ID           int64   `json:"id"`
	HearingID    int64   `json:"hearing_id"`
	Name         string  `json:"name"`
	Title        *string `json:"title,omitempty"`
	Organization *string `json:"organization,omitempty"`
}

type HearingDocument struct {
	ID           int64   `json:"id"`
	HearingID    int64   `json:"hearing_id"`
	Title        string  `json:"title"`
	DocumentType *string `json:"document_type,omitempty"`
	URL          string  `json:"url"`
}

type CongressionalSession struct {
	ID                  int64      `json:"id"`
	CongressNumber      int        `json:"congress_number"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	IsCurrent           bool       `json:"is_current"`
	HouseMajorityParty  string     `json:"house_majority_party"`
	SenateMajorityParty string     `json:"senate_majority_party"`
	ElectionYear        int        `json:"election_year"`
}

// ValidationResult is one persisted suite run.
type ValidationResult struct {
	ID          string    `json:"id"`
	Table       string    `json:"table_name"`
	Suite       string    `json:"suite"`
	Success     bool      `json:"success"`
	Total       int       `json:"total_expectations"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Detail      string    `json:"detail"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// DataPromotion records one promotion attempt of a staging table.
type DataPromotion struct {
	ID           string    `json:"id"`
	Table        string    `json:"table_name"`
	SourceSchema string    `json:"source_schema"`
	TargetSchema string    `json:"target_schema"`
	Version      string    `json:"version"`
	RowsPromoted int64     `json:"rows_promoted"`
	Success      bool      `json:"success"`
	Error        *string   `json:"error,omitempty"`
	PromotedAt   time.Time `json:"promoted_at"`
}

// ReconciliationDiscrepancy is a condition the reconciler saw but could
// not repair automatically.
type ReconciliationDiscrepancy struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	Committee  string    `json:"committee"`
	Chamber    string    `json:"chamber"`
	Detail     string    `json:"detail"`
	RecordedAt time.Time `json:"recorded_at"`
}
