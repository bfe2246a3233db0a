package congress

import "strconv"

// Record shapes returned by the congress.gov API. The chamber scrapers in
// pkg/scrape produce the same committee and hearing shapes so the resolver
// has a single input format.

// MemberRecord is one entry from the member list or detail endpoints.
type MemberRecord struct {
	BioguideID string `json:"bioguideId"`
	// Name is the compound "Last, First Middle" form.
	Name       string `json:"name"`
	PartyName  string `json:"partyName"`
	State      string `json:"state"`
	District   *int   `json:"district,omitempty"`
	URL        string `json:"url,omitempty"`
	Depiction  *Depiction   `json:"depiction,omitempty"`
	Terms      *MemberTerms `json:"terms,omitempty"`
}

type Depiction struct {
	ImageURL string `json:"imageUrl"`
}

type MemberTerms struct {
	Items []MemberTerm `json:"item"`
}

type MemberTerm struct {
	Chamber   string `json:"chamber"`
	StartYear int    `json:"startYear"`
	EndYear   *int   `json:"endYear,omitempty"`
}

// Chamber returns the chamber of the most recent term, empty when unknown.
func (m MemberRecord) Chamber() string {
	if m.Terms == nil || len(m.Terms.Items) == 0 {
		return ""
	}
	return m.Terms.Items[len(m.Terms.Items)-1].Chamber
}

// CommitteeRecord is one entry from the committee list or detail endpoints.
type CommitteeRecord struct {
	SystemCode        string           `json:"systemCode"`
	Name              string           `json:"name"`
	Chamber           string           `json:"chamber"`
	CommitteeTypeCode string           `json:"committeeTypeCode,omitempty"`
	URL               string           `json:"url,omitempty"`
	Parent            *CommitteeParent `json:"parent,omitempty"`

	// Contact detail, present on detail fetches and scraped records only.
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	OfficeLocation string `json:"officeLocation,omitempty"`
	WebsiteURL     string `json:"websiteUrl,omitempty"`
	HearingsURL    string `json:"hearingsUrl,omitempty"`
	MembersURL     string `json:"membersUrl,omitempty"`
}

type CommitteeParent struct {
	SystemCode string `json:"systemCode"`
	Name       string `json:"name"`
}

// CommitteeMemberRecord is one entry from the committee membership endpoint.
type CommitteeMemberRecord struct {
	BioguideID string `json:"bioguideId"`
	Name       string `json:"name"`
	Party      string `json:"party,omitempty"`
	// Title carries leadership designations such as "Chair" or
	// "Ranking Member"; empty for rank-and-file members.
	Title string `json:"title,omitempty"`
	Rank  int    `json:"rank,omitempty"`
}

// AssignmentRecord is one committee assignment from the per-member endpoint.
type AssignmentRecord struct {
	CommitteeSystemCode string `json:"systemCode"`
	CommitteeName       string `json:"name"`
	Chamber             string `json:"chamber,omitempty"`
	Position            string `json:"position,omitempty"`
}

// HearingRecord is one entry from the hearing list or detail endpoints.
type HearingRecord struct {
	EventID       string             `json:"eventId,omitempty"`
	JacketNumber  int                `json:"jacketNumber,omitempty"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Chamber       string             `json:"chamber,omitempty"`
	Congress      int                `json:"congress,omitempty"`
	Dates         []HearingDate      `json:"dates,omitempty"`
	Location      *HearingLocation   `json:"location,omitempty"`
	Committees    []CommitteeParent  `json:"committees,omitempty"`
	Status        string             `json:"status,omitempty"`
	VideoURL      string             `json:"videoUrl,omitempty"`
	WebcastURL    string             `json:"webcastUrl,omitempty"`
	TranscriptURL string             `json:"transcriptUrl,omitempty"`
	DocumentURLs  []string           `json:"documentUrls,omitempty"`
	// VideoURLs carries links discovered by the chamber scrapers.
	VideoURLs []string `json:"videoUrls,omitempty"`

	// Witnesses and Documents only appear on detail fetches.
	Witnesses []WitnessRecord         `json:"witnesses,omitempty"`
	Documents []HearingDocumentRecord `json:"documents,omitempty"`
}

// WitnessRecord is one witness from the hearing detail endpoint.
type WitnessRecord struct {
	Name         string `json:"name"`
	Position     string `json:"position,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// HearingDocumentRecord is one document from the hearing detail endpoint.
type HearingDocumentRecord struct {
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
	URL   string `json:"url"`
}

type HearingDate struct {
	Date string `json:"date"`
}

type HearingLocation struct {
	Building string `json:"building,omitempty"`
	Room     string `json:"room,omitempty"`
}

// ExternalID returns the best available upstream identifier for a hearing.
func (h HearingRecord) ExternalID() string {
	if h.EventID != "" {
		return h.EventID
	}
	if h.JacketNumber != 0 {
		return "jacket-" + strconv.Itoa(h.JacketNumber)
	}
	return ""
}
