package activity

import (
	"testing"
	"time"

	"github.com/congress-network/congressx/pkg/congress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberFromRecord(t *testing.T) {
	end := 2027
	rec := congress.MemberRecord{
		BioguideID: "R000617",
		Name:       "Ramirez, Delia C.",
		PartyName:  "Democratic",
		State:      "Illinois",
		District:   intPtr(3),
		URL:        "https://ramirez.house.gov",
		Depiction:  &congress.Depiction{ImageURL: "https://example.gov/r000617.jpg"},
		Terms: &congress.MemberTerms{Items: []congress.MemberTerm{
			{Chamber: "House of Representatives", StartYear: 2023},
			{Chamber: "House of Representatives", StartYear: 2025, EndYear: &end},
		}},
	}

	m := memberFromRecord(rec)

	assert.Equal(t, "R000617", m.BioguideID)
	assert.Equal(t, "Delia", m.FirstName)
	assert.Equal(t, "Ramirez", m.LastName)
	require.NotNil(t, m.MiddleName)
	assert.Equal(t, "C.", *m.MiddleName)
	assert.Equal(t, "Democratic", m.Party)
	assert.Equal(t, "House", m.Chamber)
	assert.Equal(t, "IL", m.State)
	require.NotNil(t, m.District)
	assert.Equal(t, 3, *m.District)
	assert.True(t, m.IsCurrent)

	require.NotNil(t, m.OfficialWebsiteURL)
	assert.Equal(t, "https://ramirez.house.gov", *m.OfficialWebsiteURL)
	require.NotNil(t, m.OfficialPhotoURL)
	assert.Equal(t, "https://example.gov/r000617.jpg", *m.OfficialPhotoURL)

	require.NotNil(t, m.TermStart)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), *m.TermStart)
	require.NotNil(t, m.TermEnd)
	assert.Equal(t, time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC), *m.TermEnd)
}

func TestMemberFromRecordSparse(t *testing.T) {
	m := memberFromRecord(congress.MemberRecord{
		BioguideID: "G000386",
		Name:       "Grassley, Chuck",
		PartyName:  "Republican",
		State:      "Iowa",
	})

	assert.Equal(t, "Chuck", m.FirstName)
	assert.Equal(t, "Grassley", m.LastName)
	assert.Nil(t, m.MiddleName)
	assert.Equal(t, "IA", m.State)
	assert.Equal(t, "Unknown", m.Chamber)
	assert.Nil(t, m.District)
	assert.Nil(t, m.OfficialWebsiteURL)
	assert.Nil(t, m.OfficialPhotoURL)
	assert.Nil(t, m.TermStart)
	assert.Nil(t, m.TermEnd)
}

func TestCommitteeType(t *testing.T) {
	cases := map[string]string{
		"":             "Standing",
		"standing":     "Standing",
		"Select":       "Select",
		"select":       "Select",
		"special":      "Special",
		"joint":        "Joint",
		"subcommittee": "Subcommittee",
		"task force":   "Standing",
	}
	for code, want := range cases {
		assert.Equal(t, want, committeeType(code), "code %q", code)
	}
}

func TestMergeCommitteeDetail(t *testing.T) {
	rec := congress.CommitteeRecord{
		SystemCode:        "hsag00",
		Name:              "Committee on Agriculture",
		Chamber:           "House",
		CommitteeTypeCode: "standing",
	}
	mergeCommitteeDetail(&rec, congress.CommitteeRecord{
		CommitteeTypeCode: "select",
		Phone:             "(202) 225-2171",
		Email:             "ag@mail.house.gov",
		WebsiteURL:        "https://agriculture.house.gov",
	})

	assert.Equal(t, "standing", rec.CommitteeTypeCode, "list value wins")
	assert.Equal(t, "(202) 225-2171", rec.Phone)
	assert.Equal(t, "ag@mail.house.gov", rec.Email)
	assert.Equal(t, "https://agriculture.house.gov", rec.WebsiteURL)
}

func TestWitnessesFromRecords(t *testing.T) {
	ws := witnessesFromRecords(7, []congress.WitnessRecord{
		{Name: "Jerome Powell", Position: "Chair", Organization: "Federal Reserve"},
		{Name: "Jane Doe"},
		{Name: ""},
	})

	require.Len(t, ws, 2)
	assert.Equal(t, int64(7), ws[0].HearingID)
	require.NotNil(t, ws[0].Title)
	assert.Equal(t, "Chair", *ws[0].Title)
	require.NotNil(t, ws[0].Organization)
	assert.Equal(t, "Federal Reserve", *ws[0].Organization)
	assert.Nil(t, ws[1].Title)
	assert.Nil(t, ws[1].Organization)
}

func TestDocumentsFromRecords(t *testing.T) {
	docs := documentsFromRecords(7, []congress.HearingDocumentRecord{
		{Title: "Prepared Testimony", Type: "Witness Statement", URL: "https://example.gov/testimony.pdf"},
		{Title: "No link"},
	})

	require.Len(t, docs, 1)
	assert.Equal(t, int64(7), docs[0].HearingID)
	require.NotNil(t, docs[0].DocumentType)
	assert.Equal(t, "Witness Statement", *docs[0].DocumentType)
	assert.Equal(t, "https://example.gov/testimony.pdf", docs[0].URL)
}

func TestValueOrEmpty(t *testing.T) {
	assert.Equal(t, "", valueOrEmpty(nil))
	v := "evt-123"
	assert.Equal(t, "evt-123", valueOrEmpty(&v))
}

func intPtr(v int) *int { return &v }
