package reconcile

import (
	"testing"

	"github.com/congress-network/congressx/pkg/catalog"
	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/congress-network/congressx/pkg/db/staging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReconciler(data WikipediaData) *Reconciler {
	return &Reconciler{Data: data, RenameThreshold: 80}
}

func TestReferenceCommittee(t *testing.T) {
	data := WikipediaData{Committees: []WikipediaCommittee{
		{Name: "Committee on the Judiciary", Chamber: "Senate", Chair: "Chuck Grassley (R-IA)"},
		{Name: "Committee on Agriculture", Chamber: "House"},
	}}
	r := testReconciler(data)

	exact := r.referenceCommittee("Committee on the Judiciary", "Senate")
	require.NotNil(t, exact)
	assert.Equal(t, "Chuck Grassley (R-IA)", exact.Chair)

	// Spelling drift between snapshot and catalog still resolves.
	fuzzy := r.referenceCommittee("Committee on Judiciary", "Senate")
	require.NotNil(t, fuzzy)
	assert.Equal(t, "Committee on the Judiciary", fuzzy.Name)

	assert.Nil(t, r.referenceCommittee("Committee on the Judiciary", "House"))
	assert.Nil(t, r.referenceCommittee("Committee on Small Business", "Senate"))
}

func TestFindMemberRow(t *testing.T) {
	rows := []staging.CommitteeMemberRow{
		{Member: models.Member{ID: 1, FirstName: "Richard", LastName: "Durbin", Party: "Democratic"}},
		{Member: models.Member{ID: 2, FirstName: "Chuck", LastName: "Grassley", Party: "Republican"}},
	}

	exact := findMemberRow(rows, "chuck grassley", 80)
	require.NotNil(t, exact)
	assert.Equal(t, int64(2), exact.Member.ID)

	// Middle initials in the snapshot should not defeat the match.
	approx := findMemberRow(rows, "Richard J. Durbin", 80)
	require.NotNil(t, approx)
	assert.Equal(t, int64(1), approx.Member.ID)

	assert.Nil(t, findMemberRow(rows, "Patty Murray", 80))
	assert.Nil(t, findMemberRow(rows, "", 80))
	assert.Nil(t, findMemberRow(nil, "Chuck Grassley", 80))
}

func TestLeadershipPartiesComeFromCatalog(t *testing.T) {
	// Both chambers of the 119th Congress seat a Republican majority, so
	// the party rule wants Republican chairs and Democratic ranking
	// members everywhere except joint committees.
	for _, chamber := range []string{catalog.ChamberHouse, catalog.ChamberSenate} {
		assert.Equal(t, "Republican", catalog.MajorityParty(chamber), chamber)
		assert.Equal(t, "Democratic", catalog.MinorityParty(chamber), chamber)
	}
	assert.Empty(t, catalog.MajorityParty(catalog.ChamberJoint))

	// Every repair pass walks the full catalog, joint committees included.
	all := catalog.Committees("")
	require.NotEmpty(t, all)
	chambers := map[string]bool{}
	for _, ref := range all {
		chambers[ref.Chamber] = true
		assert.True(t, catalog.Contains(ref.Name, ref.Chamber), ref.Name)
	}
	assert.True(t, chambers[catalog.ChamberHouse])
	assert.True(t, chambers[catalog.ChamberSenate])
	assert.True(t, chambers[catalog.ChamberJoint])
}
