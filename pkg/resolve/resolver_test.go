package resolve

import (
	"context"
	"testing"
	"time"

	"github.com/congress-network/congressx/pkg/catalog"
	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeLookup answers resolver queries from in-memory maps.
type fakeLookup struct {
	membersByBioguide map[string]*models.Member
	committeesByGovID map[string]*models.Committee
	committeesByCode  map[string]*models.Committee
	committeesByName  map[string]*models.Committee // name + "|" + chamber
	hearingsByGovID   map[string]*models.Hearing
	hearingsByTitle   map[string]*models.Hearing
}

func (f *fakeLookup) MemberByBioguide(_ context.Context, id string) (*models.Member, error) {
	return f.membersByBioguide[id], nil
}
func (f *fakeLookup) CommitteeByCongressGovID(_ context.Context, id string) (*models.Committee, error) {
	return f.committeesByGovID[id], nil
}
func (f *fakeLookup) CommitteeByCode(_ context.Context, code string) (*models.Committee, error) {
	return f.committeesByCode[code], nil
}
func (f *fakeLookup) CommitteeByNameChamber(_ context.Context, name, chamber string) (*models.Committee, error) {
	return f.committeesByName[name+"|"+chamber], nil
}
func (f *fakeLookup) HearingByCongressGovID(_ context.Context, id string) (*models.Hearing, error) {
	return f.hearingsByGovID[id], nil
}
func (f *fakeLookup) HearingByTitleDate(_ context.Context, title string, _ time.Time) (*models.Hearing, error) {
	return f.hearingsByTitle[title], nil
}

func newTestResolver(t *testing.T, store *fakeLookup) *Resolver {
	t.Helper()
	return New(store, zaptest.NewLogger(t))
}

func TestCommitteeResolutionOrder(t *testing.T) {
	byGovID := &models.Committee{ID: 1, Name: "by gov id"}
	byCode := &models.Committee{ID: 2, Name: "by code"}
	byName := &models.Committee{ID: 3, Name: "Committee on Agriculture"}
	store := &fakeLookup{
		committeesByGovID: map[string]*models.Committee{"hsag00": byGovID},
		committeesByCode:  map[string]*models.Committee{"HSAG": byCode},
		committeesByName:  map[string]*models.Committee{"Committee on Agriculture|House": byName},
	}
	r := newTestResolver(t, store)
	ctx := context.Background()

	got, err := r.Committee(ctx, "hsag00", "HSAG", "Committee on Agriculture", "House")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID, "congress.gov id wins")

	got, err = r.Committee(ctx, "", "HSAG", "Committee on Agriculture", "House")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID, "code is second")

	got, err = r.Committee(ctx, "", "", "Committee on Agriculture", "house")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID, "name+chamber is last")

	got, err = r.Committee(ctx, "", "", "Committee on the Unheard Of", "House")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCanonicalCommitteeNameFuzzy(t *testing.T) {
	r := newTestResolver(t, &fakeLookup{})

	// Misspelled name snaps to the catalog spelling.
	got := r.CanonicalCommitteeName("Committee on Agricultur", "House")
	assert.Equal(t, "Committee on Agriculture", got)

	// Word order does not matter for the token-sort pass.
	got = r.CanonicalCommitteeName("Agriculture, Committee on", "House")
	assert.Equal(t, "Committee on Agriculture", got)

	// Stripped boilerplate resolves through the simplified pass.
	got = r.CanonicalCommitteeName("Ways and Means", "House")
	assert.Equal(t, "Committee on Ways and Means", got)

	// A name nothing like the catalog stays untouched.
	assert.Equal(t, "Bureau of Shadows", r.CanonicalCommitteeName("Bureau of Shadows", "House"))
}

func TestCanonicalCommitteeNameIdempotent(t *testing.T) {
	r := newTestResolver(t, &fakeLookup{})
	for _, chamber := range []string{catalog.ChamberHouse, catalog.ChamberSenate, catalog.ChamberJoint} {
		for _, name := range catalog.Names(chamber) {
			once := r.CanonicalCommitteeName(name, chamber)
			require.Equal(t, name, once)
			require.Equal(t, once, r.CanonicalCommitteeName(once, chamber))
		}
	}
}

func TestHearingResolutionOrder(t *testing.T) {
	byGovID := &models.Hearing{ID: 1}
	byTitle := &models.Hearing{ID: 2}
	store := &fakeLookup{
		hearingsByGovID: map[string]*models.Hearing{"LC64310": byGovID},
		hearingsByTitle: map[string]*models.Hearing{"Oversight of the Budget": byTitle},
	}
	r := newTestResolver(t, store)
	ctx := context.Background()
	when := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	got, err := r.Hearing(ctx, "LC64310", "Oversight of the Budget", &when)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	got, err = r.Hearing(ctx, "", "Oversight of the Budget", &when)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)

	got, err = r.Hearing(ctx, "", "Oversight of the Budget", nil)
	require.NoError(t, err)
	assert.Nil(t, got, "no date means no title match")
}

func TestMemberResolution(t *testing.T) {
	m := &models.Member{ID: 7, BioguideID: "G000386"}
	r := newTestResolver(t, &fakeLookup{membersByBioguide: map[string]*models.Member{"G000386": m}})

	got, err := r.Member(context.Background(), "G000386")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	got, err = r.Member(context.Background(), "X000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}
