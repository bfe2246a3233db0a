package relate

import (
	"testing"

	"github.com/congress-network/congressx/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func committee(id int64, name, chamber string) models.Committee {
	return models.Committee{ID: id, Name: name, Chamber: chamber, IsActive: true}
}

func TestIsSubcommitteeName(t *testing.T) {
	assert.True(t, IsSubcommitteeName("Subcommittee on Livestock, Dairy, and Poultry"))
	assert.True(t, IsSubcommitteeName("Select Sub-Committee on the Weaponization of the Federal Government"))
	assert.True(t, IsSubcommitteeName("Task Force on Artificial Intelligence"))
	assert.True(t, IsSubcommitteeName("Panel on National Security"))
	assert.False(t, IsSubcommitteeName("Committee on Agriculture"))
	assert.False(t, IsSubcommitteeName("Committee on Ways and Means"))
}

func TestFindParentByContainment(t *testing.T) {
	parents := []models.Committee{
		committee(1, "Committee on Agriculture", "House"),
		committee(2, "Committee on Armed Services", "House"),
	}
	sub := committee(10, "Committee on Agriculture Subcommittee on Commodity Markets", "House")
	sub.IsSubcommittee = true

	got := FindParent(sub, parents, 0.5)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
}

func TestFindParentByWordOverlap(t *testing.T) {
	parents := []models.Committee{
		committee(1, "Committee on Energy and Commerce", "House"),
		committee(2, "Committee on the Judiciary", "House"),
	}
	sub := committee(10, "Subcommittee on Energy, Climate, and Grid Security", "House")

	got := FindParent(sub, parents, 0.25)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID, "shares the 'energy' content word")
}

func TestFindParentRespectsChamber(t *testing.T) {
	parents := []models.Committee{
		committee(1, "Committee on Agriculture", "House"),
	}
	sub := committee(10, "Subcommittee on Agriculture Oversight", "Senate")

	assert.Nil(t, FindParent(sub, parents, 0.5))
}

func TestFindParentSkipsOtherSubcommittees(t *testing.T) {
	candidates := []models.Committee{
		committee(5, "Subcommittee on Agriculture Appropriations", "House"),
		committee(1, "Committee on Agriculture", "House"),
	}
	sub := committee(10, "Subcommittee on Agriculture Research", "House")

	got := FindParent(sub, candidates, 0.5)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
}

func TestFindCommitteeForHearingByName(t *testing.T) {
	committees := []models.Committee{
		committee(1, "Committee on Agriculture", "House"),
		committee(2, "Committee on Armed Services", "House"),
	}
	h := models.Hearing{Title: "Full Committee on Armed Services hearing on readiness"}

	got := FindCommitteeForHearing(h, committees)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestFindCommitteeForHearingByContentWords(t *testing.T) {
	committees := []models.Committee{
		committee(1, "Committee on Agriculture", "House"),
		committee(2, "Committee on Small Business", "House"),
	}
	desc := "Members will hear testimony on small business lending trends."
	h := models.Hearing{Title: "Access to Capital", Description: &desc}

	got := FindCommitteeForHearing(h, committees)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestFindCommitteeForHearingNoMatch(t *testing.T) {
	committees := []models.Committee{
		committee(1, "Committee on Agriculture", "House"),
	}
	h := models.Hearing{Title: "Postal Service Oversight"}

	assert.Nil(t, FindCommitteeForHearing(h, committees))
}

func TestNormalizePosition(t *testing.T) {
	assert.Equal(t, "Chair", normalizePosition("Chairman"))
	assert.Equal(t, "Ranking Member", normalizePosition("ranking minority member"))
	assert.Equal(t, "Member", normalizePosition(""))
	assert.Equal(t, "Vice Chair", normalizePosition("Vice Chair"))
}

func TestContentWordsDropStopWords(t *testing.T) {
	words := contentWords("Committee on the Judiciary")
	assert.Equal(t, []string{"judiciary"}, words)
}

func TestWordOverlap(t *testing.T) {
	a := []string{"energy", "climate", "grid", "security"}
	b := []string{"energy", "commerce"}
	assert.InDelta(t, 0.25, wordOverlap(a, b), 0.001)
	assert.Zero(t, wordOverlap(nil, b))
}
