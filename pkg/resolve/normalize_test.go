package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateAbbreviation(t *testing.T) {
	assert.Equal(t, "IA", StateAbbreviation("Iowa"))
	assert.Equal(t, "DC", StateAbbreviation("District of Columbia"))
	assert.Equal(t, "MP", StateAbbreviation("Northern Mariana Islands"))
	// Passthrough for already-abbreviated input.
	assert.Equal(t, "TX", StateAbbreviation("TX"))
	assert.Equal(t, "", StateAbbreviation("Atlantis"))
	assert.Equal(t, "", StateAbbreviation(""))
}

func TestChamberName(t *testing.T) {
	assert.Equal(t, "House", ChamberName("House of Representatives"))
	assert.Equal(t, "House", ChamberName("house"))
	assert.Equal(t, "Senate", ChamberName("SENATE"))
	assert.Equal(t, "Joint", ChamberName("joint"))
	assert.Equal(t, "Unknown", ChamberName(""))
	assert.Equal(t, "Tribunal", ChamberName("tribunal"))
}

func TestParseMemberName(t *testing.T) {
	p := ParseMemberName("Ramirez, Delia C.")
	require.Equal(t, "Ramirez", p.Last)
	require.Equal(t, "Delia", p.First)
	require.Equal(t, "C.", p.Middle)

	p = ParseMemberName("Grassley, Chuck")
	assert.Equal(t, "Grassley", p.Last)
	assert.Equal(t, "Chuck", p.First)
	assert.Empty(t, p.Middle)

	// No comma falls back to positional parsing.
	p = ParseMemberName("Chuck Ernst Grassley")
	assert.Equal(t, "Chuck", p.First)
	assert.Equal(t, "Grassley", p.Last)
	assert.Equal(t, "Ernst", p.Middle)

	assert.Equal(t, ParsedName{}, ParseMemberName(""))
}

func TestSimplifyCommitteeName(t *testing.T) {
	assert.Equal(t, "agriculture", SimplifyCommitteeName("Committee on Agriculture"))
	assert.Equal(t, "ways and means", SimplifyCommitteeName("Committee Ways and Means"))
	assert.Equal(t, "finance", SimplifyCommitteeName("  Finance "))
}
