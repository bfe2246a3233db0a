package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeader(t *testing.T) {
	tests := []struct {
		in   string
		want Leader
	}{
		{"Chuck Grassley (R-IA)", Leader{Name: "Chuck Grassley", Party: "Republican", State: "IA"}},
		{"Dick Durbin (D-IL)", Leader{Name: "Dick Durbin", Party: "Democratic", State: "IL"}},
		{"Bernie Sanders (I-VT)", Leader{Name: "Bernie Sanders", Party: "Independent", State: "VT"}},
		{"Angus King (I–ME)", Leader{Name: "Angus King", Party: "Independent", State: "ME"}},
		{"Vacant", Leader{Name: "Vacant"}},
		{"  Jon Tester (D-MT)  ", Leader{Name: "Jon Tester", Party: "Democratic", State: "MT"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLeader(tt.in), tt.in)
	}
}

func TestLoadWikipediaData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wikipedia_data.json")
	payload := `{
		"committees": [
			{"name": "Committee on the Judiciary", "chamber": "Senate",
			 "chair": "Chuck Grassley (R-IA)", "ranking_member": "Dick Durbin (D-IL)",
			 "members": ["Chuck Grassley (R-IA)", "Dick Durbin (D-IL)"]},
			{"name": "Committee on Agriculture", "chamber": "House"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	data, err := LoadWikipediaData(path)
	require.NoError(t, err)
	require.Len(t, data.Committees, 2)
	assert.Equal(t, "Chuck Grassley (R-IA)", data.Committees[0].Chair)

	senate := data.ByChamber("senate")
	require.Len(t, senate, 1)
	assert.Equal(t, "Committee on the Judiciary", senate[0].Name)
}

func TestLoadWikipediaDataErrors(t *testing.T) {
	_, err := LoadWikipediaData(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"committees": []}`), 0o644))
	_, err = LoadWikipediaData(empty)
	assert.Error(t, err)
}

func TestPartyMatches(t *testing.T) {
	assert.True(t, partyMatches("Republican", "republican"))
	assert.True(t, partyMatches(" Democratic ", "Democratic"))
	assert.False(t, partyMatches("Independent", "Republican"))
}
