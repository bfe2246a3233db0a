package expect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSuitesCoverPromotedTables(t *testing.T) {
	suites := BuiltinSuites()
	for _, table := range []string{"members", "committees", "hearings"} {
		suite, ok := suites[table]
		require.True(t, ok, table)
		assert.Equal(t, table, suite.Table)
		assert.NotEmpty(t, suite.Expectations)
	}
}

// expectationFor pulls one expectation out of a suite by kind and column.
func expectationFor(t *testing.T, s Suite, kind, column string) Expectation {
	t.Helper()
	for _, e := range s.Expectations {
		if e.Kind == kind && e.Column == column {
			return e
		}
	}
	t.Fatalf("suite %s has no %s expectation on %q", s.Name, kind, column)
	return Expectation{}
}

func TestMemberSuiteAcceptsMinorParties(t *testing.T) {
	party := expectationFor(t, BuiltinSuites()["members"], KindInSet, "party")

	data := TableData{Columns: []string{"party"}, Rows: []map[string]any{
		{"party": "Libertarian"},
		{"party": "Green"},
		{"party": "Other"},
		{"party": "Independent"},
	}}
	assert.True(t, party.Evaluate(data).Success)

	data.Rows = append(data.Rows, map[string]any{"party": "Whig"})
	res := party.Evaluate(data)
	assert.False(t, res.Success)
	assert.Contains(t, res.Detail, "Whig")
}

func TestCommitteeSuiteCatchesStructuralDefects(t *testing.T) {
	suite := BuiltinSuites()["committees"]
	rows := []map[string]any{
		{"id": int64(1), "name": "Committee on Finance", "chamber": "Senate",
			"committee_type": "Standing", "is_subcommittee": false, "parent_committee_id": nil},
		{"id": int64(1), "name": "Committee on the Budget", "chamber": "Senate",
			"committee_type": "bogus-type", "is_subcommittee": true, "parent_committee_id": nil},
	}
	data := TableData{
		Columns: []string{"id", "name", "chamber", "committee_type", "is_subcommittee", "parent_committee_id"},
		Rows:    rows,
	}

	assert.False(t, expectationFor(t, suite, KindUnique, "id").Evaluate(data).Success,
		"duplicate surrogate id must fail")
	assert.False(t, expectationFor(t, suite, KindInSet, "committee_type").Evaluate(data).Success,
		"type outside the known set must fail")
	assert.False(t, expectationFor(t, suite, KindNotNullWhen, "parent_committee_id").Evaluate(data).Success,
		"subcommittee without a parent must fail")

	rows[1]["id"] = int64(2)
	rows[1]["committee_type"] = "Subcommittee"
	rows[1]["parent_committee_id"] = int64(1)
	for _, e := range []Expectation{
		expectationFor(t, suite, KindUnique, "id"),
		expectationFor(t, suite, KindInSet, "committee_type"),
		expectationFor(t, suite, KindNotNullWhen, "parent_committee_id"),
		expectationFor(t, suite, KindNullWhen, "parent_committee_id"),
	} {
		assert.True(t, e.Evaluate(data).Success, e.Name())
	}
}

func TestHearingSuiteRequiresIDsAndCommittee(t *testing.T) {
	suite := BuiltinSuites()["hearings"]
	data := TableData{
		Columns: []string{"id", "title", "committee_id"},
		Rows: []map[string]any{
			{"id": int64(10), "title": "Oversight of the Federal Reserve", "committee_id": int64(3)},
			{"id": int64(10), "title": "Farm Bill Reauthorization", "committee_id": nil},
		},
	}

	assert.False(t, expectationFor(t, suite, KindUnique, "id").Evaluate(data).Success)
	assert.False(t, expectationFor(t, suite, KindNotNull, "committee_id").Evaluate(data).Success)

	data.Rows[1]["id"] = int64(11)
	data.Rows[1]["committee_id"] = int64(4)
	assert.True(t, expectationFor(t, suite, KindUnique, "id").Evaluate(data).Success)
	assert.True(t, expectationFor(t, suite, KindNotNull, "committee_id").Evaluate(data).Success)
}

func TestLoadSuitesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suites.yaml")
	payload := `
suites:
  - name: strict_committees
    table: committees
    expectations:
      - kind: row_count_to_be_between
        min_rows: 40
        max_rows: 60
  - table: witnesses
    expectations:
      - kind: values_to_not_be_null
        column: name
`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	suites, err := LoadSuites(path)
	require.NoError(t, err)

	// Overridden table replaces the builtin wholesale.
	committees := suites["committees"]
	assert.Equal(t, "strict_committees", committees.Name)
	require.Len(t, committees.Expectations, 1)
	require.NotNil(t, committees.Expectations[0].MinRows)
	assert.Equal(t, 40, *committees.Expectations[0].MinRows)

	// New table gets a default name; untouched builtins survive.
	assert.Equal(t, "witnesses_suite", suites["witnesses"].Name)
	assert.Equal(t, "member_suite", suites["members"].Name)
}

func TestLoadSuitesEmptyPathReturnsBuiltins(t *testing.T) {
	suites, err := LoadSuites("")
	require.NoError(t, err)
	assert.Len(t, suites, len(BuiltinSuites()))
}

func TestLoadSuitesRejectsMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suites.yaml")
	require.NoError(t, os.WriteFile(path, []byte("suites:\n  - name: orphan\n"), 0o644))
	_, err := LoadSuites(path)
	assert.Error(t, err)
}
