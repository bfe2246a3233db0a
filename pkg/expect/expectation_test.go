package expect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberData(rows ...map[string]any) TableData {
	return TableData{
		Columns: []string{"bioguide_id", "first_name", "last_name", "party", "chamber", "state", "term_start", "term_end"},
		Rows:    rows,
	}
}

func validMember(bioguide, state string) map[string]any {
	return map[string]any{
		"bioguide_id": bioguide,
		"first_name":  "Pat",
		"last_name":   "Doe",
		"party":       "Republican",
		"chamber":     "House",
		"state":       state,
		"term_start":  time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		"term_end":    nil,
	}
}

func TestColumnsSubset(t *testing.T) {
	e := Expectation{Kind: KindColumnsSubset, Set: []string{"bioguide_id", "party"}}
	assert.True(t, e.Evaluate(memberData()).Success)

	e = Expectation{Kind: KindColumnsSubset, Set: []string{"bioguide_id", "favorite_color"}}
	res := e.Evaluate(memberData())
	assert.False(t, res.Success)
	assert.Contains(t, res.Detail, "favorite_color")
}

func TestUnique(t *testing.T) {
	e := Expectation{Kind: KindUnique, Column: "bioguide_id"}
	ok := memberData(validMember("A000001", "IA"), validMember("A000002", "IL"))
	assert.True(t, e.Evaluate(ok).Success)

	dup := memberData(validMember("A000001", "IA"), validMember("A000001", "IL"))
	res := e.Evaluate(dup)
	assert.False(t, res.Success)
	assert.Contains(t, res.Detail, "1 duplicated")
}

func TestNotNull(t *testing.T) {
	e := Expectation{Kind: KindNotNull, Column: "bioguide_id"}
	bad := validMember("", "IA")
	res := e.Evaluate(memberData(validMember("A000001", "IA"), bad))
	assert.False(t, res.Success)
	assert.Contains(t, res.Detail, "1 null")
}

func TestNotNullWhen(t *testing.T) {
	e := Expectation{Kind: KindNotNullWhen, Column: "district", When: "chamber", Equals: "House"}

	rep := validMember("A000001", "IA")
	rep["district"] = int32(3)
	assert.True(t, e.Evaluate(memberData(rep)).Success)

	bad := validMember("A000002", "IA")
	res := e.Evaluate(memberData(rep, bad))
	assert.False(t, res.Success)
	assert.Contains(t, res.Detail, "1 null values in district where chamber=House")

	// Senators are exempt from the House-side rule.
	sen := validMember("A000003", "IA")
	sen["chamber"] = "Senate"
	assert.True(t, e.Evaluate(memberData(sen)).Success)
}

func TestNullWhen(t *testing.T) {
	e := Expectation{Kind: KindNullWhen, Column: "district", When: "chamber", Equals: "Senate"}

	sen := validMember("A000001", "IA")
	sen["chamber"] = "Senate"
	assert.True(t, e.Evaluate(memberData(sen)).Success)

	bad := validMember("A000002", "IA")
	bad["chamber"] = "Senate"
	bad["district"] = int32(2)
	res := e.Evaluate(memberData(sen, bad))
	assert.False(t, res.Success)
	assert.Contains(t, res.Detail, "1 non-null values in district where chamber=Senate")
}

func TestInSet(t *testing.T) {
	e := Expectation{Kind: KindInSet, Column: "party", Set: []string{"Republican", "Democratic", "Independent"}}
	m := validMember("A000001", "IA")
	m["party"] = "Whig"
	res := e.Evaluate(memberData(m))
	assert.False(t, res.Success)
	assert.Contains(t, res.Detail, "Whig")

	// Nulls are the not-null expectation's business.
	m["party"] = nil
	assert.True(t, e.Evaluate(memberData(m)).Success)
}

func TestMatchRegex(t *testing.T) {
	e := Expectation{Kind: KindMatchRegex, Column: "state", Pattern: "^[A-Z]{2}$"}
	assert.True(t, e.Evaluate(memberData(validMember("A000001", "IA"))).Success)
	assert.False(t, e.Evaluate(memberData(validMember("A000001", "Iowa"))).Success)

	broken := Expectation{Kind: KindMatchRegex, Column: "state", Pattern: "(["}
	assert.False(t, broken.Evaluate(memberData()).Success)
}

func TestBetweenDates(t *testing.T) {
	e := Expectation{Kind: KindBetweenDates, Column: "term_start", MinDate: "1900-01-01", MaxDate: "2030-12-31"}
	assert.True(t, e.Evaluate(memberData(validMember("A000001", "IA"))).Success)

	old := validMember("A000002", "IA")
	old["term_start"] = time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, e.Evaluate(memberData(old)).Success)

	// Null dates pass; presence is checked separately.
	assert.True(t, e.Evaluate(memberData(validMember("A000003", "IA"))).Success)
}

func TestRowCount(t *testing.T) {
	e := Expectation{Kind: KindRowCount, MinRows: intPtr(2), MaxRows: intPtr(3)}
	assert.False(t, e.Evaluate(memberData(validMember("A", "IA"))).Success)
	assert.True(t, e.Evaluate(memberData(validMember("A", "IA"), validMember("B", "IL"))).Success)

	four := memberData(validMember("A", "IA"), validMember("B", "IL"), validMember("C", "WI"), validMember("D", "MN"))
	assert.False(t, e.Evaluate(four).Success)
}

func TestUnknownKind(t *testing.T) {
	e := Expectation{Kind: "values_to_be_lucky"}
	res := e.Evaluate(memberData())
	assert.False(t, res.Success)
	assert.Contains(t, res.Detail, "unknown expectation kind")
}

func TestEvaluateSuiteCounts(t *testing.T) {
	suite := BuiltinSuites()["committees"]
	data := TableData{
		Columns: []string{"name", "chamber", "committee_type", "is_active"},
	}
	for i := 0; i < 25; i++ {
		data.Rows = append(data.Rows, map[string]any{
			"name":           "Committee " + string(rune('A'+i)),
			"chamber":        "House",
			"committee_type": "Standing",
			"is_active":      true,
		})
	}

	results := EvaluateSuite(suite, data)
	require.Len(t, results, len(suite.Expectations))
	for _, r := range results {
		assert.True(t, r.Success, r.Expectation)
	}
}
