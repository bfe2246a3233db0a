package expect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Suite is a named set of expectations bound to one table.
type Suite struct {
	Name         string        `yaml:"name" json:"name"`
	Table        string        `yaml:"table" json:"table"`
	Expectations []Expectation `yaml:"expectations" json:"expectations"`
}

func intPtr(n int) *int { return &n }

// BuiltinSuites returns the default suite per table. These mirror the
// shape the ingest pipeline guarantees; a failing suite means ingestion
// went wrong, not that Congress changed size.
func BuiltinSuites() map[string]Suite {
	return map[string]Suite{
		"members": {
			Name:  "member_suite",
			Table: "members",
			Expectations: []Expectation{
				{Kind: KindColumnsSubset, Set: []string{
					"bioguide_id", "first_name", "last_name", "party", "chamber", "state",
				}},
				{Kind: KindNotNull, Column: "bioguide_id"},
				{Kind: KindUnique, Column: "bioguide_id"},
				{Kind: KindNotNull, Column: "last_name"},
				{Kind: KindInSet, Column: "party", Set: []string{
					"Republican", "Democratic", "Independent", "Libertarian", "Green", "Other",
				}},
				{Kind: KindInSet, Column: "chamber", Set: []string{"House", "Senate"}},
				{Kind: KindMatchRegex, Column: "state", Pattern: "^[A-Z]{2}$"},
				{Kind: KindNotNullWhen, Column: "district", When: "chamber", Equals: "House"},
				{Kind: KindNullWhen, Column: "district", When: "chamber", Equals: "Senate"},
				{Kind: KindBetweenDates, Column: "term_start", MinDate: "1900-01-01", MaxDate: "2030-12-31"},
				{Kind: KindBetweenDates, Column: "term_end", MinDate: "1900-01-01", MaxDate: "2030-12-31"},
				{Kind: KindRowCount, MinRows: intPtr(400), MaxRows: intPtr(600)},
			},
		},
		"committees": {
			Name:  "committee_suite",
			Table: "committees",
			Expectations: []Expectation{
				{Kind: KindColumnsSubset, Set: []string{"id", "name", "chamber", "committee_type", "is_active"}},
				{Kind: KindUnique, Column: "id"},
				{Kind: KindNotNull, Column: "name"},
				{Kind: KindInSet, Column: "chamber", Set: []string{"House", "Senate", "Joint"}},
				{Kind: KindInSet, Column: "committee_type", Set: []string{
					"Standing", "Subcommittee", "Select", "Joint", "Special",
				}},
				{Kind: KindNotNullWhen, Column: "parent_committee_id", When: "is_subcommittee", Equals: "true"},
				{Kind: KindNullWhen, Column: "parent_committee_id", When: "is_subcommittee", Equals: "false"},
				{Kind: KindRowCount, MinRows: intPtr(20), MaxRows: intPtr(200)},
			},
		},
		"hearings": {
			Name:  "hearing_suite",
			Table: "hearings",
			Expectations: []Expectation{
				{Kind: KindColumnsSubset, Set: []string{"id", "title", "committee_id", "status", "scheduled_date"}},
				{Kind: KindUnique, Column: "id"},
				{Kind: KindNotNull, Column: "title"},
				{Kind: KindNotNull, Column: "committee_id"},
				{Kind: KindInSet, Column: "status", Set: []string{"Scheduled", "Completed", "Postponed", "Cancelled"}},
				{Kind: KindBetweenDates, Column: "scheduled_date", MinDate: "1900-01-01", MaxDate: "2030-12-31"},
				{Kind: KindRowCount, MinRows: intPtr(0), MaxRows: intPtr(10000)},
			},
		},
	}
}

// SuiteByName finds a suite by its name rather than its table key.
func SuiteByName(suites map[string]Suite, name string) (Suite, bool) {
	for _, s := range suites {
		if s.Name == name {
			return s, true
		}
	}
	return Suite{}, false
}

type suiteFile struct {
	Suites []Suite `yaml:"suites"`
}

// LoadSuites merges suite definitions from a YAML file over the builtins.
// A file suite with the same table replaces the builtin wholesale. An
// empty path returns the builtins unchanged.
func LoadSuites(path string) (map[string]Suite, error) {
	suites := BuiltinSuites()
	if path == "" {
		return suites, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file: %w", err)
	}
	var file suiteFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse suite file: %w", err)
	}

	for _, s := range file.Suites {
		if s.Table == "" {
			return nil, fmt.Errorf("suite %q does not name a table", s.Name)
		}
		if s.Name == "" {
			s.Name = s.Table + "_suite"
		}
		suites[s.Table] = s
	}
	return suites, nil
}
