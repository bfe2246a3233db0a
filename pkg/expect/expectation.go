// Package expect validates staging tables against declarative expectation
// suites before any promotion is allowed.
package expect

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Expectation kinds.
const (
	KindColumnsSubset  = "columns_to_match_set"
	KindUnique         = "values_to_be_unique"
	KindNotNull        = "values_to_not_be_null"
	KindNotNullWhen    = "values_to_not_be_null_when"
	KindNullWhen       = "values_to_be_null_when"
	KindInSet          = "values_to_be_in_set"
	KindMatchRegex     = "values_to_match_regex"
	KindBetweenDates   = "values_to_be_between_dates"
	KindBetweenNumbers = "values_to_be_between"
	KindRowCount       = "row_count_to_be_between"
)

// Expectation is one declarative check against a table.
type Expectation struct {
	Kind   string `yaml:"kind" json:"kind"`
	Column string `yaml:"column,omitempty" json:"column,omitempty"`

	Set     []string `yaml:"set,omitempty" json:"set,omitempty"`
	Pattern string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// When/Equals restrict the conditional null kinds to rows where
	// another column holds a given value.
	When   string `yaml:"when,omitempty" json:"when,omitempty"`
	Equals string `yaml:"equals,omitempty" json:"equals,omitempty"`

	MinDate string `yaml:"min_date,omitempty" json:"min_date,omitempty"`
	MaxDate string `yaml:"max_date,omitempty" json:"max_date,omitempty"`

	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`

	MinRows *int `yaml:"min_rows,omitempty" json:"min_rows,omitempty"`
	MaxRows *int `yaml:"max_rows,omitempty" json:"max_rows,omitempty"`
}

// Name is the identifier used in results and the data docs.
func (e Expectation) Name() string {
	if e.Column == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s.%s", e.Column, e.Kind)
}

// TableData is an in-memory snapshot of a table, the unit an expectation
// evaluates against.
type TableData struct {
	Columns []string
	Rows    []map[string]any
}

// Result is the outcome of one expectation.
type Result struct {
	Expectation string `json:"expectation"`
	Success     bool   `json:"success"`
	Detail      string `json:"detail,omitempty"`
}

// Evaluate runs one expectation against a table snapshot.
func (e Expectation) Evaluate(data TableData) Result {
	res := Result{Expectation: e.Name(), Success: true}

	switch e.Kind {
	case KindColumnsSubset:
		have := make(map[string]struct{}, len(data.Columns))
		for _, c := range data.Columns {
			have[c] = struct{}{}
		}
		var missing []string
		for _, want := range e.Set {
			if _, ok := have[want]; !ok {
				missing = append(missing, want)
			}
		}
		if len(missing) > 0 {
			res.Success = false
			res.Detail = "missing columns: " + strings.Join(missing, ", ")
		}

	case KindRowCount:
		n := len(data.Rows)
		if e.MinRows != nil && n < *e.MinRows {
			res.Success = false
			res.Detail = fmt.Sprintf("row count %d below minimum %d", n, *e.MinRows)
		}
		if e.MaxRows != nil && n > *e.MaxRows {
			res.Success = false
			res.Detail = fmt.Sprintf("row count %d above maximum %d", n, *e.MaxRows)
		}

	case KindUnique:
		seen := map[string]int{}
		dupes := 0
		for _, row := range data.Rows {
			v, ok := stringValue(row[e.Column])
			if !ok {
				continue
			}
			seen[v]++
			if seen[v] == 2 {
				dupes++
			}
		}
		if dupes > 0 {
			res.Success = false
			res.Detail = fmt.Sprintf("%d duplicated values in %s", dupes, e.Column)
		}

	case KindNotNull:
		nulls := 0
		for _, row := range data.Rows {
			if isNull(row[e.Column]) {
				nulls++
			}
		}
		if nulls > 0 {
			res.Success = false
			res.Detail = fmt.Sprintf("%d null values in %s", nulls, e.Column)
		}

	case KindNotNullWhen:
		nulls := 0
		for _, row := range data.Rows {
			if cond, ok := stringValue(row[e.When]); !ok || cond != e.Equals {
				continue
			}
			if isNull(row[e.Column]) {
				nulls++
			}
		}
		if nulls > 0 {
			res.Success = false
			res.Detail = fmt.Sprintf("%d null values in %s where %s=%s", nulls, e.Column, e.When, e.Equals)
		}

	case KindNullWhen:
		set := 0
		for _, row := range data.Rows {
			if cond, ok := stringValue(row[e.When]); !ok || cond != e.Equals {
				continue
			}
			if !isNull(row[e.Column]) {
				set++
			}
		}
		if set > 0 {
			res.Success = false
			res.Detail = fmt.Sprintf("%d non-null values in %s where %s=%s", set, e.Column, e.When, e.Equals)
		}

	case KindInSet:
		allowed := make(map[string]struct{}, len(e.Set))
		for _, v := range e.Set {
			allowed[v] = struct{}{}
		}
		bad := 0
		var sample string
		for _, row := range data.Rows {
			v, ok := stringValue(row[e.Column])
			if !ok {
				continue
			}
			if _, found := allowed[v]; !found {
				bad++
				if sample == "" {
					sample = v
				}
			}
		}
		if bad > 0 {
			res.Success = false
			res.Detail = fmt.Sprintf("%d values outside set in %s (e.g. %q)", bad, e.Column, sample)
		}

	case KindMatchRegex:
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			return Result{Expectation: e.Name(), Success: false, Detail: "invalid pattern: " + err.Error()}
		}
		bad := 0
		for _, row := range data.Rows {
			v, ok := stringValue(row[e.Column])
			if !ok {
				continue
			}
			if !re.MatchString(v) {
				bad++
			}
		}
		if bad > 0 {
			res.Success = false
			res.Detail = fmt.Sprintf("%d values not matching %s in %s", bad, e.Pattern, e.Column)
		}

	case KindBetweenDates:
		min, minErr := time.Parse("2006-01-02", e.MinDate)
		max, maxErr := time.Parse("2006-01-02", e.MaxDate)
		if minErr != nil || maxErr != nil {
			return Result{Expectation: e.Name(), Success: false, Detail: "invalid date bounds"}
		}
		bad := 0
		for _, row := range data.Rows {
			t, ok := timeValue(row[e.Column])
			if !ok {
				continue
			}
			if t.Before(min) || t.After(max) {
				bad++
			}
		}
		if bad > 0 {
			res.Success = false
			res.Detail = fmt.Sprintf("%d dates outside [%s, %s] in %s", bad, e.MinDate, e.MaxDate, e.Column)
		}

	case KindBetweenNumbers:
		bad := 0
		for _, row := range data.Rows {
			f, ok := floatValue(row[e.Column])
			if !ok {
				continue
			}
			if e.Min != nil && f < *e.Min || e.Max != nil && f > *e.Max {
				bad++
			}
		}
		if bad > 0 {
			res.Success = false
			res.Detail = fmt.Sprintf("%d values out of range in %s", bad, e.Column)
		}

	default:
		res.Success = false
		res.Detail = "unknown expectation kind " + e.Kind
	}

	return res
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case *string:
		return t == nil || *t == ""
	case *time.Time:
		return t == nil
	case *int:
		return t == nil
	case *int64:
		return t == nil
	}
	return false
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case *string:
		if t == nil {
			return "", false
		}
		return *t, *t != ""
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", t), true
	}
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse("2006-01-02", t)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, t)
		}
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case *int:
		if t == nil {
			return 0, false
		}
		return float64(*t), true
	case *int64:
		if t == nil {
			return 0, false
		}
		return float64(*t), true
	default:
		return 0, false
	}
}
