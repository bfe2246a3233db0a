package staging

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestTruncateBounds(t *testing.T) {
	s := &Store{Logger: zaptest.NewLogger(t)}

	short := "A routine oversight hearing"
	assert.Equal(t, short, s.truncate("title", short, maxTitleLen))

	long := strings.Repeat("x", maxTitleLen+50)
	got := s.truncate("title", long, maxTitleLen)
	assert.Len(t, got, maxTitleLen)

	assert.Nil(t, truncatePtr(s, "location", nil, maxLocationLen))
	loc := strings.Repeat("y", maxLocationLen+1)
	bounded := truncatePtr(s, "location", &loc, maxLocationLen)
	assert.Len(t, *bounded, maxLocationLen)
	assert.Len(t, loc, maxLocationLen+1, "input is not mutated")
}

func TestTruncatePreservesRuneBoundaries(t *testing.T) {
	s := &Store{Logger: zaptest.NewLogger(t)}

	// "Peña" style names put a two-byte rune right on the cut.
	value := strings.Repeat("x", maxLocationLen-1) + "ñ"
	got := s.truncate("location", value, maxLocationLen)
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, maxLocationLen-1, "partial rune is dropped whole")

	// A multi-byte value exactly at the bound passes through untouched.
	exact := strings.Repeat("é", maxLocationLen/2)
	assert.Equal(t, exact, s.truncate("location", exact, maxLocationLen))
}

func TestBatchSummaryTotal(t *testing.T) {
	b := BatchSummary{Created: 3, Updated: 5, Failed: 1}
	assert.Equal(t, 9, b.Total())
}

func TestTableQualifiesSchema(t *testing.T) {
	s := New(nil, "", 119, zaptest.NewLogger(t))
	assert.Equal(t, `"staging"."members"`, s.table("members"))

	s2 := New(nil, "staging_alt", 119, zaptest.NewLogger(t))
	assert.Equal(t, `"staging_alt"."hearings"`, s2.table("hearings"))
}
