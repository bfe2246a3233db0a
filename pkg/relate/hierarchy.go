package relate

import (
	"strings"

	"github.com/congress-network/congressx/pkg/db/models"
)

// Name fragments that mark a committee as subordinate to a full committee.
var subcommitteeMarkers = []string{
	"subcommittee",
	"sub-committee",
	"task force",
	"working group",
	"panel",
}

// Words too common in committee names to carry matching signal.
var stopWords = map[string]struct{}{
	"committee":    {},
	"subcommittee": {},
	"on":           {},
	"the":          {},
	"and":          {},
	"of":           {},
	"for":          {},
	"in":           {},
}

// IsSubcommitteeName reports whether a committee name marks a subordinate
// body rather than a full committee.
func IsSubcommitteeName(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range subcommitteeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// contentWords returns the lowercased words of a name with stop words
// removed.
func contentWords(name string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(name)) {
		w = strings.Trim(w, ",.:;()")
		if w == "" {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}

// wordOverlap returns the fraction of a's content words also present in b.
func wordOverlap(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, w := range b {
		set[w] = struct{}{}
	}
	hits := 0
	for _, w := range a {
		if _, ok := set[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(a))
}

// FindParent picks the parent for a subcommittee from the same-chamber full
// committees: first one whose name contains the subcommittee's name, then
// first one sharing at least minOverlap of the subcommittee's content
// words. Returns nil when nothing qualifies.
func FindParent(sub models.Committee, candidates []models.Committee, minOverlap float64) *models.Committee {
	subLower := strings.ToLower(sub.Name)
	subWords := contentWords(sub.Name)

	for i := range candidates {
		cand := &candidates[i]
		if cand.ID == sub.ID || cand.Chamber != sub.Chamber || IsSubcommitteeName(cand.Name) {
			continue
		}
		if strings.Contains(strings.ToLower(cand.Name), subLower) || strings.Contains(subLower, strings.ToLower(cand.Name)) {
			return cand
		}
	}

	for i := range candidates {
		cand := &candidates[i]
		if cand.ID == sub.ID || cand.Chamber != sub.Chamber || IsSubcommitteeName(cand.Name) {
			continue
		}
		if wordOverlap(subWords, contentWords(cand.Name)) >= minOverlap {
			return cand
		}
	}
	return nil
}
