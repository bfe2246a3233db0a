package reconcile

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// WikipediaCommittee is one committee from the curated reference snapshot.
// Leadership strings carry the "Name (P-ST)" form.
type WikipediaCommittee struct {
	Name          string   `json:"name"`
	Chamber       string   `json:"chamber"`
	Chair         string   `json:"chair,omitempty"`
	RankingMember string   `json:"ranking_member,omitempty"`
	Members       []string `json:"members,omitempty"`
}

// WikipediaData supplements the catalog during reconciliation with named
// chairs and ranking members. The zero value means no snapshot is loaded
// and leadership falls back to the party rule.
type WikipediaData struct {
	Committees []WikipediaCommittee `json:"committees"`
}

// LoadWikipediaData reads the reference snapshot from disk.
func LoadWikipediaData(path string) (WikipediaData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return WikipediaData{}, fmt.Errorf("read reference data: %w", err)
	}
	var data WikipediaData
	if err := json.Unmarshal(raw, &data); err != nil {
		return WikipediaData{}, fmt.Errorf("parse reference data: %w", err)
	}
	if len(data.Committees) == 0 {
		return WikipediaData{}, fmt.Errorf("reference data lists no committees")
	}
	return data, nil
}

// ByChamber groups the snapshot's committees per chamber.
func (d WikipediaData) ByChamber(chamber string) []WikipediaCommittee {
	var out []WikipediaCommittee
	for _, c := range d.Committees {
		if strings.EqualFold(c.Chamber, chamber) {
			out = append(out, c)
		}
	}
	return out
}

// Leader is a parsed leadership string.
type Leader struct {
	Name  string
	Party string
	State string
}

var leaderPattern = regexp.MustCompile(`^(.+?)\s*\(([A-Z])[-–]([A-Z]{2})\)$`)

var partyNames = map[string]string{
	"R": "Republican",
	"D": "Democratic",
	"I": "Independent",
}

// ParseLeader splits "Chuck Grassley (R-IA)" into name, full party name and
// state. Strings without the party suffix come back with just the name.
func ParseLeader(s string) Leader {
	s = strings.TrimSpace(s)
	m := leaderPattern.FindStringSubmatch(s)
	if m == nil {
		return Leader{Name: s}
	}
	party := partyNames[m[2]]
	if party == "" {
		party = m[2]
	}
	return Leader{Name: strings.TrimSpace(m[1]), Party: party, State: m[3]}
}
