package resolve

import (
	"strings"
)

// stateAbbreviations maps full state names to the two-letter postal codes
// used in the members table. Territories and DC are included since both
// chambers seat delegates from them.
var stateAbbreviations = map[string]string{
	"Alabama": "AL", "Alaska": "AK", "Arizona": "AZ", "Arkansas": "AR",
	"California": "CA", "Colorado": "CO", "Connecticut": "CT", "Delaware": "DE",
	"Florida": "FL", "Georgia": "GA", "Hawaii": "HI", "Idaho": "ID",
	"Illinois": "IL", "Indiana": "IN", "Iowa": "IA", "Kansas": "KS",
	"Kentucky": "KY", "Louisiana": "LA", "Maine": "ME", "Maryland": "MD",
	"Massachusetts": "MA", "Michigan": "MI", "Minnesota": "MN", "Mississippi": "MS",
	"Missouri": "MO", "Montana": "MT", "Nebraska": "NE", "Nevada": "NV",
	"New Hampshire": "NH", "New Jersey": "NJ", "New Mexico": "NM", "New York": "NY",
	"North Carolina": "NC", "North Dakota": "ND", "Ohio": "OH", "Oklahoma": "OK",
	"Oregon": "OR", "Pennsylvania": "PA", "Rhode Island": "RI", "South Carolina": "SC",
	"South Dakota": "SD", "Tennessee": "TN", "Texas": "TX", "Utah": "UT",
	"Vermont": "VT", "Virginia": "VA", "Washington": "WA", "West Virginia": "WV",
	"Wisconsin": "WI", "Wyoming": "WY",
	"District of Columbia": "DC", "Puerto Rico": "PR", "Virgin Islands": "VI",
	"Guam": "GU", "American Samoa": "AS", "Northern Mariana Islands": "MP",
}

// StateAbbreviation converts a full state name to its two-letter code.
// Already-abbreviated input passes through; unknown names return "".
func StateAbbreviation(state string) string {
	if state == "" {
		return ""
	}
	if len(state) == 2 && state == strings.ToUpper(state) {
		return state
	}
	return stateAbbreviations[strings.TrimSpace(state)]
}

// ChamberName normalizes a chamber designation. "House of Representatives"
// and "house" both map to "House"; unrecognized values are title-cased.
func ChamberName(chamber string) string {
	if chamber == "" {
		return "Unknown"
	}
	lower := strings.ToLower(chamber)
	switch {
	case strings.Contains(lower, "house"):
		return "House"
	case strings.Contains(lower, "senate"):
		return "Senate"
	case strings.Contains(lower, "joint"):
		return "Joint"
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// ParsedName holds the components of a compound member name.
type ParsedName struct {
	First  string
	Last   string
	Middle string
}

// ParseMemberName splits the upstream compound form "Ramirez, Delia C."
// into components. Names without a comma fall back to positional parsing.
func ParseMemberName(full string) ParsedName {
	var p ParsedName
	full = strings.TrimSpace(full)
	if full == "" {
		return p
	}

	if last, rest, found := strings.Cut(full, ","); found {
		p.Last = strings.TrimSpace(last)
		parts := strings.Fields(rest)
		if len(parts) > 0 {
			p.First = parts[0]
			if len(parts) > 1 {
				p.Middle = strings.Join(parts[1:], " ")
			}
		}
		return p
	}

	parts := strings.Fields(full)
	if len(parts) > 0 {
		p.First = parts[0]
		if len(parts) > 1 {
			p.Last = parts[len(parts)-1]
			if len(parts) > 2 {
				p.Middle = strings.Join(parts[1:len(parts)-1], " ")
			}
		}
	}
	return p
}

// SimplifyCommitteeName lowers a committee name and strips the
// "Committee on" boilerplate for second-pass fuzzy comparison.
func SimplifyCommitteeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "committee on ", "")
	s = strings.ReplaceAll(s, "committee ", "")
	return strings.TrimSpace(s)
}
