package relate

import (
	"strings"

	"github.com/congress-network/congressx/pkg/db/models"
)

// FindCommitteeForHearing matches an unattached hearing to a committee by
// text: first committee whose full name appears in the hearing title or
// description, then first committee whose content words all appear there.
// Returns nil when no committee matches.
func FindCommitteeForHearing(h models.Hearing, committees []models.Committee) *models.Committee {
	text := strings.ToLower(h.Title)
	if h.Description != nil {
		text += " " + strings.ToLower(*h.Description)
	}

	for i := range committees {
		if strings.Contains(text, strings.ToLower(committees[i].Name)) {
			return &committees[i]
		}
	}

	for i := range committees {
		words := contentWords(committees[i].Name)
		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(text, w) {
				all = false
				break
			}
		}
		if all {
			return &committees[i]
		}
	}
	return nil
}
