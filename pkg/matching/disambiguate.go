package matching

import (
	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

// Disambiguate narrows an ambiguous candidate set using the record's hint.
//
// Candidates whose category attribute agrees with the hint are kept. When the
// hint is absent, there is at most one candidate, or no candidate agrees, every
// candidate id is returned. The result is never empty for non-empty input.
func Disambiguate(candidates []models.ReferenceEntity, hint models.Hint) []string {
	ids := entityIDs(candidates)
	if len(candidates) <= 1 || hint.IsNone() {
		return ids
	}

	filtered := ectolinq.Filter(candidates, hint.Matches)
	if len(filtered) == 0 {
		return ids
	}
	return entityIDs(filtered)
}

func entityIDs(entities []models.ReferenceEntity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	return ids
}
