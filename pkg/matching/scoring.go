package matching

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"github.com/Ramsey-B/edelweiss/pkg/normalizers"
)

// MaxScore is the score of two names that normalize to the same key.
const MaxScore = 100

// FuzzyScore returns the similarity of two raw facility names on a 0-100 scale.
// Both names are normalized before comparison.
func FuzzyScore(a, b string) int {
	return scoreNormalized(normalizers.Normalize(a), normalizers.Normalize(b))
}

// scoreNormalized scores two already normalized names:
//   - equal names score 100
//   - when one contains the other, the share of the longer name it covers
//   - otherwise 100 scaled by one minus the Levenshtein distance over the longer length
func scoreNormalized(a, b string) int {
	if a == b {
		return MaxScore
	}
	if a == "" || b == "" {
		return 0
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		// Separator spaces come from normalization, not from the name, so they do not count.
		la, lb := contentLength(a), contentLength(b)
		return ratio(min(la, lb), max(la, lb))
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	distance := matchr.Levenshtein(a, b)
	return ratio(longest-distance, longest)
}

func contentLength(s string) int {
	return utf8.RuneCountInString(s) - strings.Count(s, " ")
}

func ratio(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(MaxScore * float64(part) / float64(whole)))
}
