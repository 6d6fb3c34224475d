package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyScore(t *testing.T) {
	t.Run("identical names score 100", func(t *testing.T) {
		for _, name := range []string{"Bellecôte", "a", "TSD Combe Folle", "Les Menuires"} {
			assert.Equal(t, 100, FuzzyScore(name, name), name)
		}
	})

	t.Run("names equal after normalization score 100", func(t *testing.T) {
		assert.Equal(t, 100, FuzzyScore("Les Cascades", "cascades"))
	})

	t.Run("containment", func(t *testing.T) {
		score := FuzzyScore("TSD Combe Folle", "Combe Folle")
		assert.GreaterOrEqual(t, score, 75)
		assert.Equal(t, 77, score)
	})

	t.Run("containment is symmetric", func(t *testing.T) {
		assert.Equal(t, FuzzyScore("Combe Folle", "TSD Combe Folle"), FuzzyScore("TSD Combe Folle", "Combe Folle"))
	})

	t.Run("short substring scores low", func(t *testing.T) {
		assert.Equal(t, 33, FuzzyScore("Arc", "Arcabulle"))
	})

	t.Run("levenshtein", func(t *testing.T) {
		// kitten -> sitting is 3 edits over 7 characters
		assert.Equal(t, 57, FuzzyScore("kitten", "sitting"))
		// one substitution over 10 characters
		assert.Equal(t, 90, FuzzyScore("Bellecote1", "Bellecote2"))
	})

	t.Run("levenshtein counts code points", func(t *testing.T) {
		// å is not folded; one substitution over 4 characters
		assert.Equal(t, 75, FuzzyScore("påsk", "pask"))
	})

	t.Run("blank names score zero against anything else", func(t *testing.T) {
		assert.Equal(t, 0, FuzzyScore("", "Bellevue"))
		assert.Equal(t, 0, FuzzyScore("Bellevue", "  - "))
	})

	t.Run("score stays in range", func(t *testing.T) {
		pairs := [][2]string{{"a", "zzzzzz"}, {"Grand Col", "Petit Col"}, {"x", "x y z"}}
		for _, p := range pairs {
			score := FuzzyScore(p[0], p[1])
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	})
}
