package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

func entities(ids ...string) []models.ReferenceEntity {
	out := make([]models.ReferenceEntity, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.ReferenceEntity{ID: id, Name: "name " + id, Kind: models.EntityKindLift})
	}
	return out
}

func result(name string, tier models.MatchTier, ids ...string) models.MatchResult {
	if ids == nil {
		ids = []string{}
	}
	return models.MatchResult{Record: models.ExtractedRecord{Name: name}, Tier: tier, IDs: ids}
}

func TestAggregate(t *testing.T) {
	t.Run("empty reference set", func(t *testing.T) {
		report := Aggregate([]models.MatchResult{result("Bellevue", models.MatchTierNone)}, nil)

		assert.Equal(t, 0, report.ReferenceCount)
		assert.Equal(t, 0.0, report.CoveragePercent)
		assert.Equal(t, 1, report.ExtractedCount)
		assert.Equal(t, 1, report.UnmappedCount)
		assert.Equal(t, []string{"Bellevue"}, report.UnmappedRecords)
	})

	t.Run("counts unique matched ids", func(t *testing.T) {
		results := []models.MatchResult{
			result("A", models.MatchTierExact, "1"),
			result("A again", models.MatchTierNormalized, "1"),
			result("Dup", models.MatchTierFuzzy, "2", "3"),
			result("Lost", models.MatchTierNone),
		}

		report := Aggregate(results, entities("1", "2", "3", "4"))

		assert.Equal(t, 4, report.ReferenceCount)
		assert.Equal(t, 4, report.ExtractedCount)
		assert.Equal(t, 3, report.MatchedUniqueCount)
		assert.Equal(t, 1, report.UnmappedCount)
		assert.Equal(t, 1, report.AmbiguousCount)
		assert.Equal(t, 75.0, report.CoveragePercent)
		assert.Equal(t, []string{"4"}, report.UnmatchedReferenceIDs)
		assert.Equal(t, map[models.MatchTier]int{
			models.MatchTierExact:      1,
			models.MatchTierNormalized: 1,
			models.MatchTierFuzzy:      1,
			models.MatchTierNone:       1,
		}, report.TierCounts)
	})

	t.Run("ids outside the reference set do not inflate coverage", func(t *testing.T) {
		results := []models.MatchResult{
			result("A", models.MatchTierExact, "1"),
			result("B", models.MatchTierExact, "elsewhere"),
		}

		report := Aggregate(results, entities("1"))

		assert.Equal(t, 1, report.MatchedUniqueCount)
		assert.Equal(t, 100.0, report.CoveragePercent)
	})

	t.Run("no results", func(t *testing.T) {
		report := Aggregate(nil, entities("1", "2"))

		assert.Equal(t, 0, report.ExtractedCount)
		assert.Equal(t, 0.0, report.CoveragePercent)
		assert.Equal(t, []string{"1", "2"}, report.UnmatchedReferenceIDs)
		assert.NotNil(t, report.UnmappedRecords)
	})
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
	assert.Equal(t, 100.0, Percent(5, 4))
	assert.Equal(t, 0.0, Percent(-1, 4))
}

func TestMeetsThreshold(t *testing.T) {
	report := Aggregate([]models.MatchResult{result("A", models.MatchTierExact, "1")}, entities("1", "2", "3", "4", "5"))

	assert.Equal(t, 20.0, report.CoveragePercent)
	assert.True(t, report.MeetsThreshold(20))
	assert.False(t, report.MeetsThreshold(20.5))
}
