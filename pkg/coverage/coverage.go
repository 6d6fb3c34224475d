// Package coverage measures how much of a reference set a batch of match results accounts for.
package coverage

import (
	"github.com/Ramsey-B/edelweiss/pkg/models"
)

// Aggregate summarizes match results against the reference entities they were matched against.
//
// Matched ids are counted once each and only when they belong to the reference
// set, so CoveragePercent stays within [0, 100]. An empty reference set yields 0.
func Aggregate(results []models.MatchResult, reference []models.ReferenceEntity) models.CoverageReport {
	refIDs := make(map[string]struct{}, len(reference))
	for _, e := range reference {
		refIDs[e.ID] = struct{}{}
	}

	report := models.CoverageReport{
		ReferenceCount:        len(refIDs),
		ExtractedCount:        len(results),
		TierCounts:            make(map[models.MatchTier]int, len(models.MatchTiers)),
		UnmappedRecords:       []string{},
		UnmatchedReferenceIDs: []string{},
	}
	for _, tier := range models.MatchTiers {
		report.TierCounts[tier] = 0
	}

	matched := make(map[string]struct{}, len(refIDs))
	for _, r := range results {
		tier := r.Tier
		if tier == "" {
			tier = models.MatchTierNone
		}
		report.TierCounts[tier]++

		if !r.Matched() {
			report.UnmappedCount++
			report.UnmappedRecords = append(report.UnmappedRecords, r.Record.Name)
			continue
		}
		if r.Ambiguous() {
			report.AmbiguousCount++
		}
		for _, id := range r.IDs {
			if _, ok := refIDs[id]; ok {
				matched[id] = struct{}{}
			}
		}
	}
	report.MatchedUniqueCount = len(matched)

	seen := make(map[string]struct{}, len(reference))
	for _, e := range reference {
		if _, ok := matched[e.ID]; ok {
			continue
		}
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		report.UnmatchedReferenceIDs = append(report.UnmatchedReferenceIDs, e.ID)
	}

	report.CoveragePercent = Percent(report.MatchedUniqueCount, report.ReferenceCount)
	return report
}

// Percent returns matched as a percentage of total, or 0 when total is 0.
func Percent(matched, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(matched) * 100 / float64(total)
	return min(max(p, 0), 100)
}
