package models

// CoverageReport summarizes how much of a scoped reference set a batch of
// match results accounts for.
type CoverageReport struct {
	ReferenceCount     int     `json:"reference_count"`
	ExtractedCount     int     `json:"extracted_count"`
	MatchedUniqueCount int     `json:"matched_unique_count"`
	UnmappedCount      int     `json:"unmapped_count"`
	CoveragePercent    float64 `json:"coverage_percent"`

	AmbiguousCount        int               `json:"ambiguous_count"`
	TierCounts            map[MatchTier]int `json:"tier_counts"`
	UnmappedRecords       []string          `json:"unmapped_records"`
	UnmatchedReferenceIDs []string          `json:"unmatched_reference_ids"`
}

// MeetsThreshold reports whether coverage reaches minPercent.
func (r CoverageReport) MeetsThreshold(minPercent float64) bool {
	return r.CoveragePercent >= minPercent
}
