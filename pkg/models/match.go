package models

// MatchTier records which stage of the cascade produced a match.
type MatchTier string

const (
	MatchTierExact      MatchTier = "exact"
	MatchTierNormalized MatchTier = "normalized"
	MatchTierFuzzy      MatchTier = "fuzzy"
	MatchTierNone       MatchTier = "none"
)

// MatchTiers lists the tiers in cascade order.
var MatchTiers = []MatchTier{MatchTierExact, MatchTierNormalized, MatchTierFuzzy, MatchTierNone}

// MatchResult is the outcome of resolving one extracted record.
// An empty IDs slice means unmatched; more than one id means ambiguous.
type MatchResult struct {
	Record ExtractedRecord `json:"record"`
	IDs    []string        `json:"ids"`
	Tier   MatchTier       `json:"tier"`
	Status Status          `json:"status"`
}

// Matched reports whether at least one reference id was found.
func (r MatchResult) Matched() bool {
	return len(r.IDs) > 0
}

// Ambiguous reports whether the record resolved to more than one reference id.
func (r MatchResult) Ambiguous() bool {
	return len(r.IDs) > 1
}
