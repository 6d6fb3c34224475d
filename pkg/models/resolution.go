package models

import "time"

// KindResolution holds the match results and coverage of one entity kind.
type KindResolution struct {
	Kind           EntityKind     `json:"kind"`
	Results        []MatchResult  `json:"results"`
	Coverage       CoverageReport `json:"coverage"`
	MeetsThreshold bool           `json:"meets_threshold"`
}

// Resolution is the full outcome of resolving one resort's scraped facilities.
type Resolution struct {
	ID        string         `json:"id"`
	ResortID  string         `json:"resort_id,omitempty"`
	ScopeIDs  []string       `json:"scope_ids"`
	Lifts     KindResolution `json:"lifts"`
	Runs      KindResolution `json:"runs"`
	Cached    bool           `json:"cached"`
	CreatedAt time.Time      `json:"created_at"`
}

// Kinds returns the per-kind resolutions in a stable order.
func (r *Resolution) Kinds() []KindResolution {
	return []KindResolution{r.Lifts, r.Runs}
}

// ResolutionRun is a persisted summary of one kind of one resolution.
type ResolutionRun struct {
	ID                 string     `json:"id" db:"id"`
	ResolutionID       string     `json:"resolution_id" db:"resolution_id"`
	ResortID           string     `json:"resort_id" db:"resort_id"`
	ScopeIDs           string     `json:"scope_ids" db:"scope_ids"`
	EntityKind         EntityKind `json:"entity_kind" db:"entity_kind"`
	ReferenceCount     int        `json:"reference_count" db:"reference_count"`
	ExtractedCount     int        `json:"extracted_count" db:"extracted_count"`
	MatchedUniqueCount int        `json:"matched_unique_count" db:"matched_unique_count"`
	UnmappedCount      int        `json:"unmapped_count" db:"unmapped_count"`
	AmbiguousCount     int        `json:"ambiguous_count" db:"ambiguous_count"`
	CoveragePercent    float64    `json:"coverage_percent" db:"coverage_percent"`
	MeetsThreshold     bool       `json:"meets_threshold" db:"meets_threshold"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}
