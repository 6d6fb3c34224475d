// Package matching resolves extracted facility names against reference entities.
//
// Matching is a strict cascade: exact (case-insensitive) name equality, then
// normalized name equality, then fuzzy similarity. The first tier that finds
// any candidate wins. Ambiguous results are narrowed with the record's hint.
package matching

import (
	"strings"

	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/normalizers"
)

// Config contains configuration for the matching engine.
type Config struct {
	FuzzyThreshold int // Minimum fuzzy score to accept a candidate (default: 75)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold: 75,
	}
}

// Engine matches records against a fixed candidate pool. The lookups are
// built once, so an Engine is cheap to reuse across many records and safe
// for concurrent use.
type Engine struct {
	cfg        Config
	candidates []models.ReferenceEntity
	normalized []string
	exact      map[string][]int
	byNorm     map[string][]int
}

// NewEngine indexes the candidate pool. Candidates with a duplicate id are
// ignored after the first; candidates whose name normalizes to nothing are
// never matched.
func NewEngine(candidates []models.ReferenceEntity, cfg Config) *Engine {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = DefaultConfig().FuzzyThreshold
	}

	e := &Engine{
		cfg:        cfg,
		candidates: make([]models.ReferenceEntity, 0, len(candidates)),
		normalized: make([]string, 0, len(candidates)),
		exact:      make(map[string][]int, len(candidates)),
		byNorm:     make(map[string][]int, len(candidates)),
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}

		norm := normalizers.Normalize(c.Name)
		if norm == "" {
			continue
		}

		idx := len(e.candidates)
		e.candidates = append(e.candidates, c)
		e.normalized = append(e.normalized, norm)
		key := exactKey(c.Name)
		e.exact[key] = append(e.exact[key], idx)
		e.byNorm[norm] = append(e.byNorm[norm], idx)
	}

	return e
}

// Match is a convenience for resolving a single record against a candidate pool.
func Match(record models.ExtractedRecord, candidates []models.ReferenceEntity) models.MatchResult {
	return NewEngine(candidates, DefaultConfig()).Match(record)
}

// Len returns the number of matchable candidates.
func (e *Engine) Len() int {
	return len(e.candidates)
}

// Match resolves a record to reference ids and narrows ambiguous results with its hint.
func (e *Engine) Match(record models.ExtractedRecord) models.MatchResult {
	matches, tier := e.cascade(record.Name)

	ids := Disambiguate(matches, record.Hint)

	return models.MatchResult{
		Record: record,
		IDs:    ids,
		Tier:   tier,
	}
}

// MatchAll resolves every record, preserving input order.
func (e *Engine) MatchAll(records []models.ExtractedRecord) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(records))
	for _, r := range records {
		results = append(results, e.Match(r))
	}
	return results
}

func (e *Engine) cascade(name string) ([]models.ReferenceEntity, models.MatchTier) {
	norm := normalizers.Normalize(name)
	if norm == "" {
		return nil, models.MatchTierNone
	}

	if idx, ok := e.exact[exactKey(name)]; ok {
		return e.pick(idx), models.MatchTierExact
	}

	if idx, ok := e.byNorm[norm]; ok {
		return e.pick(idx), models.MatchTierNormalized
	}

	var idx []int
	for i, candidateNorm := range e.normalized {
		if scoreNormalized(norm, candidateNorm) >= e.cfg.FuzzyThreshold {
			idx = append(idx, i)
		}
	}
	if len(idx) > 0 {
		return e.pick(idx), models.MatchTierFuzzy
	}

	return nil, models.MatchTierNone
}

func (e *Engine) pick(idx []int) []models.ReferenceEntity {
	out := make([]models.ReferenceEntity, len(idx))
	for i, j := range idx {
		out[i] = e.candidates[j]
	}
	return out
}

func exactKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
