// Package resolver resolves scraped resort facilities against the reference catalog.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Gobusters/ectolinq/ectoparallel"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/edelweiss/pkg/catalog"
	"github.com/Ramsey-B/edelweiss/pkg/coverage"
	"github.com/Ramsey-B/edelweiss/pkg/extractor"
	"github.com/Ramsey-B/edelweiss/pkg/fingerprint"
	"github.com/Ramsey-B/edelweiss/pkg/matching"
	"github.com/Ramsey-B/edelweiss/pkg/metrics"
	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/status"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

// CatalogSource hands out catalogs scoped to a set of scope ids.
type CatalogSource interface {
	Scope(ctx context.Context, scopeIDs ...string) *catalog.Catalog
}

// ScopeRegistry maps resort ids to scope ids.
type ScopeRegistry interface {
	ScopeIDs(resortID string) ([]string, bool)
}

// ResultCache stores resolutions by fingerprint.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.Resolution, bool, error)
	Set(ctx context.Context, key string, resolution *models.Resolution) error
}

// RunRecorder persists resolution summaries.
type RunRecorder interface {
	Record(ctx context.Context, runs []models.ResolutionRun) error
}

// Config contains configuration for the resolver service.
type Config struct {
	FuzzyThreshold     int     // Minimum fuzzy score to accept a candidate (default: 75)
	MinCoveragePercent float64 // Coverage below which a kind is flagged (default: 20)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:     matching.DefaultConfig().FuzzyThreshold,
		MinCoveragePercent: 20,
	}
}

// Service resolves requests end to end: scope lookup, extraction, matching,
// status normalization and coverage. The cache and recorder are optional.
type Service struct {
	log       ectologger.Logger
	catalogs  CatalogSource
	registry  ScopeRegistry
	cache     ResultCache
	recorder  RunRecorder
	extractor *extractor.Extractor
	cfg       Config
	now       func() time.Time
}

// NewService creates a new resolver service. cache and recorder may be nil.
func NewService(
	log ectologger.Logger,
	catalogs CatalogSource,
	registry ScopeRegistry,
	cache ResultCache,
	recorder RunRecorder,
	cfg Config,
) *Service {
	return &Service{
		log:       log,
		catalogs:  catalogs,
		registry:  registry,
		cache:     cache,
		recorder:  recorder,
		extractor: extractor.New(),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Resolve matches the request's lifts and runs against the catalog of its scope.
func (s *Service) Resolve(ctx context.Context, req Request) (*models.Resolution, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Service.Resolve", attribute.String("resort_id", req.ResortID))
	defer span.End()

	start := s.now()
	log := s.log.WithContext(ctx).WithFields(map[string]any{
		"resort_id": req.ResortID,
	})

	scopeIDs, err := s.scopeIDs(req)
	if err != nil {
		tracing.Fail(span, err)
		metrics.RecordResolution("rejected", s.now().Sub(start).Seconds())
		return nil, err
	}
	log = log.WithField("scope_ids", scopeIDs)

	lifts, runs := req.Lifts, req.Runs
	if len(req.Payload) > 0 && req.Extraction != nil {
		extractedLifts, extractedRuns, err := s.extractor.ExtractPayload(req.Payload, *req.Extraction)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			tracing.Fail(span, err)
			metrics.RecordResolution("rejected", s.now().Sub(start).Seconds())
			return nil, err
		}
		lifts = append(slices.Clone(lifts), extractedLifts...)
		runs = append(slices.Clone(runs), extractedRuns...)
	}

	lifts = typeHints(lifts, models.EntityKindLift)
	runs = typeHints(runs, models.EntityKindRun)

	key, err := fingerprint.Generate(cacheKey{ScopeIDs: scopeIDs, Lifts: lifts, Runs: runs})
	if err != nil {
		log.WithError(err).Warn("Failed to fingerprint request; skipping cache")
		key = ""
	}

	if cached := s.cached(ctx, log, key); cached != nil {
		cached.ResortID = req.ResortID
		metrics.RecordResolution("cached", s.now().Sub(start).Seconds())
		return cached, nil
	}

	cat := s.catalogs.Scope(ctx, scopeIDs...)

	resolution := &models.Resolution{
		ID:        uuid.NewString(),
		ResortID:  req.ResortID,
		ScopeIDs:  scopeIDs,
		Lifts:     s.resolveKind(cat, models.EntityKindLift, lifts),
		Runs:      s.resolveKind(cat, models.EntityKindRun, runs),
		CreatedAt: s.now().UTC(),
	}

	log.WithFields(map[string]any{
		"resolution_id":  resolution.ID,
		"lift_coverage":  resolution.Lifts.Coverage.CoveragePercent,
		"run_coverage":   resolution.Runs.Coverage.CoveragePercent,
		"lifts_unmapped": resolution.Lifts.Coverage.UnmappedCount,
		"runs_unmapped":  resolution.Runs.Coverage.UnmappedCount,
	}).Info("Resolved resort facilities")

	s.store(ctx, log, key, resolution)
	s.record(ctx, log, resolution)

	metrics.RecordResolution("resolved", s.now().Sub(start).Seconds())
	return resolution, nil
}

// ResolveMany resolves independent requests concurrently, preserving order.
func (s *Service) ResolveMany(ctx context.Context, reqs []Request) []Outcome {
	return ectoparallel.Map(reqs, func(req Request) Outcome {
		resolution, err := s.Resolve(ctx, req)
		if err != nil {
			return Outcome{Err: err, Error: err.Error()}
		}
		return Outcome{Resolution: resolution}
	})
}

// Catalog returns the scoped catalog of a resort or of explicit scope ids.
func (s *Service) Catalog(ctx context.Context, resortID string, scopeIDs ...string) (*catalog.Catalog, error) {
	ids, err := s.scopeIDs(Request{ResortID: resortID, ScopeIDs: scopeIDs})
	if err != nil {
		return nil, err
	}
	return s.catalogs.Scope(ctx, ids...), nil
}

func (s *Service) scopeIDs(req Request) ([]string, error) {
	ids := catalog.CleanScopeIDs(req.ScopeIDs)
	if len(ids) > 0 {
		return ids, nil
	}
	if req.ResortID == "" {
		return nil, ErrNoScope
	}
	if s.registry == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResort, req.ResortID)
	}
	ids, ok := s.registry.ScopeIDs(req.ResortID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResort, req.ResortID)
	}
	ids = catalog.CleanScopeIDs(ids)
	if len(ids) == 0 {
		return nil, ErrNoScope
	}
	return ids, nil
}

// typeHints gives kindless hints the attribute of the list the record came from.
func typeHints(records []models.ExtractedRecord, kind models.EntityKind) []models.ExtractedRecord {
	out := make([]models.ExtractedRecord, len(records))
	for i, r := range records {
		r.Hint = r.Hint.ForKind(kind)
		out[i] = r
	}
	return out
}

func (s *Service) resolveKind(cat *catalog.Catalog, kind models.EntityKind, records []models.ExtractedRecord) models.KindResolution {
	entities := cat.Entities(kind)
	engine := matching.NewEngine(entities, matching.Config{FuzzyThreshold: s.cfg.FuzzyThreshold})

	results := engine.MatchAll(records)
	for i := range results {
		results[i].Status = status.Normalize(results[i].Record.Status)
		metrics.RecordMatch(string(kind), string(results[i].Tier), results[i].Ambiguous())
	}

	report := coverage.Aggregate(results, entities)
	meets := report.MeetsThreshold(s.cfg.MinCoveragePercent)
	metrics.RecordCoverage(string(kind), report.CoveragePercent, meets)

	return models.KindResolution{
		Kind:           kind,
		Results:        results,
		Coverage:       report,
		MeetsThreshold: meets,
	}
}

func (s *Service) cached(ctx context.Context, log ectologger.Logger, key string) *models.Resolution {
	if s.cache == nil || key == "" {
		return nil
	}
	resolution, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("Failed to read resolution cache")
		return nil
	}
	metrics.RecordCacheLookup(ok)
	if !ok {
		return nil
	}
	resolution.Cached = true
	return resolution
}

func (s *Service) store(ctx context.Context, log ectologger.Logger, key string, resolution *models.Resolution) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, resolution); err != nil {
		log.WithError(err).Warn("Failed to write resolution cache")
	}
}

func (s *Service) record(ctx context.Context, log ectologger.Logger, resolution *models.Resolution) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, Runs(resolution)); err != nil {
		log.WithError(err).Error("Failed to record resolution runs")
	}
}

// Runs summarizes a resolution as one run per entity kind.
func Runs(resolution *models.Resolution) []models.ResolutionRun {
	runs := make([]models.ResolutionRun, 0, 2)
	for _, kr := range resolution.Kinds() {
		runs = append(runs, models.ResolutionRun{
			ID:                 uuid.NewString(),
			ResolutionID:       resolution.ID,
			ResortID:           resolution.ResortID,
			ScopeIDs:           joinIDs(resolution.ScopeIDs),
			EntityKind:         kr.Kind,
			ReferenceCount:     kr.Coverage.ReferenceCount,
			ExtractedCount:     kr.Coverage.ExtractedCount,
			MatchedUniqueCount: kr.Coverage.MatchedUniqueCount,
			UnmappedCount:      kr.Coverage.UnmappedCount,
			AmbiguousCount:     kr.Coverage.AmbiguousCount,
			CoveragePercent:    kr.Coverage.CoveragePercent,
			MeetsThreshold:     kr.MeetsThreshold,
			CreatedAt:          resolution.CreatedAt,
		})
	}
	return runs
}

// IsClientError reports whether err was caused by the request rather than the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoScope) || errors.Is(err, ErrUnknownResort) || errors.Is(err, ErrInvalidPayload)
}
