package resolutionrun

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/edelweiss/pkg/database"
	"github.com/Ramsey-B/edelweiss/pkg/metrics"
	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

const table = "resolution_runs"

var columns = []string{
	"id", "resolution_id", "resort_id", "scope_ids", "entity_kind",
	"reference_count", "extracted_count", "matched_unique_count", "unmapped_count", "ambiguous_count",
	"coverage_percent", "meets_threshold", "created_at",
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Repository handles resolution run persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new resolution run repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Record inserts resolution runs in one statement
func (r *Repository) Record(ctx context.Context, runs []models.ResolutionRun) error {
	ctx, span := tracing.StartSpan(ctx, "resolutionrun.Repository.Record")
	defer span.End()

	if len(runs) == 0 {
		return nil
	}

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":        "Record",
		"resolution_id": runs[0].ResolutionID,
		"runs":          len(runs),
	})

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto(table)
	sb.Cols(columns...)
	for _, run := range runs {
		sb.Values(run.ID, run.ResolutionID, run.ResortID, run.ScopeIDs, run.EntityKind,
			run.ReferenceCount, run.ExtractedCount, run.MatchedUniqueCount, run.UnmappedCount, run.AmbiguousCount,
			run.CoveragePercent, run.MeetsThreshold, run.CreatedAt)
	}

	query, args := sb.Build()
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, args...)
	metrics.DatabaseQueryDuration.WithLabelValues("resolution_runs.insert").Observe(time.Since(start).Seconds())
	if err != nil {
		tracing.Fail(span, err)
		log.WithError(err).Error("Failed to record resolution runs")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to record resolution runs")
	}

	log.Debug("Recorded resolution runs")
	return nil
}

// ListByResort returns the most recent runs of a resort, newest first
func (r *Repository) ListByResort(ctx context.Context, resortID string, limit int) ([]models.ResolutionRun, error) {
	ctx, span := tracing.StartSpan(ctx, "resolutionrun.Repository.ListByResort", attribute.String("resort_id", resortID))
	defer span.End()

	if limit < 1 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(sb.Equal("resort_id", resortID))
	sb.OrderBy("created_at DESC", "entity_kind ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	start := time.Now()
	runs := []models.ResolutionRun{}
	err := r.db.SelectContext(ctx, &runs, query, args...)
	metrics.DatabaseQueryDuration.WithLabelValues("resolution_runs.list").Observe(time.Since(start).Seconds())
	if err != nil {
		tracing.Fail(span, err)
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list resolution runs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list resolution runs")
	}

	return runs, nil
}
