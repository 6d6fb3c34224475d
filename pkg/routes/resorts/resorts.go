package resorts

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/edelweiss/internal/repositories/resolutionrun"
	"github.com/Ramsey-B/edelweiss/pkg/context"
	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/resolver"
	"github.com/Ramsey-B/edelweiss/pkg/resorts"
	"github.com/Ramsey-B/edelweiss/pkg/routes/resolve"
)

// Register registers resort routes
func Register(g *echo.Group) {
	g.GET("", ListResorts)
	g.GET("/:resort_id/catalog", GetCatalog)
	g.GET("/:resort_id/runs", ListRuns)
}

// ListResorts lists the configured resorts
func ListResorts(c echo.Context) error {
	ctx := c.Request().Context()

	_, registry, err := ectoinject.GetContext[*resorts.Registry](ctx)
	if err != nil || registry == nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, registry.List())
}

// KindSummary describes the reference entities of one kind in a scoped catalog
type KindSummary struct {
	Count   int `json:"count"`
	Dropped int `json:"dropped"`
}

// CatalogSummary is the response body of GetCatalog
type CatalogSummary struct {
	ResortID string      `json:"resort_id"`
	ScopeIDs []string    `json:"scope_ids"`
	Empty    bool        `json:"empty"`
	Lifts    KindSummary `json:"lifts"`
	Runs     KindSummary `json:"runs"`
}

// GetCatalog summarizes the reference catalog scoped to a resort
func GetCatalog(c echo.Context) error {
	ctx := c.Request().Context()
	resortID := c.Param("resort_id")
	ctx = context.SetResortID(ctx, resortID)

	ctx, svc, err := ectoinject.GetContext[*resolver.Service](ctx)
	if err != nil || svc == nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	cat, err := svc.Catalog(ctx, resortID)
	if err != nil {
		return resolve.ServiceError(err)
	}

	return c.JSON(http.StatusOK, CatalogSummary{
		ResortID: resortID,
		ScopeIDs: cat.ScopeIDs(),
		Empty:    cat.IsEmpty(),
		Lifts:    KindSummary{Count: cat.Count(models.EntityKindLift), Dropped: cat.Dropped(models.EntityKindLift)},
		Runs:     KindSummary{Count: cat.Count(models.EntityKindRun), Dropped: cat.Dropped(models.EntityKindRun)},
	})
}

// ListRuns lists the persisted resolution history of a resort, newest first
func ListRuns(c echo.Context) error {
	ctx := c.Request().Context()
	resortID := c.Param("resort_id")

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	ctx, repo, err := ectoinject.GetContext[*resolutionrun.Repository](ctx)
	if err != nil || repo == nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "resolution history is not configured")
	}

	runs, err := repo.ListByResort(ctx, resortID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, runs)
}
