package resolve

import (
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/edelweiss/pkg/context"
	"github.com/Ramsey-B/edelweiss/pkg/resolver"
)

// maxBatchSize caps the number of requests accepted by ResolveBatch.
const maxBatchSize = 50

var validate = validator.New()

// Register registers resolution routes
func Register(g *echo.Group) {
	g.POST("", Resolve)
	g.POST("/batch", ResolveBatch)
}

// Resolve resolves one resort's scraped lifts and runs
func Resolve(c echo.Context) error {
	ctx := c.Request().Context()

	var req resolver.Request
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx = context.SetResortID(ctx, req.ResortID)

	ctx, svc, err := ectoinject.GetContext[*resolver.Service](ctx)
	if err != nil || svc == nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resolution, err := svc.Resolve(ctx, req)
	if err != nil {
		return ServiceError(err)
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{
			"resolution_id": resolution.ID,
			"resort_id":     resolution.ResortID,
			"cached":        resolution.Cached,
		}).Info("Resolved facilities")
	}

	return c.JSON(http.StatusOK, resolution)
}

// ServiceError converts request-caused resolver errors into HTTP errors. Other
// errors are returned unchanged and surface as 500s.
func ServiceError(err error) error {
	switch {
	case errors.Is(err, resolver.ErrUnknownResort):
		return httperror.NewHTTPError(http.StatusNotFound, err.Error())
	case resolver.IsClientError(err):
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

// BatchRequest is the request body for resolving several resorts at once
type BatchRequest struct {
	Requests []resolver.Request `json:"requests" validate:"required,min=1,dive"`
}

// ResolveBatch resolves several requests concurrently. Failures are reported per request.
func ResolveBatch(c echo.Context) error {
	ctx := c.Request().Context()

	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Requests) > maxBatchSize {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "at most %d requests may be batched", maxBatchSize)
	}

	ctx, svc, err := ectoinject.GetContext[*resolver.Service](ctx)
	if err != nil || svc == nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, svc.ResolveMany(ctx, req.Requests))
}
