package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/edelweiss/pkg/context"
)

// Context stores the request id, route template and resort id on the request
// context so logs and errors can carry them. A request id is generated when the
// caller does not send one and is echoed back in X-Request-Id.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}

			ctx := context.SetRequestID(req.Context(), id)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, route)
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			if resortID := c.Param("resort_id"); resortID != "" {
				ctx = context.SetResortID(ctx, resortID)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
