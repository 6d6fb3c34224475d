package middleware

import (
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/edelweiss/pkg/metrics"
)

// Logger logs one line per request and observes its latency by route template.
// Server errors log at error level, client errors at warn.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			req := c.Request()
			res := c.Response()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordHTTPRequest(req.Method, route, res.Status, elapsed.Seconds())

			// request id, method, route and resort come from the request context
			log := logger.WithContext(req.Context()).WithFields(map[string]any{
				"uri":           req.RequestURI,
				"status":        res.Status,
				"user_agent":    req.UserAgent(),
				"response_time": elapsed,
				"response_size": res.Size,
			})

			switch {
			case res.Status >= http.StatusInternalServerError:
				log.Error("Request failed")
			case res.Status >= http.StatusBadRequest:
				log.Warn("Request rejected")
			default:
				log.Info("Request")
			}
			return nil
		}
	}
}
