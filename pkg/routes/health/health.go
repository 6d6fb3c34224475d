// Package health serves the health, liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/Gobusters/ectolinq/ectoparallel"
	"github.com/labstack/echo/v4"
)

// Pinger is a dependency whose reachability is part of the service health
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Checker handles health check endpoints
type Checker struct {
	checks    map[string]Pinger
	version   string
	timeout   time.Duration
	startTime time.Time
	ready     atomic.Bool
}

// NewChecker creates a new health checker. Nil checks are skipped.
func NewChecker(version string, checks map[string]Pinger) *Checker {
	c := &Checker{
		checks:    map[string]Pinger{},
		version:   version,
		timeout:   2 * time.Second,
		startTime: time.Now(),
	}
	for name, check := range checks {
		if check != nil {
			c.checks[name] = check
		}
	}
	return c
}

// SetReady sets the readiness state
func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

// RegisterRoutes registers health check endpoints
func (c *Checker) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/health", c.Health)
	e.GET("/api/v1/health/live", c.Live)
	e.GET("/api/v1/health/ready", c.Ready)
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version"`
	Uptime     string                  `json:"uptime"`
	Checks     map[string]*CheckResult `json:"checks"`
	ReportedAt time.Time               `json:"reported_at"`
}

// CheckResult represents an individual check result
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Check pings every dependency concurrently, each under its own timeout.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := ectoparallel.Map(names, func(name string) *CheckResult {
		return c.run(ctx, c.checks[name])
	})

	status := &HealthStatus{
		Status:     "healthy",
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		Checks:     make(map[string]*CheckResult, len(names)),
		ReportedAt: time.Now(),
	}
	for i, name := range names {
		if results[i].Status != "healthy" {
			status.Status = "unhealthy"
		}
		status.Checks[name] = results[i]
	}
	return status
}

// Health reports every dependency; 503 when any of them is down.
func (c *Checker) Health(ctx echo.Context) error {
	status := c.Check(ctx.Request().Context())
	if status.Status != "healthy" {
		return ctx.JSON(http.StatusServiceUnavailable, status)
	}
	return ctx.JSON(http.StatusOK, status)
}

func (c *Checker) run(ctx context.Context, check Pinger) *CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	if err := check.PingContext(ctx); err != nil {
		return &CheckResult{Status: "unhealthy", Message: err.Error()}
	}
	return &CheckResult{Status: "healthy", Latency: time.Since(start).String()}
}

// Live answers as long as the process serves HTTP.
func (c *Checker) Live(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

// Ready answers 200 once startup finished and every dependency responds.
func (c *Checker) Ready(ctx echo.Context) error {
	if !c.ready.Load() {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"status": "starting"})
	}
	status := c.Check(ctx.Request().Context())
	if status.Status != "healthy" {
		return ctx.JSON(http.StatusServiceUnavailable, status)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
