// Package runner checks resolution scenarios against the reference catalog, the
// way resort adapters are validated before they are trusted.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/resolver"
)

// Resolver resolves one request
type Resolver interface {
	Resolve(ctx context.Context, req resolver.Request) (*models.Resolution, error)
}

// Config holds the configuration for running scenarios
type Config struct {
	Files        []string
	Verbose      bool
	ShowFailures bool
	Parallel     int // Number of parallel workers (0 = sequential)
}

// Result holds the run results
type Result struct {
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Tests  []TestResult `json:"tests"`
}

// TestResult holds the result of one scenario
type TestResult struct {
	Name         string  `json:"name"`
	FilePath     string  `json:"file_path"`
	Passed       bool    `json:"passed"`
	Error        string  `json:"error,omitempty"`
	LiftCoverage float64 `json:"lift_coverage"`
	RunCoverage  float64 `json:"run_coverage"`
	Unmapped     int     `json:"unmapped"`
}

// Runner runs scenarios and prints progress to out.
type Runner struct {
	resolver Resolver
	out      io.Writer
	mu       sync.Mutex
}

func New(resolver Resolver, out io.Writer) *Runner {
	return &Runner{resolver: resolver, out: out}
}

// Run executes every scenario file. Results keep the order of cfg.Files.
func (r *Runner) Run(ctx context.Context, cfg Config) *Result {
	tests := make([]TestResult, len(cfg.Files))

	workers := min(max(cfg.Parallel, 1), len(cfg.Files))
	jobs := make(chan int, len(cfg.Files))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tests[i] = r.runFile(ctx, cfg, cfg.Files[i])
			}
		}()
	}
	for i := range cfg.Files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := &Result{Total: len(tests), Tests: tests}
	for _, t := range tests {
		if t.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	return result
}

func (r *Runner) runFile(ctx context.Context, cfg Config, file string) TestResult {
	result := TestResult{FilePath: file, Name: file}

	scenario, err := LoadScenario(file)
	if err != nil {
		return r.fail(cfg, result, fmt.Errorf("failed to load scenario: %w", err))
	}
	result.Name = scenario.Name

	req, err := scenario.BuildRequest()
	if err != nil {
		return r.fail(cfg, result, err)
	}

	resolution, err := r.resolver.Resolve(ctx, req)
	if err != nil {
		return r.fail(cfg, result, err)
	}
	result.LiftCoverage = resolution.Lifts.Coverage.CoveragePercent
	result.RunCoverage = resolution.Runs.Coverage.CoveragePercent
	result.Unmapped = resolution.Lifts.Coverage.UnmappedCount + resolution.Runs.Coverage.UnmappedCount

	if err := Evaluate(scenario.Expect, resolution); err != nil {
		return r.fail(cfg, result, err)
	}

	result.Passed = true
	r.printf("✓ PASSED: %s (lifts %.1f%%, runs %.1f%%)\n", result.Name, result.LiftCoverage, result.RunCoverage)
	if cfg.Verbose && scenario.Description != "" {
		r.printf("  Description: %s\n", scenario.Description)
	}
	return result
}

func (r *Runner) fail(cfg Config, result TestResult, err error) TestResult {
	result.Passed = false
	result.Error = err.Error()
	r.printf("✗ FAILED: %s\n", result.Name)
	if cfg.Verbose || cfg.ShowFailures {
		r.printf("  Error: %s\n\n", strings.ReplaceAll(err.Error(), "\n", "\n  "))
	}
	return result
}

func (r *Runner) printf(format string, args ...any) {
	if r.out == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// Evaluate returns every unmet expectation, joined.
func Evaluate(expect Expectation, resolution *models.Resolution) error {
	var errs []error

	if expect.MinLiftCoverage != nil && resolution.Lifts.Coverage.CoveragePercent < *expect.MinLiftCoverage {
		errs = append(errs, fmt.Errorf("lift coverage %.1f%% is below %.1f%%", resolution.Lifts.Coverage.CoveragePercent, *expect.MinLiftCoverage))
	}
	if expect.MinRunCoverage != nil && resolution.Runs.Coverage.CoveragePercent < *expect.MinRunCoverage {
		errs = append(errs, fmt.Errorf("run coverage %.1f%% is below %.1f%%", resolution.Runs.Coverage.CoveragePercent, *expect.MinRunCoverage))
	}
	if expect.MaxUnmapped != nil {
		unmapped := resolution.Lifts.Coverage.UnmappedCount + resolution.Runs.Coverage.UnmappedCount
		if unmapped > *expect.MaxUnmapped {
			errs = append(errs, fmt.Errorf("%d unmapped records, at most %d allowed", unmapped, *expect.MaxUnmapped))
		}
	}

	for _, want := range expect.Matches {
		got, ok := findResult(resolution, want.Kind, want.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("%s %q was not in the request", want.Kind, want.Name))
			continue
		}
		if want.IDs != nil && !sameIDs(got.IDs, want.IDs) {
			errs = append(errs, fmt.Errorf("%s %q matched %v, want %v", want.Kind, want.Name, got.IDs, want.IDs))
		}
		if want.Tier != "" && got.Tier != want.Tier {
			errs = append(errs, fmt.Errorf("%s %q matched at tier %s, want %s", want.Kind, want.Name, got.Tier, want.Tier))
		}
		if want.Status != "" && got.Status != want.Status {
			errs = append(errs, fmt.Errorf("%s %q has status %s, want %s", want.Kind, want.Name, got.Status, want.Status))
		}
	}

	return errors.Join(errs...)
}

func findResult(resolution *models.Resolution, kind models.EntityKind, name string) (models.MatchResult, bool) {
	results := resolution.Lifts.Results
	if kind == models.EntityKindRun {
		results = resolution.Runs.Results
	}
	for _, r := range results {
		if r.Record.Name == name {
			return r, true
		}
	}
	return models.MatchResult{}, false
}

func sameIDs(got, want []string) bool {
	a := slices.Clone(got)
	b := slices.Clone(want)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
