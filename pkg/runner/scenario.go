package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/resolver"
)

// Scenario is a YAML resolution check: a request and what its resolution must satisfy.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	ResortID    string   `yaml:"resort_id"`
	ScopeIDs    []string `yaml:"scope_ids"`
	// Request is a JSON request file, relative to the scenario file. Inline
	// lifts and runs are appended to its records.
	Request string      `yaml:"request"`
	Lifts   []Record    `yaml:"lifts"`
	Runs    []Record    `yaml:"runs"`
	Expect  Expectation `yaml:"expect"`
}

// Record is an inline facility. LiftType applies to lifts, Difficulty to runs.
type Record struct {
	Name       string `yaml:"name"`
	LiftType   string `yaml:"lift_type"`
	Difficulty string `yaml:"difficulty"`
	Status     string `yaml:"status"`
}

// Expectation lists the conditions a resolution must meet. Zero values are not checked.
type Expectation struct {
	MinLiftCoverage *float64        `yaml:"min_lift_coverage"`
	MinRunCoverage  *float64        `yaml:"min_run_coverage"`
	MaxUnmapped     *int            `yaml:"max_unmapped"`
	Matches         []ExpectedMatch `yaml:"matches"`
}

// ExpectedMatch pins the resolution of one record name.
type ExpectedMatch struct {
	Name   string            `yaml:"name"`
	Kind   models.EntityKind `yaml:"kind"`
	IDs    []string          `yaml:"ids"`
	Tier   models.MatchTier  `yaml:"tier"`
	Status models.Status     `yaml:"status"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	if s.Request != "" && !filepath.IsAbs(s.Request) {
		s.Request = filepath.Join(filepath.Dir(path), s.Request)
	}
	for i, m := range s.Expect.Matches {
		if m.Kind == "" {
			s.Expect.Matches[i].Kind = models.EntityKindLift
		}
	}
	return &s, nil
}

// BuildRequest assembles the resolver request of the scenario.
func (s *Scenario) BuildRequest() (resolver.Request, error) {
	var req resolver.Request
	if s.Request != "" {
		data, err := os.ReadFile(s.Request)
		if err != nil {
			return req, fmt.Errorf("failed to read request: %w", err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse request %s: %w", s.Request, err)
		}
	}

	if s.ResortID != "" {
		req.ResortID = s.ResortID
	}
	if len(s.ScopeIDs) > 0 {
		req.ScopeIDs = s.ScopeIDs
	}
	for _, r := range s.Lifts {
		req.Lifts = append(req.Lifts, models.ExtractedRecord{Name: r.Name, Hint: models.LiftTypeHint(r.LiftType), Status: r.Status})
	}
	for _, r := range s.Runs {
		req.Runs = append(req.Runs, models.ExtractedRecord{Name: r.Name, Hint: models.DifficultyHint(r.Difficulty), Status: r.Status})
	}
	return req, nil
}
