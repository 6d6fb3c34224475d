// Package extractor turns arbitrary source payloads into extracted facility records
// using JMESPath expressions.
package extractor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jmespath/go-jmespath"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

// FieldMapping locates facilities inside a payload. Items selects the list of
// facility objects; Name, Hint and Status are evaluated against each item.
type FieldMapping struct {
	Items  string `json:"items" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Hint   string `json:"hint,omitempty"`
	Status string `json:"status,omitempty"`
}

// Mapping holds the field mappings of each entity kind. Either may be nil.
type Mapping struct {
	Lifts *FieldMapping `json:"lifts,omitempty"`
	Runs  *FieldMapping `json:"runs,omitempty"`
}

// Extractor evaluates field mappings, caching compiled expressions.
type Extractor struct {
	cache map[string]*jmespath.JMESPath
	mu    sync.RWMutex
}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{
		cache: make(map[string]*jmespath.JMESPath),
	}
}

// ExtractPayload decodes a JSON payload and extracts lifts and runs.
func (e *Extractor) ExtractPayload(payload []byte, mapping Mapping) (lifts, runs []models.ExtractedRecord, err error) {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, nil, fmt.Errorf("invalid payload: %w", err)
	}

	if mapping.Lifts != nil {
		lifts, err = e.Extract(data, *mapping.Lifts, models.EntityKindLift)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to extract lifts: %w", err)
		}
	}
	if mapping.Runs != nil {
		runs, err = e.Extract(data, *mapping.Runs, models.EntityKindRun)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to extract runs: %w", err)
		}
	}
	return lifts, runs, nil
}

// Extract returns one record per item with a non-blank name. Hints are read
// as lift types for lifts and difficulties for runs.
func (e *Extractor) Extract(data any, mapping FieldMapping, kind models.EntityKind) ([]models.ExtractedRecord, error) {
	result, err := e.evaluate(mapping.Items, data)
	if err != nil {
		return nil, err
	}

	var items []any
	switch v := result.(type) {
	case nil:
	case []any:
		items = v
	default:
		items = []any{v}
	}

	records := make([]models.ExtractedRecord, 0, len(items))
	for _, item := range items {
		name, err := e.evaluateString(mapping.Name, item)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(name) == "" {
			continue
		}

		record := models.ExtractedRecord{Name: name}

		if mapping.Hint != "" {
			hint, err := e.evaluateString(mapping.Hint, item)
			if err != nil {
				return nil, err
			}
			if kind == models.EntityKindRun {
				record.Hint = models.DifficultyHint(hint)
			} else {
				record.Hint = models.LiftTypeHint(hint)
			}
		}

		if mapping.Status != "" {
			record.Status, err = e.evaluateString(mapping.Status, item)
			if err != nil {
				return nil, err
			}
		}

		records = append(records, record)
	}

	return records, nil
}

func (e *Extractor) evaluate(expression string, data any) (any, error) {
	compiled, err := e.getOrCompile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}

	result, err := compiled.Search(data)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

func (e *Extractor) evaluateString(expression string, data any) (string, error) {
	result, err := e.evaluate(expression, data)
	if err != nil {
		return "", err
	}

	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func (e *Extractor) getOrCompile(expression string) (*jmespath.JMESPath, error) {
	e.mu.RLock()
	compiled, ok := e.cache[expression]
	e.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[expression] = compiled
	e.mu.Unlock()

	return compiled, nil
}
