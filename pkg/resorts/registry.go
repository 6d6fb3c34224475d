// Package resorts maps resort identifiers to the reference scope ids they cover.
package resorts

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Resort is a resort known to the service. A resort spanning several ski
// domains lists one scope id per domain.
type Resort struct {
	ID       string   `yaml:"id" json:"id" validate:"required"`
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Platform string   `yaml:"platform,omitempty" json:"platform,omitempty"`
	ScopeIDs []string `yaml:"scope_ids" json:"scope_ids" validate:"required,min=1,dive,required"`
}

type file struct {
	Resorts []Resort `yaml:"resorts" validate:"dive"`
}

// Registry is an immutable set of resorts.
type Registry struct {
	resorts []Resort
	byID    map[string]int
}

// Parse reads a registry from YAML. Resort ids must be unique.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid resorts file: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("invalid resorts file: %w", err)
	}

	r := &Registry{byID: make(map[string]int, len(f.Resorts))}
	for _, resort := range f.Resorts {
		resort.ID = strings.TrimSpace(resort.ID)
		if _, dup := r.byID[resort.ID]; dup {
			return nil, fmt.Errorf("duplicate resort id %q", resort.ID)
		}
		r.byID[resort.ID] = len(r.resorts)
		r.resorts = append(r.resorts, resort)
	}
	return r, nil
}

// Load reads a registry from a YAML file. An empty path yields an empty registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return &Registry{byID: map[string]int{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resorts file: %w", err)
	}
	return Parse(data)
}

// Get returns a resort by id.
func (r *Registry) Get(id string) (Resort, bool) {
	i, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return Resort{}, false
	}
	resort := r.resorts[i]
	resort.ScopeIDs = slices.Clone(resort.ScopeIDs)
	return resort, true
}

// ScopeIDs returns the scope ids of a resort.
func (r *Registry) ScopeIDs(id string) ([]string, bool) {
	resort, ok := r.Get(id)
	return resort.ScopeIDs, ok
}

// List returns every resort in file order.
func (r *Registry) List() []Resort {
	out := make([]Resort, len(r.resorts))
	for i, resort := range r.resorts {
		resort.ScopeIDs = slices.Clone(resort.ScopeIDs)
		out[i] = resort
	}
	return out
}
