// Package catalog loads the reference lift and run tables and scopes them to resorts.
package catalog

import (
	"slices"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

// Catalog is an immutable set of reference entities for a scope.
// Accessors return copies, so a Catalog can be shared across goroutines.
type Catalog struct {
	scopeIDs []string
	lifts    []models.ReferenceEntity
	runs     []models.ReferenceEntity
	dropped  map[models.EntityKind]int
}

// NewCatalog builds a catalog from already loaded entities, grouping them by kind.
func NewCatalog(scopeIDs []string, entities []models.ReferenceEntity) *Catalog {
	c := &Catalog{
		scopeIDs: CleanScopeIDs(scopeIDs),
		dropped:  make(map[models.EntityKind]int),
	}
	for _, e := range entities {
		c.add(e.Kind, []models.ReferenceEntity{e})
	}
	return c
}

func (c *Catalog) add(kind models.EntityKind, entities []models.ReferenceEntity) {
	switch kind {
	case models.EntityKindRun:
		c.runs = append(c.runs, entities...)
	default:
		c.lifts = append(c.lifts, entities...)
	}
}

// ScopeIDs returns the scope ids the catalog was loaded for.
func (c *Catalog) ScopeIDs() []string {
	return slices.Clone(c.scopeIDs)
}

// Entities returns the entities of one kind in table order.
func (c *Catalog) Entities(kind models.EntityKind) []models.ReferenceEntity {
	if kind == models.EntityKindRun {
		return slices.Clone(c.runs)
	}
	return slices.Clone(c.lifts)
}

// Lifts returns the lift entities.
func (c *Catalog) Lifts() []models.ReferenceEntity {
	return c.Entities(models.EntityKindLift)
}

// Runs returns the run entities.
func (c *Catalog) Runs() []models.ReferenceEntity {
	return c.Entities(models.EntityKindRun)
}

// Count returns the number of entities of one kind.
func (c *Catalog) Count(kind models.EntityKind) int {
	if kind == models.EntityKindRun {
		return len(c.runs)
	}
	return len(c.lifts)
}

// Dropped returns how many malformed rows of one kind were dropped at load.
func (c *Catalog) Dropped(kind models.EntityKind) int {
	return c.dropped[kind]
}

// IsEmpty reports whether the catalog holds no entity of any kind.
func (c *Catalog) IsEmpty() bool {
	return len(c.lifts) == 0 && len(c.runs) == 0
}
