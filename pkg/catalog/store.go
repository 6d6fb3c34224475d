package catalog

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

// Store holds the full reference tables, read once, and hands out scoped catalogs.
type Store struct {
	loader *Loader
	lifts  *Table
	runs   *Table
}

// NewStore creates a Store over already parsed tables.
func NewStore(loader *Loader, lifts, runs *Table) *Store {
	return &Store{loader: loader, lifts: lifts, runs: runs}
}

// OpenStore reads the lift and run tables from disk.
func OpenStore(loader *Loader, liftsPath, runsPath string) (*Store, error) {
	lifts, err := ReadTableFile(liftsPath, models.EntityKindLift)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference lifts: %w", err)
	}
	runs, err := ReadTableFile(runsPath, models.EntityKindRun)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference runs: %w", err)
	}
	return NewStore(loader, lifts, runs), nil
}

// Scope returns the catalog of entities belonging to any of the scope ids.
func (s *Store) Scope(ctx context.Context, scopeIDs ...string) *Catalog {
	return s.loader.Load(ctx, s.lifts, s.runs, scopeIDs...)
}

// RowCount returns the number of raw rows of one kind.
func (s *Store) RowCount(kind models.EntityKind) int {
	table := s.lifts
	if kind == models.EntityKindRun {
		table = s.runs
	}
	if table == nil {
		return 0
	}
	return len(table.Rows)
}
