package catalog

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/edelweiss/pkg/metrics"
	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

// LoaderConfig contains configuration for reading scope membership from reference rows.
type LoaderConfig struct {
	ScopeColumn    string // Column holding the delimited scope ids (default: ski_area_ids)
	ScopeDelimiter string // Separator between scope ids (default: ";")
}

// DefaultLoaderConfig returns sensible defaults.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		ScopeColumn:    ColumnScopeIDs,
		ScopeDelimiter: ";",
	}
}

// Loader turns raw reference tables into scoped catalogs.
type Loader struct {
	log ectologger.Logger
	cfg LoaderConfig
}

// NewLoader creates a new Loader.
func NewLoader(log ectologger.Logger, cfg LoaderConfig) *Loader {
	defaults := DefaultLoaderConfig()
	if cfg.ScopeColumn == "" {
		cfg.ScopeColumn = defaults.ScopeColumn
	}
	if cfg.ScopeDelimiter == "" {
		cfg.ScopeDelimiter = defaults.ScopeDelimiter
	}
	return &Loader{log: log, cfg: cfg}
}

// Load builds the catalog of lifts and runs belonging to any of the given scope ids.
// Either table may be nil. An empty result is logged and counted, never an error.
func (l *Loader) Load(ctx context.Context, lifts, runs *Table, scopeIDs ...string) *Catalog {
	ctx, span := tracing.StartSpan(ctx, "catalog.Loader.Load")
	defer span.End()

	scopes := CleanScopeIDs(scopeIDs)
	log := l.log.WithContext(ctx).WithFields(map[string]any{
		"scope_ids": scopes,
	})

	c := &Catalog{
		scopeIDs: scopes,
		dropped:  make(map[models.EntityKind]int, 2),
	}

	for _, table := range []*Table{lifts, runs} {
		if table == nil {
			continue
		}
		entities, dropped := l.LoadEntities(table, scopes)
		c.dropped[table.Kind] += dropped
		c.add(table.Kind, entities)

		metrics.RecordCatalogLoad(string(table.Kind), dropped, len(entities) == 0)

		kindLog := log.WithFields(map[string]any{
			"kind":     table.Kind,
			"entities": len(entities),
			"dropped":  dropped,
		})
		if dropped > 0 {
			kindLog.Warn("Dropped malformed reference rows")
		}
		if len(entities) == 0 {
			kindLog.Warn("No reference entities found for scope")
		} else {
			kindLog.Debug("Loaded scoped reference entities")
		}
	}

	return c
}

// LoadEntities returns the table's entities whose scope intersects scopeIDs, in
// table order, and the number of in-scope rows dropped for lacking an id or name.
// Rows with no scope never match.
func (l *Loader) LoadEntities(table *Table, scopeIDs []string) ([]models.ReferenceEntity, int) {
	wanted := make(map[string]struct{}, len(scopeIDs))
	for _, id := range CleanScopeIDs(scopeIDs) {
		wanted[id] = struct{}{}
	}
	if len(wanted) == 0 || table == nil {
		return []models.ReferenceEntity{}, 0
	}

	categoryColumn := table.CategoryColumn()
	entities := make([]models.ReferenceEntity, 0)
	dropped := 0

	for _, row := range table.Rows {
		rowScopes := l.splitScopes(row.Get(l.cfg.ScopeColumn))
		if !intersects(rowScopes, wanted) {
			continue
		}

		id, name := row.Get(ColumnID), row.Get(ColumnName)
		if id == "" || name == "" {
			dropped++
			continue
		}

		entities = append(entities, models.ReferenceEntity{
			ID:                id,
			Name:              name,
			ScopeIDs:          rowScopes,
			Kind:              table.Kind,
			CategoryAttribute: row.Get(categoryColumn),
		})
	}

	return entities, dropped
}

func (l *Loader) splitScopes(raw string) []string {
	if raw == "" {
		return nil
	}
	return CleanScopeIDs(strings.Split(raw, l.cfg.ScopeDelimiter))
}

// CleanScopeIDs trims ids and drops blanks and duplicates, keeping first-seen order.
func CleanScopeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func intersects(ids []string, wanted map[string]struct{}) bool {
	for _, id := range ids {
		if _, ok := wanted[id]; ok {
			return true
		}
	}
	return false
}
