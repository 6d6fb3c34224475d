package catalog

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

const runsCSV = `id,name,difficulty,run_type,status,countries,regions,localities,ski_area_names,ski_area_ids
r1,Les Cascades,blue,downhill,,France,,,Val Thorens,vt
r2,Jean Blanc,red,downhill,,France,,,Courchevel,cv
`

type captured struct {
	mu       sync.Mutex
	messages []ectologger.EctoLogMessage
}

func (c *captured) logger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.messages = append(c.messages, msg)
	})
}

func (c *captured) warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, m := range c.messages {
		if m.Level == "warn" {
			out = append(out, m.Message)
		}
	}
	return out
}

func mustTables(t *testing.T) (*Table, *Table) {
	t.Helper()
	lifts, err := ReadTable(strings.NewReader(liftsCSV), models.EntityKindLift)
	require.NoError(t, err)
	runs, err := ReadTable(strings.NewReader(runsCSV), models.EntityKindRun)
	require.NoError(t, err)
	return lifts, runs
}

func TestLoaderLoadEntities(t *testing.T) {
	lifts, _ := mustTables(t)
	loader := NewLoader(ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {}), LoaderConfig{})

	t.Run("keeps rows in scope and counts malformed ones", func(t *testing.T) {
		entities, dropped := loader.LoadEntities(lifts, []string{"vt"})

		require.Len(t, entities, 2)
		assert.Equal(t, "l1", entities[0].ID)
		assert.Equal(t, []string{"vt", "3v"}, entities[0].ScopeIDs)
		assert.Equal(t, "gondola", entities[0].CategoryAttribute)
		assert.Equal(t, models.EntityKindLift, entities[0].Kind)
		assert.Equal(t, "l2", entities[1].ID)
		assert.Equal(t, 2, dropped)
	})

	t.Run("scope ids are or-ed", func(t *testing.T) {
		entities, _ := loader.LoadEntities(lifts, []string{"3v", "cv"})

		ids := []string{}
		for _, e := range entities {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{"l1", "l3"}, ids)
	})

	t.Run("rows without scope never match", func(t *testing.T) {
		entities, _ := loader.LoadEntities(lifts, []string{""})
		assert.Empty(t, entities)
	})

	t.Run("unknown scope yields empty", func(t *testing.T) {
		entities, dropped := loader.LoadEntities(lifts, []string{"nowhere"})
		assert.Empty(t, entities)
		assert.NotNil(t, entities)
		assert.Zero(t, dropped)
	})

	t.Run("custom delimiter and column", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("id,name,areas\n1,A,x|y\n2,B,z\n"), models.EntityKindLift)
		require.NoError(t, err)

		custom := NewLoader(ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {}), LoaderConfig{ScopeColumn: "areas", ScopeDelimiter: "|"})
		entities, _ := custom.LoadEntities(table, []string{" y "})

		require.Len(t, entities, 1)
		assert.Equal(t, "1", entities[0].ID)
	})
}

func TestLoaderLoad(t *testing.T) {
	lifts, runs := mustTables(t)

	t.Run("groups by kind", func(t *testing.T) {
		logs := &captured{}
		loader := NewLoader(logs.logger(), DefaultLoaderConfig())

		c := loader.Load(context.Background(), lifts, runs, "vt")

		assert.Equal(t, []string{"vt"}, c.ScopeIDs())
		assert.Equal(t, 2, c.Count(models.EntityKindLift))
		assert.Equal(t, 1, c.Count(models.EntityKindRun))
		assert.Equal(t, "Les Cascades", c.Runs()[0].Name)
		assert.Equal(t, 2, c.Dropped(models.EntityKindLift))
		assert.Zero(t, c.Dropped(models.EntityKindRun))
		assert.Contains(t, logs.warnings(), "Dropped malformed reference rows")
	})

	t.Run("empty scope warns instead of failing", func(t *testing.T) {
		logs := &captured{}
		loader := NewLoader(logs.logger(), DefaultLoaderConfig())

		c := loader.Load(context.Background(), lifts, runs, "nowhere")

		assert.True(t, c.IsEmpty())
		assert.Contains(t, logs.warnings(), "No reference entities found for scope")
	})

	t.Run("nil tables are skipped", func(t *testing.T) {
		loader := NewLoader(ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {}), DefaultLoaderConfig())

		c := loader.Load(context.Background(), nil, runs, "cv")

		assert.Zero(t, c.Count(models.EntityKindLift))
		assert.Equal(t, 1, c.Count(models.EntityKindRun))
	})
}

func TestCatalogIsImmutable(t *testing.T) {
	c := NewCatalog([]string{"vt"}, []models.ReferenceEntity{
		{ID: "l1", Name: "Caron", Kind: models.EntityKindLift},
		{ID: "r1", Name: "Cascades", Kind: models.EntityKindRun},
	})

	lifts := c.Lifts()
	lifts[0].Name = "changed"
	scopes := c.ScopeIDs()
	scopes[0] = "changed"

	assert.Equal(t, "Caron", c.Lifts()[0].Name)
	assert.Equal(t, []string{"vt"}, c.ScopeIDs())
	assert.Equal(t, 1, c.Count(models.EntityKindRun))
}

func TestStore(t *testing.T) {
	lifts, runs := mustTables(t)
	store := NewStore(NewLoader(ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {}), DefaultLoaderConfig()), lifts, runs)

	assert.Equal(t, 7, store.RowCount(models.EntityKindLift))
	assert.Equal(t, 2, store.RowCount(models.EntityKindRun))

	c := store.Scope(context.Background(), "cv")
	assert.Equal(t, "Saulire", c.Lifts()[0].Name)
	assert.Equal(t, "Jean Blanc", c.Runs()[0].Name)
}

func TestCleanScopeIDs(t *testing.T) {
	assert.Equal(t, []string{"vt", "mer"}, CleanScopeIDs([]string{" vt", "", "mer", "vt ", "  "}))
	assert.Empty(t, CleanScopeIDs(nil))
}
