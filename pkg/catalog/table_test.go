package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

const liftsCSV = `id,name,lift_type,status,countries,regions,localities,ski_area_names,ski_area_ids
l1,Télécabine de Caron,gondola,operating,France,Auvergne-Rhône-Alpes,Val Thorens,Val Thorens,vt;3v
l2,"Bouquetin, Express",chair_lift,operating,France,,,Val Thorens,vt
l3,Saulire,cable_car,operating,France,,,Courchevel,cv
,No Id,chair_lift,operating,France,,,Val Thorens,vt
l5,,chair_lift,operating,France,,,Val Thorens,vt
l6,Orphan,drag_lift,operating,France,,,,
l7,Short Row
`

func TestReadTable(t *testing.T) {
	t.Run("parses rows by header", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader(liftsCSV), models.EntityKindLift)
		require.NoError(t, err)

		assert.Equal(t, models.EntityKindLift, table.Kind)
		require.Len(t, table.Rows, 7)
		assert.Equal(t, "Bouquetin, Express", table.Rows[1].Get(ColumnName))
		assert.Equal(t, "vt;3v", table.Rows[0].Get(ColumnScopeIDs))
	})

	t.Run("short rows are padded", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader(liftsCSV), models.EntityKindLift)
		require.NoError(t, err)

		last := table.Rows[6]
		assert.Equal(t, "Short Row", last.Get(ColumnName))
		assert.Equal(t, "", last.Get(ColumnScopeIDs))
	})

	t.Run("header is case-insensitive and strips a byte order mark", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("\ufeffID, Name ,Difficulty\nr1,Jean Blanc,red\n"), models.EntityKindRun)
		require.NoError(t, err)

		require.Len(t, table.Rows, 1)
		assert.Equal(t, "r1", table.Rows[0].Get("id"))
		assert.Equal(t, "red", table.Rows[0].Get(table.CategoryColumn()))
	})

	t.Run("empty input", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader(""), models.EntityKindRun)
		require.NoError(t, err)
		assert.Empty(t, table.Rows)
	})

	t.Run("broken quoting is an error", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader("id,name\n1,\"unterminated\n"), models.EntityKindLift)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadTableFile("does/not/exist.csv", models.EntityKindLift)
		assert.Error(t, err)
	})
}

func TestCategoryColumn(t *testing.T) {
	assert.Equal(t, ColumnLiftType, (&Table{Kind: models.EntityKindLift}).CategoryColumn())
	assert.Equal(t, ColumnDifficulty, (&Table{Kind: models.EntityKindRun}).CategoryColumn())
}
