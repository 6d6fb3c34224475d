package resolutionrun

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

type fakeDB struct {
	queries [][]any
	sql     []string
	err     error
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.sql = append(f.sql, query)
	f.queries = append(f.queries, args)
	return nil, f.err
}

func (f *fakeDB) GetContext(context.Context, any, string, ...any) error { return f.err }

func (f *fakeDB) SelectContext(_ context.Context, dest any, query string, args ...any) error {
	f.sql = append(f.sql, query)
	f.queries = append(f.queries, args)
	if f.err != nil {
		return f.err
	}
	*(dest.(*[]models.ResolutionRun)) = []models.ResolutionRun{{ID: "r1", ResortID: "val-thorens"}}
	return nil
}

func (f *fakeDB) PingContext(context.Context) error { return nil }

func (f *fakeDB) Close() error { return nil }

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	t.Run("inserts every run in one statement", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewRepository(db, noopLogger())

		err := repo.Record(ctx, []models.ResolutionRun{
			{ID: "1", ResolutionID: "res", EntityKind: models.EntityKindLift, CreatedAt: now},
			{ID: "2", ResolutionID: "res", EntityKind: models.EntityKindRun, CreatedAt: now},
		})
		require.NoError(t, err)

		require.Len(t, db.sql, 1)
		assert.True(t, strings.HasPrefix(db.sql[0], "INSERT INTO resolution_runs"))
		assert.Contains(t, db.sql[0], "$26")
		assert.Len(t, db.queries[0], 26)
	})

	t.Run("nothing to record", func(t *testing.T) {
		db := &fakeDB{}
		require.NoError(t, NewRepository(db, noopLogger()).Record(ctx, nil))
		assert.Empty(t, db.sql)
	})

	t.Run("database errors become internal errors", func(t *testing.T) {
		db := &fakeDB{err: errors.New("boom")}
		err := NewRepository(db, noopLogger()).Record(ctx, []models.ResolutionRun{{ID: "1"}})

		require.Error(t, err)
		assert.Equal(t, 500, httperror.GetStatusCode(err))
	})
}

func TestListByResort(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps the limit", func(t *testing.T) {
		db := &fakeDB{}
		runs, err := NewRepository(db, noopLogger()).ListByResort(ctx, "val-thorens", 10_000)
		require.NoError(t, err)

		require.Len(t, runs, 1)
		assert.Contains(t, db.sql[0], "ORDER BY created_at DESC")
		assert.Equal(t, []any{"val-thorens", maxLimit}, db.queries[0])
	})

	t.Run("default limit", func(t *testing.T) {
		db := &fakeDB{}
		_, err := NewRepository(db, noopLogger()).ListByResort(ctx, "val-thorens", 0)
		require.NoError(t, err)
		assert.Equal(t, []any{"val-thorens", defaultLimit}, db.queries[0])
	})

	t.Run("errors", func(t *testing.T) {
		db := &fakeDB{err: errors.New("boom")}
		_, err := NewRepository(db, noopLogger()).ListByResort(ctx, "val-thorens", 5)
		assert.Error(t, err)
	})
}
