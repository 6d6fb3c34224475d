package startup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartup(maxAttempts int) *Startup {
	s := NewStartup(ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {}), maxAttempts)
	s.SetBackoffUnit(time.Millisecond)
	return s
}

func TestStartOrdersByDependency(t *testing.T) {
	var events []string
	dep := func(name string, requires ...string) *Dependency {
		return &Dependency{
			Name:     name,
			Requires: requires,
			OnStart:  func(context.Context) error { events = append(events, "start "+name); return nil },
			OnStop:   func(context.Context) error { events = append(events, "stop "+name); return nil },
		}
	}

	s := newStartup(1)
	s.AddDependency(dep("http", "catalog", "database"))
	s.AddDependency(dep("database"))
	s.AddDependency(dep("catalog"))

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start catalog", "start database", "start http"}, events)
	assert.Equal(t, StartupStatusStarted, s.Status("http"))

	events = nil
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"stop http", "stop database", "stop catalog"}, events)
	assert.Equal(t, StartupStatusStopped, s.Status("database"))
}

func TestStartRetries(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		s := newStartup(3)
		s.AddDependency(&Dependency{Name: "redis", OnStart: func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}})

		require.NoError(t, s.Start(context.Background()))
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		s := newStartup(2)
		s.AddDependency(&Dependency{Name: "kafka", OnStart: func(context.Context) error {
			return errors.New("no brokers")
		}})

		err := s.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 attempts")
		assert.Equal(t, StartupStatusFailed, s.Status("kafka"))
	})
}

func TestStartRejectsBadGraphs(t *testing.T) {
	t.Run("unknown dependency", func(t *testing.T) {
		s := newStartup(1)
		s.AddDependency(&Dependency{Name: "http", Requires: []string{"missing"}})
		assert.Error(t, s.Start(context.Background()))
	})

	t.Run("cycle", func(t *testing.T) {
		s := newStartup(1)
		s.AddDependency(&Dependency{Name: "a", Requires: []string{"b"}})
		s.AddDependency(&Dependency{Name: "b", Requires: []string{"a"}})
		assert.ErrorContains(t, s.Start(context.Background()), "cycle")
	})
}
