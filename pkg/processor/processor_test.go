package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/edelweiss/pkg/kafka"
	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/resolver"
)

type fakeResolver struct {
	requests []resolver.Request
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, req resolver.Request) (*models.Resolution, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Resolution{ID: "res-1", ResortID: req.ResortID}, nil
}

type fakePublisher struct {
	events []*kafka.ResolutionEvent
	err    error
}

func (f *fakePublisher) PublishResolution(_ context.Context, event *kafka.ResolutionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newProcessor(res *fakeResolver, pub *fakePublisher) *Processor {
	return NewProcessor(ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {}), res, pub)
}

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves and publishes", func(t *testing.T) {
		res, pub := &fakeResolver{}, &fakePublisher{}
		err := newProcessor(res, pub).ProcessMessage(ctx, &kafka.IncomingMessage{
			Key:   "ignored",
			Value: []byte(`{"resort_id":"la-plagne","lifts":[{"name":"Roche de Mio","status":"O"}]}`),
		})
		require.NoError(t, err)

		require.Len(t, res.requests, 1)
		assert.Equal(t, "la-plagne", res.requests[0].ResortID)
		assert.Equal(t, "Roche de Mio", res.requests[0].Lifts[0].Name)

		require.Len(t, pub.events, 1)
		assert.Equal(t, "res-1", pub.events[0].Resolution.ID)
		assert.Equal(t, "ignored", pub.events[0].RequestKey)
	})

	t.Run("message key names the resort", func(t *testing.T) {
		res, pub := &fakeResolver{}, &fakePublisher{}
		require.NoError(t, newProcessor(res, pub).ProcessMessage(ctx, &kafka.IncomingMessage{
			Key:   "zermatt-cervinia",
			Value: []byte(`{"runs":[{"name":"Ventina"}]}`),
		}))
		assert.Equal(t, "zermatt-cervinia", res.requests[0].ResortID)
	})

	t.Run("undecodable messages are malformed", func(t *testing.T) {
		for _, value := range []string{"", "not json", `{"resort_id":"x","unknown_field":1}`} {
			err := newProcessor(&fakeResolver{}, &fakePublisher{}).ProcessMessage(ctx, &kafka.IncomingMessage{Value: []byte(value)})
			assert.ErrorIs(t, err, kafka.ErrMalformed, value)
		}
	})

	t.Run("client errors are malformed", func(t *testing.T) {
		res := &fakeResolver{err: fmt.Errorf("%w: atlantis", resolver.ErrUnknownResort)}
		err := newProcessor(res, &fakePublisher{}).ProcessMessage(ctx, &kafka.IncomingMessage{Key: "atlantis", Value: []byte(`{}`)})
		assert.ErrorIs(t, err, kafka.ErrMalformed)
	})

	t.Run("publish failures are retried", func(t *testing.T) {
		pub := &fakePublisher{err: errors.New("broker down")}
		err := newProcessor(&fakeResolver{}, pub).ProcessMessage(ctx, &kafka.IncomingMessage{Key: "la-plagne", Value: []byte(`{}`)})
		require.Error(t, err)
		assert.NotErrorIs(t, err, kafka.ErrMalformed)
	})
}
