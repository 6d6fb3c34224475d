package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpanWithoutTracer(t *testing.T) {
	SetTracer(nil)
	ctx, span := StartSpan(context.Background(), "noop", attribute.String("resort_id", "la-plagne"))
	defer span.End()

	assert.False(t, span.IsRecording())
	assert.Empty(t, GetTraceID(ctx))
	Fail(span, errors.New("ignored"))
}

func TestFail(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	SetTracer(provider.Tracer("edelweiss-test"))
	t.Cleanup(func() { SetTracer(nil) })

	ctx, span := StartSpan(context.Background(), "resolve", attribute.String("resort_id", "la-plagne"))
	assert.Len(t, GetTraceID(ctx), 32)
	Fail(span, nil)
	Fail(span, errors.New("catalog unavailable"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "catalog unavailable", ended[0].Status().Description)
	assert.Contains(t, ended[0].Attributes(), attribute.String("resort_id", "la-plagne"))
}

func TestSetup(t *testing.T) {
	t.Run("without endpoint spans still carry trace ids", func(t *testing.T) {
		shutdown, err := Setup(context.Background(), Config{ServiceName: "edelweiss-test"})
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = shutdown(context.Background())
			SetTracer(nil)
		})

		ctx, span := StartSpan(context.Background(), "resolve")
		defer span.End()

		assert.Len(t, GetTraceID(ctx), 32)
	})

	t.Run("unknown protocol", func(t *testing.T) {
		_, err := Setup(context.Background(), Config{Endpoint: "localhost:4317", Protocol: "carrier-pigeon"})
		assert.ErrorContains(t, err, "unsupported OTLP protocol")
	})

	t.Run("http exporter", func(t *testing.T) {
		shutdown, err := Setup(context.Background(), Config{ServiceName: "edelweiss-test", Endpoint: "localhost:4318", Insecure: true})
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = shutdown(context.Background())
			SetTracer(nil)
		})
		assert.NotNil(t, shutdown)
	})
}
