package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettersAndGetters(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))

	ctx = SetRequestID(ctx, "req-1")
	ctx = SetMethod(ctx, "POST")
	ctx = SetRoute(ctx, "/api/v1/resolve")
	ctx = SetRemoteIP(ctx, "10.0.0.1")
	ctx = SetResortID(ctx, "zermatt")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "POST", GetMethod(ctx))
	assert.Equal(t, "/api/v1/resolve", GetRoute(ctx))
	assert.Equal(t, "10.0.0.1", GetRemoteIP(ctx))
	assert.Equal(t, "zermatt", GetResortID(ctx))
}

func TestFields(t *testing.T) {
	ctx := SetRequestID(context.Background(), "req-1")
	ctx = SetResortID(ctx, "la-plagne")

	assert.Equal(t, map[string]any{
		"request_id": "req-1",
		"resort_id":  "la-plagne",
	}, Fields(ctx))
}
