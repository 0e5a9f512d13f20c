package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConnectsAndInstruments(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx := context.Background()
	client, err := New(ctx, Config{Addr: mr.Addr(), PoolSize: 2, PoolTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	before := counterValue(t, redisRequestsTotal.WithLabelValues("incrby"))

	require.NoError(t, client.IncrBy(ctx, "counter", 3).Err())
	assert.NoError(t, client.HealthCheck(ctx))

	after := counterValue(t, redisRequestsTotal.WithLabelValues("incrby"))
	assert.Equal(t, before+1, after)
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), Config{Addr: addr, MaxRetries: -1})
	assert.Error(t, err)
}

func TestHealthCheck_NilClient(t *testing.T) {
	var c *Client
	assert.Error(t, c.HealthCheck(context.Background()))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
