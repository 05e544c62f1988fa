package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"ENV", "LOG_LEVEL", "RUN_LOCAL", "HTTP_ADDR", "ORDER_SOURCE", "UPSTREAM_BASE_URL",
		"UPSTREAM_TOKEN", "UPSTREAM_TIMEOUT", "ORDERS_TABLE", "IDEMPOTENCY_TABLE",
		"ORDERS_QUEUE_URL", "METRICS_NAMESPACE", "IDEMPOTENCY_TTL",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPSTREAM_BASE_URL", "https://shop.example.com/api")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, SourceREST, cfg.OrderSource)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 48*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "OrderInsights", cfg.MetricsNamespace)
	assert.False(t, cfg.RunLocal)
}

func TestFromEnv_DynamoDBSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORDER_SOURCE", "dynamodb")
	t.Setenv("ORDERS_TABLE", "orders-dev")
	t.Setenv("UPSTREAM_TIMEOUT", "3")
	t.Setenv("IDEMPOTENCY_TTL", "90m")
	t.Setenv("RUN_LOCAL", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "orders-dev", cfg.OrdersTable)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 90*time.Minute, cfg.IdempotencyTTL)
	assert.True(t, cfg.RunLocal)
}

func TestFromEnv_Errors(t *testing.T) {
	clearEnv(t)
	_, err := FromEnv()
	assert.Error(t, err, "rest source without base url")

	t.Setenv("ORDER_SOURCE", "graphql")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("ORDER_SOURCE", "dynamodb")
	t.Setenv("IDEMPOTENCY_TTL", "soon")
	_, err = FromEnv()
	assert.Error(t, err)
}
