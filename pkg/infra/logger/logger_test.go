package logger

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	logopts "github.com/kart-io/medisearch/pkg/options/logger"
)

func TestContextFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, Fields(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithSessionID(ctx, "s-1")
	ctx = WithRequestID(ctx, "req-2")
	ctx = WithFields(ctx, "endpoint", "chat", 42, "dropped", "dangling")

	assert.Equal(t, []any{"session_id", "s-1", "request_id", "req-2", "endpoint", "chat"}, Fields(ctx))
	assert.NotNil(t, FromContext(ctx))
}

func TestEmptyValuesLeaveContextUntouched(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithRequestID(ctx, ""))
	assert.Equal(t, ctx, WithSessionID(ctx, ""))
	assert.Equal(t, ctx, WithFields(ctx))
	assert.Equal(t, ctx, WithTraceFields(ctx))
}

func TestWithTraceFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	ctx = WithTraceFields(ctx)

	assert.Equal(t, []any{
		"trace_id", "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id", "00f067aa0ba902b7",
	}, Fields(ctx))
}

func TestReloadable(t *testing.T) {
	opts := logopts.NewOptions()
	opts.Level = "INFO"
	opts.Format = "json"
	r := NewReloadable(opts, "log")
	v := viper.New()

	require.NoError(t, r.OnConfigChange(v))
	assert.Equal(t, "INFO", opts.Level)

	v.Set("log.level", "DEBUG")
	require.NoError(t, r.OnConfigChange(v))
	assert.Equal(t, "DEBUG", opts.Level)
	assert.Equal(t, "json", opts.Format)

	v.Set("log.level", "LOUD")
	assert.Error(t, r.OnConfigChange(v))
	assert.Equal(t, "DEBUG", opts.Level)
}
