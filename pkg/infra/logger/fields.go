// Package logger carries structured log fields through a context so that
// every line logged while serving a request shares its identifiers.
package logger

import (
	"context"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
	"go.opentelemetry.io/otel/trace"
)

type contextKey int

const loggerFieldsKey contextKey = iota

// fields is an immutable, ordered key-value list.
type fields struct {
	kv []any
}

func fromContext(ctx context.Context) *fields {
	if f, ok := ctx.Value(loggerFieldsKey).(*fields); ok {
		return f
	}
	return &fields{}
}

// with returns a copy with key set, replacing an earlier value.
func (f *fields) with(key string, value any) *fields {
	kv := make([]any, 0, len(f.kv)+2)
	for i := 0; i+1 < len(f.kv); i += 2 {
		if f.kv[i] != key {
			kv = append(kv, f.kv[i], f.kv[i+1])
		}
	}
	return &fields{kv: append(kv, key, value)}
}

// WithRequestID adds request_id to the context log fields.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, loggerFieldsKey, fromContext(ctx).with("request_id", requestID))
}

// WithSessionID adds session_id to the context log fields.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, loggerFieldsKey, fromContext(ctx).with("session_id", sessionID))
}

// WithFields adds key-value pairs. A trailing key without value and
// non-string keys are dropped.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	f := fromContext(ctx)
	changed := false
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			f = f.with(key, keysAndValues[i+1])
			changed = true
		}
	}
	if !changed {
		return ctx
	}
	return context.WithValue(ctx, loggerFieldsKey, f)
}

// WithTraceFields copies trace_id and span_id from the active span.
func WithTraceFields(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ctx
	}
	f := fromContext(ctx).with("trace_id", sc.TraceID().String()).with("span_id", sc.SpanID().String())
	return context.WithValue(ctx, loggerFieldsKey, f)
}

// Fields returns the context log fields as key-value pairs.
func Fields(ctx context.Context) []any {
	return append([]any(nil), fromContext(ctx).kv...)
}

// FromContext returns the global logger with the context fields attached.
func FromContext(ctx context.Context) core.Logger {
	kv := fromContext(ctx).kv
	if len(kv) == 0 {
		return logger.Global()
	}
	return logger.Global().With(kv...)
}
