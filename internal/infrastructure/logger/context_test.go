package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger() (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{MessageKey: "msg", LevelKey: "level", EncodeLevel: zapcore.LowercaseLevelEncoder})
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)
	return zap.New(core), &buf
}

func spanContext() trace.SpanContext {
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		logger, _ := newBufferLogger()
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("ignores values of the wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		assert.NotPanics(t, func() { FromContext(ctx).Info("ignored") })
	})
}

func TestWithRequestIDAndUser(t *testing.T) {
	base, buf := newBufferLogger()

	ctx, _ := WithRequestID(context.Background(), base, "req-123")
	ctx, enriched := WithUser(ctx, FromContext(ctx), "user-1", "cashier")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "cashier", GetRole(ctx))

	enriched.Info("shift started")
	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-123"`)
	assert.Contains(t, out, `"user_id":"user-1"`)
	assert.Contains(t, out, `"role":"cashier"`)
}

func TestGetters_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetRole(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestWithTraceContext(t *testing.T) {
	t.Run("no span leaves the logger unchanged", func(t *testing.T) {
		logger, _ := newBufferLogger()
		assert.Same(t, logger, WithTraceContext(context.Background(), logger))
	})

	t.Run("adds trace and span ids", func(t *testing.T) {
		logger, buf := newBufferLogger()
		ctx := trace.ContextWithSpanContext(context.Background(), spanContext())

		WithTraceContext(ctx, logger).Info("traced")
		assert.Contains(t, buf.String(), `"trace_id":"0102030405060708090a0b0c0d0e0f10"`)
		assert.Contains(t, buf.String(), `"span_id":"0102030405060708"`)
		assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", GetTraceID(ctx))
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("L uses the logger from the context without repeating ids", func(t *testing.T) {
		base, buf := newBufferLogger()
		ctx, _ := WithRequestID(context.Background(), base, "req-1")

		L(ctx).Info("hello")
		assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"request_id"`)))
	})

	t.Run("For attaches ids from the context", func(t *testing.T) {
		base, buf := newBufferLogger()
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-2")
		ctx = context.WithValue(ctx, UserIDKey, "user-2")
		ctx = trace.ContextWithSpanContext(ctx, spanContext())

		For(ctx, base).With(zap.String("shift_id", "s-1")).Warn("discrepancy")
		out := buf.String()
		assert.Contains(t, out, `"request_id":"req-2"`)
		assert.Contains(t, out, `"user_id":"user-2"`)
		assert.Contains(t, out, `"shift_id":"s-1"`)
		assert.Contains(t, out, `"trace_id"`)
		assert.Contains(t, out, `"level":"warn"`)
	})

	t.Run("every level writes", func(t *testing.T) {
		base, buf := newBufferLogger()
		cl := For(context.Background(), base)
		cl.Debug("d")
		cl.Info("i")
		cl.Warn("w")
		cl.Error("e")
		assert.Equal(t, 4, bytes.Count(buf.Bytes(), []byte("\n")))
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		cl := &ContextLogger{ctx: context.Background()}
		require.NotPanics(t, func() { cl.Info("nothing") })
		assert.NotNil(t, cl.Zap())
	})
}
