package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func sqlFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")
	ctx = context.WithValue(ctx, UserIDKey, "manager-1")

	t.Run("query logged at debug with request fields", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Trace(ctx, time.Now(), sqlFunc("SELECT * FROM cash_shifts", 3), nil)

		entries := recorded.FilterMessage("SQL Query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, "manager-1", fields["user_id"])
		assert.Equal(t, int64(3), fields["rows"])
	})

	t.Run("error logged", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		gl.Trace(ctx, time.Now(), sqlFunc("UPDATE cash_drawers", 0), errors.New("deadlock"))

		entries := recorded.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	})

	t.Run("record not found ignored", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 0), gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.FilterMessage("SQL Error").Len())
	})

	t.Run("record not found logged when not ignored", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info, WithIgnoreRecordNotFoundError(false))
		gl.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 0), gormlogger.ErrRecordNotFound)
		assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())
	})

	t.Run("slow query", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))
		gl.Trace(ctx, time.Now().Add(-time.Second), sqlFunc("SELECT pg_sleep(1)", 1), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Contains(t, entries[0].Message, "SLOW SQL")
	})

	t.Run("slow threshold disabled", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(0))
		gl.Trace(ctx, time.Now().Add(-time.Second), sqlFunc("SELECT 1", 1), nil)
		assert.Zero(t, recorded.Len())
	})

	t.Run("silent", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)
		gl.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 1), errors.New("boom"))
		assert.Zero(t, recorded.Len())
	})

	t.Run("long sql truncated", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Trace(ctx, time.Now(), sqlFunc(strings.Repeat("x", maxLoggedSQL+100), 1), nil)

		sql := recorded.All()[0].ContextMap()["sql"].(string)
		assert.Len(t, sql, maxLoggedSQL+3)
		assert.True(t, strings.HasSuffix(sql, "..."))
	})
}

func TestGormLogger_Messages(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn)
	ctx := context.Background()

	gl.Info(ctx, "hidden %d", 1)
	gl.Warn(ctx, "pool at %d%%", 90)
	gl.Error(ctx, "migration %s failed", "0003")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "pool at 90%", entries[0].Message)
	assert.Equal(t, "migration 0003 failed", entries[1].Message)

	verbose := gl.LogMode(gormlogger.Info)
	verbose.Info(ctx, "now %s", "visible")
	assert.Equal(t, 1, recorded.FilterMessage("now visible").Len())
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"debug":  gormlogger.Info,
		"other":  gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}
