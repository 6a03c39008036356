package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(span sdktrace.ReadOnlySpan) map[string]string {
	out := make(map[string]string)
	for _, kv := range span.Attributes() {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "cashier_shift", "close",
		telemetry.WithAttribute(telemetry.SpanAttrShiftID, "s-1"))
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	assert.NotEmpty(t, telemetry.GetSpanID(ctx))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "cashier_shift.close", spans[0].Name())
	assert.Equal(t, "s-1", attrMap(spans[0])[telemetry.SpanAttrShiftID])
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "record")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCurrency, "UZS",
		telemetry.SpanAttrRowCount, 2,
		42, "skipped because key is not a string",
		telemetry.SpanAttrTransactionType, "in_out",
	)
	telemetry.SetAttribute(span, telemetry.SpanAttrAmount, 135000.5)
	span.End()

	attrs := attrMap(sr.Ended()[0])
	assert.Equal(t, "UZS", attrs[telemetry.SpanAttrCurrency])
	assert.Equal(t, "2", attrs[telemetry.SpanAttrRowCount])
	assert.Equal(t, "in_out", attrs[telemetry.SpanAttrTransactionType])
	assert.Equal(t, "135000.5", attrs[telemetry.SpanAttrAmount])
	assert.Len(t, attrs, 4)
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	t.Run("marks span failed", func(t *testing.T) {
		_, span := telemetry.StartSpan(context.Background(), "fail")
		telemetry.RecordError(span, errors.New("shift not open"))
		span.End()

		ended := sr.Ended()
		got := ended[len(ended)-1]
		assert.Equal(t, codes.Error, got.Status().Code)
		assert.Equal(t, "shift not open", got.Status().Description)
		require.Len(t, got.Events(), 1)
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		_, span := telemetry.StartSpan(context.Background(), "ok")
		telemetry.RecordError(span, nil)
		telemetry.SetOK(span)
		span.End()

		ended := sr.Ended()
		assert.Equal(t, codes.Ok, ended[len(ended)-1].Status().Code)
	})
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "close")
	telemetry.AddEvent(span, "shift_closed", "status", "under_review")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "shift_closed", events[0].Name)
	assert.Equal(t, "under_review", events[0].Attributes[0].Value.AsString())
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))
}
