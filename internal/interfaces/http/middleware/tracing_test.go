package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs a recording tracer provider for the test
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prevTP := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prevTP)
	})

	return sr
}

func findSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	require.Failf(t, "span not found", "no ended span named %q", name)
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (string, bool) {
	for _, attr := range span.Attributes() {
		if attr.Key == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false, ServiceName: "test-service"}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SpanNamedAfterRoute(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/api/v1/cashdesk/shifts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cashdesk/shifts/"+uuid.NewString(), nil))

	findSpan(t, sr, "GET /api/v1/cashdesk/shifts/:id")
}

func TestTracingAttributeInjector(t *testing.T) {
	sr := setupTestTracer(t)
	shiftID := uuid.NewString()

	router := gin.New()
	router.Use(RequestID())
	router.Use(Tracing())
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, "user-123")
		c.Set(JWTRoleKey, "cashier")
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.POST("/cashdesk/shifts/:id/close", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/cashdesk/shifts/"+shiftID+"/close", nil)
	req.Header.Set(RequestIDHeader, "test-request-id-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	span := findSpan(t, sr, "POST /cashdesk/shifts/:id/close")
	for key, want := range map[attribute.Key]string{
		"request_id": "test-request-id-123",
		"user_id":    "user-123",
		"user.role":  "cashier",
		"shift_id":   shiftID,
	} {
		got, ok := spanAttr(span, key)
		assert.True(t, ok, "missing %s", key)
		assert.Equal(t, want, got, string(key))
	}
}

func TestTracingAttributeInjector_DrawerRoute(t *testing.T) {
	sr := setupTestTracer(t)
	drawerID := uuid.NewString()

	router := gin.New()
	router.Use(Tracing(), TracingAttributeInjector())
	router.POST("/cashdesk/drawers/:id/shifts", func(c *gin.Context) { c.Status(http.StatusCreated) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/cashdesk/drawers/"+drawerID+"/shifts", nil))

	span := findSpan(t, sr, "POST /cashdesk/drawers/:id/shifts")
	got, ok := spanAttr(span, "drawer_id")
	assert.True(t, ok)
	assert.Equal(t, drawerID, got)
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantStatus codes.Code
	}{
		{"ok", http.StatusOK, codes.Unset},
		{"conflict", http.StatusConflict, codes.Error},
		{"server error", http.StatusInternalServerError, codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)

			router := gin.New()
			router.Use(Tracing(), SpanErrorMarker())
			router.GET("/test", func(c *gin.Context) { c.Status(tt.status) })
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

			span := findSpan(t, sr, "GET /test")
			assert.Equal(t, tt.wantStatus, span.Status().Code)
		})
	}
}

func TestResourceAttribute(t *testing.T) {
	assert.Equal(t, "drawer_id", resourceAttribute("/api/v1/cashdesk/drawers/:id"))
	assert.Equal(t, "shift_id", resourceAttribute("/api/v1/cashdesk/shifts/:id/summary"))
	assert.Equal(t, "resource_id", resourceAttribute("/api/v1/other/:id"))
}
