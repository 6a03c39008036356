package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
)

type shiftHandlerStub struct{}

func (*shiftHandlerStub) Get(c *gin.Context) {
	c.Status(http.StatusOK)
}

func TestProfilingMiddleware_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		cfg  ProfilingConfig
		path string
	}{
		{"disabled", ProfilingConfig{Enabled: false}, "/api/v1/cashdesk/shifts"},
		{"enabled", DefaultProfilingConfig(), "/api/v1/cashdesk/shifts"},
		{"skip exact", DefaultProfilingConfig(), "/health"},
		{"skip prefix", DefaultProfilingConfig(), "/swagger/index.html"},
		{"not an exact skip", DefaultProfilingConfig(), "/health/deep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ProfilingWithConfig(tt.cfg))
			called := false
			r.GET(tt.path, func(c *gin.Context) {
				called = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, called)
		})
	}
}

func TestProfilingMiddleware_PreservesContextValues(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type ctxKey struct{}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey{}, "kept"))
		c.Next()
	})
	r.Use(Profiling())

	var got any
	r.GET("/api/v1/cashdesk/shifts/:id", func(c *gin.Context) {
		got = c.Request.Context().Value(ctxKey{})
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cashdesk/shifts/7", nil))

	assert.Equal(t, "kept", got)
}

func TestExtractProfilingLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var labels map[string]string
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(JWTRoleKey, string(auth.RoleCashier))
		labels = extractProfilingLabels(c)
		c.Next()
	})
	r.GET("/api/v1/cashdesk/shifts/:id", (&shiftHandlerStub{}).Get)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cashdesk/shifts/7", nil))

	assert.Equal(t, map[string]string{
		"controller": "shiftHandlerStub",
		"route":      "/api/v1/cashdesk/shifts/:id",
		"method":     http.MethodGet,
		"role":       "cashier",
	}, labels)
}

func TestControllerFromHandlerName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"github.com/hotelops/backend/internal/interfaces/http/handler.(*ShiftHandler).Close-fm", "ShiftHandler"},
		{"github.com/hotelops/backend/internal/interfaces/http/handler.(*DrawerHandler).List-fm", "DrawerHandler"},
		{"main.main.func1", ""},
		{"broken.(*", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, controllerFromHandlerName(tt.name), tt.name)
	}
}

func TestControllerFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/cashdesk/shifts/:id", "shifts"},
		{"/api/v1/cashdesk/shifts/:id/approve", "shifts"},
		{"/api/v1/cashdesk/drawers", "drawers"},
		{"/api/v1/health", "health"},
		{"/metrics", "metrics"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, controllerFromRoute(tt.route), tt.route)
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("shifts"))
}
