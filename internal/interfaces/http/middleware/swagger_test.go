package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func serveSwagger(cfg config.SwaggerConfig, auth gin.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, auth), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	denyAll := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	allowAll := func(c *gin.Context) {}

	tests := []struct {
		name       string
		cfg        config.SwaggerConfig
		auth       gin.HandlerFunc
		remoteAddr string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "disabled",
			cfg:        config.SwaggerConfig{Enabled: false},
			remoteAddr: "10.0.0.1:1",
			wantStatus: http.StatusNotFound,
			wantBody:   "ERR_NOT_FOUND",
		},
		{
			name:       "open",
			cfg:        config.SwaggerConfig{Enabled: true},
			remoteAddr: "203.0.113.9:1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "exact ip allowed",
			cfg:        config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}},
			remoteAddr: "10.0.0.1:1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "ip denied",
			cfg:        config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}},
			remoteAddr: "10.0.0.2:1",
			wantStatus: http.StatusForbidden,
			wantBody:   "ERR_FORBIDDEN",
		},
		{
			name:       "cidr allowed",
			cfg:        config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}},
			remoteAddr: "192.168.40.7:1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "auth required and rejected",
			cfg:        config.SwaggerConfig{Enabled: true, RequireAuth: true},
			auth:       denyAll,
			remoteAddr: "10.0.0.1:1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "auth required and passed",
			cfg:        config.SwaggerConfig{Enabled: true, RequireAuth: true},
			auth:       allowAll,
			remoteAddr: "10.0.0.1:1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "ip check runs before auth",
			cfg:        config.SwaggerConfig{Enabled: true, RequireAuth: true, AllowedIPs: []string{"10.0.0.0/8"}},
			auth:       allowAll,
			remoteAddr: "172.16.0.1:1",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSwagger(tt.cfg, tt.auth, tt.remoteAddr)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestParseAllowList(t *testing.T) {
	ips, nets := parseAllowList([]string{"10.0.0.1", " 192.168.0.0/16 ", "not-an-ip", "300.1.1.1/8"})
	assert.Len(t, ips, 1)
	assert.Len(t, nets, 1)
}

func TestIsIPAllowed(t *testing.T) {
	ips, nets := parseAllowList([]string{"10.0.0.1", "192.168.0.0/16", "::1"})

	assert.True(t, isIPAllowed(net.ParseIP("10.0.0.1"), ips, nets))
	assert.True(t, isIPAllowed(net.ParseIP("192.168.200.1"), ips, nets))
	assert.True(t, isIPAllowed(net.ParseIP("::1"), ips, nets))
	assert.False(t, isIPAllowed(net.ParseIP("10.0.0.2"), ips, nets))
	assert.False(t, isIPAllowed(nil, ips, nets))
}
