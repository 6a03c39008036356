package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are exact paths that get no profiling labels.
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/api/v1/health", "/metrics"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling returns profiling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig tags the request context with Pyroscope labels:
// controller (handler type, e.g. "ShiftHandler"), route pattern, HTTP method
// and, when the JWT middleware ran first, the caller's role.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if slices.Contains(cfg.SkipPaths, path) || hasAnyPrefix(path, cfg.SkipPathPrefixes) {
			c.Next()
			return
		}

		labels := extractProfilingLabels(c)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func extractProfilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	controller := controllerFromHandlerName(c.HandlerName())
	if controller == "" {
		controller = controllerFromRoute(route)
	}

	labels := telemetry.HTTPRequestLabels(controller, route, c.Request.Method)
	if role := GetJWTRole(c); role != "" {
		labels[telemetry.ProfilingLabelRole] = string(role)
	}
	return labels
}

// controllerFromHandlerName extracts the receiver type from a method value
// name such as "pkg/handler.(*ShiftHandler).Close-fm".
func controllerFromHandlerName(name string) string {
	start := strings.Index(name, "(*")
	if start < 0 {
		return ""
	}
	rest := name[start+2:]
	end := strings.IndexByte(rest, ')')
	if end <= 0 {
		return ""
	}
	return rest[:end]
}

// controllerFromRoute returns the resource segment of an API route:
// "/api/v1/cashdesk/shifts/:id" yields "shifts".
func controllerFromRoute(route string) string {
	var static []string
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			break
		}
		static = append(static, part)
	}
	switch len(static) {
	case 0:
		return ""
	case 1:
		return static[0]
	default:
		return static[1]
	}
}

// isVersionSegment reports whether segment looks like "v1".
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
