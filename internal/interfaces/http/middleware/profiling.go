package middleware

import (
	"context"
	"strings"

	"github.com/bewloop/quark-system/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling middleware
type ProfilingConfig struct {
	Enabled bool
	// SkipPathPrefixes are not labelled, e.g. health probes and API docs
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns the profiling middleware defaults
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPathPrefixes: []string{"/health", "/swagger"},
	}
}

// ProfilingWithConfig attaches Pyroscope labels (controller, route, method,
// role) to the request goroutine so CPU samples can be sliced by endpoint.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	return map[string]string{
		telemetry.ProfilingLabelMethod:     c.Request.Method,
		telemetry.ProfilingLabelRoute:      route,
		telemetry.ProfilingLabelController: controllerFromRoute(route),
		telemetry.ProfilingLabelRole:       GetJWTRole(c),
	}
}

// controllerFromRoute returns the first resource segment after the version,
// e.g. "/api/v1/orders/:id" -> "orders"
func controllerFromRoute(route string) string {
	for _, seg := range strings.Split(strings.Trim(route, "/"), "/") {
		switch {
		case seg == "" || seg == "api" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*"):
			continue
		case len(seg) > 1 && seg[0] == 'v' && strings.Trim(seg[1:], "0123456789") == "":
			continue
		}
		return seg
	}
	return ""
}
