package middleware

import (
	"net/http"
	"strings"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoutePermission defines the capability a route requires
type RoutePermission struct {
	Method string // HTTP method or "*" for all methods
	Path   string // gin route pattern; a trailing * matches any suffix
	// Permissions are alternatives: holding any one of them is enough.
	// An empty list admits any authenticated caller.
	Permissions []string
}

// RoutePermissionConfig holds the route table checked by RoutePermissionMiddleware
type RoutePermissionConfig struct {
	Routes []RoutePermission
	Logger *zap.Logger
	// DefaultDeny rejects routes that have no entry in the table
	DefaultDeny bool
}

// RoutePermissionMiddleware is the single authorization gate. Every route's
// capability requirement lives in one table, checked before any handler runs.
func RoutePermissionMiddleware(cfg RoutePermissionConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		route := findRoute(cfg.Routes, method, path)
		if route == nil {
			if cfg.DefaultDeny {
				cfg.Logger.Warn("No route permission defined, access denied",
					zap.String("path", path),
					zap.String("method", method))
				denyPermission(c, cfg, nil)
				return
			}
			c.Next()
			return
		}
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(shared.CodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		if len(route.Permissions) > 0 && !claims.HasAnyPermission(route.Permissions...) {
			denyPermission(c, cfg, route)
			return
		}
		c.Next()
	}
}

func findRoute(routes []RoutePermission, method, path string) *RoutePermission {
	for i := range routes {
		if matchRoute(&routes[i], method, path) {
			return &routes[i]
		}
	}
	return nil
}

// matchRoute checks if a route permission matches the request
func matchRoute(route *RoutePermission, method, path string) bool {
	if route.Method != "*" && !strings.EqualFold(route.Method, method) {
		return false
	}
	if prefix, ok := strings.CutSuffix(route.Path, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return route.Path == path
}

func denyPermission(c *gin.Context, cfg RoutePermissionConfig, route *RoutePermission) {
	userID, role := "", ""
	if claims := GetJWTClaims(c); claims != nil {
		userID, role = claims.UserID, claims.Role
	}
	var required []string
	if route != nil {
		required = route.Permissions
	}
	cfg.Logger.Warn("Route permission denied",
		zap.String("user_id", userID),
		zap.String("role", role),
		zap.Strings("required_permissions", required),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))

	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
		shared.CodeForbidden, "Access denied: insufficient permissions", GetRequestID(c)))
}

// HasPermission reports whether the caller holds permission
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	return claims != nil && claims.HasPermission(permission)
}
