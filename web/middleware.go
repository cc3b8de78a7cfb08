package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keelframework/keel/core"
)

type Ctx = *gin.Context
type Handler = gin.HandlerFunc
type Router = gin.IRouter

const scopeKey = "keel_scope"

// RequestID propagates X-Request-ID, minting one when the client sent none.
func RequestID() Handler {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

// RequestScope opens a child container scope for each request and disposes it
// after the response is written. Handlers fetch it with Scope; scoped
// registrations then resolve once per request.
func RequestScope(root *core.Container, l *slog.Logger) Handler {
	return func(c *gin.Context) {
		scope := root.CreateScope()
		c.Set(scopeKey, scope)
		defer func() {
			if err := scope.Dispose(); err != nil {
				l.Error("request scope dispose failed", "error", err, "req_id", c.GetString("request_id"))
			}
		}()
		c.Next()
	}
}

// Scope returns the request's container scope, or nil outside RequestScope.
func Scope(c *gin.Context) *core.Container {
	v, ok := c.Get(scopeKey)
	if !ok {
		return nil
	}
	scope, _ := v.(*core.Container)
	return scope
}

// AccessLog writes a structured access log entry after the request completes.
func AccessLog(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("http_access",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"req_id", c.GetString("request_id"),
		)
	}
}

// RecoveryProblem converts panics to RFC 7807 problem+json responses.
func RecoveryProblem(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic", "error", rec, "req_id", c.GetString("request_id"))
				c.Header("Content-Type", "application/problem+json")
				c.JSON(http.StatusInternalServerError, map[string]any{
					"type":   "about:blank",
					"title":  "Internal Server Error",
					"status": http.StatusInternalServerError,
					"detail": "unexpected server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
