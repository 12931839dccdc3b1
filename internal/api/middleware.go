package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axellelanca/adtracker/internal/logger"
	"github.com/axellelanca/adtracker/internal/metrics"
	"github.com/axellelanca/adtracker/internal/readiness"
	"github.com/axellelanca/adtracker/internal/services"
)

const (
	identityKey  = "identity"
	requestIDKey = "RequestID"
)

// RequestLogger logs every request with zap and tags it with an X-Request-ID.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set(requestIDKey, requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		for _, e := range c.Errors.Errors() {
			logger.Log.Error(e, zap.String("request_id", requestID))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Log.Error("Server Error", fields...)
		case status >= 400:
			logger.Log.Warn("Client Error", fields...)
		default:
			logger.Log.Info("Request", fields...)
		}
	}
}

// Metrics records request count and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

// RequireReady refuses the request with 503 while the readiness artifact is missing.
// Nothing downstream runs, so a refused request never writes.
func RequireReady(gate *readiness.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.Check(); err != nil {
			metrics.Ready.Set(0)
			logger.Log.Warn("operation refused",
				zap.String("path", c.Request.URL.Path),
				zap.String("proof", gate.Path()),
				zap.Error(err))
			abort(c, http.StatusServiceUnavailable, MsgNotReady)
			return
		}
		metrics.Ready.Set(1)
		c.Next()
	}
}

// LoadIdentity resolves the session cookie into an Identity stored on the context.
// A missing or stale cookie leaves the request anonymous.
func LoadIdentity(auth *services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		id, err := auth.Identify(c.Request.Context(), token)
		if err != nil {
			logger.Log.Error("failed to resolve session", zap.Error(err))
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireLogin redirects anonymous callers to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity(c).Anonymous() {
			c.Redirect(http.StatusFound, "/login/1")
			c.Abort()
			return
		}
		c.Next()
	}
}

func identity(c *gin.Context) services.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(services.Identity); ok {
			return id
		}
	}
	return services.Identity{}
}
