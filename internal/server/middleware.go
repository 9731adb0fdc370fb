package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const tokenHeader = "X-Hostmon-Token"

// AuthMiddleware validates the X-Hostmon-Token header (or the token query
// parameter, for websocket clients that cannot set headers).
func AuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// /ping is public and does not require auth
		if c.Request.URL.Path == "/ping" {
			c.Next()
			return
		}

		provided := c.GetHeader(tokenHeader)
		if provided == "" {
			provided = c.Query("token")
		}
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "missing " + tokenHeader + " header",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"ok":    false,
				"error": "invalid token",
			})
			return
		}

		c.Next()
	}
}

// LoggingMiddleware logs each request with duration and status. Successful
// requests go to debug since display clients poll every tick.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusBadRequest {
			level = slog.LevelInfo
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

// RecoveryMiddleware catches panics and returns a 500 error.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					"error", r,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"ok":    false,
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
