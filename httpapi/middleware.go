package httpapi

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = 86400

var (
	corsAllowMethods = strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodOptions}, ", ")
	corsAllowHeaders = strings.Join([]string{"Origin", "Content-Type", "Accept"}, ", ")
)

// cors adds CORS headers for allowed origins and answers preflight requests.
func cors(allowOrigins []string) gin.HandlerFunc {
	wildcard := slices.Contains(allowOrigins, "*")
	maxAge := strconv.Itoa(corsMaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := ""
		switch {
		case wildcard:
			allowed = "*"
		case origin != "" && slices.Contains(allowOrigins, origin):
			allowed = origin
			c.Header("Vary", "Origin")
		}

		if allowed == "" {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", allowed)
		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client", c.ClientIP())
	}
}

// recovery turns a panic into a 500 JSON error.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic serving request",
					"path", c.Request.URL.Path,
					"panic", r,
					"stack", string(debug.Stack()))
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(msgInternalError))
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
