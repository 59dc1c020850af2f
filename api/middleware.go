package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeaderKey)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Header(RequestIDHeaderKey, requestID)
		c.Set(RequestIDContextKey, requestID)
		c.Next()
	}
}

// ginLoggerMiddleware logs one line per request. Polling endpoints are
// skipped since the terminal hits them every few seconds.
func ginLoggerMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/next", "/health", "/metrics"},
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("[%s] %s \"%s %s %s\" %d %s %s\n",
				param.TimeStamp.Format("2006/01/02 - 15:04:05"),
				param.ClientIP,
				param.Method,
				redactQuery(param.Path),
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Keys[RequestIDContextKey],
			)
		},
	})
}

// redactQuery hides the shared secret when it travels in the query string
func redactQuery(path string) string {
	base, rawQuery, found := strings.Cut(path, "?")
	if !found {
		return path
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return base
	}
	if values.Has("secret") {
		values.Set("secret", "***")
	}
	return base + "?" + values.Encode()
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// generateRequestID creates a simple request ID
func generateRequestID() string {
	return uuid.New().String()
}
