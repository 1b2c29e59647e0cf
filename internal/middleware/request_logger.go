package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/internal/logger"
)

// RequestLogger logs HTTP requests with timing and status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/v1/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Debug("http request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.String("query", c.Request.URL.RawQuery),
			logger.Int("status", c.Writer.Status()),
			logger.String("duration", time.Since(start).String()),
			logger.String("ip", c.ClientIP()),
		)
	}
}

// ErrorLogger logs errors gin handlers attached to the context.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			logger.Error("request error",
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
				logger.Err(err.Err),
			)
		}
	}
}
