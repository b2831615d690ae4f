package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sandevgo/skyline/pkg/log"
)

// requestLogger threads the process logger into each request context and
// logs one line per request.
func requestLogger(base context.Context) gin.HandlerFunc {
	logger := log.WithComponent(base, "httpapi")
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		start := time.Now()
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// recovery turns panics into a 500 with a safe body instead of killing the
// process.
func recovery(base context.Context) gin.HandlerFunc {
	logger := log.FromCtx(base)
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "something went wrong handling that request",
		})
	})
}
