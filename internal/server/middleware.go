package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/rentflow/internal/ussd"
	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request. Health probes log at debug.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.FullPath() == HealthPath {
			level = slog.LevelDebug
		}
		logger.Log(c.Request.Context(), level, "Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// recoverWithGenericFailure turns a panic into the generic terminal reply so
// the caller's handset is never left waiting.
func recoverWithGenericFailure(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "Recovered from panic",
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered))
		c.String(http.StatusOK, ussd.GenericFailure().String())
		c.Abort()
	})
}
