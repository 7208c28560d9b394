// README: Access logging middleware.
package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func Logging(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "err", c.Errors.String())
		}
		if c.Writer.Status() >= 500 {
			logger.Error("request", kv...)
			return
		}
		logger.Info("request", kv...)
	}
}
