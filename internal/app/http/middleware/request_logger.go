package middleware

import (
	"strconv"
	"time"

	"vidshelf/internal/infra/logging"
	"vidshelf/internal/infra/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.RequestsTotal.WithLabelValues(strconv.Itoa(status), c.Request.Method, route).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(duration.Seconds())

		entry := logging.Log.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        route,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"ip":          c.ClientIP(),
		})
		if uid := c.GetUint("user_id"); uid != 0 {
			entry = entry.WithField("user_id", uid)
		}

		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
