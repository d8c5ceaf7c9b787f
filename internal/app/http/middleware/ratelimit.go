package middleware

import (
	"math"
	"strconv"

	"vidshelf/internal/apperr"
	"vidshelf/internal/infra/logging"
	"vidshelf/internal/infra/metrics"
	"vidshelf/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit counts requests per client IP and route. Limiter failures let
// the request through.
func RateLimit(l *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		res, err := l.Allow(c.Request.Context(), c.ClientIP()+"|"+route)
		if err != nil {
			logging.Log.WithError(err).WithField("route", route).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			metrics.RateLimited.WithLabelValues(route).Inc()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			apperr.Respond(c, apperr.ErrRateLimited)
			return
		}
		c.Next()
	}
}
