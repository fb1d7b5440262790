package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/player-stats-relay/internal/services"
	"github.com/stitts-dev/player-stats-relay/pkg/utils"
)

// RateLimit rejects clients that exceed the limiter's rolling window, keyed by client IP
func RateLimit(limiter *services.ClientRateLimiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter := limiter.Allow(clientIP)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.Header("X-RateLimit-Remaining", "0")

			logger.WithFields(logrus.Fields{
				"component":   "rate_limiter",
				"client_ip":   clientIP,
				"retry_after": seconds,
			}).Warn("Inbound rate limit exceeded")

			utils.SendTooManyRequests(c)
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(clientIP)))
		c.Next()
	}
}
