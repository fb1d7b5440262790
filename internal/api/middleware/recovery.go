package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/player-stats-relay/pkg/utils"
)

// Recovery turns a handler panic into the generic 500 body
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		entry := logger.WithFields(logrus.Fields{
			"service": serviceName,
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"panic":   recovered,
		})
		if requestID, exists := c.Get(RequestIDKey); exists {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error("Recovered from panic")

		utils.SendInternalError(c)
	})
}
