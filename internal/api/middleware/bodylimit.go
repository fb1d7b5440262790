package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/player-stats-relay/pkg/utils"
)

// BodyLimit caps request bodies at maxBytes. Declared oversize bodies are
// rejected up front; chunked ones fail on read with *http.MaxBytesError,
// which handlers turn into 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			utils.SendPayloadTooLarge(c)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
