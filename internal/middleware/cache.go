package middleware

import (
	"github.com/gin-gonic/gin"
)

// DownloadContent keeps stored files out of shared caches and makes clients
// revalidate, so a deleted or replaced file stops being served.
const DownloadContent = "private, no-cache"

// CacheControl sets a default Cache-Control header. Handlers writing errors
// replace it with no-store.
func CacheControl(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
