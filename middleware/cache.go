package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hotel-booking-api/logger"
)

// bodyCapture duplicates the response body while it is written to the client
// so a successful response can be stored after the handler returns.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func cacheKey(c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("httpcache:%x", sum[:])
}

// ResponseCache is a read-through Redis cache for public GET routes. Only
// 200 responses are stored. A nil client disables caching entirely, so the
// middleware is safe to register unconditionally.
func ResponseCache(client *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		if cached, err := client.Get(c.Request.Context(), key).Bytes(); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		rec := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if c.Writer.Status() == http.StatusOK && rec.buf.Len() > 0 {
			if err := client.Set(c.Request.Context(), key, rec.buf.Bytes(), ttl).Err(); err != nil {
				logger.Warn("response cache store failed: " + err.Error())
			}
		}
	}
}
