package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/pkg/jwt"
	"github.com/portal-berita/core/internal/pkg/redis"
	"github.com/portal-berita/core/internal/pkg/response"
	"go.uber.org/zap"
)

// RateLimit returns a fixed-window limiter keyed by client IP. Requests that
// carry a correctly signed token are exempt; Auth still checks the session.
// Redis failures let the request through.
func RateLimit(rdb *redis.Client, max int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	if window <= 0 {
		window = time.Minute
	}
	return func(c *gin.Context) {
		if max <= 0 || IsAuthenticated(c) || hasSignedToken(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		windowKey := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("berita:rate_limit:%s:%d", ip, windowKey)

		count, err := rdb.Incr(c.Request.Context(), key, window+time.Second)
		if err != nil {
			log.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(max) {
			c.Header("Retry-After", strconv.Itoa(int(window/time.Second)))
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}

func hasSignedToken(c *gin.Context) bool {
	token := extractToken(c)
	if token == "" {
		return false
	}
	_, err := jwt.Parse(token)
	return err == nil
}
