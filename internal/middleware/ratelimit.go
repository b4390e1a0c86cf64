package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
	"github.com/brunodmn/escola-admin-api/pkg/response"
)

// LoginRateLimit bounds login attempts per client IP using a Redis
// counter with a fixed window. A nil client or a Redis failure lets the
// request through; the limiter degrades open rather than blocking logins.
func LoginRateLimit(client *redis.Client, attempts int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if client == nil || attempts <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("login_attempts:%s", c.ClientIP())
		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("login rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(c.Request.Context(), key, window).Err(); err != nil {
				logger.Warn("login rate limiter expire failed", zap.Error(err))
			}
		}

		if count > int64(attempts) {
			response.Error(c, appErrors.Clone(appErrors.ErrTooManyRequests,
				"Muitas tentativas de login. Tente novamente em instantes."))
			c.Abort()
			return
		}

		c.Next()
	}
}
