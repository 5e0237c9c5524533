package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware enforces a fixed per-minute request limit per
// authenticated user. When Redis is unreachable the request goes
// through; rate limiting degrades before the API does.
type RateLimitMiddleware struct {
	rdb   *redis.Client
	limit int
}

func NewRateLimitMiddleware(rdb *redis.Client, limit int) *RateLimitMiddleware {
	return &RateLimitMiddleware{rdb: rdb, limit: limit}
}

func (m *RateLimitMiddleware) RateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := c.Locals("user_id").(string)
		if !ok || identity == "" {
			identity = c.IP()
		}

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", identity, window)

		count, err := m.rdb.Incr(c.Context(), key).Result()
		if err != nil {
			slog.Info(err.Error())
			return c.Next()
		}

		if count == 1 {
			if err := m.rdb.Expire(c.Context(), key, time.Minute).Err(); err != nil {
				slog.Info(err.Error())
			}
		}

		if count > int64(m.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Try again in a minute.",
			})
		}

		return c.Next()
	}
}
