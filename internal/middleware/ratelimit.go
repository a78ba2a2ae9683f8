package middleware

import (
	"strconv"
	"time"

	"centerstage/internal/models"
	"centerstage/internal/observability"
	"centerstage/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// SubmitRateLimit returns a Fiber middleware gating public submission
// creation with the fixed-window limiter. The client identity is derived from
// forwarded-for style headers; on deny it responds 429 with a Retry-After
// header of ceil((resetTime - now)/1s) seconds.
func SubmitRateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := ratelimit.ClientIdentity(func(key string) string {
			return c.Get(key)
		})

		res := limiter.Check(id)
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			observability.RateLimitDenials.Inc()
			retryAfter := res.RetryAfterSeconds(time.Now())
			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitedError(retryAfter))
		}
		return c.Next()
	}
}
