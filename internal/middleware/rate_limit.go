package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-caller rate limiter. Authenticated callers are
// keyed by account, anonymous ones (login, refresh) by client IP.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			key := c.IP()
			if identity := IdentityFromContext(c); identity != nil {
				key = strconv.FormatUint(uint64(identity.UserID), 10)
			}
			return fmt.Sprintf("%s:%s", identifier, key)
		},
	})
}
