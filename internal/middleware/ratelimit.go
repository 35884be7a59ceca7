package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow trims entries older than the window, then admits the request when the
// remaining count is below the limit. It returns the new count, or -1 when limited.
// KEYS[1]=key ARGV: now(ms), windowStart(ms), windowSec, member, limit
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)
if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
end
return -1
`)

// CheckoutRateLimit limits checkouts per user (or per client IP when no user is resolved).
// Redis failures let the request through.
func CheckoutRateLimit(rdb redis.Scripter, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("rate_limit:checkout:ip:%s", c.IP())
		if user, ok := CurrentUser(c); ok {
			key = fmt.Sprintf("rate_limit:checkout:user:%s", user.ID)
		}

		now := time.Now()
		windowSec := int64(window.Seconds())
		if windowSec < 1 {
			windowSec = 1
		}
		windowStart := now.Add(-window).UnixMilli()
		member := windowMember(now)

		res, err := slidingWindow.Run(c.UserContext(), rdb, []string{key},
			now.UnixMilli(), windowStart, windowSec, member, limit).Int()
		if err != nil {
			log.Printf("Rate limit check failed for %s, allowing request: %v", key, err)
			return c.Next()
		}
		if res < 0 {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many checkout attempts, please try again later",
			})
		}
		return c.Next()
	}
}

// windowMember is the sorted-set entry for one attempt; it stays unique when two
// attempts share a timestamp.
func windowMember(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())
}
