package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	remaining, ok := rl.allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	_, ok = rl.allow("a")
	assert.True(t, ok)
	_, ok = rl.allow("a")
	assert.False(t, ok)

	// 其他客户端不受影响
	_, ok = rl.allow("b")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = rl.allow("a")
	assert.True(t, ok)

	now = now.Add(3 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.buckets)
}

func TestRateLimiter_Handler(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	app := fiber.New()
	app.Get("/", rl.Handler(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
