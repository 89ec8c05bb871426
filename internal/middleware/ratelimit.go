package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/surat_hub/internal/service"
	"github.com/yockii/surat_hub/pkg/logger"
)

type rateLimiter struct {
	maxRequests int
	duration    time.Duration
	now         func() time.Time
	mu          sync.Mutex
	buckets     map[string]*tokenBucket
}

type tokenBucket struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter 创建固定窗口限流器
func NewRateLimiter(maxRequests int, duration time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		duration:    duration,
		now:         time.Now,
		buckets:     make(map[string]*tokenBucket),
	}
}

// RateLimit 按客户端IP限流的中间件，导出接口每次都会生成文件，开销较大
func RateLimit(maxRequests int, duration time.Duration) fiber.Handler {
	limiter := NewRateLimiter(maxRequests, duration)
	limiter.StartCleanup(duration * 2)
	return limiter.Handler()
}

func (rl *rateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := c.IP()
		remaining, ok := rl.allow(clientID)
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			logger.Warn("rate limit exceeded",
				logger.F("clientId", clientID),
				logger.F("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(&service.Response{
				Code:    fiber.StatusTooManyRequests,
				Message: fiber.ErrTooManyRequests.Message,
			})
		}
		return c.Next()
	}
}

// allow 检查是否允许请求，返回窗口内剩余次数
func (rl *rateLimiter) allow(clientID string) (int, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, exists := rl.buckets[clientID]
	if !exists || now.Sub(bucket.lastReset) >= rl.duration {
		// 新客户端或窗口已过，减1是因为当前请求
		rl.buckets[clientID] = &tokenBucket{
			tokens:    rl.maxRequests - 1,
			lastReset: now,
		}
		return rl.maxRequests - 1, true
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return bucket.tokens, true
	}
	return 0, false
}

// cleanup 清理过期的令牌桶
func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for clientID, bucket := range rl.buckets {
		if now.Sub(bucket.lastReset) >= rl.duration*2 {
			delete(rl.buckets, clientID)
		}
	}
}

// StartCleanup 启动清理任务
func (rl *rateLimiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			rl.cleanup()
		}
	}()
}
