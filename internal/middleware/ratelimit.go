package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/pte-scorer/config"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/controller"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-user token bucket guarding against request bursts.
// It is independent of the daily scoring allowance.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      rate.Limit
	burst    int
	entryTTL time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewRateLimiter(cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
		burst:    cfg.RateLimit.Burst,
		entryTTL: 10 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[key] = entry
		rl.evictLocked(now)
	}
	entry.lastAccess = now
	return entry.limiter.AllowN(now, 1)
}

// evictLocked drops idle limiters; called on insert.
func (rl *RateLimiter) evictLocked(now time.Time) {
	for key, e := range rl.limiters {
		if now.Sub(e.lastAccess) > rl.entryTTL && !e.lastAccess.IsZero() {
			delete(rl.limiters, key)
		}
	}
}

// Middleware limits by authenticated user, falling back to client IP. A zero rate disables limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if rl.rps <= 0 {
			ctx.Next()
			return
		}
		key := UserID(ctx)
		if key == "" {
			key = "ip:" + ctx.ClientIP()
		}
		if !rl.Allow(key) {
			controller.RespondError(ctx, fmt.Errorf("%w: slow down", apperr.ErrRateLimited))
			return
		}
		ctx.Next()
	}
}
