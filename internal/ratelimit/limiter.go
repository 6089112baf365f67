package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/verdantops/greenscore/internal/monitoring"
)

// Config holds rate limiter configuration
type Config struct {
	IPLimitPerMin   int // IP-based rate limit per minute
	BurstMultiplier int // Burst capacity multiplier
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		IPLimitPerMin:   60,
		BurstMultiplier: 2,
	}
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides in-memory per-IP rate limiting with token buckets
type RateLimiter struct {
	config  Config
	metrics *monitoring.Metrics

	visitors map[string]*visitor
	mutex    sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config Config, metrics *monitoring.Metrics) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		metrics:  metrics,
		visitors: make(map[string]*visitor),
	}

	// Start cleanup goroutine for idle visitors
	go rl.cleanupVisitors()

	return rl
}

// AllowIP checks if an IP address is allowed to make a request
func (rl *RateLimiter) AllowIP(ip string) *Result {
	key := fmt.Sprintf("ratelimit:ip:%s", ip)
	limit := rl.config.IPLimitPerMin
	period := time.Minute

	rl.mutex.Lock()
	v, exists := rl.visitors[key]
	if !exists {
		rps := rate.Limit(float64(limit) / period.Seconds())
		burst := limit * rl.config.BurstMultiplier
		if burst < 5 {
			burst = 5
		}
		v = &visitor{limiter: rate.NewLimiter(rps, burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	limiter := v.limiter
	rl.mutex.Unlock()

	allowed := limiter.Allow()

	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(period),
	}

	if !allowed {
		result.RetryAfter = time.Until(result.ResetAt)
		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitIPBlock()
		}
	}

	return result
}

// cleanupVisitors periodically removes idle visitor limiters
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-30 * time.Minute)

		rl.mutex.Lock()
		before := len(rl.visitors)
		for key, v := range rl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(rl.visitors, key)
			}
		}
		after := len(rl.visitors)
		rl.mutex.Unlock()

		if before != after {
			slog.Debug("Cleaned up idle rate limiters", "removed", before-after, "remaining", after)
		}
	}
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mutex.Lock()
	visitorCount := len(rl.visitors)
	rl.mutex.Unlock()

	return map[string]interface{}{
		"active_visitors":  visitorCount,
		"ip_limit_per_min": rl.config.IPLimitPerMin,
		"burst_multiplier": rl.config.BurstMultiplier,
	}
}
