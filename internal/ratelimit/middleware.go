package ratelimit

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/verdantops/greenscore/internal/errors"
	"github.com/verdantops/greenscore/internal/monitoring"
)

// Middleware creates Gin middleware enforcing the per-IP limit. Blocked
// requests get a structured 429 with rate limit headers.
func Middleware(limiter *RateLimiter, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := limiter.AllowIP(c.ClientIP())

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))

		if !result.Allowed {
			if metrics != nil {
				metrics.IncrementRateLimitEndpoint(c.Request.URL.Path)
			}

			retryAfter := result.RetryAfter.String()
			c.Header("Retry-After", retryAfter)

			appErr := errors.NewRateLimitError(retryAfter)
			errors.LogError(c, appErr)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
			return
		}

		c.Next()
	}
}
