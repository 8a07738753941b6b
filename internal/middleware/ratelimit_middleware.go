package middleware

import (
	"net/http"
	"strconv"

	"legacybook/internal/redis"
	"legacybook/internal/services"
	"legacybook/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// SubmitRateLimitMiddleware limits intake attempts per source IP. A nil
// limiter disables limiting, which only happens when Redis is not
// configured.
func SubmitRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.AllowSubmit(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// SignedURLRateLimitMiddleware limits signed URL mints per admin. Applied
// after auth middleware.
func SignedURLRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		profile, ok := services.AdminFromContext(c.Request.Context())
		if !ok {
			// No admin context, auth middleware will reject downstream.
			c.Next()
			return
		}

		result, err := limiter.AllowSignedURL(c.Request.Context(), profile.ID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("signed url rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
