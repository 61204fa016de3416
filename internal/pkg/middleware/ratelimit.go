package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// SearchRateLimiter applies a token bucket per client IP to the routes it wraps.
// Session ids are not used as the key since any cookieless request is issued a new one.
// Limiters of idle clients expire after twice the interval.
func SearchRateLimiter(requests int, interval time.Duration) gin.HandlerFunc {
	if requests <= 0 || interval <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	perRequest := interval / time.Duration(requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	limiters := cache.New(2*interval, 4*interval)
	var mu sync.Mutex

	return func(c *gin.Context) {
		key := c.ClientIP()

		mu.Lock()
		var limiter *rate.Limiter
		if v, found := limiters.Get(key); found {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Every(perRequest), requests)
		}
		limiters.SetDefault(key, limiter)
		allowed := limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many searches. Please wait a moment and try again.",
			})
			return
		}
		c.Next()
	}
}
