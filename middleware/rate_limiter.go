package middleware

import (
	"net/http"
	"sync"
	"time"

	"medibook/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const fallbackRequestsPerMin = 100

// clientLimiters keeps one token bucket per client IP. Buckets are created
// lazily on first request and share the same per-minute cap.
type clientLimiters struct {
	mu      sync.Mutex
	perMin  int
	buckets map[string]*rate.Limiter
}

func newClientLimiters(perMin int) *clientLimiters {
	if perMin <= 0 {
		perMin = fallbackRequestsPerMin
	}
	return &clientLimiters{
		perMin:  perMin,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (cl *clientLimiters) forIP(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	bucket, ok := cl.buckets[ip]
	if !ok {
		bucket = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cl.perMin)), cl.perMin)
		cl.buckets[ip] = bucket
	}
	return bucket
}

// RateLimitMiddleware caps requests per client IP at MAX_REQUESTS_PER_MIN,
// with a burst of the same size. The cap is read once when the middleware is
// built.
func RateLimitMiddleware() gin.HandlerFunc {
	limiters := newClientLimiters(config.AppConfig.MaxRequestsPerMin)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !limiters.forIP(ip).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
