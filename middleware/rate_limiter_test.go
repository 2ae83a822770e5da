package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"medibook/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(t *testing.T, perMin int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := config.AppConfig.MaxRequestsPerMin
	config.AppConfig.MaxRequestsPerMin = perMin
	t.Cleanup(func() { config.AppConfig.MaxRequestsPerMin = prev })

	r := gin.New()
	r.Use(RateLimitMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func doPing(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Real-IP", ip)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware_CapsPerIPFromConfig(t *testing.T) {
	r := rateLimitedRouter(t, 2)

	assert.Equal(t, http.StatusOK, doPing(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, doPing(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doPing(r, "10.0.0.1"))

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, doPing(r, "10.0.0.2"))
}

func TestRateLimitMiddleware_ZeroConfigFallsBack(t *testing.T) {
	r := rateLimitedRouter(t, 0)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doPing(r, "10.0.0.3"))
	}
}
