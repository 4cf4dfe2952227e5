package middleware

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"accountapp/internal/core/telemetry"
	"accountapp/pkg/config"
)

func newLimitedRouter(limits map[string]config.RateLimitConfig, metrics *telemetry.AppMetrics) *gin.Engine {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(limits, zap.NewNop(), metrics)

	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.POST("/api/signup", func(c *gin.Context) { c.Status(http.StatusCreated) })
	router.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router
}

func perform(router http.Handler, method, path, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	req.Header.Set("X-Forwarded-For", ip)
	router.ServeHTTP(w, req)

	return w
}

func TestRateLimitMiddleware_ExceedLimit(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)
	router := newLimitedRouter(config.GetDefaultConfig().RateLimits(), metrics)

	for i := 0; i < 5; i++ {
		w := perform(router, "POST", "/api/signup", "10.0.0.1")

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("5"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(4 - i)))
	}

	w := perform(router, "POST", "/api/signup", "10.0.0.1")

	Expect(w.Code).To(Equal(http.StatusTooManyRequests))
	Expect(w.Body.String()).To(MatchJSON(`{"error":"Too many requests"}`))
	Expect(w.Header().Get("Retry-After")).ToNot(BeEmpty())

	count, err := testutil.GatherAndCount(registry, "rate_limit_hits_total")
	Expect(err).ToNot(HaveOccurred())
	Expect(count).To(Equal(1))
}

func TestRateLimitMiddleware_KeysByClientAndRoute(t *testing.T) {
	RegisterTestingT(t)

	limits := map[string]config.RateLimitConfig{
		"POST /api/signup": {Requests: 1, Window: time.Minute},
		"default":          {Requests: 2, Window: time.Minute},
	}
	router := newLimitedRouter(limits, nil)

	Expect(perform(router, "POST", "/api/signup", "10.0.0.1").Code).To(Equal(http.StatusCreated))
	Expect(perform(router, "POST", "/api/signup", "10.0.0.1").Code).To(Equal(http.StatusTooManyRequests))
	Expect(perform(router, "POST", "/api/signup", "10.0.0.2").Code).To(Equal(http.StatusCreated))

	w := perform(router, "GET", "/api/health", "10.0.0.1")
	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("2"))
}

func TestRateLimitMiddleware_UnmatchedPathsShareOneBucket(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)
	limits := map[string]config.RateLimitConfig{
		"default": {Requests: 1, Window: time.Minute},
	}
	router := newLimitedRouter(limits, metrics)

	Expect(perform(router, "GET", "/nope/1", "10.0.0.1").Code).To(Equal(http.StatusNotFound))
	Expect(perform(router, "GET", "/nope/2", "10.0.0.1").Code).To(Equal(http.StatusTooManyRequests))
	Expect(perform(router, "GET", "/nope/3", "10.0.0.1").Code).To(Equal(http.StatusTooManyRequests))

	expected := `
# HELP rate_limit_hits_total Total number of requests rejected by the rate limiter
# TYPE rate_limit_hits_total counter
rate_limit_hits_total{path="unmatched"} 2
`
	Expect(testutil.GatherAndCompare(registry, strings.NewReader(expected), "rate_limit_hits_total")).To(Succeed())
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)

	limits := map[string]config.RateLimitConfig{
		"default": {Requests: 1, Window: 50 * time.Millisecond},
	}
	router := newLimitedRouter(limits, nil)

	Expect(perform(router, "GET", "/api/health", "10.0.0.1").Code).To(Equal(http.StatusOK))
	Expect(perform(router, "GET", "/api/health", "10.0.0.1").Code).To(Equal(http.StatusTooManyRequests))

	time.Sleep(80 * time.Millisecond)

	Expect(perform(router, "GET", "/api/health", "10.0.0.1").Code).To(Equal(http.StatusOK))
}

func TestRateLimitMiddleware_NoLimitConfigured(t *testing.T) {
	RegisterTestingT(t)

	router := newLimitedRouter(map[string]config.RateLimitConfig{}, nil)

	w := perform(router, "GET", "/api/health", "10.0.0.1")

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get("X-RateLimit-Limit")).To(BeEmpty())
}

func TestRateLimitMiddleware_NoDoubleCounting(t *testing.T) {
	RegisterTestingT(t)

	limits := map[string]config.RateLimitConfig{
		"default": {Requests: 20, Window: time.Minute},
	}
	router := newLimitedRouter(limits, nil)

	numRequests := 10
	results := make([]int, numRequests)

	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		wg.Add(1)

		go func(index int) {
			defer wg.Done()

			w := perform(router, "GET", "/api/health", "10.0.0.1")
			results[index], _ = strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
		}(i)
	}

	wg.Wait()
	sort.Ints(results)

	Expect(results).To(Equal([]int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}))
}
