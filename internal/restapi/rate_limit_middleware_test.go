package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traveltime.dev/engine/internal/appconf"
	"traveltime.dev/engine/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newLimitedHandler(t *testing.T, ratePerSecond int, interval time.Duration) http.Handler {
	middleware := NewRateLimitMiddleware(ratePerSecond, interval)
	t.Cleanup(middleware.Stop)
	return middleware.Handler(okHandler())
}

func serveKey(handler http.Handler, key string) *httptest.ResponseRecorder {
	target := "/test"
	if key != "" {
		target += "?key=" + key
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	limitedHandler := newLimitedHandler(t, 5, time.Second)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serveKey(limitedHandler, "test-api-key").Code,
			"Request %d should be allowed", i+1)
	}
}

func TestRateLimitMiddleware_BlocksRequestsOverLimit(t *testing.T) {
	limitedHandler := newLimitedHandler(t, 3, time.Second)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serveKey(limitedHandler, "test-api-key").Code)
	}

	w := serveKey(limitedHandler, "test-api-key")
	require.Equal(t, http.StatusTooManyRequests, w.Code, "Request over limit should be blocked")

	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, http.StatusTooManyRequests, response.Code)
	assert.Contains(t, response.Text, "Rate limit exceeded")
}

func TestRateLimitMiddleware_PerAPIKeyLimiting(t *testing.T) {
	limitedHandler := newLimitedHandler(t, 2, time.Second)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serveKey(limitedHandler, "api-key-1").Code)
	}

	assert.Equal(t, http.StatusTooManyRequests, serveKey(limitedHandler, "api-key-1").Code,
		"API key 1 should be rate limited")
	assert.Equal(t, http.StatusOK, serveKey(limitedHandler, "api-key-2").Code,
		"API key 2 should not be affected")
}

func TestRateLimitMiddleware_HandlesNoAPIKey(t *testing.T) {
	limitedHandler := newLimitedHandler(t, 1, time.Second)

	assert.Equal(t, http.StatusOK, serveKey(limitedHandler, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveKey(limitedHandler, "").Code,
		"requests without a key share one limiter")
}

func TestRateLimitMiddleware_DisabledForNonPositiveRates(t *testing.T) {
	for _, ratePerSecond := range []int{0, -1} {
		t.Run(fmt.Sprintf("rate %d", ratePerSecond), func(t *testing.T) {
			limitedHandler := newLimitedHandler(t, ratePerSecond, time.Second)
			for i := 0; i < 50; i++ {
				require.Equal(t, http.StatusOK, serveKey(limitedHandler, "k").Code)
			}
		})
	}
}

func TestRateLimitMiddleware_RefillsOverTime(t *testing.T) {
	limitedHandler := newLimitedHandler(t, 1, 100*time.Millisecond)

	assert.Equal(t, http.StatusOK, serveKey(limitedHandler, "test-key").Code, "First request should succeed")
	assert.Equal(t, http.StatusTooManyRequests, serveKey(limitedHandler, "test-key").Code,
		"Second request should be rate limited")

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, http.StatusOK, serveKey(limitedHandler, "test-key").Code,
		"Request after refill should succeed")
}

func TestRateLimitMiddleware_ConcurrentRequests(t *testing.T) {
	limitedHandler := newLimitedHandler(t, 5, time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed, blocked := 0, 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code := serveKey(limitedHandler, "concurrent").Code
			mu.Lock()
			defer mu.Unlock()
			if code == http.StatusOK {
				allowed++
			} else {
				blocked++
			}
		}()
	}
	wg.Wait()

	// One extra token may refill while the goroutines run.
	assert.InDelta(t, 5, allowed, 1)
	assert.Equal(t, 20, allowed+blocked)
}

func TestRateLimitMiddleware_StopIsIdempotent(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Second)
	middleware.Stop()
	assert.NotPanics(t, middleware.Stop)
}

func TestRateLimitingIntegration(t *testing.T) {
	api := createTestApiWithConfig(t, appconf.Config{
		Env:       appconf.Test,
		ApiKeys:   []string{"TEST", "other"},
		RateLimit: 5,
	})

	statuses := func(key string, n int) (ok, limited int) {
		for i := 0; i < n; i++ {
			resp, _ := serveApiAndRetrieveBody(t, api, "/traveltime/A/09:55?key="+key)
			switch resp.StatusCode {
			case http.StatusOK:
				ok++
			case http.StatusTooManyRequests:
				limited++
			}
		}
		return ok, limited
	}

	ok, limited := statuses("TEST", 10)
	assert.InDelta(t, 5, ok, 1)
	assert.Equal(t, 10, ok+limited)

	ok, _ = statuses("other", 1)
	assert.Equal(t, 1, ok, "quotas are per key")

	for i := 0; i < 10; i++ {
		resp, _ := serveApiAndRetrieveBody(t, api, "/health")
		assert.Equal(t, http.StatusOK, resp.StatusCode, "health is not rate limited")
	}

	resp, _ := serveApiAndRetrieveBody(t, api, "/traveltime/A/09:55?key=bogus")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
