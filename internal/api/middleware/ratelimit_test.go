package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thehfhotel/loyalty-backend/internal/api/middleware"
)

func limitedRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 3)
	handler := rl.Handler(okHandler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, limitedRequest("10.0.0.1:51000"))
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("10.0.0.1:51000"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	env := parseErrorResponse(t, w)
	apiErr := env["error"].(map[string]interface{})
	assert.Equal(t, "RATE_LIMITED", apiErr["code"])
	assert.Equal(t, "Too many requests", apiErr["message"])
}

func TestRateLimiter_IsolatesClientsByRemoteAddr(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1)
	handler := rl.Handler(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("10.0.0.1:51000"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("10.0.0.1:51001"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "same host, different port shares the bucket")

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("10.0.0.2:51000"))
	assert.Equal(t, http.StatusOK, w.Code, "a different host gets its own bucket")
}

func TestRateLimiter_PartitionsByForwardedFor(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1)
	handler := rl.Handler(okHandler())

	makeReq := func(forwardedFor string) *http.Request {
		req := limitedRequest("10.0.0.9:51000")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		return req
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, makeReq("203.0.113.5"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, makeReq("203.0.113.6"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, makeReq("203.0.113.5"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	// 100 rps means a drained bucket regains a token after 10ms.
	rl := middleware.NewRateLimiter(100, 1)
	handler := rl.Handler(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("10.0.0.3:51000"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("10.0.0.3:51000"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	time.Sleep(50 * time.Millisecond)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("10.0.0.3:51000"))
	assert.Equal(t, http.StatusOK, w.Code)
}
