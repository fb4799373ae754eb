package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_LimitsPerWindow(t *testing.T) {
	h := NewRateLimiter(time.Minute, 3)(okHandler())

	for i := 0; i < 3; i++ {
		w := hit(h, "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(2-i), w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
	assert.Equal(t, "2", hit(h, "10.0.0.2:1").Header().Get("X-RateLimit-Remaining"))

	w := hit(h, "10.0.0.1:5555")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.LessOrEqual(t, retryAfter, 60)

	var resp struct {
		Success    bool   `json:"success"`
		Message    string `json:"message"`
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, rateLimitMessage, resp.Message)
	assert.Equal(t, http.StatusText(http.StatusTooManyRequests), resp.Error)
	assert.Equal(t, retryAfter, resp.RetryAfter)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	h := NewRateLimiter(200*time.Millisecond, 1)(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1").Code)

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	h := NewRateLimiter(time.Hour, 1)(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:2").Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1").Code)
}

func TestLimitReached_RetryAfterFromReset(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tests := []struct {
		name     string
		reset    string
		expected int
	}{
		{"seconds until reset", strconv.FormatInt(now.Add(40*time.Second).Unix(), 10), 40},
		{"reset already passed", strconv.FormatInt(now.Add(-time.Second).Unix(), 10), 1},
		{"missing reset", "", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			w := httptest.NewRecorder()
			if tc.reset != "" {
				w.Header().Set("X-RateLimit-Reset", tc.reset)
			}

			limitReached(clock)(w, req)

			assert.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.Equal(t, strconv.Itoa(tc.expected), w.Header().Get("Retry-After"))
			var resp struct {
				RetryAfter int `json:"retryAfter"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.expected, resp.RetryAfter)
		})
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:443"
	assert.Equal(t, "192.168.1.9", clientKey(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientKey(req))
}
