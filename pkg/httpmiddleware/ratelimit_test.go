package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newLimited(t *testing.T, cfg RateLimitConfig) http.Handler {
	t.Helper()
	mw, err := RateLimit(cfg)
	require.NoError(t, err)
	return mw(okHandler())
}

func get(h http.Handler, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimit_UnderLimit(t *testing.T) {
	h := newLimited(t, RateLimitConfig{Max: 5, Window: time.Minute})

	for i := range 5 {
		w := get(h, "192.168.1.1:12345", nil)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	h := newLimited(t, RateLimitConfig{Max: 2, Window: time.Minute})

	for range 2 {
		require.Equal(t, http.StatusOK, get(h, "10.0.0.1:9999", nil).Code)
	}

	w := get(h, "10.0.0.1:9999", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var (
		code    int
		message string
	)
	err := jx.DecodeBytes(w.Body.Bytes()).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "code":
			code, err = d.Int()
		case "message":
			message, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate limit exceeded", message)
}

func TestRateLimit_RemainingDecreases(t *testing.T) {
	h := newLimited(t, RateLimitConfig{Max: 3, Window: time.Hour})

	assert.Equal(t, "2", get(h, "10.0.0.9:1", nil).Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", get(h, "10.0.0.9:1", nil).Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "0", get(h, "10.0.0.9:1", nil).Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_DifferentIPs(t *testing.T) {
	h := newLimited(t, RateLimitConfig{Max: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.2:1234", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "10.0.0.1:5678", nil).Code)
}

func TestRateLimit_CustomKeyFunc(t *testing.T) {
	h := newLimited(t, RateLimitConfig{
		Max:    1,
		Window: time.Minute,
		KeyFunc: func(r *http.Request) string {
			return r.URL.Query().Get("user_id")
		},
	})

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/?user_id="+user, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("user1"))
	assert.Equal(t, http.StatusTooManyRequests, do("user1"))
	assert.Equal(t, http.StatusOK, do("user2"))
}

func TestRateLimit_XForwardedFor(t *testing.T) {
	h := newLimited(t, RateLimitConfig{Max: 1, Window: time.Minute})
	xff := map[string]string{"X-Forwarded-For": "203.0.113.50, 70.41.3.18"}

	assert.Equal(t, http.StatusOK, get(h, "192.168.1.1:4444", xff).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "192.168.1.2:5555", xff).Code)
}

func TestRateLimit_EvictsLeastRecentKey(t *testing.T) {
	h := newLimited(t, RateLimitConfig{Max: 1, Window: time.Hour, Keys: 1})

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1", nil).Code)
	// Second client evicts the first one's exhausted bucket.
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.2:1", nil).Code)
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1", nil).Code)
}

func TestClientIP(t *testing.T) {
	for _, tt := range []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{name: "RemoteAddr", remote: "10.1.1.1:80", want: "10.1.1.1"},
		{name: "NoPort", remote: "10.1.1.1", want: "10.1.1.1"},
		{name: "RealIP", remote: "10.1.1.1:80", headers: map[string]string{"X-Real-IP": "1.2.3.4"}, want: "1.2.3.4"},
		{name: "ForwardedFirstHop", remote: "10.1.1.1:80", headers: map[string]string{"X-Forwarded-For": " 5.6.7.8 ,9.9.9.9"}, want: "5.6.7.8"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
