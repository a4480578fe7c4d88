package httpmiddleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// DefaultRateLimitKeys bounds the number of tracked clients when
// RateLimitConfig.Keys is not set.
const DefaultRateLimitKeys = 10_000

// RateLimitConfig configures per-client token bucket limiting.
type RateLimitConfig struct {
	// Max is the bucket size: requests allowed in a burst, refilled evenly
	// over Window.
	Max int
	// Window is the time it takes to refill Max tokens.
	Window time.Duration
	// Keys bounds the limiter table; least recently seen clients are evicted.
	Keys int
	// KeyFunc extracts the client key. Defaults to the client IP.
	KeyFunc func(*http.Request) string
}

type rateLimiter struct {
	cfg   RateLimitConfig
	every rate.Limit
	now   func() time.Time

	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
}

func newRateLimiter(cfg RateLimitConfig) (*rateLimiter, error) {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.Keys <= 0 {
		cfg.Keys = DefaultRateLimitKeys
	}
	if cfg.Max <= 0 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	cache, err := lru.New[string, *rate.Limiter](cfg.Keys)
	if err != nil {
		return nil, err
	}
	return &rateLimiter{
		cfg:      cfg,
		every:    rate.Every(cfg.Window / time.Duration(cfg.Max)),
		now:      time.Now,
		limiters: cache,
	}, nil
}

func (rl *rateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(rl.every, rl.cfg.Max)
	rl.limiters.Add(key, l)
	return l
}

// take consumes one token for key. It reports the tokens left and how long
// until the next token becomes available.
func (rl *rateLimiter) take(key string) (remaining int, wait time.Duration, ok bool) {
	l := rl.limiter(key)
	now := rl.now()
	ok = l.AllowN(now, 1)

	tokens := l.TokensAt(now)
	remaining = int(math.Max(0, math.Floor(tokens)))
	if tokens < 1 {
		wait = time.Duration((1 - tokens) / float64(rl.every) * float64(time.Second))
	}
	return remaining, wait, ok
}

// RateLimit rejects requests over the per-client budget with 429. Every
// response carries X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset headers.
func RateLimit(cfg RateLimitConfig) (Middleware, error) {
	rl, err := newRateLimiter(cfg)
	if err != nil {
		return nil, err
	}
	return rl.middleware, nil
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining, wait, ok := rl.take(rl.cfg.KeyFunc(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Max))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(rl.now().Add(wait).Unix(), 10))

		if !ok {
			h.Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
