package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

// RateLimiter provides per-key token bucket rate limiting
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	keyFunc  KeyFunc
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig holds rate limiter configuration
type RateLimiterConfig struct {
	RequestsPerSecond float64       // Requests allowed per second
	BurstSize         int           // Maximum burst size
	CleanupInterval   time.Duration // How often to clean up old visitors
	TTL               time.Duration // How long to keep inactive visitors
	KeyFunc           KeyFunc       // Defaults to the client IP
}

// DefaultRateLimiterConfig returns the limits for ordinary API traffic
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		CleanupInterval:   time.Minute,
		TTL:               3 * time.Minute,
	}
}

// RefreshRateLimiterConfig returns a stricter config for upstream refreshes,
// keyed by viewer so one tab cannot hammer the ticket source.
func RefreshRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 0.2,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		TTL:               5 * time.Minute,
		KeyFunc:           ViewerKey,
	}
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
// Call Close to stop the loop.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = getClientIP
	}

	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.BurstSize,
		keyFunc:  keyFunc,
		stop:     make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go rl.cleanupVisitors(cfg.CleanupInterval, cfg.TTL)
	}

	return rl
}

// getVisitor returns the limiter for key, creating one if necessary
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[key] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes visitors that haven't been seen recently
func (rl *RateLimiter) cleanupVisitors(interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, v := range rl.visitors {
				if time.Since(v.lastSeen) > ttl {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the cleanup loop
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Reserve takes a token for key if one is available now. Otherwise it
// reports how long until the next token and consumes nothing.
func (rl *RateLimiter) Reserve(key string) (bool, time.Duration) {
	res := rl.getVisitor(key).Reserve()
	if !res.OK() {
		return false, rl.refillInterval()
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return false, delay
	}
	return true, 0
}

// refillInterval is the time one token takes to refill.
func (rl *RateLimiter) refillInterval() time.Duration {
	if rl.rate <= 0 || rl.rate == rate.Inf {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / float64(rl.rate))
}

// retryAfterSeconds rounds wait up to whole seconds, at least one.
func retryAfterSeconds(wait time.Duration) string {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// Middleware returns an HTTP middleware that rate limits requests
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, wait := rl.Reserve(rl.keyFunc(r)); !ok {
			w.Header().Set("Retry-After", retryAfterSeconds(wait))
			writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.", "RATE_LIMITED")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ViewerKey buckets authenticated viewers by ID and anonymous ones by IP.
func ViewerKey(r *http.Request) string {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return "viewer:" + claims.Scope()
	}
	return "ip:" + getClientIP(r)
}

// getClientIP extracts the client IP from the request
// It checks X-Forwarded-For and X-Real-IP headers first (for reverse proxies)
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip, _, err := net.SplitHostPort(first); err == nil {
			return ip
		}
		return first
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
