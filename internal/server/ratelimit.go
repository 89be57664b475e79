package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a per-client token bucket. Each client starts with burst
// tokens that refill continuously at burst per window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*tokens
	burst   float64
	window  time.Duration
	now     func() time.Time
}

type tokens struct {
	left float64
	seen time.Time
}

func NewRateLimiter(burst int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*tokens),
		burst:   float64(burst),
		window:  window,
		now:     time.Now,
	}
}

// Allow spends one token for client. A limiter with no budget allows
// everything.
func (rl *RateLimiter) Allow(client string) bool {
	if rl.burst <= 0 || rl.window <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	t, ok := rl.clients[client]
	if !ok {
		rl.evictIdle(now)
		t = &tokens{left: rl.burst, seen: now}
		rl.clients[client] = t
	}

	refill := now.Sub(t.seen).Seconds() / rl.window.Seconds() * rl.burst
	t.left = min(rl.burst, t.left+refill)
	t.seen = now

	if t.left < 1 {
		return false
	}
	t.left--
	return true
}

// evictIdle drops clients whose bucket has been full for a whole window.
func (rl *RateLimiter) evictIdle(now time.Time) {
	for client, t := range rl.clients {
		if now.Sub(t.seen) > rl.window {
			delete(rl.clients, client)
		}
	}
}

func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's host.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
