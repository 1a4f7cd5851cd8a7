// internal/httpserver/ratelimit.go
//
// Per-IP token buckets for registration, HTTP intents and stream messages.
// Buckets untouched for longer than the idle timeout are pruned by Sweep.

package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ipEntry is one client IP's bucket and when it was last used.
type ipEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	rps      int
	burst    int
	now      func() time.Time
}

func newIPLimiter(rps, burst int) *ipLimiter {
	return &ipLimiter{limiters: make(map[string]*ipEntry), rps: rps, burst: burst, now: time.Now}
}

// get returns the limiter for key, creating it on first use.
func (l *ipLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.limiters[key]
	if !ok {
		e = &ipEntry{lim: rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = l.now()
	return e.lim
}

func (l *ipLimiter) allow(r *http.Request) bool {
	return l.get(clientIP(r)).Allow()
}

// prune drops buckets unused for longer than maxIdle and returns how many.
func (l *ipLimiter) prune(maxIdle time.Duration) int {
	cutoff := l.now().Add(-maxIdle)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			n++
		}
	}
	return n
}

func (l *ipLimiter) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// rateLimit rejects requests beyond the per-IP budget with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r) {
			log.Warn().Str("ip", clientIP(r)).Str("path", r.URL.Path).Msg("rate limited")
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr (already rewritten by RealIP).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
