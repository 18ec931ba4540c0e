package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	sweepInterval = 5 * time.Minute
	idleExpiry    = 10 * time.Minute
)

// The rejection body follows the /send-email reply shape so the contact
// page renders it as a server-reported failure.
const rejectedBody = `{"success":false,"message":"Error: Too many requests, try again later"}`

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// Limiter is a per-client token bucket.
type Limiter struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	buckets map[string]*bucket
	rate    float64
	burst   float64
}

func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	return newLimiter(clockwork.NewRealClock(), requestsPerSecond, burst, true)
}

func newLimiter(clock clockwork.Clock, requestsPerSecond float64, burst int, sweep bool) *Limiter {
	l := &Limiter{
		clock:   clock,
		buckets: make(map[string]*bucket),
		rate:    requestsPerSecond,
		burst:   float64(burst),
	}
	if sweep {
		go l.sweepLoop()
	}
	return l
}

func (l *Limiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	b, ok := l.buckets[client]
	if !ok {
		l.buckets[client] = &bucket{tokens: l.burst - 1, lastSeen: now}
		return true
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * l.rate
	b.lastSeen = now
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for client, b := range l.buckets {
		if l.clock.Since(b.lastSeen) > idleExpiry {
			delete(l.buckets, client)
		}
	}
}

func (l *Limiter) sweepLoop() {
	ticker := l.clock.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.Chan() {
		l.sweep()
	}
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(ClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "10")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rejectedBody))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the first X-Forwarded-For entry when present, otherwise
// the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
