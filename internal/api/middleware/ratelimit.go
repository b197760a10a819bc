package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// limiterPool hands out one token bucket per client IP. The map is reset
// when it grows past maxTrackedIPs to bound memory.
type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

const maxTrackedIPs = 10000

func newLimiterPool(rps float64, burst int) *limiterPool {
	return &limiterPool{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (p *limiterPool) allow(ip string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.limiters) > maxTrackedIPs {
		p.limiters = make(map[string]*rate.Limiter)
	}
	l, ok := p.limiters[ip]
	if !ok {
		l = rate.NewLimiter(p.rate, p.burst)
		p.limiters[ip] = l
	}
	return l.Allow()
}

// RateLimit limits requests per client IP.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.Header.Get("X-Real-IP")
			if ip == "" {
				ip = r.RemoteAddr
			}
			if !pool.allow(ip) {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
