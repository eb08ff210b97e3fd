package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/transport"

	"golang.org/x/time/rate"
)

// Rate limit tiers
const (
	// Auth and payment intents
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Everything else
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	visitorTTL = 3 * time.Minute
)

var ErrTooManyRequests = errors.New("too many requests")

var strictPaths = []string{
	"/api/auth/",
	"/api/orders/create-payment-intent",
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per identity and tier.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// StartCleanup evicts idle visitors every interval until done is closed.
func (rl *RateLimiter) StartCleanup(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				rl.cleanup()
			}
		}
	}()
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}
}

func (rl *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(r, b)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Middleware answers 429 once the caller's bucket for the request's tier
// is empty. Authenticated callers are keyed by user id, others by IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := resolveRateTier(r)
		key := identity(r) + ":" + tier

		if !rl.getVisitor(key, limit, burst).Allow() {
			transport.WriteJSON(w, http.StatusTooManyRequests, transport.Envelope{
				Status:  transport.StatusFail,
				Message: ErrTooManyRequests.Error(),
				Code:    http.StatusTooManyRequests,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func identity(r *http.Request) string {
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		return "user:" + p.UserID
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	for _, prefix := range strictPaths {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return limitStrict, burstStrict, "strict"
		}
	}
	return limitGeneral, burstGeneral, "general"
}
