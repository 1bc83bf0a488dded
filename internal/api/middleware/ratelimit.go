package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/eventdeck/server/internal/api/respond"
	"golang.org/x/time/rate"
)

// LoginRateLimit throttles credential endpoints per client IP to damp
// brute-force attempts. perMinute <= 0 disables the limiter.
func LoginRateLimit(perMinute int) func(http.Handler) http.Handler {
	store := newLimiterStore(perMinute)
	return func(next http.Handler) http.Handler {
		if perMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.limiter(clientKey(r)).Allow() {
				w.Header().Set("Retry-After", "60")
				respond.Fail(w, r, http.StatusTooManyRequests, "Too many attempts, try again later", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	// cleanupInterval bounds how often the store sweeps stale entries.
	cleanupInterval = time.Minute

	// entryTTL is how long an idle client keeps its limiter state.
	entryTTL = 15 * time.Minute
)

// limiterStore keeps one token bucket per client key. Stale entries are
// swept on access once cleanupInterval has elapsed, so the store needs
// no background goroutine.
type limiterStore struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	perMinute   int
	lastCleanup time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(perMinute int) *limiterStore {
	return &limiterStore{
		limiters:    make(map[string]*limiterEntry),
		perMinute:   perMinute,
		lastCleanup: time.Now(),
	}
}

func (s *limiterStore) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastCleanup) >= cleanupInterval {
		s.cleanupLocked(now)
	}

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(s.perMinute)/60.0), s.perMinute),
		}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// cleanupLocked drops entries idle past entryTTL. Callers hold s.mu.
func (s *limiterStore) cleanupLocked(now time.Time) {
	cutoff := now.Add(-entryTTL)
	for key, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, key)
		}
	}
	s.lastCleanup = now
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
