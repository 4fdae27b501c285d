package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/DaviDemarqui/workwise-v1/pkg/response"
)

// RateLimiterConfig holds the rate limit settings
type RateLimiterConfig struct {
	GeneralRate     rate.Limit // API-wide, requests per second
	GeneralBurst    int
	ProposalRate    rate.Limit // proposal creation, requests per second
	ProposalBurst   int
	CleanupInterval time.Duration
}

// RateLimiterConfigPerMinute builds a config from per-minute limits. Bursts
// equal the per-minute limit.
func RateLimiterConfigPerMinute(general, proposals int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(general) / 60),
		GeneralBurst:    general,
		ProposalRate:    rate.Limit(float64(proposals) / 60),
		ProposalBurst:   proposals,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet is a set of per-client limiters sharing one rate
type limiterSet struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*clientLimiter
}

func newLimiterSet(limit rate.Limit, burst int) *limiterSet {
	return &limiterSet{limit: limit, burst: burst, limiters: make(map[string]*clientLimiter)}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cl, ok := s.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = cl
	}
	cl.lastAccess = now
	return cl.limiter.AllowN(now, 1)
}

func (s *limiterSet) evict(olderThan time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, cl := range s.limiters {
		if cl.lastAccess.Before(olderThan) {
			delete(s.limiters, key)
		}
	}
}

func (s *limiterSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimiter keeps per-client limiters, keyed by caller identity or by
// remote address for anonymous requests.
type RateLimiter struct {
	config    RateLimiterConfig
	general   *limiterSet
	proposals *limiterSet

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{
		config:    config,
		general:   newLimiterSet(config.GeneralRate, config.GeneralBurst),
		proposals: newLimiterSet(config.ProposalRate, config.ProposalBurst),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the cleanup goroutine and waits for it to exit
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
	<-rl.done
}

// GeneralMiddleware applies the API-wide limit
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.general, rl.config.GeneralRate, "general")
}

// ProposalMiddleware applies the proposal creation limit. It is independent
// of the general limit.
func (rl *RateLimiter) ProposalMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.proposals, rl.config.ProposalRate, "proposal")
}

// GeneralLimiterCount returns the number of tracked general limiters
func (rl *RateLimiter) GeneralLimiterCount() int {
	return rl.general.len()
}

// ProposalLimiterCount returns the number of tracked proposal limiters
func (rl *RateLimiter) ProposalLimiterCount() int {
	return rl.proposals.len()
}

func (rl *RateLimiter) middleware(set *limiterSet, limit rate.Limit, kind string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !set.allow(key, time.Now()) {
				slog.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("limit_type", kind),
				)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter(limit)))
				response.TooManyRequests(w, "Too many requests, please retry later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) cleanupLoop() {
	defer close(rl.done)

	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops limiters idle for more than two cleanup intervals
func (rl *RateLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-2 * rl.config.CleanupInterval)
	rl.general.evict(cutoff)
	rl.proposals.evict(cutoff)
}

func clientKey(r *http.Request) string {
	if id, ok := GetIdentity(r.Context()); ok {
		return string(id)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// retryAfter is the number of seconds until one token is replenished
func retryAfter(limit rate.Limit) int {
	if limit <= 0 {
		return 60
	}
	secs := int(math.Ceil(1 / float64(limit)))
	if secs < 1 {
		secs = 1
	}
	return secs
}
