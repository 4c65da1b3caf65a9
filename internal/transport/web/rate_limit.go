package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = 5 * time.Minute
	retryAfterSecs  = 60
)

// RateLimiter keeps one token bucket per visitor / Garde un seau de jetons par visiteur
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter starts a limiter whose cleanup stops with ctx / Démarre un limiteur arrêté avec ctx
func NewRateLimiter(ctx context.Context, rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
	go rl.cleanupLoop(ctx)
	return rl
}

// Allow consumes one token for key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-visitorTTL)
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// getIPWithTrustedProxies trusts forwarding headers only from listed proxies / Ne croit les en-têtes que des proxies de confiance
func getIPWithTrustedProxies(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if !slices.Contains(trustedProxies, remoteIP) {
		return remoteIP
	}

	// X-Forwarded-For is "client, proxy1, proxy2"
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		clientIP := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if net.ParseIP(clientIP) != nil {
			return clientIP
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(realIP) != nil {
		return realIP
	}

	return remoteIP
}

// hashIP keeps raw addresses out of memory
func hashIP(ip string) string {
	h := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(h[:])
}

func (mw *Middleware) limit(limiter *RateLimiter, scope string, key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.conf.RateLimiter.Enabled || limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(key(r)) {
				mw.metrics.RecordRateLimitHit(scope)
				sendRateLimitError(w, retryAfterSecs)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (mw *Middleware) ipKey(r *http.Request) string {
	return hashIP(getIPWithTrustedProxies(r, mw.conf.Security.TrustedProxies))
}

// RateLimit applies the global per-IP limit / Applique la limite globale par IP
func (mw *Middleware) RateLimit(next http.Handler) http.Handler {
	return mw.limit(mw.globalLimiter, "global", mw.ipKey)(next)
}

// RateLimitStrict guards login and registration / Protège la connexion et l'inscription
func (mw *Middleware) RateLimitStrict(next http.Handler) http.Handler {
	return mw.limit(mw.strictLimiter, "strict", mw.ipKey)(next)
}

// RateLimitByUser keys on the token subject, or the IP when anonymous / Limite par utilisateur, sinon par IP
func (mw *Middleware) RateLimitByUser(next http.Handler) http.Handler {
	return mw.limit(mw.userLimiter, "user", func(r *http.Request) string {
		if id := callerID(r.Context()); id != "" {
			return "user_" + id
		}
		return mw.ipKey(r)
	})(next)
}

// RateLimitErrorResponse is the 429 body / Corps de la réponse 429
type RateLimitErrorResponse struct {
	Error      string    `json:"error"`
	Type       string    `json:"type"`
	RetryAfter int       `json:"retry_after_seconds"`
	Timestamp  time.Time `json:"timestamp"`
}

func sendRateLimitError(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeJSON(w, http.StatusTooManyRequests, RateLimitErrorResponse{
		Error:      "too many requests, please try again later",
		Type:       "rate_limit_exceeded",
		RetryAfter: retryAfter,
		Timestamp:  time.Now().UTC(),
	})
}
