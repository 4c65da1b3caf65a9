package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/metrics"
	"github.com/ahlemhorchani/smart-interventions/internal/service/auth"
	"github.com/google/uuid"
)

const (
	bearerPrefix      = "Bearer "
	accessTokenCookie = "access_token"
	RequestIDHeader   = "X-Request-ID"
)

// RequestID tags each request with an ID / Attribue un ID à chaque requête
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging logs HTTP requests and refuses tokens in query strings / Journalise et refuse les tokens dans l'URL
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if tokenInQuery(r) {
			slog.Error("token in query string refused", "path", r.URL.Path, "ip", r.RemoteAddr)
			ErrorResponse(w, "forbidden", http.StatusForbidden)
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.Info("request",
			"request_id", GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// tokenInQuery spots an access_token parameter or a bearer JWT passed as a value
func tokenInQuery(r *http.Request) bool {
	q := r.URL.Query()
	if q.Has(accessTokenCookie) {
		return true
	}
	for _, values := range q {
		for _, v := range values {
			if raw, ok := strings.CutPrefix(v, bearerPrefix); ok && strings.Count(raw, ".") == 2 {
				return true
			}
		}
	}
	return false
}

// Timeout bounds handler time, late handlers get a JSON 503 / Borne la durée des handlers
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"error":"request timeout","type":"Timeout"}`)
	}
}

// Middleware holds middleware configuration and dependencies / Contient la configuration middleware
type Middleware struct {
	conf          *config.Config
	metrics       *metrics.Metrics
	globalLimiter *RateLimiter
	strictLimiter *RateLimiter
	userLimiter   *RateLimiter
}

// responseWriter captures the status code / Capture le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// NewMiddleware creates middleware with rate limiters / Crée le middleware avec limiteurs
func NewMiddleware(ctx context.Context, conf *config.Config, m *metrics.Metrics) *Middleware {
	mw := &Middleware{conf: conf, metrics: m}

	if conf.RateLimiter.Enabled {
		mw.globalLimiter = NewRateLimiter(ctx, conf.RateLimiter.RPS, conf.RateLimiter.Burst)

		strictRPS, strictBurst := conf.RateLimiter.RPS, conf.RateLimiter.Burst
		if conf.IsProduction() {
			strictRPS /= 2
			if strictBurst > 2 {
				strictBurst /= 2
			}
		}
		mw.strictLimiter = NewRateLimiter(ctx, strictRPS, strictBurst)
		mw.userLimiter = NewRateLimiter(ctx, conf.RateLimiter.RPS*2, conf.RateLimiter.Burst*2)
	}

	return mw
}

// MetricsMiddleware tracks HTTP request metrics by route pattern / Suit les métriques HTTP par route
func (m *Middleware) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.metrics.IncrementActiveConnections()
		defer m.metrics.DecrementActiveConnections()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		// ServeMux sets Pattern on the request it routed
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.metrics.RecordHTTPRequest(r.Method, route, rw.statusCode)
		m.metrics.RecordHTTPDuration(r.Method, route, time.Since(start))
	})
}

// tokenFrom reads the bearer header first, then the access_token cookie
func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Auth validates JWT tokens and stores the claims / Valide les tokens JWT et stocke les claims
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := tokenFrom(r)
		if tokenStr == "" {
			ErrorResponse(w, "authentication required", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ValidateJWT(tokenStr, m.conf.Auth.JWTSecret)
		if err != nil {
			m.metrics.RecordInvalidToken()
			slog.Debug("token rejected", "err", err)
			ErrorResponse(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole checks user role with hierarchy / Vérifie le rôle avec hiérarchie
func (m *Middleware) RequireRole(required domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := callerRole(r.Context())
			if role == "" {
				ErrorResponse(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if !domain.HasMinimumRole(role, required) {
				m.metrics.RecordPermissionDenial("role:" + string(required))
				ErrorResponse(w, "insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission checks the static role permissions / Vérifie les permissions du rôle
func (m *Middleware) RequirePermission(p domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := callerRole(r.Context())
			if role == "" {
				slog.Error("RequirePermission without Auth", "path", r.URL.Path)
				ErrorResponse(w, "authentication required", http.StatusUnauthorized)
				return
			}

			if !domain.RoleHasPermission(role, p) {
				m.metrics.RecordPermissionDenial(p.String())
				slog.Warn("permission denied",
					"user_id", callerID(r.Context()),
					"role", role,
					"permission", p,
					"method", r.Method,
					"path", r.URL.Path,
				)
				ErrorResponse(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Cors handles CORS headers / Gère les en-têtes CORS
func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range m.conf.Cors.AllowedOrigins {
			if allowed == "*" || allowed == origin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders adds security headers / Ajoute les en-têtes de sécurité
func (m *Middleware) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if m.conf.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
