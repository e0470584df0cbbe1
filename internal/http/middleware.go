package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"fanclub-backend/internal/metrics"
	"fanclub-backend/internal/platform/apperr"
	jwtpkg "fanclub-backend/internal/platform/jwt"
)

type ctxKey string

const (
	ctxKeyUserID ctxKey = "user_id"
	ctxKeyEmail  ctxKey = "email"
)

var slogLogger = slog.Default()

func SetLogger(l *slog.Logger) {
	if l != nil {
		slogLogger = l
	}
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(jm *jwtpkg.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromHeader(jm, r)
			if err != nil {
				errorResponse(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxKeyEmail, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user identity when a valid token is present and
// lets the request through anonymously otherwise. The poll listing uses this:
// anyone can read, only authenticated callers see their own vote.
func OptionalAuth(jm *jwtpkg.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				if claims, err := claimsFromHeader(jm, r); err == nil {
					ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.UserID)
					ctx = context.WithValue(ctx, ctxKeyEmail, claims.Email)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsFromHeader(jm *jwtpkg.Manager, r *http.Request) (*jwtpkg.Claims, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return nil, apperr.Unauthorized("missing_token", "missing authorization header", nil)
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, apperr.Unauthorized("invalid_token", "invalid authorization header", nil)
	}

	claims, err := jm.Parse(parts[1])
	if err != nil {
		return nil, apperr.Unauthorized("invalid_token", "invalid token", err)
	}
	return claims, nil
}

func userIDFromCtx(r *http.Request) int64 {
	if v := r.Context().Value(ctxKeyUserID); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RateLimitVotes(r rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(r, burst, 10*time.Minute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.allow(ip) {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":   "rate_limited",
					"message": "too many requests",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(rw, r)

		status := rw.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		metrics.IncRequest(r.Method, route, status)

		slogLogger.Info("request",
			"method", r.Method,
			"path", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	limit    rate.Limit
	burst    int
	entryTTL time.Duration
}

func newIPRateLimiter(limit rate.Limit, burst int, entryTTL time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    limit,
		burst:    burst,
		entryTTL: entryTTL,
	}
}

func (l *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, ts := range l.lastSeen {
		if now.Sub(ts) > l.entryTTL {
			delete(l.limiters, key)
			delete(l.lastSeen, key)
		}
	}

	if limiter, ok := l.limiters[ip]; ok {
		l.lastSeen[ip] = now
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters[ip] = limiter
	l.lastSeen[ip] = now
	return limiter
}

func (l *ipRateLimiter) allow(ip string) bool {
	limiter := l.getLimiter(ip)
	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	if xfwd := r.Header.Get("X-Forwarded-For"); xfwd != "" {
		parts := strings.Split(xfwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
