package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/service"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
	"github.com/eternalinsky-max/proponujeprace/pkg/httputil"
	"github.com/eternalinsky-max/proponujeprace/pkg/middleware"
)

type ctxKey string

const currentUserKey ctxKey = "current_user"

// ContentTypeJSON enforces that requests carrying a body declare
// Content-Type: application/json. Bodyless requests (ContentLength 0) pass
// through, so POST routes without a payload need no header.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength != 0 {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ResolveUser maps the verified token claims to a local user row, creating it
// on first sight, and stores the user in the request context. Must be mounted
// after middleware.Auth.
func ResolveUser(users *service.UserService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := middleware.ClaimsFromContext(r.Context())
			if claims == nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), logger)
				return
			}

			user, err := users.ResolveIdentity(r.Context(), &service.IdentityInput{
				ExternalUID: claims.UserID,
				Email:       claims.Email,
				Name:        claims.Name,
				Picture:     claims.Picture,
			})
			if err != nil {
				httputil.WriteError(w, r, err, logger)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects requests whose resolved local user is not an admin. The
// local admin flag is the source of truth; token claims only carry a hint.
// Must be mounted after ResolveUser.
func AdminOnly(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := currentUser(r.Context())
			if user == nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), logger)
				return
			}
			if !user.Admin {
				httputil.WriteError(w, r, apperrors.Forbidden("admin access required"), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// currentUser extracts the resolved local user from the request context.
func currentUser(ctx context.Context) *domain.User {
	if u, ok := ctx.Value(currentUserKey).(*domain.User); ok {
		return u
	}
	return nil
}

// clientIP extracts the client IP address from the request.
// It checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first valid IP in the chain.
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip.String()
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
