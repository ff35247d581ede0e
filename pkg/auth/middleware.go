package auth

import (
	"context"
	"net/http"
	"strings"

	apperrors "korskola/pkg/errors"
	httputil "korskola/pkg/http"
	"korskola/pkg/logger"
	"korskola/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type contextKey string

const userKey contextKey = "acting_user"

func WithUser(ctx context.Context, user *model.ActingUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// FromContext returns the acting user, or nil for anonymous requests.
func FromContext(ctx context.Context) *model.ActingUser {
	user, _ := ctx.Value(userKey).(*model.ActingUser)
	return user
}

// Authentication resolves the bearer token. A request without Authorization is
// anonymous; a request with a bad token is rejected.
func Authentication(a *Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				reject(w, log, r, "Invalid authorization header format")
				return
			}

			user, err := a.Parse(strings.TrimSpace(tokenString))
			if err != nil {
				log.Warn("Rejected bearer token", "path", r.URL.Path, "error", err)
				reject(w, log, r, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func reject(w http.ResponseWriter, log *logger.Logger, r *http.Request, message string) {
	if err := httputil.WriteError(w, apperrors.Unauthorized(message)); err != nil {
		log.Error("failed to write error response", "path", r.URL.Path, "operation", "WriteError", "error", err)
	}
}

// RequireRole guards a route. Anonymous callers get 401, other roles 403.
func RequireRole(log *logger.Logger, next httprouter.Handle, roles ...model.Role) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user := FromContext(r.Context())
		if user.IsAnonymous() {
			reject(w, log, r, "Authentication required")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				next(w, r, ps)
				return
			}
		}

		if err := httputil.WriteError(w, apperrors.Forbidden("Insufficient permissions")); err != nil {
			log.Error("failed to write error response", "path", r.URL.Path, "operation", "WriteError", "error", err)
		}
	}
}

func RequireStaff(log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return RequireRole(log, next, model.RoleTeacher, model.RoleAdmin)
}
