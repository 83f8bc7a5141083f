package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"attendance.service/internal/api/apimsg"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
	"attendance.service/pkg/credentials"
)

type contextKey string

const userKey contextKey = "currentUser"

// CurrentUser returns the authenticated user placed by Authenticate, or
// nil on unauthenticated requests.
func CurrentUser(ctx context.Context) *model.User {
	if u, ok := ctx.Value(userKey).(*model.User); ok {
		return u
	}
	return nil
}

// Authenticate validates the bearer token and loads the user onto the
// request context. Requests without a valid token stop here with 401.
func Authenticate(creds *credentials.Manager, users repository.UserRepository) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				apimsg.WriteError(w, apimsg.Unauthorized)
				return
			}

			claims, err := creds.ParseAccess(token)
			if err != nil {
				apimsg.WriteError(w, apimsg.Unauthorized)
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				log.Ctx(r.Context()).Warn().Err(err).Msg("Token valid but user lookup failed")
				apimsg.WriteError(w, apimsg.Unauthorized)
				return
			}

			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("app.user_id", user.ID))

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManager gates manager routes. The role switch is exhaustive on
// the enum; anything unrecognized is rejected.
func RequireManager() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				apimsg.WriteError(w, apimsg.Unauthorized)
				return
			}

			switch user.Role {
			case model.RoleManager:
				next.ServeHTTP(w, r)
			case model.RoleEmployee:
				apimsg.WriteError(w, apimsg.Forbidden)
			default:
				apimsg.WriteError(w, apimsg.Forbidden)
			}
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
