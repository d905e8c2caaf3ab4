package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	pkghttp "github.com/rdua-dev/sadhana-tracker/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing user claims in context
	UserContextKey contextKey = "user"
)

// UserRepository interface for fetching user data
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Middleware validates session tokens and injects user claims into context.
// The token is read from the Authorization header or, failing that, from the
// auth cookie so browser clients work without extra headers.
func Middleware(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				pkghttp.WriteUnauthorized(w, "Unauthorized request")
				return
			}

			claims, err := tm.ValidateSessionToken(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles enforces role-based access. The role is fetched fresh from the
// database so demotions take effect before the session token expires.
func RequireRoles(userRepo UserRepository, roles ...string) func(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r)
			if claims == nil {
				pkghttp.WriteUnauthorized(w, "Unauthorized request")
				return
			}

			user, err := userRepo.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "User not found")
					return
				}
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			if !allowed[user.Role] {
				pkghttp.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		switch {
		case len(parts) == 2 && parts[0] == "Bearer":
			return parts[1]
		case len(parts) == 1:
			// Some clients send the token without a scheme
			return parts[0]
		}
		return ""
	}

	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
