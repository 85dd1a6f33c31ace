package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ministore/ministore/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// Middleware authenticates the admin session from the Authorization header
// and stores the claims on the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, err := ValidateToken(secret, tokenStr)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the session claims, or nil outside the authenticated group.
func GetUser(ctx context.Context) *Claims {
	claims, _ := ctx.Value(UserContextKey).(*Claims)
	return claims
}

// HasCapability reports whether the current principal holds capability.
func HasCapability(ctx context.Context, capability string) bool {
	claims := GetUser(ctx)
	return claims != nil && models.RoleHasCapability(claims.Role, capability)
}
