// Package middleware provides HTTP middleware for the gateway API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for user ID.
	UserIDKey ContextKey = "user_id"
	// EmailKey is the context key for the user's email.
	EmailKey ContextKey = "email"
	// DisplayNameKey is the context key for the user's display name.
	DisplayNameKey ContextKey = "display_name"
)

// Claims represents JWT claims issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
}

// Auth creates JWT authentication middleware. When required is false a
// missing Authorization header passes through anonymous; a present but
// invalid token is always rejected.
func Auth(jwtSecret string, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if required {
					http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, `{"error":"invalid authorization header format"}`, http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})

			if err != nil || !token.Valid {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			ctx = context.WithValue(ctx, DisplayNameKey, claims.DisplayName)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID gets user ID from context.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(UserIDKey).(string); ok {
		return v
	}
	return ""
}

// GetEmail gets the user's email from context.
func GetEmail(ctx context.Context) string {
	if v, ok := ctx.Value(EmailKey).(string); ok {
		return v
	}
	return ""
}

// GetDisplayName gets the user's display name from context.
func GetDisplayName(ctx context.Context) string {
	if v, ok := ctx.Value(DisplayNameKey).(string); ok {
		return v
	}
	return ""
}
