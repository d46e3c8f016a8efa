// Package identity resolves the current user to stamp outbound requests.
// Authentication itself belongs to the identity provider; this adapter only
// reads what the auth middleware verified.
package identity

import (
	"context"

	"github.com/WaghmarePravinn/ai-career-coach/internal/middleware"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
)

// Resolver resolves the current user identity, or its absence.
type Resolver interface {
	Resolve(ctx context.Context) model.User
}

// ClaimsResolver reads the identity the JWT middleware placed in the
// request context. Requests without a verified token resolve anonymous.
type ClaimsResolver struct{}

// NewClaimsResolver creates a claims-backed resolver.
func NewClaimsResolver() *ClaimsResolver {
	return &ClaimsResolver{}
}

// Resolve returns the verified user, anonymous when no claims are present.
func (r *ClaimsResolver) Resolve(ctx context.Context) model.User {
	return model.User{
		ID:    middleware.GetUserID(ctx),
		Email: middleware.GetEmail(ctx),
		Name:  middleware.GetDisplayName(ctx),
	}
}

// StaticResolver always returns a fixed identity. Used in tests and by the
// CLI's one-shot commands.
type StaticResolver struct {
	User model.User
}

// Resolve returns the fixed identity.
func (r *StaticResolver) Resolve(ctx context.Context) model.User {
	return r.User
}
