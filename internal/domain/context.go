package domain

import (
	"context"

	"github.com/google/uuid"
)

// Role is the principal class executing an operation.
type Role string

// Principal classes at the service boundary.
const (
	RoleAnonymous     Role = "anon"
	RoleAuthenticated Role = "authenticated"
	RoleService       Role = "service"
)

// ContextPrincipal carries the authenticated identity through request context.
type ContextPrincipal struct {
	ID   uuid.UUID
	Role Role
}

// IsService reports whether the principal is the privileged service identity.
func (p ContextPrincipal) IsService() bool { return p.Role == RoleService }

type principalKey struct{}

// WithPrincipal stores a ContextPrincipal in the context.
func WithPrincipal(ctx context.Context, p ContextPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the ContextPrincipal from the context.
// The second return is false when no principal has been attached.
func PrincipalFromContext(ctx context.Context) (ContextPrincipal, bool) {
	p, ok := ctx.Value(principalKey{}).(ContextPrincipal)
	return p, ok
}
