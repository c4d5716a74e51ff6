package auth

import (
	"context"

	"finbook.org/internal/member"
)

// Identity is the resolved acting member attached to a request context by
// the authentication gate.
type Identity struct {
	MemberID int64
	Role     string
}

// IsAdmin reports whether the identity carries the administrative role.
func (id Identity) IsAdmin() bool { return id.Role == member.RoleAdmin }

type identityContextKey struct{}

// ContextWithIdentity attaches the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &identity)
}

// IdentityFromContext extracts the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || v == nil || v.MemberID <= 0 {
		return Identity{}, false
	}
	return *v, true
}
