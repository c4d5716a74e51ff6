package auth

// Policy decides whether the acting identity may operate on a resource
// recorded as belonging to ownerID. Returning nil allows the operation.
// Keeping the rule a plain predicate keeps authorization testable in
// isolation; no role hierarchy is implied.
type Policy func(identity Identity, ownerID int64) error

// OwnerOrAdmin allows the operation iff the identity is the recorded owner
// or carries the administrative role.
//
// Callers must pass the owner id fetched fresh from storage, never a
// client-supplied value.
func OwnerOrAdmin(identity Identity, ownerID int64) error {
	if identity.MemberID <= 0 {
		return ErrUnauthenticated
	}
	if identity.MemberID == ownerID || identity.IsAdmin() {
		return nil
	}
	return ErrAccessDenied
}

// AdminOnly allows the operation only for administrators. Used for notice
// management.
func AdminOnly(identity Identity, _ int64) error {
	if identity.MemberID <= 0 {
		return ErrUnauthenticated
	}
	if identity.IsAdmin() {
		return nil
	}
	return ErrAccessDenied
}
