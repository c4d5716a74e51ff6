package httpapi

import (
	"errors"
	"net/http"

	"finbook.org/internal/audit"
	"finbook.org/internal/auth"
	"finbook.org/internal/obs"
)

var publicPaths = []string{
	"/api/v1/auth/signup",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
	"/api/v1/auth/logout",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
}

// withAuth resolves an identity from the access cookie before any handler
// runs. The check is side-effect-free: an expired access token is reported
// as expired so the client can drive the refresh endpoint; the gate never
// refreshes inline.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if _, pattern := a.mux.Handler(r); pattern == "/" || pattern == "" {
			// Unroutable path. The catch-all answers 404 without
			// demanding credentials first.
			next.ServeHTTP(w, r)
			return
		}

		token, ok := a.sessions.Extract(r, auth.TokenAccess)
		if !ok {
			// Anonymous request against a protected route.
			writeFailure(w, r, http.StatusUnauthorized, "authentication required")
			return
		}

		identity, err := a.auth.ResolveIdentity(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				// Leave cookies intact; the refresh cookie may still be valid.
				obs.CountAuthFailure("expired")
				writeFailure(w, r, http.StatusUnauthorized, "access token expired")
			case errors.Is(err, auth.ErrWrongTokenType):
				obs.CountAuthFailure("wrong_type")
				a.sessions.ClearAll(w)
				writeFailure(w, r, http.StatusUnauthorized, "authentication required")
			case errors.Is(err, auth.ErrSignatureInvalid), errors.Is(err, auth.ErrTokenMalformed),
				errors.Is(err, auth.ErrUnauthenticated):
				obs.CountAuthFailure(failureKind(err))
				a.sessions.ClearAll(w)
				writeFailure(w, r, http.StatusUnauthorized, "authentication required")
			default:
				writeFailure(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireIdentity fetches the gate-resolved identity; handlers behind the
// gate treat absence as a programming error surfaced as 401.
func requireIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, r, http.StatusUnauthorized, "authentication required")
		return auth.Identity{}, false
	}
	return identity, true
}

// authorizeOwner applies the ownership policy against the persisted owner id
// and records denials in the audit log. The 404-shaped response keeps an
// existing-but-foreign resource indistinguishable from a missing one.
func (a *API) authorizeOwner(w http.ResponseWriter, r *http.Request, identity auth.Identity, ownerID int64, resource string, resourceID int64) bool {
	if err := auth.OwnerOrAdmin(identity, ownerID); err != nil {
		obs.CountAuthFailure("denied")
		_ = audit.LogEvent(r.Context(), "authz.denied", map[string]any{
			"resource":    resource,
			"resource_id": resourceID,
		})
		writeFailure(w, r, http.StatusNotFound, "resource not found")
		return false
	}
	return true
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, auth.ErrSignatureInvalid):
		return "signature"
	case errors.Is(err, auth.ErrTokenMalformed):
		return "malformed"
	default:
		return "unauthenticated"
	}
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
