package httpapi

import (
	"net/http"
	"strings"

	"finbook.org/internal/auth"
)

// Cookie names for the two token kinds.
const (
	CookieAccess  = "accessToken"
	CookieRefresh = "refreshToken"
)

// Sessions binds tokens to HTTP via cookies. Cookies are HTTP-only (not
// readable by client scripts) and SameSite=Lax; the Secure flag is
// configuration-driven and must be on for TLS deployments.
type Sessions struct {
	tokens *auth.Issuer
	secure bool
}

// NewSessions creates a session carrier deriving cookie lifetimes from the
// issuer's validity windows.
func NewSessions(tokens *auth.Issuer, secure bool) *Sessions {
	return &Sessions{tokens: tokens, secure: secure}
}

func cookieName(typ auth.TokenType) string {
	if typ == auth.TokenRefresh {
		return CookieRefresh
	}
	return CookieAccess
}

// Attach sets the cookie for the token, with max-age equal to the token's
// validity window.
func (s *Sessions) Attach(w http.ResponseWriter, typ auth.TokenType, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(typ),
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.TTL(typ).Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AttachPair sets both cookies from a freshly minted pair.
func (s *Sessions) AttachPair(w http.ResponseWriter, pair auth.TokenPair) {
	s.Attach(w, auth.TokenAccess, pair.AccessToken)
	s.Attach(w, auth.TokenRefresh, pair.RefreshToken)
}

// Extract returns the token of the given kind from the request cookies.
func (s *Sessions) Extract(r *http.Request, typ auth.TokenType) (string, bool) {
	c, err := r.Cookie(cookieName(typ))
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(c.Value)
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear expires the cookie of the given kind immediately. Logout is purely a
// cookie-clearing operation: a captured token stays cryptographically valid
// until its natural expiry (stateless-token limitation).
func (s *Sessions) Clear(w http.ResponseWriter, typ auth.TokenType) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(typ),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAll expires both cookies.
func (s *Sessions) ClearAll(w http.ResponseWriter) {
	s.Clear(w, auth.TokenAccess)
	s.Clear(w, auth.TokenRefresh)
}
