package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finbook.org/internal/auth"
)

func testSessions(t *testing.T, secure bool) *Sessions {
	t.Helper()
	issuer, err := auth.NewIssuer("test-secret",
		auth.WithAccessTTL(10*time.Minute),
		auth.WithRefreshTTL(24*time.Hour),
	)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return NewSessions(issuer, secure)
}

func TestSessionsAttachSetsHardenedCookies(t *testing.T) {
	s := testSessions(t, true)
	rr := httptest.NewRecorder()
	s.AttachPair(rr, auth.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"})

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access, ok := byName[CookieAccess]
	if !ok || access.Value != "access-token" {
		t.Fatalf("missing access cookie: %+v", byName)
	}
	if access.MaxAge != int((10 * time.Minute).Seconds()) {
		t.Fatalf("access max-age should match token ttl, got %d", access.MaxAge)
	}

	refresh, ok := byName[CookieRefresh]
	if !ok || refresh.Value != "refresh-token" {
		t.Fatalf("missing refresh cookie: %+v", byName)
	}
	if refresh.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("refresh max-age should match token ttl, got %d", refresh.MaxAge)
	}

	for name, c := range byName {
		if !c.HttpOnly {
			t.Fatalf("%s must be http-only", name)
		}
		if !c.Secure {
			t.Fatalf("%s must be secure when configured", name)
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Fatalf("%s must be SameSite=Lax", name)
		}
		if c.Path != "/" {
			t.Fatalf("%s path: %q", name, c.Path)
		}
	}
}

func TestSessionsExtract(t *testing.T) {
	s := testSessions(t, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := s.Extract(req, auth.TokenAccess); ok {
		t.Fatalf("expected no token on bare request")
	}

	req.AddCookie(&http.Cookie{Name: CookieAccess, Value: "the-token"})
	req.AddCookie(&http.Cookie{Name: CookieRefresh, Value: "   "})

	token, ok := s.Extract(req, auth.TokenAccess)
	if !ok || token != "the-token" {
		t.Fatalf("unexpected extract result: %q ok=%v", token, ok)
	}
	// Blank cookie values count as absent.
	if _, ok := s.Extract(req, auth.TokenRefresh); ok {
		t.Fatalf("blank cookie treated as present")
	}
}

func TestSessionsClearAll(t *testing.T) {
	s := testSessions(t, false)
	rr := httptest.NewRecorder()
	s.ClearAll(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge >= 0 {
			t.Fatalf("%s not expired: max-age %d", c.Name, c.MaxAge)
		}
		if c.Value != "" {
			t.Fatalf("%s value not blanked", c.Name)
		}
	}
}
