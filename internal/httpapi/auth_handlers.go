package httpapi

import (
	"errors"
	"net/http"

	"finbook.org/internal/audit"
	"finbook.org/internal/auth"
	"finbook.org/internal/member"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// memberView is the client-facing shape of a member; the password hash
// never leaves the service.
type memberView struct {
	MemberID int64  `json:"memberId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func viewOf(m *member.Member) memberView {
	return memberView{MemberID: m.ID, Email: m.Email, Name: m.Name, Role: m.Role}
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	m, err := a.auth.Signup(r.Context(), req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.signup", map[string]any{"member_id": m.ID})
	writeResult(w, "201-1", "member registered", viewOf(m))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	pair, m, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// One generic message regardless of which half failed.
			_ = audit.LogEvent(r.Context(), "auth.login.failure", nil)
		}
		handleDomainError(w, r, err)
		return
	}
	a.sessions.AttachPair(w, pair)
	_ = audit.LogEvent(r.Context(), "auth.login.success", map[string]any{"member_id": m.ID})
	writeResult(w, "200-1", "login successful", viewOf(m))
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	a.sessions.ClearAll(w)
	_ = audit.LogEvent(r.Context(), "auth.logout", nil)
	writeResult(w, "200-1", "logged out", nil)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	token, ok := a.sessions.Extract(r, auth.TokenRefresh)
	if !ok {
		writeFailure(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	pair, m, err := a.auth.Refresh(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired),
			errors.Is(err, auth.ErrTokenMalformed),
			errors.Is(err, auth.ErrSignatureInvalid),
			errors.Is(err, auth.ErrWrongTokenType),
			errors.Is(err, auth.ErrUnauthenticated):
			a.sessions.ClearAll(w)
			writeFailure(w, r, http.StatusUnauthorized, "authentication required")
		default:
			writeFailure(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	a.sessions.AttachPair(w, pair)
	_ = audit.LogEvent(r.Context(), "auth.refresh", map[string]any{"member_id": m.ID})
	writeResult(w, "200-1", "tokens refreshed", viewOf(m))
}
