package httpapi

import (
	"net/http"

	"finbook.org/internal/audit"
	"finbook.org/internal/auth"
)

type profileUpdateRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		m, err := a.auth.Member(r.Context(), identity.MemberID)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "profile", viewOf(m))
	case http.MethodPatch:
		var req profileUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		m, err := a.auth.UpdateProfile(r.Context(), identity.MemberID, auth.ProfileUpdate{
			Name:     req.Name,
			Phone:    req.Phone,
			Password: req.Password,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "member.profile.update", nil)
		writeResult(w, "200-1", "profile updated", viewOf(m))
	case http.MethodDelete:
		if err := a.auth.Deactivate(r.Context(), identity.MemberID); err != nil {
			handleDomainError(w, r, err)
			return
		}
		// Issued tokens remain valid until expiry, but the gate re-checks
		// the member row, so they stop authenticating now.
		a.sessions.ClearAll(w)
		_ = audit.LogEvent(r.Context(), "member.deactivate", nil)
		writeResult(w, "200-1", "member deactivated", nil)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}
