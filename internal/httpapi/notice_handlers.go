package httpapi

import (
	"net/http"
	"strings"

	"finbook.org/internal/audit"
	"finbook.org/internal/auth"
	"finbook.org/internal/finance"
	"finbook.org/internal/obs"
)

type createNoticeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateNoticeRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// requireAdmin enforces the administrative policy for notice management.
// Notices are listed publicly to authenticated members, so a plain 403
// leaks nothing here.
func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request, identity auth.Identity) bool {
	if err := auth.AdminOnly(identity, 0); err != nil {
		obs.CountAuthFailure("denied")
		_ = audit.LogEvent(r.Context(), "authz.denied", map[string]any{"resource": "notice"})
		writeFailure(w, r, http.StatusForbidden, "administrator role required")
		return false
	}
	return true
}

func (a *API) handleNoticesCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	notices := a.finance.Notices(r.Context())
	switch r.Method {
	case http.MethodGet:
		limit, err := parsePositiveInt(r.URL.Query().Get("limit"), 100, 1, 1000)
		if err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		list, err := notices.List(r.Context(), limit, false)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "notices", list)
	case http.MethodPost:
		if !a.requireAdmin(w, r, identity) {
			return
		}
		var req createNoticeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		n := &finance.Notice{Title: strings.TrimSpace(req.Title), Content: req.Content}
		if err := notices.Create(r.Context(), n); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "notice.create", map[string]any{"notice_id": n.ID})
		w.Header().Set("Location", "/api/v1/notices/"+itoa(n.ID))
		writeResult(w, "201-1", "notice created", n)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleNoticeResource(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/notices/")
	id, err := parseResourceID(path)
	if err != nil {
		writeFailure(w, r, http.StatusNotFound, "resource not found")
		return
	}
	notices := a.finance.Notices(r.Context())

	switch r.Method {
	case http.MethodGet:
		n, err := notices.Find(r.Context(), id, false)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "notice", n)
	case http.MethodPatch:
		if !a.requireAdmin(w, r, identity) {
			return
		}
		var req updateNoticeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		n, err := notices.Update(r.Context(), id, finance.NoticeUpdate{Title: req.Title, Content: req.Content})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "notice updated", n)
	case http.MethodDelete:
		if !a.requireAdmin(w, r, identity) {
			return
		}
		if err := notices.SoftDelete(r.Context(), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "notice.delete", map[string]any{"notice_id": id})
		writeResult(w, "200-1", "notice deleted", nil)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}
