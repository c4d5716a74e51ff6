package httpapi

import (
	"net/http"
	"strings"

	"finbook.org/internal/audit"
	"finbook.org/internal/finance"
)

type createAssetRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value int64  `json:"value"`
}

type updateAssetRequest struct {
	Name  *string `json:"name"`
	Kind  *string `json:"kind"`
	Value *int64  `json:"value"`
}

func (a *API) handleAssetsCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	assets := a.finance.Assets(r.Context())
	switch r.Method {
	case http.MethodPost:
		var req createAssetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		asset := &finance.Asset{
			MemberID: identity.MemberID,
			Name:     strings.TrimSpace(req.Name),
			Kind:     strings.ToLower(strings.TrimSpace(req.Kind)),
			Value:    req.Value,
		}
		if err := assets.Create(r.Context(), asset); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "asset.create", map[string]any{"asset_id": asset.ID})
		w.Header().Set("Location", "/api/v1/assets/"+itoa(asset.ID))
		writeResult(w, "201-1", "asset created", asset)
	case http.MethodGet:
		includeDeleted := r.URL.Query().Get("include_deleted") == "true"
		list, err := assets.ListByMember(r.Context(), identity.MemberID, includeDeleted)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "assets", list)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleAssetResource(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/assets/")
	id, err := parseResourceID(path)
	if err != nil {
		writeFailure(w, r, http.StatusNotFound, "resource not found")
		return
	}

	assets := a.finance.Assets(r.Context())
	asset, err := assets.Find(r.Context(), id, false)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if !a.authorizeOwner(w, r, identity, asset.MemberID, "asset", asset.ID) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeResult(w, "200-1", "asset", asset)
	case http.MethodPatch:
		var req updateAssetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if req.Kind != nil {
			kind := strings.ToLower(strings.TrimSpace(*req.Kind))
			req.Kind = &kind
		}
		updated, err := assets.Update(r.Context(), id, finance.AssetUpdate{
			Name:  req.Name,
			Kind:  req.Kind,
			Value: req.Value,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "asset updated", updated)
	case http.MethodDelete:
		if err := assets.SoftDelete(r.Context(), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "asset.delete", map[string]any{"asset_id": id})
		writeResult(w, "200-1", "asset deleted", nil)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}
