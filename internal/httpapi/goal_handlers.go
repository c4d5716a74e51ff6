package httpapi

import (
	"net/http"
	"strings"
	"time"

	"finbook.org/internal/audit"
	"finbook.org/internal/finance"
)

type createGoalRequest struct {
	Name          string     `json:"name"`
	TargetAmount  int64      `json:"target_amount"`
	CurrentAmount int64      `json:"current_amount"`
	DueDate       *time.Time `json:"due_date"`
}

type updateGoalRequest struct {
	Name          *string    `json:"name"`
	TargetAmount  *int64     `json:"target_amount"`
	CurrentAmount *int64     `json:"current_amount"`
	DueDate       *time.Time `json:"due_date"`
}

func (a *API) handleGoalsCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	goals := a.finance.Goals(r.Context())
	switch r.Method {
	case http.MethodPost:
		var req createGoalRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		goal := &finance.Goal{
			MemberID:      identity.MemberID,
			Name:          strings.TrimSpace(req.Name),
			TargetAmount:  req.TargetAmount,
			CurrentAmount: req.CurrentAmount,
		}
		if req.DueDate != nil {
			goal.DueDate = req.DueDate.UTC()
		}
		if err := goals.Create(r.Context(), goal); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "goal.create", map[string]any{"goal_id": goal.ID})
		w.Header().Set("Location", "/api/v1/goals/"+itoa(goal.ID))
		writeResult(w, "201-1", "goal created", goal)
	case http.MethodGet:
		includeDeleted := r.URL.Query().Get("include_deleted") == "true"
		list, err := goals.ListByMember(r.Context(), identity.MemberID, includeDeleted)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "goals", list)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleGoalResource(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/goals/")
	id, err := parseResourceID(path)
	if err != nil {
		writeFailure(w, r, http.StatusNotFound, "resource not found")
		return
	}

	goals := a.finance.Goals(r.Context())
	goal, err := goals.Find(r.Context(), id, false)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if !a.authorizeOwner(w, r, identity, goal.MemberID, "goal", goal.ID) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeResult(w, "200-1", "goal", goal)
	case http.MethodPatch:
		var req updateGoalRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := goals.Update(r.Context(), id, finance.GoalUpdate{
			Name:          req.Name,
			TargetAmount:  req.TargetAmount,
			CurrentAmount: req.CurrentAmount,
			DueDate:       req.DueDate,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "goal updated", updated)
	case http.MethodDelete:
		if err := goals.SoftDelete(r.Context(), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "goal.delete", map[string]any{"goal_id": id})
		writeResult(w, "200-1", "goal deleted", nil)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}
