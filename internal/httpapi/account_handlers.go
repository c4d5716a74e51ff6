package httpapi

import (
	"net/http"
	"strings"

	"finbook.org/internal/audit"
	"finbook.org/internal/finance"
)

type createAccountRequest struct {
	Name           string `json:"name"`
	AccountNumber  string `json:"account_number"`
	InitialBalance int64  `json:"initial_balance"`
}

type updateAccountRequest struct {
	Name          *string `json:"name"`
	AccountNumber *string `json:"account_number"`
}

type recordTransactionRequest struct {
	Kind   string `json:"kind"`
	Amount int64  `json:"amount"`
	Memo   string `json:"memo"`
}

func (a *API) handleAccountsCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	accounts := a.finance.Accounts(r.Context())
	switch r.Method {
	case http.MethodPost:
		var req createAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		acc := &finance.Account{
			MemberID:      identity.MemberID,
			Name:          strings.TrimSpace(req.Name),
			AccountNumber: strings.TrimSpace(req.AccountNumber),
			Balance:       req.InitialBalance,
		}
		if err := accounts.Create(r.Context(), acc); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "account.create", map[string]any{"account_id": acc.ID})
		w.Header().Set("Location", "/api/v1/accounts/"+itoa(acc.ID))
		writeResult(w, "201-1", "account created", acc)
	case http.MethodGet:
		includeDeleted := r.URL.Query().Get("include_deleted") == "true"
		list, err := accounts.ListByMember(r.Context(), identity.MemberID, includeDeleted)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "accounts", list)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleAccountResource(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/accounts/")

	if rest, found := strings.CutSuffix(path, "/transactions"); found {
		id, err := parseResourceID(rest)
		if err != nil {
			writeFailure(w, r, http.StatusNotFound, "resource not found")
			return
		}
		a.handleAccountTransactions(w, r, id)
		return
	}
	if strings.Contains(path, "/") {
		writeFailure(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id, err := parseResourceID(path)
	if err != nil {
		writeFailure(w, r, http.StatusNotFound, "resource not found")
		return
	}

	accounts := a.finance.Accounts(r.Context())
	acc, err := accounts.Find(r.Context(), id, false)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if !a.authorizeOwner(w, r, identity, acc.MemberID, "account", acc.ID) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeResult(w, "200-1", "account", acc)
	case http.MethodPatch:
		var req updateAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := accounts.Update(r.Context(), id, finance.AccountUpdate{
			Name:          req.Name,
			AccountNumber: req.AccountNumber,
		})
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "account updated", updated)
	case http.MethodDelete:
		if err := accounts.SoftDelete(r.Context(), id); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "account.delete", map[string]any{"account_id": id})
		writeResult(w, "200-1", "account deleted", nil)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) handleAccountTransactions(w http.ResponseWriter, r *http.Request, accountID int64) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	accounts := a.finance.Accounts(r.Context())
	acc, err := accounts.Find(r.Context(), accountID, false)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if !a.authorizeOwner(w, r, identity, acc.MemberID, "account", acc.ID) {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req recordTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		t := &finance.Transaction{
			AccountID: accountID,
			Kind:      strings.ToLower(strings.TrimSpace(req.Kind)),
			Amount:    req.Amount,
			Memo:      strings.TrimSpace(req.Memo),
		}
		if err := accounts.Record(r.Context(), t); err != nil {
			handleDomainError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "account.transaction", map[string]any{
			"account_id":     accountID,
			"transaction_id": t.ID,
			"kind":           t.Kind,
		})
		writeResult(w, "201-1", "transaction recorded", t)
	case http.MethodGet:
		limit, err := parsePositiveInt(r.URL.Query().Get("limit"), 100, 1, 1000)
		if err != nil {
			writeFailure(w, r, http.StatusBadRequest, err.Error())
			return
		}
		list, err := accounts.Transactions(r.Context(), accountID, limit)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeResult(w, "200-1", "transactions", list)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}
