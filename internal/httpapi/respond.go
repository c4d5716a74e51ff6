package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finbook.org/internal/auth"
	"finbook.org/internal/finance"
	"finbook.org/internal/member"
)

// resultEnvelope wraps every successful response. The numeric prefix of
// ResultCode mirrors the HTTP status (e.g. "201-1" -> 201).
type resultEnvelope struct {
	ResultCode string `json:"resultCode"`
	Msg        string `json:"msg"`
	Data       any    `json:"data"`
}

// failureEnvelope is the uniform error payload for all failures.
type failureEnvelope struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult emits the success envelope, deriving the HTTP status from the
// resultCode prefix.
func writeResult(w http.ResponseWriter, resultCode, msg string, data any) {
	status := http.StatusOK
	if prefix, _, ok := strings.Cut(resultCode, "-"); ok {
		if parsed, err := strconv.Atoi(prefix); err == nil && parsed >= 100 && parsed < 600 {
			status = parsed
		}
	}
	writeJSON(w, status, resultEnvelope{ResultCode: resultCode, Msg: msg, Data: data})
}

// writeFailure emits the uniform error envelope. No internal reasons or
// stack traces reach the client; the message is already client-safe.
func writeFailure(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, failureEnvelope{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      r.URL.Path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleDomainError maps store and service errors onto the failure envelope.
// Ownership denials on owned resources are reported as 404 so a resource
// that exists but is not yours is indistinguishable from one that does not
// exist.
func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeFailure(w, r, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrAccessDenied):
		writeFailure(w, r, http.StatusNotFound, "resource not found")
	case errors.Is(err, finance.ErrNotFound), errors.Is(err, member.ErrNotFound):
		writeFailure(w, r, http.StatusNotFound, "resource not found")
	case errors.Is(err, member.ErrEmailTaken):
		writeFailure(w, r, http.StatusConflict, "email already registered")
	case errors.Is(err, finance.ErrInsufficientFunds):
		writeFailure(w, r, http.StatusConflict, "insufficient funds")
	case errors.Is(err, finance.ErrInvalidAmount), errors.Is(err, finance.ErrInvalidInput),
		errors.Is(err, member.ErrInvalidInput):
		writeFailure(w, r, http.StatusBadRequest, trimErrorPrefix(err))
	default:
		writeFailure(w, r, http.StatusInternalServerError, "internal error")
	}
}

// trimErrorPrefix strips the package prefix from sentinel error text so
// clients see "invalid input: name is required" rather than "member: ...".
func trimErrorPrefix(err error) string {
	msg := err.Error()
	for _, prefix := range []string{"finance: ", "member: ", "auth: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return msg
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeFailure(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// decodeJSON reads a single JSON value from the request body. Size capping
// is the MaxBodyBytes middleware's job; the body arrives here already wrapped.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// parseResourceID extracts the trailing numeric id from a path like
// /api/v1/accounts/42.
func parseResourceID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("resource id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("resource id must be a positive integer")
	}
	return id, nil
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func parsePositiveInt(raw string, def, min, max int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	if val < min || val > max {
		return 0, errors.New("limit must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max))
	}
	return val, nil
}
