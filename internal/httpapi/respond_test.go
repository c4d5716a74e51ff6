package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finbook.org/internal/auth"
	"finbook.org/internal/finance"
	"finbook.org/internal/member"
)

func TestWriteResultDerivesStatusFromCode(t *testing.T) {
	cases := map[string]int{
		"200-1":   http.StatusOK,
		"201-1":   http.StatusCreated,
		"200":     http.StatusOK, // no dash, default
		"weird-1": http.StatusOK,
		"999-1":   999,
	}
	for code, want := range cases {
		rr := httptest.NewRecorder()
		writeResult(rr, code, "msg", nil)
		if rr.Code != want {
			t.Fatalf("code %q: got status %d want %d", code, rr.Code, want)
		}
		var env resultEnvelope
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.ResultCode != code {
			t.Fatalf("resultCode mangled: %q", env.ResultCode)
		}
	}
}

func TestHandleDomainErrorMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{auth.ErrAccessDenied, http.StatusNotFound, "resource not found"},
		{finance.ErrNotFound, http.StatusNotFound, "resource not found"},
		{member.ErrNotFound, http.StatusNotFound, "resource not found"},
		{member.ErrEmailTaken, http.StatusConflict, "email already registered"},
		{finance.ErrInsufficientFunds, http.StatusConflict, "insufficient funds"},
		{fmt.Errorf("%w: name is required", member.ErrInvalidInput), http.StatusBadRequest, "invalid input: name is required"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil)
		handleDomainError(rr, req, tc.err)
		if rr.Code != tc.status {
			t.Fatalf("%v: got status %d want %d", tc.err, rr.Code, tc.status)
		}
		var body failureEnvelope
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode failure: %v", err)
		}
		if body.Message != tc.message {
			t.Fatalf("%v: got message %q want %q", tc.err, body.Message, tc.message)
		}
		if body.Path != "/api/v1/accounts/1" {
			t.Fatalf("missing path: %+v", body)
		}
	}
}

func TestParseResourceID(t *testing.T) {
	if id, err := parseResourceID("42"); err != nil || id != 42 {
		t.Fatalf("unexpected: id=%d err=%v", id, err)
	}
	for _, raw := range []string{"", "abc", "-3", "0", "1.5"} {
		if _, err := parseResourceID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
