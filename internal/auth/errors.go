package auth

import "errors"

// Failure taxonomy for the authentication and authorization core. Token
// verification sub-kinds stay distinguishable for logs and the refresh flow;
// the HTTP boundary collapses all of them to a generic 401.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUnauthenticated    = errors.New("auth: unauthenticated")
	ErrAccessDenied       = errors.New("auth: access denied")

	ErrTokenExpired     = errors.New("auth: token expired")
	ErrTokenMalformed   = errors.New("auth: token malformed")
	ErrSignatureInvalid = errors.New("auth: token signature mismatch")
	ErrWrongTokenType   = errors.New("auth: wrong token type")
)
