package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed operation.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindTimeout
	KindNotJSON
	KindAuthRequired
	KindSessionExpired
	KindValidation
	KindBackend
	KindNoAccessToken
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindNotJSON:
		return "not json"
	case KindAuthRequired:
		return "authentication required"
	case KindSessionExpired:
		return "session expired"
	case KindValidation:
		return "validation"
	case KindBackend:
		return "backend"
	case KindNoAccessToken:
		return "no access token"
	}
	return "unknown"
}

// Error is returned by every Client operation. Use errors.Is against the
// Err* sentinels to branch on the kind.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNetwork        = &Error{Kind: KindNetwork, Message: "network error, pull to retry"}
	ErrTimeout        = &Error{Kind: KindTimeout, Message: "connection timed out"}
	ErrNotJSON        = &Error{Kind: KindNotJSON, Message: "response is not JSON (the backend may be starting)"}
	ErrAuthRequired   = &Error{Kind: KindAuthRequired, Message: "authentication required, please log in"}
	ErrSessionExpired = &Error{Kind: KindSessionExpired, Message: "session expired, please log in again"}
	ErrValidation     = &Error{Kind: KindValidation}
	ErrBackend        = &Error{Kind: KindBackend}
	ErrNoAccessToken  = &Error{Kind: KindNoAccessToken, Message: "no access token returned"}
)

// NeedsLogin reports whether err should send the user back to the login flow.
func NeedsLogin(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindAuthRequired || e.Kind == KindSessionExpired
}

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func networkError(err error) error {
	return &Error{Kind: KindNetwork, Message: ErrNetwork.Message, Err: err}
}

func backendError(status int, msg string) error {
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &Error{Kind: KindBackend, Status: status, Message: msg}
}

func statusOK(code int) bool { return code >= http.StatusOK && code < http.StatusMultipleChoices }
