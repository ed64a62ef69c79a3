package types

import (
	"errors"
	"fmt"
)

// Sentinel kinds the handlers map to HTTP statuses. Every domain failure
// wraps exactly one of these, so callers branch with errors.Is.
var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrUnauthorized = errors.New("action forbidden")

// DomainError carries the stable short code and the human-readable message
// for a business-rule failure. The message may differ per call site for the
// same code, so equality checks go through the wrapped kind, never the text.
type DomainError struct {
	Code    string
	Message string
	kind    error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.kind
}

func NewDomainError(kind error, code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, kind: kind}
}

// AsDomainError unwraps err to the nearest DomainError, if any.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}
