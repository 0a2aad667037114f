package proof

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure reported back to a proof requester.
type Kind string

const (
	// MalformedInput means an address, slot or block reference could not be parsed.
	MalformedInput Kind = "MalformedInput"
	// EndpointUnreachable means the transport to the upstream node failed.
	EndpointUnreachable Kind = "EndpointUnreachable"
	// UpstreamError means the node answered with a JSON-RPC error or an unusable result.
	UpstreamError Kind = "UpstreamError"
	// ContractNotAllowed means the contract is not in the relayer's registry.
	ContractNotAllowed Kind = "ContractNotAllowed"
)

// Error is a failure tagged with a Kind. Code holds the JSON-RPC error code
// (or HTTP status) reported by the upstream node, 0 if there was none.
type Error struct {
	Kind    Kind
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// NewError builds an *Error of the given kind without an underlying cause.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return newError(kind, nil, format, args...)
}

// KindOf returns the Kind carried by err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
