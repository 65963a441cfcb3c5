package peer

import (
	"errors"
	"fmt"
)

// Kind identifies why a peer operation failed.
type Kind int

// Set of failure kinds for peer operations.
const (
	InvalidAddress Kind = iota + 1
	SelfRegistration
	Unreachable
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case InvalidAddress:
		return "invalid address"
	case SelfRegistration:
		return "self registration"
	case Unreachable:
		return "unreachable peer"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinel values so callers can use errors.Is against a kind.
var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrSelfRegistration = errors.New("self registration")
	ErrUnreachable      = errors.New("unreachable peer")
)

// =============================================================================

// Error is returned by peer operations and records the kind of failure
// along with the address that was being processed.
type Error struct {
	Kind    Kind
	Address string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Address)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Address, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel value that corresponds to the kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidAddress:
		return e.Kind == InvalidAddress
	case ErrSelfRegistration:
		return e.Kind == SelfRegistration
	case ErrUnreachable:
		return e.Kind == Unreachable
	}
	return false
}

// KindOf returns the kind carried by err, or zero if err is not an Error.
func KindOf(err error) Kind {
	var pe *Error
	if !errors.As(err, &pe) {
		return 0
	}
	return pe.Kind
}
