package sidh

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedParameterSet indicates an unknown parameter set id.
	ErrUnsupportedParameterSet = errors.New("sidh: unsupported parameter set")

	// ErrEntropyUnavailable indicates the entropy source failed or could not
	// supply an in-range scalar. No weaker source is ever substituted.
	ErrEntropyUnavailable = errors.New("sidh: entropy unavailable")

	// ErrKeyLengthMismatch indicates a key buffer of the wrong size for the
	// parameter set.
	ErrKeyLengthMismatch = errors.New("sidh: key length mismatch")

	// ErrInvalidPeerKey indicates a peer public key that failed validation.
	// The error carries no detail about which check failed.
	ErrInvalidPeerKey = errors.New("sidh: invalid peer public key")

	// ErrInvalidPrivateKey indicates a private scalar outside [0, order).
	ErrInvalidPrivateKey = errors.New("sidh: private key out of range")

	// ErrInvalidRole indicates a role other than RoleA or RoleB.
	ErrInvalidRole = errors.New("sidh: invalid role")
)

// Error wraps an underlying error with the operation that failed.
type Error struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sidh.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// errorf creates a new Error
func errorf(op string, format string, args ...interface{}) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf(format, args...),
	}
}
