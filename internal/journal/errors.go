package journal

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies journal failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindEncoding: a record could not be encoded; the batch was never staged.
	KindEncoding
	// KindDecoding: stored bytes could not be decoded.
	KindDecoding
	// KindConflict: a watched key changed before commit; nothing was applied.
	KindConflict
	// KindTransport: the store could not complete the request.
	KindTransport
	// KindInvalidArgument: the call was rejected before reaching the store.
	KindInvalidArgument
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindEncoding:
		return "encoding"
	case KindDecoding:
		return "decoding"
	case KindConflict:
		return "conflict"
	case KindTransport:
		return "transport"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every Journal operation.
type Error struct {
	Kind          Kind
	Op            string
	PersistenceID string
	Err           error
}

func (e *Error) Error() string {
	if e.PersistenceID == "" {
		return fmt.Sprintf("journal %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("journal %s %q: %s: %v", e.Op, e.PersistenceID, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op, pid string, err error) *Error {
	return &Error{Kind: kind, Op: op, PersistenceID: pid, Err: err}
}

// storeError classifies an error returned by the Store.
func storeError(op, pid string, err error) *Error {
	if errors.Is(err, ErrConflict) {
		return newError(KindConflict, op, pid, err)
	}
	return newError(KindTransport, op, pid, err)
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var je *Error
	if errors.As(err, &je) {
		return je.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether resubmitting the failed call may succeed.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindConflict, KindTransport:
		return true
	default:
		return false
	}
}
