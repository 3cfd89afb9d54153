package bridge

import (
	"errors"
	"fmt"

	"github.com/vexdb/vex/pkg/hosted"
)

// Kind classifies a marshalling failure. The classification decides which
// hosted exception the failure becomes when it crosses back into the
// runtime.
type Kind int

const (
	// KindInvoke covers hosted method invocation failures: missing method,
	// signature mismatch, a raise inside the invoked method, or a list
	// operation on something that is not a list.
	KindInvoke Kind = iota
	// KindDecode covers hosted string bytes that are not valid UTF-8 and
	// descriptor fields that do not parse.
	KindDecode
	// KindNarrow covers checked integer conversions whose source value is
	// outside the target type's range.
	KindNarrow
	// KindNull covers a null reference where a value was required.
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInvoke:
		return "invoke"
	case KindDecode:
		return "decode"
	case KindNarrow:
		return "narrow"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Error wraps a marshalling failure with its kind and the operation that
// produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("bridge: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("bridge: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapKind(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// invokeErr classifies an Env failure. Null references get their own kind
// so the exception translation can pick the sharper class.
func invokeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, hosted.ErrNullReference) {
		return wrapKind(KindNull, op, err)
	}
	return wrapKind(KindInvoke, op, err)
}

// KindOf extracts the kind from a bridge error, defaulting to KindInvoke
// for foreign errors.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInvoke
}
