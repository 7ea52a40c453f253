package rangeset

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a fault raised anywhere in the engine so callers can
// decide how to react without type-asserting on concrete error values.
type Kind int

const (
	// KindUnknown is returned by ClassifyError for errors the engine
	// did not originate and cannot classify.
	KindUnknown Kind = iota
	// KindCancelled means the ambient cancellation token fired.
	// Partial output already delivered to the consumer remains valid.
	KindCancelled
	// KindRetryable means a transaction conflict or stale read was
	// observed; the caller should abandon the iterator and retry the
	// transaction from scratch.
	KindRetryable
	// KindTransport means the network or a server was lost; the caller
	// should retry with backoff.
	KindTransport
	// KindFatalInput means the caller violated a backend limit (key or
	// value too large, transaction too large); fix the input.
	KindFatalInput
	// KindBackend covers any other backend failure; surface it.
	KindBackend
	// KindContract means the caller violated the engine's own
	// contract (nil/empty inputs, N=0, equal ranges) -- a programming
	// error, not a runtime condition.
	KindContract
)

func (k Kind) String() string {
	switch k {
	case KindCancelled:
		return "cancelled"
	case KindRetryable:
		return "retryable"
	case KindTransport:
		return "transport"
	case KindFatalInput:
		return "fatal_input"
	case KindBackend:
		return "backend"
	case KindContract:
		return "contract"
	default:
		return "unknown"
	}
}

// Sentinel errors for the engine's own contract violations and
// cancellation. Backend-originated faults are wrapped via WrapBackend
// rather than compared by equality, since their concrete cause varies.
var (
	ErrCancelled      = errors.New("rangeset: cancelled")
	ErrEmptyInputs    = errors.New("rangeset: contract violation: no input cursors")
	ErrNilInput       = errors.New("rangeset: contract violation: nil input cursor")
	ErrEqualRanges    = errors.New("rangeset: contract violation: begin and end selectors resolve to the same key")
	ErrAdvancePending = errors.New("rangeset: programming error: advance called while a previous advance is still pending")
	ErrDisposed       = errors.New("rangeset: cursor already disposed")
)

// kindError attaches a Kind to a backend-originated error without
// discarding the underlying cause; errors.Unwrap reaches it.
type kindError struct {
	kind Kind
	code string
	err  error
}

func (e *kindError) Error() string {
	if e.code != "" {
		return fmt.Sprintf("rangeset: %s (%s): %v", e.kind, e.code, e.err)
	}
	return fmt.Sprintf("rangeset: %s: %v", e.kind, e.err)
}

func (e *kindError) Unwrap() error { return e.err }

// WrapBackend classifies a raw backend error code (see
// ClassifyBackendCode) and wraps err so ClassifyError recovers the
// Kind later in the propagation chain.
func WrapBackend(code string, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: ClassifyBackendCode(code), code: code, err: err}
}

// WrapKind wraps err with an explicit Kind, bypassing backend-code
// classification. Used for contract and cancellation faults raised
// directly by the engine.
func WrapKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// ClassifyError recovers the Kind attached to err by WrapBackend or
// WrapKind, walking the Unwrap chain. Returns KindCancelled for
// ErrCancelled directly, and for context.Canceled/context.DeadlineExceeded
// when no Kind is attached; KindUnknown for anything else the engine
// did not originate.
func ClassifyError(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrCancelled) {
		return KindCancelled
	}
	if errors.Is(err, ErrEmptyInputs) || errors.Is(err, ErrNilInput) ||
		errors.Is(err, ErrEqualRanges) || errors.Is(err, ErrAdvancePending) {
		return KindContract
	}
	var ke *kindError
	for e := err; e != nil; e = errors.Unwrap(e) {
		if k, ok := e.(*kindError); ok {
			ke = k
			break
		}
	}
	if ke != nil {
		return ke.kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	return KindUnknown
}

// ClassifyBackendCode partitions a raw backend error code into the
// taxonomy, per the mapping table in the engine's error handling
// design: version/conflict codes are Retryable, operation_cancelled is
// Cancelled, size-limit codes are FatalInput, network/transport codes
// are Transport, and everything else falls to Backend.
func ClassifyBackendCode(code string) Kind {
	switch code {
	case "past_version", "future_version", "not_committed",
		"commit_unknown_result", "transaction_too_old":
		return KindRetryable
	case "operation_cancelled":
		return KindCancelled
	case "transaction_too_large", "key_too_large", "value_too_large":
		return KindFatalInput
	case "no_more_servers", "broken_promise", "connection_failed",
		"io_error", "platform_error":
		return KindTransport
	default:
		return KindBackend
	}
}
