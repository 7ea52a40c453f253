// Package txn specifies the external transaction collaborator: the
// object that supplies a read snapshot, an ambient cancellation
// signal, and enforces "read allowed" preconditions. The engine never
// commits, retries, or manages transactions itself -- it only
// consumes this contract.
package txn

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrReadNotAllowed is returned by CheckReadAllowed when the
// transaction has already committed, rolled back, or is otherwise not
// in a state that permits reads.
var ErrReadNotAllowed = errors.New("txn: read not allowed")

// Transaction is the read-side contract the engine depends on. A real
// client binds this to its network transaction object; tests and the
// demo CLI bind it to Simple below.
type Transaction interface {
	// Context returns the ambient cancellation signal. Every
	// suspension point in the engine observes it.
	Context() context.Context

	// CheckReadAllowed enforces transaction-level read preconditions
	// (e.g. not yet committed). Returns ErrReadNotAllowed or a
	// wrapped backend error when reads are not currently permitted.
	CheckReadAllowed() error

	// AddSize records size the transaction's writes elsewhere have
	// contributed to the estimated payload, so size-aware backends can
	// reject oversized transactions even while this engine is
	// read-only. The core never calls this for its own traffic.
	AddSize(delta int)

	// Size returns the accumulated write-size estimate.
	Size() int64
}

// Simple is a minimal in-process Transaction, used by the reference
// local backend and by tests. It is safe for concurrent use by the
// cursors it spawns (reads are concurrent; Cancel is idempotent).
type Simple struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	closed atomic.Bool
	size   atomic.Int64
}

// NewSimple derives a cancellable Transaction from parent. Calling the
// returned CancelFunc (or cancelling parent) fires the ambient
// cancellation signal observed by every cursor spawned from it.
func NewSimple(parent context.Context) (*Simple, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	tx := &Simple{ctx: ctx, cancel: cancel}
	return tx, tx.Cancel
}

// Cancel fires the transaction's cancellation signal. Idempotent.
func (tx *Simple) Cancel() {
	tx.once.Do(func() {
		tx.closed.Store(true)
		tx.cancel()
	})
}

func (tx *Simple) Context() context.Context { return tx.ctx }

func (tx *Simple) CheckReadAllowed() error {
	if tx.closed.Load() {
		return ErrReadNotAllowed
	}
	select {
	case <-tx.ctx.Done():
		return ErrReadNotAllowed
	default:
		return nil
	}
}

func (tx *Simple) AddSize(delta int) { tx.size.Add(int64(delta)) }
func (tx *Simple) Size() int64       { return tx.size.Load() }

// Size-accounting helpers matching the transaction payload-estimate
// formulas: Set adds |key|+|value|+28, Clear adds 2*|key|+29,
// ClearRange adds |begin|+|end|+28, Atomic adds |key|+|param|. The
// core never calls these itself; they exist so a caller mixing writes
// into the same transaction as a read-only set-algebra query can keep
// the same accounting the backend would enforce on commit.
func SetSize(key, value []byte) int        { return len(key) + len(value) + 28 }
func ClearSize(key []byte) int             { return 2*len(key) + 29 }
func ClearRangeSize(begin, end []byte) int { return len(begin) + len(end) + 28 }
func AtomicSize(key, param []byte) int     { return len(key) + len(param) }
