// Package local is a reference, in-process implementation of the
// rangeread.Backend transport contract (§6), backed by an in-memory
// sorted keyspace (internal/keyspace) instead of a real network
// store. It exists so the engine has something real to run against in
// tests and in the cmd/rangeview demo without depending on an actual
// remote cluster, and so fault-injection scenarios (§4.A edge cases,
// §7's error taxonomy) can be exercised deterministically.
package local

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kvrange/rangeset/txn"
)

// Transaction is a txn.Transaction bound to a Backend's keyspace,
// tagged with a UUID (ID) identifying one logical read transaction and
// pinned to a read version, the way a real client's transaction object
// carries an opaque version stamp. The backend's log lines do not
// include ID.
type Transaction struct {
	ID uuid.UUID

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	closed atomic.Bool
	size   atomic.Int64

	// version pins the keyspace snapshot this transaction reads: the
	// Backend's write version when the transaction was created. Every
	// Backend.Set moves the backend's own version forward, so a
	// non-snapshot read through this transaction gets a past_version
	// fault once that version has moved on. See Backend.Set.
	version uint64
}

// NewTransaction derives a cancellable Transaction reading at
// readVersion from parent's cancellation signal.
func NewTransaction(parent context.Context, readVersion uint64) (*Transaction, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	tx := &Transaction{ID: uuid.New(), ctx: ctx, cancel: cancel, version: readVersion}
	return tx, tx.Cancel
}

func (tx *Transaction) Cancel() {
	tx.once.Do(func() {
		tx.closed.Store(true)
		tx.cancel()
	})
}

func (tx *Transaction) Context() context.Context { return tx.ctx }

func (tx *Transaction) CheckReadAllowed() error {
	if tx.closed.Load() {
		return txn.ErrReadNotAllowed
	}
	select {
	case <-tx.ctx.Done():
		return txn.ErrReadNotAllowed
	default:
		return nil
	}
}

func (tx *Transaction) AddSize(delta int) { tx.size.Add(int64(delta)) }
func (tx *Transaction) Size() int64       { return tx.size.Load() }

var _ txn.Transaction = (*Transaction)(nil)
