package mergeheap

import (
	"context"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
)

// Seed advances every cursor once and inserts the advanced ones into
// h, remembering exhausted ones by simply omitting them (§4.C seed).
// On the first Fault from any cursor, Seed returns that error; h is
// left untouched.
func (h *Heap[K]) Seed(ctx context.Context, cursors []cursor.AsyncCursor[rangeset.Record], keyFn rangeset.KeyFunc[K]) error {
	outcomes, firstErr := cursor.AdvanceAll(ctx, cursors, h.concurrency)
	if firstErr != nil {
		return firstErr
	}
	for i, o := range outcomes {
		if o.Status != cursor.Advanced {
			continue
		}
		h.Push(Entry[K]{CursorID: i, Key: keyFn(o.Value), Record: o.Value})
	}
	return nil
}
