package setalgebra

import (
	"context"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
	"github.com/kvrange/rangeset/mergeheap"
)

// stepUnion implements the merge-sort-with-deduplication loop of
// §4.D: pop the smallest heap entry, yield it, then re-advance every
// entry (including the one just popped) whose key equalled it, since
// all of them are about to fall behind the emitted key.
//
// The open question in §9 -- what breaks ties when no ResultFunc
// distinguishes duplicates -- is resolved by PopMin itself: ties are
// broken by cursor_id, so the popped entry is always the
// lowest-cursor_id record sharing the smallest key.
func (it *Iterator[K, R]) stepUnion(ctx context.Context) (rangeset.Record, bool, error) {
	winner, ok := it.heap.PopMin()
	if !ok {
		return rangeset.Record{}, false, nil
	}
	k := winner.Key
	result := winner.Record

	toAdvance := []int{winner.CursorID}
	for {
		peek, ok := it.heap.PeekMin()
		if !ok || it.cmp(peek.Key, k) != 0 {
			break
		}
		popped, _ := it.heap.PopMin()
		toAdvance = append(toAdvance, popped.CursorID)
	}

	for _, id := range toAdvance {
		status, err := it.cursors[id].Advance(ctx)
		if status == cursor.Fault {
			return rangeset.Record{}, false, err
		}
		if status == cursor.Advanced {
			rec := it.cursors[id].Current()
			it.heap.Push(mergeheap.Entry[K]{CursorID: id, Key: it.keyFn(rec), Record: rec})
		}
	}

	return result, true, nil
}
