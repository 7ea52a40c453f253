// Package mergeheap implements the bounded k-way merge priority
// structure (component C) behind the set-algebra iterator's Union
// mode (Intersect and Except track their inputs without it): a heap
// of at most N slots, one per input cursor, ordered by the caller's
// key and broken on ties by cursor_id (the input's position in the
// constructor list) for a stable merge order.
//
// The heap itself is grounded on container/heap, the same mechanism
// the one k-way merge in the retrieval pack
// (KartikBazzad-bunbase/docdb/internal/query/merge.go) reaches for;
// see that package's rowHeap for the shape this generalizes.
package mergeheap

import (
	"container/heap"

	"github.com/kvrange/rangeset"
)

// Entry is one slot in the heap: the cursor it came from, its
// projected key, and the record the cursor is currently positioned
// at.
type Entry[K any] struct {
	CursorID int
	Key      K
	Record   rangeset.Record
}

// Heap is a priority queue of Entry values ordered by cmp, stable on
// cursor_id. Zero value is not usable; construct with New.
type Heap[K any] struct {
	cmp         rangeset.Compare[K]
	items       []Entry[K]
	concurrency int
}

// New builds an empty Heap ordered by cmp. concurrency bounds how many
// cursors Seed advances at once (0 means unbounded).
func New[K any](cmp rangeset.Compare[K], concurrency int) *Heap[K] {
	return &Heap[K]{cmp: cmp, concurrency: concurrency}
}

// Len returns the number of entries currently held.
func (h *Heap[K]) Len() int { return len(h.items) }

// Push inserts e, restoring heap order. O(log N).
func (h *Heap[K]) Push(e Entry[K]) {
	heap.Push((*ordering[K])(h), e)
}

// PeekMin returns the smallest entry (by Key, then CursorID) without
// removing it. ok is false when the heap is empty.
func (h *Heap[K]) PeekMin() (e Entry[K], ok bool) {
	if len(h.items) == 0 {
		return Entry[K]{}, false
	}
	return h.items[0], true
}

// PopMin removes and returns the smallest entry. ok is false when the
// heap is empty. O(log N).
func (h *Heap[K]) PopMin() (e Entry[K], ok bool) {
	if len(h.items) == 0 {
		return Entry[K]{}, false
	}
	popped := heap.Pop((*ordering[K])(h))
	return popped.(Entry[K]), true
}

// Remove deletes the entry belonging to cursorID, if present, without
// advancing or disposing that cursor. O(N).
func (h *Heap[K]) Remove(cursorID int) {
	for i, e := range h.items {
		if e.CursorID == cursorID {
			heap.Remove((*ordering[K])(h), i)
			return
		}
	}
}

// Entries returns a snapshot slice of every entry currently held, in
// no particular order. Useful for Intersect's "max over all current
// keys" scan, which needs every slot, not just the min.
func (h *Heap[K]) Entries() []Entry[K] {
	out := make([]Entry[K], len(h.items))
	copy(out, h.items)
	return out
}

// ordering adapts Heap to heap.Interface without exposing
// container/heap's Push/Pop(any) signature on the public type.
type ordering[K any] Heap[K]

func (o *ordering[K]) Len() int { return len(o.items) }

func (o *ordering[K]) Less(i, j int) bool {
	a, b := o.items[i], o.items[j]
	if c := o.cmp(a.Key, b.Key); c != 0 {
		return c < 0
	}
	return a.CursorID < b.CursorID
}

func (o *ordering[K]) Swap(i, j int) { o.items[i], o.items[j] = o.items[j], o.items[i] }

func (o *ordering[K]) Push(x any) { o.items = append(o.items, x.(Entry[K])) }

func (o *ordering[K]) Pop() any {
	n := len(o.items)
	item := o.items[n-1]
	o.items = o.items[:n-1]
	return item
}
