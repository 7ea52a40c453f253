package operator

import (
	"context"

	"github.com/kvrange/rangeset/cursor"
)

type distinctCursor[T any, K comparable] struct {
	src   cursor.AsyncCursor[T]
	keyFn func(T) K
	seen  map[K]struct{}
	fsm   cursor.FSM[T]
}

// Distinct drops every record of src whose key_fn result has already
// been seen. Intended for already key-ordered sources (the iterator's
// output), where this degenerates to adjacent-duplicate removal, but
// it works correctly -- at the cost of unbounded memory -- on any
// source.
func Distinct[T any, K comparable](src cursor.AsyncCursor[T], keyFn func(T) K) cursor.AsyncCursor[T] {
	return &distinctCursor[T, K]{src: src, keyFn: keyFn, seen: make(map[K]struct{})}
}

func (d *distinctCursor[T, K]) Advance(ctx context.Context) (cursor.Status, error) {
	if done, status, err := d.fsm.Begin(); done {
		return status, err
	}
	for {
		status, err := d.src.Advance(ctx)
		switch status {
		case cursor.Advanced:
			val := d.src.Current()
			k := d.keyFn(val)
			if _, dup := d.seen[k]; dup {
				continue
			}
			d.seen[k] = struct{}{}
			return d.fsm.Advanced(val)
		case cursor.End:
			d.src.Dispose()
			return d.fsm.End()
		default:
			d.src.Dispose()
			return d.fsm.Fail(err)
		}
	}
}

func (d *distinctCursor[T, K]) Current() T { return d.fsm.Current() }

func (d *distinctCursor[T, K]) Dispose() {
	d.fsm.Dispose()
	d.src.Dispose()
}
