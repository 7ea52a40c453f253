package operator

import (
	"context"

	"github.com/kvrange/rangeset/cursor"
)

type takeCursor[T any] struct {
	src       cursor.AsyncCursor[T]
	remaining int
	fsm       cursor.FSM[T]
}

// Take yields at most n records from src, then disposes src without
// pulling any further record -- per spec scenario 5, an early Take
// must stop touching the transport the moment its budget is spent.
func Take[T any](src cursor.AsyncCursor[T], n int) cursor.AsyncCursor[T] {
	return &takeCursor[T]{src: src, remaining: n}
}

func (t *takeCursor[T]) Advance(ctx context.Context) (cursor.Status, error) {
	if done, status, err := t.fsm.Begin(); done {
		return status, err
	}
	if t.remaining <= 0 {
		t.src.Dispose()
		return t.fsm.End()
	}
	status, err := t.src.Advance(ctx)
	switch status {
	case cursor.Advanced:
		t.remaining--
		val := t.src.Current()
		if t.remaining == 0 {
			t.src.Dispose()
		}
		return t.fsm.Advanced(val)
	case cursor.End:
		t.src.Dispose()
		return t.fsm.End()
	default:
		t.src.Dispose()
		return t.fsm.Fail(err)
	}
}

func (t *takeCursor[T]) Current() T { return t.fsm.Current() }

func (t *takeCursor[T]) Dispose() {
	t.fsm.Dispose()
	t.src.Dispose()
}
