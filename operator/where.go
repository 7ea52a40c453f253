package operator

import (
	"context"

	"github.com/kvrange/rangeset/cursor"
)

type whereCursor[T any] struct {
	src  cursor.AsyncCursor[T]
	pred func(T) bool
	fsm  cursor.FSM[T]
}

// Where drops every record of src for which pred returns false,
// advancing src as many times as needed to find the next match.
func Where[T any](src cursor.AsyncCursor[T], pred func(T) bool) cursor.AsyncCursor[T] {
	return &whereCursor[T]{src: src, pred: pred}
}

func (w *whereCursor[T]) Advance(ctx context.Context) (cursor.Status, error) {
	if done, status, err := w.fsm.Begin(); done {
		return status, err
	}
	for {
		status, err := w.src.Advance(ctx)
		switch status {
		case cursor.Advanced:
			val := w.src.Current()
			if w.pred(val) {
				return w.fsm.Advanced(val)
			}
			// not a match; loop and pull the next one
		case cursor.End:
			w.src.Dispose()
			return w.fsm.End()
		default:
			w.src.Dispose()
			return w.fsm.Fail(err)
		}
	}
}

func (w *whereCursor[T]) Current() T { return w.fsm.Current() }

func (w *whereCursor[T]) Dispose() {
	w.fsm.Dispose()
	w.src.Dispose()
}
