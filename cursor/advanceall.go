package cursor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is the terminal result of one cursor's Advance call within
// an AdvanceAll batch.
type Outcome[T any] struct {
	Status Status
	Value  T // valid only when Status == Advanced
	Err    error
}

// AdvanceAll advances every cursor in cursors once, concurrently: the
// backend naturally pipelines independent ranges, so nothing about
// seeding a set-algebra iterator's inputs, or catching a lagging
// Intersect/Except cursor up, requires contacting them in order.
//
// The returned slice has one Outcome per cursor, indexed the same way
// as cursors, regardless of whether any cursor faulted -- callers
// that need "stop on first fault" semantics check firstErr, which is
// the error from whichever cursor faulted first to return (not
// necessarily index 0).
// concurrency bounds how many cursors are in flight at once; 0 or
// negative means unbounded.
func AdvanceAll[T any](ctx context.Context, cursors []AsyncCursor[T], concurrency int) (outcomes []Outcome[T], firstErr error) {
	outcomes = make([]Outcome[T], len(cursors))
	if len(cursors) == 0 {
		return outcomes, nil
	}

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, c := range cursors {
		i, c := i, c
		g.Go(func() error {
			status, err := c.Advance(ctx)
			outcomes[i] = Outcome[T]{Status: status, Err: err}
			if status == Advanced {
				outcomes[i].Value = c.Current()
			}
			if status == Fault {
				return err
			}
			return nil
		})
	}
	firstErr = g.Wait()
	return outcomes, firstErr
}
