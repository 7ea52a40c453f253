// Package operator implements the lazy-sequence operator pipeline
// (component E): Select, Where, Take, Skip, Distinct and the
// materializing sink ToList, each itself an AsyncCursor so they
// compose without ever buffering more than one record.
package operator

import (
	"context"

	"github.com/kvrange/rangeset/cursor"
)

type selectCursor[T, R any] struct {
	src cursor.AsyncCursor[T]
	fn  func(T) R
	fsm cursor.FSM[R]
}

// Select projects every record of src through fn. Disposes src once
// src reaches a terminal state or Select itself is disposed.
func Select[T, R any](src cursor.AsyncCursor[T], fn func(T) R) cursor.AsyncCursor[R] {
	return &selectCursor[T, R]{src: src, fn: fn}
}

func (s *selectCursor[T, R]) Advance(ctx context.Context) (cursor.Status, error) {
	if done, status, err := s.fsm.Begin(); done {
		return status, err
	}
	status, err := s.src.Advance(ctx)
	switch status {
	case cursor.Advanced:
		return s.fsm.Advanced(s.fn(s.src.Current()))
	case cursor.End:
		s.src.Dispose()
		return s.fsm.End()
	default:
		s.src.Dispose()
		return s.fsm.Fail(err)
	}
}

func (s *selectCursor[T, R]) Current() R { return s.fsm.Current() }

func (s *selectCursor[T, R]) Dispose() {
	s.fsm.Dispose()
	s.src.Dispose()
}
