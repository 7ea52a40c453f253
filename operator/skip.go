package operator

import (
	"context"

	"github.com/kvrange/rangeset/cursor"
)

type skipCursor[T any] struct {
	src     cursor.AsyncCursor[T]
	toSkip  int
	skipped bool
	fsm     cursor.FSM[T]
}

// Skip discards the first n records of src before yielding anything.
func Skip[T any](src cursor.AsyncCursor[T], n int) cursor.AsyncCursor[T] {
	return &skipCursor[T]{src: src, toSkip: n}
}

func (s *skipCursor[T]) Advance(ctx context.Context) (cursor.Status, error) {
	if done, status, err := s.fsm.Begin(); done {
		return status, err
	}
	if !s.skipped {
		s.skipped = true
		for i := 0; i < s.toSkip; i++ {
			status, err := s.src.Advance(ctx)
			switch status {
			case cursor.Advanced:
				continue
			case cursor.End:
				s.src.Dispose()
				return s.fsm.End()
			default:
				s.src.Dispose()
				return s.fsm.Fail(err)
			}
		}
	}
	status, err := s.src.Advance(ctx)
	switch status {
	case cursor.Advanced:
		return s.fsm.Advanced(s.src.Current())
	case cursor.End:
		s.src.Dispose()
		return s.fsm.End()
	default:
		s.src.Dispose()
		return s.fsm.Fail(err)
	}
}

func (s *skipCursor[T]) Current() T { return s.fsm.Current() }

func (s *skipCursor[T]) Dispose() {
	s.fsm.Dispose()
	s.src.Dispose()
}
