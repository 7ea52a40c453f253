// Package setalgebra implements the set-algebra iterator (component
// D): the polymorphic Union/Intersect/Except engine that merges N
// ordered input cursors into a single ordered output cursor.
package setalgebra

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
	"github.com/kvrange/rangeset/mergeheap"
)

// Iterator is the set-algebra cursor described by §3/§4.D. It is
// itself an AsyncCursor[R], so it composes with the operator pipeline
// and can be nested as an input to another Iterator.
type Iterator[K, R any] struct {
	mode     rangeset.Mode
	cursors  []cursor.AsyncCursor[rangeset.Record]
	keyFn    rangeset.KeyFunc[K]
	resultFn rangeset.ResultFunc[R]
	cmp      rangeset.Compare[K]
	opts     rangeset.Options

	fsm     cursor.FSM[R]
	started bool

	heap  *mergeheap.Heap[K] // Union only
	slots []slot[K]          // Intersect/Except only
}

type slot[K any] struct {
	key   K
	rec   rangeset.Record
	ended bool
}

var _ cursor.AsyncCursor[any] = (*Iterator[int, any])(nil)

// New builds a set-algebra iterator. For Except, cursors[0] is the
// positive side; cursors[1:] are subtracted from it. Returns
// rangeset.ErrEmptyInputs/ErrNilInput for contract violations -- N=0
// or a nil cursor -- per §7's Contract kind.
func New[K, R any](mode rangeset.Mode, cursors []cursor.AsyncCursor[rangeset.Record], keyFn rangeset.KeyFunc[K], resultFn rangeset.ResultFunc[R], cmp rangeset.Compare[K], opts ...rangeset.Option) (*Iterator[K, R], error) {
	if len(cursors) == 0 {
		return nil, rangeset.WrapKind(rangeset.KindContract, rangeset.ErrEmptyInputs)
	}
	for _, c := range cursors {
		if c == nil {
			return nil, rangeset.WrapKind(rangeset.KindContract, rangeset.ErrNilInput)
		}
	}
	return &Iterator[K, R]{
		mode:     mode,
		cursors:  cursors,
		keyFn:    keyFn,
		resultFn: resultFn,
		cmp:      cmp,
		opts:     rangeset.Apply(opts...),
	}, nil
}

// Advance implements cursor.AsyncCursor.
func (it *Iterator[K, R]) Advance(ctx context.Context) (cursor.Status, error) {
	if done, status, err := it.fsm.Begin(); done {
		return status, err
	}

	if err := ctx.Err(); err != nil {
		it.disposeInputs()
		return it.fsm.Fail(rangeset.WrapKind(rangeset.KindCancelled, rangeset.ErrCancelled))
	}

	if !it.started {
		it.started = true
		if err := it.start(ctx); err != nil {
			it.disposeInputs()
			it.logFault(err)
			return it.fsm.Fail(err)
		}
	}

	var (
		rec rangeset.Record
		ok  bool
		err error
	)
	switch it.mode {
	case rangeset.Union:
		rec, ok, err = it.stepUnion(ctx)
	case rangeset.Intersect:
		rec, ok, err = it.stepIntersect(ctx)
	case rangeset.Except:
		rec, ok, err = it.stepExcept(ctx)
	default:
		err = rangeset.WrapKind(rangeset.KindContract, rangeset.ErrNilInput)
	}
	if err != nil {
		it.disposeInputs()
		it.logFault(err)
		return it.fsm.Fail(err)
	}
	if !ok {
		it.disposeInputs()
		return it.fsm.End()
	}
	return it.fsm.Advanced(it.resultFn(rec))
}

func (it *Iterator[K, R]) Current() R { return it.fsm.Current() }

// Dispose releases every input cursor. Idempotent. This is the
// iterator's cancellation trigger (§4.F): once called, Advance will
// not touch the transport again.
func (it *Iterator[K, R]) Dispose() {
	it.fsm.Dispose()
	it.disposeInputs()
}

func (it *Iterator[K, R]) disposeInputs() {
	for _, c := range it.cursors {
		c.Dispose()
	}
	it.logger().WithField("mode", it.mode).Debug("setalgebra: inputs disposed")
}

func (it *Iterator[K, R]) logFault(err error) {
	it.logger().WithError(err).WithField("mode", it.mode).Debug("setalgebra: fault propagated")
}

func (it *Iterator[K, R]) logger() *logrus.Logger {
	if it.opts.Logger != nil {
		return it.opts.Logger
	}
	return logrus.StandardLogger()
}

func (it *Iterator[K, R]) start(ctx context.Context) error {
	switch it.mode {
	case rangeset.Union:
		it.heap = mergeheap.New(it.cmp, it.opts.Concurrency)
		return it.heap.Seed(ctx, it.cursors, it.keyFn)
	default:
		it.slots = make([]slot[K], len(it.cursors))
		outcomes, err := cursor.AdvanceAll(ctx, it.cursors, it.opts.Concurrency)
		for i, o := range outcomes {
			if o.Status == cursor.Advanced {
				it.slots[i] = slot[K]{key: it.keyFn(o.Value), rec: o.Value}
			} else {
				it.slots[i] = slot[K]{ended: true}
			}
		}
		return err
	}
}
