// Package query is the public operator surface named in §6: merge_sort,
// union, intersect, and except, each opening one paged range reader per
// Source and combining them with the set-algebra iterator (component D).
//
// It is a separate package from the root rangeset package because
// rangeread and setalgebra both depend on rangeset for its shared
// types (Record, Compare, errors) -- a facade offering both had to sit
// above them, not inside rangeset itself.
package query

import (
	"context"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
	"github.com/kvrange/rangeset/operator"
	"github.com/kvrange/rangeset/rangeread"
	"github.com/kvrange/rangeset/setalgebra"
	"github.com/kvrange/rangeset/txn"
)

// Source names one range to read: the transaction and backend that
// will serve it, the key range and read options, and whether the read
// is a snapshot (no read-conflict range added).
type Source struct {
	Tr       txn.Transaction
	Backend  rangeread.Backend
	Range    rangeread.RangeSelector
	Options  rangeread.RangeOptions
	Snapshot bool
}

// Cursor opens the Source as a paged range reader. Exposed so callers
// composing custom pipelines with the operator package don't have to
// import rangeread directly for the common case.
func (s Source) Cursor() (cursor.AsyncCursor[rangeset.Record], error) {
	r, err := rangeread.New(s.Tr, s.Backend, s.Range, s.Options, s.Snapshot)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func open(sources []Source) ([]cursor.AsyncCursor[rangeset.Record], error) {
	cursors := make([]cursor.AsyncCursor[rangeset.Record], 0, len(sources))
	for _, s := range sources {
		c, err := s.Cursor()
		if err != nil {
			for _, opened := range cursors {
				opened.Dispose()
			}
			return nil, err
		}
		cursors = append(cursors, c)
	}
	return cursors, nil
}

// identity is the default ResultFunc when the caller wants whole
// Records rather than a projection.
func identity(r rangeset.Record) rangeset.Record { return r }

// MergeSort opens one paged range reader per source and returns their
// ordered union, deduplicated by keyFn -- the language-neutral
// merge_sort(ranges, key_fn, [cmp]) of §6. A nil cmp defaults to
// rangeset.ByteCompare when K is []byte; callers with any other K must
// supply cmp.
func MergeSort[K any](sources []Source, keyFn rangeset.KeyFunc[K], cmp rangeset.Compare[K], opts ...rangeset.Option) (cursor.AsyncCursor[rangeset.Record], error) {
	if cmp == nil {
		if c, ok := any(rangeset.Compare[[]byte](rangeset.ByteCompare)).(rangeset.Compare[K]); ok {
			cmp = c
		}
	}
	return Union(sources, keyFn, identity, cmp, opts...)
}

// Union opens one paged range reader per source and merges them,
// collapsing duplicate keys per §4.D's Union algorithm. resultFn
// projects the winning Record of each emitted key.
func Union[K, R any](sources []Source, keyFn rangeset.KeyFunc[K], resultFn rangeset.ResultFunc[R], cmp rangeset.Compare[K], opts ...rangeset.Option) (cursor.AsyncCursor[R], error) {
	cursors, err := open(sources)
	if err != nil {
		return nil, err
	}
	return setalgebra.New(rangeset.Union, cursors, keyFn, resultFn, cmp, opts...)
}

// Intersect opens one paged range reader per source and emits only
// keys present in every source, per §4.D's Intersect algorithm.
func Intersect[K, R any](sources []Source, keyFn rangeset.KeyFunc[K], resultFn rangeset.ResultFunc[R], cmp rangeset.Compare[K], opts ...rangeset.Option) (cursor.AsyncCursor[R], error) {
	cursors, err := open(sources)
	if err != nil {
		return nil, err
	}
	return setalgebra.New(rangeset.Intersect, cursors, keyFn, resultFn, cmp, opts...)
}

// Except opens one paged range reader per source and emits keys of
// sources[0] absent from every other source, per §4.D's Except
// algorithm. sources[0] is the positive side.
func Except[K, R any](sources []Source, keyFn rangeset.KeyFunc[K], resultFn rangeset.ResultFunc[R], cmp rangeset.Compare[K], opts ...rangeset.Option) (cursor.AsyncCursor[R], error) {
	cursors, err := open(sources)
	if err != nil {
		return nil, err
	}
	return setalgebra.New(rangeset.Except, cursors, keyFn, resultFn, cmp, opts...)
}

// Run drains cur to completion via operator.ToList, so callers doing
// the common "just give me the slice" don't need to import operator
// for one call.
func Run[T any](ctx context.Context, cur cursor.AsyncCursor[T]) ([]T, error) {
	return operator.ToList(ctx, cur)
}
