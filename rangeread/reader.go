package rangeread

import (
	"context"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
	"github.com/kvrange/rangeset/resource"
	"github.com/kvrange/rangeset/txn"
)

// PagedRangeReader drives the "get next page" protocol against one
// key range and exposes the result as a cursor.AsyncCursor, per
// §4.A/§4.B. The cursor is created lazily: no backend call is made
// until the first Advance.
type PagedRangeReader struct {
	tr       txn.Transaction
	backend  Backend
	sel      RangeSelector
	opts     RangeOptions
	snapshot bool

	fsm        cursor.FSM[rangeset.Record]
	iteration  uint32
	buf        []rangeset.Record
	bufHasMore bool // whether the backend promised more pages after buf
	remaining  int  // records left to deliver; meaningless when opts.Limit == 0
	handle     *resource.Handle
}

var _ cursor.AsyncCursor[rangeset.Record] = (*PagedRangeReader)(nil)

// New builds a PagedRangeReader. opts is validated eagerly since an
// invalid streaming mode is a contract error the caller should learn
// about before any I/O, not a backend fault discovered mid-stream.
func New(tr txn.Transaction, backend Backend, sel RangeSelector, opts RangeOptions, snapshot bool) (*PagedRangeReader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &PagedRangeReader{
		tr:         tr,
		backend:    backend,
		sel:        sel,
		opts:       opts,
		snapshot:   snapshot,
		iteration:  1,
		bufHasMore: true, // no fetch has happened yet; force the first refill
		remaining:  opts.Limit,
		handle:     resource.Acquire(),
	}, nil
}

// Advance implements cursor.AsyncCursor.
func (r *PagedRangeReader) Advance(ctx context.Context) (cursor.Status, error) {
	if done, status, err := r.fsm.Begin(); done {
		return status, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return r.fail(rangeset.WrapKind(rangeset.KindCancelled, rangeset.ErrCancelled))
		}
		if err := r.tr.CheckReadAllowed(); err != nil {
			return r.fail(rangeset.WrapKind(rangeset.KindBackend, err))
		}

		if len(r.buf) > 0 {
			rec := r.buf[0]
			r.buf = r.buf[1:]
			if r.opts.Limit > 0 {
				r.remaining--
			}
			return r.fsm.Advanced(rec)
		}

		if !r.bufHasMore {
			return r.end()
		}
		if r.opts.Limit > 0 && r.remaining <= 0 {
			return r.end()
		}

		page, err := r.fetch(ctx)
		if err != nil {
			return r.fail(err)
		}

		r.buf = page.Records
		r.bufHasMore = page.HasMore
		r.iteration++

		if page.Empty() && !page.HasMore {
			return r.end()
		}
		// Loop: either serve the freshly buffered records, or (empty
		// page with HasMore=true) refetch again.
	}
}

// end and fail latch the FSM's terminal state and release the
// transport handle in the same step: natural exhaustion and fault are
// both disposal triggers per the cursor lifecycle, not just an
// explicit Dispose call.
func (r *PagedRangeReader) end() (cursor.Status, error) {
	r.handle.Release()
	return r.fsm.End()
}

func (r *PagedRangeReader) fail(err error) (cursor.Status, error) {
	r.handle.Release()
	return r.fsm.Fail(err)
}

// fetch issues one backend read and advances the range window past
// whatever was already delivered, respecting Limit/TargetBytes and
// the effective direction.
func (r *PagedRangeReader) fetch(ctx context.Context) (Page, error) {
	opts := r.opts
	if opts.Limit > 0 {
		opts.Limit = r.remaining
	}
	page, err := r.backend.GetRange(ctx, r.tr, r.sel, opts, r.iteration, r.snapshot)
	if err != nil {
		return Page{}, err
	}
	if len(page.Records) > 0 {
		last := page.Records[len(page.Records)-1].Key
		if opts.Reverse {
			r.sel.End = FirstGreaterOrEqual(last)
		} else {
			r.sel.Begin = FirstGreaterThan(last)
		}
	}
	return page, nil
}

func (r *PagedRangeReader) Current() rangeset.Record { return r.fsm.Current() }

func (r *PagedRangeReader) Dispose() {
	r.fsm.Dispose()
	r.buf = nil
	r.handle.Release()
}
