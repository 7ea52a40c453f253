// Package testutil provides small AsyncCursor fixtures shared by the
// engine's package tests: a cursor over a fixed in-memory slice,
// usable as an input to the merge heap and the set-algebra iterator
// without going through the transport layer.
package testutil

import (
	"context"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
)

// SliceCursor serves records from a fixed slice, one per Advance. It
// can be told to fault at a given index instead of returning a
// record, to exercise the engine's fault-propagation paths.
type SliceCursor struct {
	records  []rangeset.Record
	idx      int
	faultAt  int // -1 disables fault injection
	faultErr error

	fsm      cursor.FSM[rangeset.Record]
	Disposed bool
	Advances int
}

// NewSliceCursor returns a cursor that yields records in order, then
// ends.
func NewSliceCursor(records []rangeset.Record) *SliceCursor {
	return &SliceCursor{records: records, faultAt: -1}
}

// WithFault makes the cursor return err instead of its atIndex'th
// record.
func (c *SliceCursor) WithFault(atIndex int, err error) *SliceCursor {
	c.faultAt = atIndex
	c.faultErr = err
	return c
}

func (c *SliceCursor) Advance(ctx context.Context) (cursor.Status, error) {
	if done, status, err := c.fsm.Begin(); done {
		return status, err
	}
	c.Advances++
	if err := ctx.Err(); err != nil {
		return c.fsm.Fail(rangeset.WrapKind(rangeset.KindCancelled, rangeset.ErrCancelled))
	}
	if c.idx == c.faultAt {
		return c.fsm.Fail(c.faultErr)
	}
	if c.idx >= len(c.records) {
		return c.fsm.End()
	}
	rec := c.records[c.idx]
	c.idx++
	return c.fsm.Advanced(rec)
}

func (c *SliceCursor) Current() rangeset.Record { return c.fsm.Current() }

func (c *SliceCursor) Dispose() {
	c.Disposed = true
	c.fsm.Dispose()
}

// Records builds a []rangeset.Record from int keys, for tests that
// only care about key ordering (scenarios in spec.md §8 use small
// integer keys).
func Records(keys ...int) []rangeset.Record {
	out := make([]rangeset.Record, len(keys))
	for i, k := range keys {
		out[i] = rangeset.Record{Key: []byte{byte(k)}, Value: []byte{byte(k)}}
	}
	return out
}

// KeyFn projects a Record's single-byte key to an int, matching Records.
func KeyFn(r rangeset.Record) int { return int(r.Key[0]) }

// IntCompare orders ints.
func IntCompare(a, b int) int { return a - b }
