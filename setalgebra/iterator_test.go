package setalgebra_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
	"github.com/kvrange/rangeset/internal/testutil"
	"github.com/kvrange/rangeset/setalgebra"
)

func rec(key int, val string) rangeset.Record {
	return rangeset.Record{Key: []byte{byte(key)}, Value: []byte(val)}
}

func keyFn(r rangeset.Record) int   { return int(r.Key[0]) }
func resultFn(r rangeset.Record) string {
	return string(r.Value)
}
func cmp(a, b int) int { return a - b }

func drain(t *testing.T, it *setalgebra.Iterator[int, string]) []string {
	t.Helper()
	var out []string
	ctx := context.Background()
	for {
		status, err := it.Advance(ctx)
		switch status {
		case cursor.Advanced:
			out = append(out, it.Current())
		case cursor.End:
			return out
		default:
			require.NoError(t, err)
			return out
		}
	}
}

// Scenario 1: merge two streams, unique keys.
func TestUnionUniqueKeys(t *testing.T) {
	a := testutil.NewSliceCursor([]rangeset.Record{rec(1, "a"), rec(3, "c"), rec(5, "e")})
	b := testutil.NewSliceCursor([]rangeset.Record{rec(2, "b"), rec(4, "d")})

	it, err := setalgebra.New[int, string](rangeset.Union, []cursor.AsyncCursor[rangeset.Record]{a, b}, keyFn, resultFn, cmp)
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b", "c", "d", "e"}, drain(t, it))
	require.True(t, a.Disposed)
	require.True(t, b.Disposed)
}

// Scenario 2: merge with colliding keys, cursor_id tie-break.
func TestUnionCollidingKeysTieBreak(t *testing.T) {
	a := testutil.NewSliceCursor([]rangeset.Record{rec(1, "alpha"), rec(3, "gamma")})
	b := testutil.NewSliceCursor([]rangeset.Record{rec(1, "beta"), rec(2, "delta"), rec(3, "epsilon")})

	it, err := setalgebra.New[int, string](rangeset.Union, []cursor.AsyncCursor[rangeset.Record]{a, b}, keyFn, resultFn, cmp)
	require.NoError(t, err)

	require.Equal(t, []string{"alpha", "delta", "gamma"}, drain(t, it))
}

// Scenario 3: intersect three streams.
func TestIntersectThreeStreams(t *testing.T) {
	a := testutil.NewSliceCursor(testutil.Records(1, 2, 3, 5, 8))
	b := testutil.NewSliceCursor(testutil.Records(2, 3, 5, 7))
	c := testutil.NewSliceCursor(testutil.Records(3, 5, 9))

	it, err := setalgebra.New[int, int](rangeset.Intersect,
		[]cursor.AsyncCursor[rangeset.Record]{a, b, c}, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.NoError(t, err)

	var out []int
	ctx := context.Background()
	for {
		status, err := it.Advance(ctx)
		if status != cursor.Advanced {
			require.NoError(t, err)
			break
		}
		out = append(out, it.Current())
	}
	require.Equal(t, []int{3, 5}, out)
}

// Scenario 4: except.
func TestExcept(t *testing.T) {
	p := testutil.NewSliceCursor(testutil.Records(1, 2, 3, 4, 5))
	n1 := testutil.NewSliceCursor(testutil.Records(2, 4))
	n2 := testutil.NewSliceCursor(testutil.Records(5, 6))

	it, err := setalgebra.New[int, int](rangeset.Except,
		[]cursor.AsyncCursor[rangeset.Record]{p, n1, n2}, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.NoError(t, err)

	var out []int
	ctx := context.Background()
	for {
		status, err := it.Advance(ctx)
		if status != cursor.Advanced {
			require.NoError(t, err)
			break
		}
		out = append(out, it.Current())
	}
	require.Equal(t, []int{1, 3}, out)
	require.True(t, p.Disposed)
	require.True(t, n1.Disposed)
	require.True(t, n2.Disposed)
}

// Scenario 6: cancellation mid-stream.
func TestCancellationMidStream(t *testing.T) {
	a := testutil.NewSliceCursor(testutil.Records(1, 2, 3, 4, 5))
	b := testutil.NewSliceCursor(testutil.Records(1, 2, 3, 4, 5))

	it, err := setalgebra.New[int, int](rangeset.Union,
		[]cursor.AsyncCursor[rangeset.Record]{a, b}, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	status, err := it.Advance(ctx)
	require.Equal(t, cursor.Advanced, status)
	require.NoError(t, err)

	cancel()
	status, err = it.Advance(ctx)
	require.Equal(t, cursor.Fault, status)
	require.Equal(t, rangeset.KindCancelled, rangeset.ClassifyError(err))
	require.True(t, a.Disposed)
	require.True(t, b.Disposed)

	// Terminal state latches: further Advance calls do not touch the
	// transport again.
	beforeA, beforeB := a.Advances, b.Advances
	status, err = it.Advance(ctx)
	require.Equal(t, cursor.Fault, status)
	require.Equal(t, beforeA, a.Advances)
	require.Equal(t, beforeB, b.Advances)
}

// Fault from one input terminates the iterator and disposes every
// other input. The union heap re-advances the winning cursor before
// returning each result, so a's fault at its third record surfaces on
// the second call, in place of the record (2) whose re-advance failed.
func TestFaultPropagationDisposesAllInputs(t *testing.T) {
	boom := rangeset.WrapKind(rangeset.KindBackend, context.DeadlineExceeded)
	a := testutil.NewSliceCursor(testutil.Records(1, 2, 3)).WithFault(2, boom)
	b := testutil.NewSliceCursor(testutil.Records(100, 200, 300))

	it, err := setalgebra.New[int, int](rangeset.Union,
		[]cursor.AsyncCursor[rangeset.Record]{a, b}, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.NoError(t, err)

	ctx := context.Background()
	status, faultErr := it.Advance(ctx)
	require.Equal(t, cursor.Advanced, status)
	require.NoError(t, faultErr)
	require.Equal(t, 1, it.Current())

	status, faultErr = it.Advance(ctx)
	require.Equal(t, cursor.Fault, status)
	require.ErrorIs(t, faultErr, boom)
	require.True(t, a.Disposed)
	require.True(t, b.Disposed)
}

func TestNewRejectsEmptyOrNilInputs(t *testing.T) {
	_, err := setalgebra.New[int, int](rangeset.Union, nil, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.ErrorIs(t, err, rangeset.ErrEmptyInputs)
	require.Equal(t, rangeset.KindContract, rangeset.ClassifyError(err))

	_, err = setalgebra.New[int, int](rangeset.Union,
		[]cursor.AsyncCursor[rangeset.Record]{nil}, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.ErrorIs(t, err, rangeset.ErrNilInput)
}

// Round-trip: union([s]) == distinct_by_key(s) for an already-ordered
// single source.
func TestUnionSingleSourceIsIdentity(t *testing.T) {
	a := testutil.NewSliceCursor(testutil.Records(1, 2, 3))
	it, err := setalgebra.New[int, int](rangeset.Union,
		[]cursor.AsyncCursor[rangeset.Record]{a}, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.NoError(t, err)

	var out []int
	ctx := context.Background()
	for {
		status, _ := it.Advance(ctx)
		if status != cursor.Advanced {
			break
		}
		out = append(out, it.Current())
	}
	require.Equal(t, []int{1, 2, 3}, out)
}

// Round-trip: except(s, s) == empty.
func TestExceptSelfIsEmpty(t *testing.T) {
	p := testutil.NewSliceCursor(testutil.Records(1, 2, 3))
	n := testutil.NewSliceCursor(testutil.Records(1, 2, 3))
	it, err := setalgebra.New[int, int](rangeset.Except,
		[]cursor.AsyncCursor[rangeset.Record]{p, n}, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.NoError(t, err)

	status, _ := it.Advance(context.Background())
	require.Equal(t, cursor.End, status)
}

// Round-trip: intersect([s, s]) == distinct_by_key(s) for an
// already-ordered, already-distinct source.
func TestIntersectSelfIsIdentity(t *testing.T) {
	a := testutil.NewSliceCursor(testutil.Records(1, 2, 3))
	b := testutil.NewSliceCursor(testutil.Records(1, 2, 3))
	it, err := setalgebra.New[int, int](rangeset.Intersect,
		[]cursor.AsyncCursor[rangeset.Record]{a, b}, testutil.KeyFn, testutil.KeyFn, testutil.IntCompare)
	require.NoError(t, err)

	var out []int
	ctx := context.Background()
	for {
		status, err := it.Advance(ctx)
		if status != cursor.Advanced {
			require.NoError(t, err)
			break
		}
		out = append(out, it.Current())
	}
	require.Equal(t, []int{1, 2, 3}, out)
}
