package operator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
	"github.com/kvrange/rangeset/internal/testutil"
	"github.com/kvrange/rangeset/operator"
)

func TestSelect(t *testing.T) {
	src := testutil.NewSliceCursor(testutil.Records(1, 2, 3))
	mapped := operator.Select(src, func(r rangeset.Record) int { return int(r.Key[0]) * 10 })

	out, err := operator.ToList(context.Background(), mapped)
	require.NoError(t, err)
	require.Equal(t, []int{10, 20, 30}, out)
}

func TestWhere(t *testing.T) {
	src := testutil.NewSliceCursor(testutil.Records(1, 2, 3, 4, 5))
	filtered := operator.Where(operator.Select(src, testutil.KeyFn), func(v int) bool { return v%2 == 0 })

	out, err := operator.ToList(context.Background(), filtered)
	require.NoError(t, err)
	require.Equal(t, []int{2, 4}, out)
}

// Scenario 5: early termination via take disposes upstream without
// draining it.
func TestTakeStopsEarlyAndDisposesUpstream(t *testing.T) {
	src := testutil.NewSliceCursor(testutil.Records(1, 2, 3, 4, 5))
	taken := operator.Take[rangeset.Record](src, 2)

	out, err := operator.ToList(context.Background(), taken)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.True(t, src.Disposed)
	require.Equal(t, 2, src.Advances)
}

func TestTakeMoreThanAvailable(t *testing.T) {
	src := testutil.NewSliceCursor(testutil.Records(1, 2))
	taken := operator.Take[rangeset.Record](src, 5)

	out, err := operator.ToList(context.Background(), taken)
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestSkip(t *testing.T) {
	src := testutil.NewSliceCursor(testutil.Records(1, 2, 3, 4))
	skipped := operator.Select(operator.Skip[rangeset.Record](src, 2), testutil.KeyFn)

	out, err := operator.ToList(context.Background(), skipped)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, out)
}

func TestSkipMoreThanAvailableEndsCleanly(t *testing.T) {
	src := testutil.NewSliceCursor(testutil.Records(1))
	skipped := operator.Skip[rangeset.Record](src, 5)

	status, err := skipped.Advance(context.Background())
	require.Equal(t, cursor.End, status)
	require.NoError(t, err)
}

func TestDistinct(t *testing.T) {
	src := testutil.NewSliceCursor([]rangeset.Record{
		{Key: []byte{1}}, {Key: []byte{1}}, {Key: []byte{2}}, {Key: []byte{1}}, {Key: []byte{3}},
	})
	distinct := operator.Select(operator.Distinct[rangeset.Record, int](src, testutil.KeyFn), testutil.KeyFn)

	out, err := operator.ToList(context.Background(), distinct)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, out)
}

func TestToListPropagatesFault(t *testing.T) {
	boom := rangeset.WrapKind(rangeset.KindBackend, rangeset.ErrDisposed)
	src := testutil.NewSliceCursor(testutil.Records(1, 2, 3)).WithFault(1, boom)

	out, err := operator.ToList(context.Background(), src)
	require.ErrorIs(t, err, boom)
	require.Len(t, out, 1)
}
