package rangeread_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/rangeread"
)

func TestFirstGreaterThanAndOrEqual(t *testing.T) {
	gt := rangeread.FirstGreaterThan([]byte("a"))
	require.False(t, gt.OrEqual)
	require.Equal(t, int32(1), gt.Offset)

	ge := rangeread.FirstGreaterOrEqual([]byte("a"))
	require.True(t, ge.OrEqual)
	require.Equal(t, int32(1), ge.Offset)
}

func TestPrefixRange(t *testing.T) {
	r := rangeread.PrefixRange([]byte("ab"))
	require.Equal(t, []byte("ab"), r.Begin.Reference)
	require.Equal(t, []byte("ac"), r.End.Reference)
}

func TestPrefixRangeHandlesTrailingFF(t *testing.T) {
	r := rangeread.PrefixRange([]byte{0x01, 0xff})
	require.Equal(t, []byte{0x02}, r.End.Reference)
}

func TestRangeOptionsValidate(t *testing.T) {
	require.NoError(t, rangeread.RangeOptions{}.Validate())
	require.NoError(t, rangeread.RangeOptions{Mode: rangeread.ModeExact, Limit: 5}.Validate())
	require.Error(t, rangeread.RangeOptions{Mode: rangeread.ModeExact}.Validate())
}

func TestPageEmpty(t *testing.T) {
	require.True(t, rangeread.Page{}.Empty())
	require.False(t, rangeread.Page{Records: []rangeset.Record{{Key: []byte("a")}}}.Empty())
}
