package rangeset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvrange/rangeset"
)

func TestRecordCloneDoesNotAliasSource(t *testing.T) {
	key := []byte("k")
	val := []byte("v")
	r := rangeset.Record{Key: key, Value: val}

	cloned := r.Clone()
	key[0] = 'x'
	val[0] = 'y'

	require.Equal(t, []byte("k"), cloned.Key)
	require.Equal(t, []byte("v"), cloned.Value)
}

func TestRecordCloneNilFields(t *testing.T) {
	cloned := rangeset.Record{}.Clone()
	require.Nil(t, cloned.Key)
	require.Nil(t, cloned.Value)
}
