package rangeset_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvrange/rangeset"
)

func TestClassifyBackendCode(t *testing.T) {
	cases := []struct {
		code string
		want rangeset.Kind
	}{
		{"past_version", rangeset.KindRetryable},
		{"future_version", rangeset.KindRetryable},
		{"not_committed", rangeset.KindRetryable},
		{"commit_unknown_result", rangeset.KindRetryable},
		{"transaction_too_old", rangeset.KindRetryable},
		{"operation_cancelled", rangeset.KindCancelled},
		{"transaction_too_large", rangeset.KindFatalInput},
		{"key_too_large", rangeset.KindFatalInput},
		{"value_too_large", rangeset.KindFatalInput},
		{"no_more_servers", rangeset.KindTransport},
		{"broken_promise", rangeset.KindTransport},
		{"something_else_entirely", rangeset.KindBackend},
	}
	for _, c := range cases {
		require.Equal(t, c.want, rangeset.ClassifyBackendCode(c.code), c.code)
	}
}

func TestWrapBackendRoundTripsThroughClassifyError(t *testing.T) {
	err := rangeset.WrapBackend("past_version", context.DeadlineExceeded)
	require.Equal(t, rangeset.KindRetryable, rangeset.ClassifyError(err))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWrapBackendNilIsNil(t *testing.T) {
	require.NoError(t, rangeset.WrapBackend("past_version", nil))
}

func TestClassifyErrorContractSentinels(t *testing.T) {
	require.Equal(t, rangeset.KindContract, rangeset.ClassifyError(rangeset.ErrEmptyInputs))
	require.Equal(t, rangeset.KindContract, rangeset.ClassifyError(rangeset.ErrNilInput))
	require.Equal(t, rangeset.KindContract, rangeset.ClassifyError(rangeset.ErrEqualRanges))
	require.Equal(t, rangeset.KindContract, rangeset.ClassifyError(rangeset.ErrAdvancePending))
	require.Equal(t, rangeset.KindCancelled, rangeset.ClassifyError(rangeset.ErrCancelled))
	require.Equal(t, rangeset.KindUnknown, rangeset.ClassifyError(nil))
}

func TestByteCompare(t *testing.T) {
	require.Zero(t, rangeset.ByteCompare(nil, nil))
	require.Negative(t, rangeset.ByteCompare([]byte("a"), []byte("b")))
	require.Positive(t, rangeset.ByteCompare([]byte("b"), []byte("a")))
	require.Negative(t, rangeset.ByteCompare([]byte("a"), []byte("aa")))
	require.Zero(t, rangeset.ByteCompare([]byte("abc"), []byte("abc")))
}

func TestModeString(t *testing.T) {
	require.Equal(t, "union", rangeset.Union.String())
	require.Equal(t, "intersect", rangeset.Intersect.String())
	require.Equal(t, "except", rangeset.Except.String())
}
