package resource_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvrange/rangeset/resource"
)

func TestAcquireReleaseTracksLiveCount(t *testing.T) {
	before := resource.LiveCount()

	h := resource.Acquire()
	require.Equal(t, before+1, resource.LiveCount())

	h.Release()
	require.Equal(t, before, resource.LiveCount())
}

func TestReleaseIsIdempotent(t *testing.T) {
	before := resource.LiveCount()

	h := resource.Acquire()
	h.Release()
	h.Release()
	h.Release()

	require.Equal(t, before, resource.LiveCount())
}

func TestMultipleHandlesTrackedIndependently(t *testing.T) {
	before := resource.LiveCount()

	a := resource.Acquire()
	b := resource.Acquire()
	require.Equal(t, before+2, resource.LiveCount())

	a.Release()
	require.Equal(t, before+1, resource.LiveCount())
	b.Release()
	require.Equal(t, before, resource.LiveCount())
}
