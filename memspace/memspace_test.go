package memspace_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/memspace"
)

func TestHostAllocateAndCopy(t *testing.T) {
	host := memspace.NewHost()

	src, err := host.Allocate(8)
	require.NoError(t, err)
	copy(host.Bytes(src), []byte{1, 2, 3, 4, 5, 6, 7, 8})

	dst, err := host.Allocate(8)
	require.NoError(t, err)
	require.NoError(t, host.CopyFrom(host, 8, src, dst))
	require.Equal(t, host.Bytes(src), host.Bytes(dst))
}

func TestCrossSpaceCopyCUDAToHIP(t *testing.T) {
	cuda := memspace.NewCUDADevice(0)
	hip := memspace.NewHIPDevice(0)

	src, err := cuda.Allocate(4)
	require.NoError(t, err)
	dst, err := hip.Allocate(4)
	require.NoError(t, err)

	require.NoError(t, hip.CopyFrom(cuda, 4, src, dst))
}

func TestDistributedMarkerNeverAllocates(t *testing.T) {
	marker := memspace.NewDistributedMarker()
	_, err := marker.Allocate(16)
	require.Error(t, err)
}

func TestCompatible(t *testing.T) {
	require.True(t, memspace.Compatible(memspace.Host, memspace.Host))
	require.True(t, memspace.Compatible(memspace.CUDAUVM, memspace.CUDADevice))
	require.True(t, memspace.Compatible(memspace.CUDAUVM, memspace.Host))
	require.False(t, memspace.Compatible(memspace.CUDADevice, memspace.HIPDevice))
}

func TestAllocationErrorWrapsSentinel(t *testing.T) {
	marker := memspace.NewDistributedMarker()
	_, err := marker.Allocate(1 << 20)
	require.True(t, errors.Is(err, kerrors.ErrAllocationFailed))
}
