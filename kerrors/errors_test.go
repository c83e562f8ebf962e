package kerrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/kerrors"
)

func TestKernelLaunchErrorUnwraps(t *testing.T) {
	err := kerrors.NewKernelLaunchError("spmv_csr_classical", 2, errors.New("illegal memory access"))
	require.True(t, errors.Is(err, kerrors.ErrKernelLaunch))
	require.Contains(t, err.Error(), "spmv_csr_classical")
	require.Contains(t, err.Error(), "device 2")
}

func TestMpiErrorUnwraps(t *testing.T) {
	err := kerrors.NewMpiError("world", "all_gather", nil)
	require.True(t, errors.Is(err, kerrors.ErrMpi))
	require.Contains(t, err.Error(), "all_gather")
	require.Contains(t, err.Error(), "world")
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		kerrors.ErrNotImplemented, kerrors.ErrNotSupported, kerrors.ErrDimensionMismatch,
		kerrors.ErrStrideMismatch, kerrors.ErrOutOfBounds, kerrors.ErrAllocationFailed,
		kerrors.ErrMemorySpaceMismatch, kerrors.ErrKernelLaunch, kerrors.ErrMpi,
		kerrors.ErrValueMismatch,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			require.False(t, errors.Is(a, b), "sentinel %d must not match sentinel %d", i, j)
		}
	}
}
