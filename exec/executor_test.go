package exec_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
)

func TestHostRunDispatchesHostKernel(t *testing.T) {
	host := exec.CreateHost()
	ran := false
	op := exec.NewOperation("noop", exec.WithHost(func() error { ran = true; return nil }))
	require.NoError(t, host.Run(op))
	require.True(t, ran)
}

func TestReferenceFallsBackToHost(t *testing.T) {
	ref := exec.CreateReference()
	ran := false
	op := exec.NewOperation("fallback", exec.WithHost(func() error { ran = true; return nil }))
	require.NoError(t, ref.Run(op))
	require.True(t, ran)
}

func TestRunMissingKernelIsNotImplemented(t *testing.T) {
	host := exec.CreateHost()
	op := exec.NewOperation("cuda-only", exec.WithCUDA(func() error { return nil }))
	err := host.Run(op)
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.ErrNotImplemented))
}

func TestCUDAExecutorDeviceReset(t *testing.T) {
	master := exec.CreateHost()
	cuda := exec.CreateCUDA(0, master, exec.WithCUDADeviceReset())
	require.Equal(t, exec.CUDA, cuda.Kind())
	cuda.Destroy() // must not panic; fires reset since it was the only live executor
}

func TestDistributedExecutorDelegatesToSub(t *testing.T) {
	sub := exec.CreateHost()
	comm := fakeComm{rank: 1, size: 4}
	d := exec.CreateDistributed(comm, sub)

	require.Equal(t, sub, d.GetSubExecutor())
	require.Equal(t, sub, d.GetMaster())
	require.NoError(t, d.Synchronize())

	ran := false
	op := exec.NewOperation("dist-op", exec.WithDistributed(func() error { ran = true; return nil }))
	require.NoError(t, d.Run(op))
	require.True(t, ran)
}

type fakeComm struct{ rank, size int }

func (f fakeComm) Rank() int { return f.rank }
func (f fakeComm) Size() int { return f.size }

func TestRunClosures(t *testing.T) {
	host := exec.CreateHost()
	called := ""
	err := host.RunClosures(
		func() error { called = "host"; return nil },
		func() error { called = "dist"; return nil },
		func() error { called = "cuda"; return nil },
		func() error { called = "hip"; return nil },
	)
	require.NoError(t, err)
	require.Equal(t, "host", called)
}
