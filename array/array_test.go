package array_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/memspace"
)

// fakeExec is the minimal array.Space a test needs: a fixed memory space.
type fakeExec struct{ space memspace.Space }

func (f fakeExec) GetMemSpace() memspace.Space { return f.space }

func TestNewAndSliceRoundTrip(t *testing.T) {
	host := fakeExec{space: memspace.NewHost()}
	a, err := array.New[float64](host, 4)
	require.NoError(t, err)
	defer a.Free()

	s := a.Slice()
	require.Len(t, s, 4)
	s[0], s[1], s[2], s[3] = 1, 2, 3, 4
	require.Equal(t, []float64{1, 2, 3, 4}, a.Slice())
}

func TestCopyToAcrossExecutors(t *testing.T) {
	hostExec := fakeExec{space: memspace.NewHost()}
	otherHostExec := fakeExec{space: memspace.NewHost()}

	src, err := array.New[int32](hostExec, 3)
	require.NoError(t, err)
	copy(src.Slice(), []int32{7, 8, 9})

	dst, err := array.New[int32](otherHostExec, 3)
	require.NoError(t, err)

	require.NoError(t, src.CopyTo(dst))
	require.Equal(t, []int32{7, 8, 9}, dst.Slice())
}

func TestViewIsNonOwning(t *testing.T) {
	host := fakeExec{space: memspace.NewHost()}
	owner, err := array.New[float32](host, 2)
	require.NoError(t, err)
	copy(owner.Slice(), []float32{1.5, 2.5})

	view := array.View[float32](host, 2, owner.Pointer())
	require.False(t, view.IsOwning())
	require.Equal(t, []float32{1.5, 2.5}, view.Slice())

	view.Free() // no-op; owner's storage must remain valid
	require.Equal(t, []float32{1.5, 2.5}, owner.Slice())
}

func TestCopyToLengthMismatch(t *testing.T) {
	host := fakeExec{space: memspace.NewHost()}
	a, _ := array.New[float64](host, 2)
	b, _ := array.New[float64](host, 3)
	require.Error(t, a.CopyTo(b))
}

// TestSliceOnAcceleratorSpacesDoesNotPanic guards against regressing to
// hostBacking recognizing only *memspace.HostSpace: CUDA/HIP/UVM arenas are
// host-staged behind the same Bytes(Pointer) accessor, so Slice must work on
// them directly rather than panicking with "non-host-addressable Array".
func TestSliceOnAcceleratorSpacesDoesNotPanic(t *testing.T) {
	spaces := map[string]memspace.Space{
		"cuda": memspace.NewCUDADevice(0),
		"hip":  memspace.NewHIPDevice(0),
		"uvm":  memspace.NewCUDAUVM(0),
	}
	for name, space := range spaces {
		t.Run(name, func(t *testing.T) {
			ex := fakeExec{space: space}
			a, err := array.New[float64](ex, 3)
			require.NoError(t, err)
			require.NotPanics(t, func() {
				s := a.Slice()
				s[0], s[1], s[2] = 1, 2, 3
			})
			require.Equal(t, []float64{1, 2, 3}, a.Slice())
		})
	}
}
