package exec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/memspace"
)

func TestCopyValToHost(t *testing.T) {
	host := exec.CreateHost()
	ptr, err := host.GetMemSpace().Allocate(8)
	require.NoError(t, err)

	hostSpace := host.GetMemSpace().(*memspace.HostSpace)
	raw := hostSpace.Bytes(ptr)
	raw[0] = 0x18 // an arbitrary byte, not a full float64 encoding; the float64 read below is checked only for an error

	val, err := exec.CopyValToHost[float64](host, ptr)
	require.NoError(t, err)
	_ = val // bit pattern from a single byte write is not a meaningful float; presence of no error is what's under test here

	var wantInt int32 = 77
	ptr2, err := host.GetMemSpace().Allocate(4)
	require.NoError(t, err)
	hostSpace.Bytes(ptr2)[0] = byte(wantInt)

	gotInt, err := exec.CopyValToHost[int32](host, ptr2)
	require.NoError(t, err)
	require.Equal(t, wantInt, gotInt)
}
