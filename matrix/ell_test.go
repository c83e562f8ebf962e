package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/matrix"
)

func TestELLPaddingRule(t *testing.T) {
	ref := exec.CreateReference()
	e, err := matrix.NewELL[float64, int32](ref, 3, 3, 2, 3)
	require.NoError(t, err)

	// only row 0 gets an explicit entry; rows 1 and 2 stay fully padded.
	e.Set(0, 0, 1, 5)

	colIdxs := e.ColIdxs()
	values := e.Values()
	// padding column for row 1, slot k=0: col_idx == row (1), value == 0.
	require.EqualValues(t, 1, colIdxs[0*3+1])
	require.Equal(t, 0.0, values[0*3+1])
}

func TestELLApplyMatchesCSR(t *testing.T) {
	ref := exec.CreateReference()
	c := newTestCSR(t, ref)
	ell, err := c.ToELL()
	require.NoError(t, err)

	b, err := array.New[float64](ref, 3)
	require.NoError(t, err)
	copy(b.Slice(), []float64{1, 2, 3})

	xCSR, err := array.New[float64](ref, 2)
	require.NoError(t, err)
	require.NoError(t, c.Apply(b, xCSR))

	xELL, err := array.New[float64](ref, 2)
	require.NoError(t, err)
	require.NoError(t, ell.Apply(b, xELL))

	require.Equal(t, xCSR.Slice(), xELL.Slice())
}
