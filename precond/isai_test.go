package precond_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/matrix"
	"github.com/sparsekernel/sparsekernel/precond"
)

// TestGenerateISAIRecoversLocalBidiagonalInverse builds the bidiagonal
// lower-triangular factor
//
//	[ 1  0  0]
//	[-2  1  0]
//	[ 0 -3  1]
//
// whose exact inverse is [[1,0,0],[2,1,0],[6,3,1]]. ISAI restricted to the
// factor's own sparsity pattern recovers every entry of the exact inverse
// that the pattern covers ((0,0), (1,0), (1,1), (2,1), (2,2)) and simply
// omits the fill-in entry (2,0)=6 the pattern excludes.
func TestGenerateISAIRecoversLocalBidiagonalInverse(t *testing.T) {
	ref := exec.CreateReference()
	l, err := matrix.NewCSR[float64, int32](ref, 3, 3,
		[]int32{0, 1, 3, 5},
		[]int32{0, 0, 1, 1, 2},
		[]float64{1, -2, 1, -3, 1},
		matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)

	m, err := precond.GenerateISAI[float64, int32](ref, l)
	require.NoError(t, err)

	require.Equal(t, []int32{0, 1, 3, 5}, m.RowPtrs())
	require.Equal(t, []int32{0, 0, 1, 1, 2}, m.ColIdxs())
	require.InDeltaSlice(t, []float64{1, 2, 1, 3, 1}, m.Values(), 1e-9)
}

func TestGenerateISAIRejectsNonSquare(t *testing.T) {
	ref := exec.CreateReference()
	l, err := matrix.NewCSR[float64, int32](ref, 2, 3, []int32{0, 1, 2}, []int32{0, 1}, []float64{1, 1}, matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	_, err = precond.GenerateISAI[float64, int32](ref, l)
	require.Error(t, err)
}
