package precond_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/matrix"
	"github.com/sparsekernel/sparsekernel/precond"
)

// buildGinkgoBlockJacobiMatrix builds the 5x5 test matrix
// reference/test/preconditioner/block_jacobi.cpp uses:
//
//	4  -2 |        -2
//	-1   4 |
//	-------+----------
//	       | 4  -2
//	       |-1   4  -2
//	-1     |    -1   4
func buildGinkgoBlockJacobiMatrix(t *testing.T, ex exec.Executor) *matrix.CSR[float64, int32] {
	t.Helper()
	m, err := matrix.NewCSR[float64, int32](ex, 5, 5,
		[]int32{0, 3, 5, 7, 10, 13},
		[]int32{0, 1, 4, 0, 1, 2, 3, 2, 3, 4, 0, 3, 4},
		[]float64{4, -2, -2, -1, 4, 4, -2, -1, 4, -2, -1, -1, 4},
		matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	return m
}

func TestFindBlocksMatchesGinkgoPartition(t *testing.T) {
	ref := exec.CreateReference()
	m := buildGinkgoBlockJacobiMatrix(t, ref)

	pointers, err := precond.FindBlocks[float64, int32](m, 3)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 5}, pointers)
}

func TestFindBlocksRejectsNonPositiveMaxSize(t *testing.T) {
	ref := exec.CreateReference()
	m := buildGinkgoBlockJacobiMatrix(t, ref)
	_, err := precond.FindBlocks[float64, int32](m, 0)
	require.Error(t, err)
}

func TestBlockJacobiApplyOnCleanBlockDiagonal(t *testing.T) {
	ref := exec.CreateReference()
	// [[2,1,0,0],[1,2,0,0],[0,0,3,1],[0,0,1,3]]
	m, err := matrix.NewCSR[float64, int32](ref, 4, 4,
		[]int32{0, 2, 4, 6, 8},
		[]int32{0, 1, 0, 1, 2, 3, 2, 3},
		[]float64{2, 1, 1, 2, 3, 1, 1, 3},
		matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)

	pointers, err := precond.FindBlocks[float64, int32](m, 2)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 4}, pointers)

	bj, err := precond.Generate[float64, int32](m, pointers, 0)
	require.NoError(t, err)
	require.Len(t, bj.Blocks(), 2)

	b, err := array.New[float64](ref, 4)
	require.NoError(t, err)
	copy(b.Slice(), []float64{1, 0, 0, 1})

	x, err := array.New[float64](ref, 4)
	require.NoError(t, err)
	require.NoError(t, bj.Apply(b, x))

	// Both blocks are well-conditioned (cond 3 and 2), so Generate stores
	// them Reduced: the inverse is rounded through float32 in place, so the
	// comparison tolerance must accommodate that round-trip, not just exact
	// float64 arithmetic.
	xs := x.Slice()
	require.InDelta(t, 2.0/3.0, xs[0], 1e-6)
	require.InDelta(t, -1.0/3.0, xs[1], 1e-6)
	require.InDelta(t, -0.125, xs[2], 1e-6)
	require.InDelta(t, 0.375, xs[3], 1e-6)
}

func TestGenerateChoosesReducedPrecisionForWellConditionedBlock(t *testing.T) {
	ref := exec.CreateReference()
	m, err := matrix.NewCSR[float64, int32](ref, 2, 2,
		[]int32{0, 2, 4},
		[]int32{0, 1, 0, 1},
		[]float64{2, 0, 0, 2},
		matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)

	bj, err := precond.Generate[float64, int32](m, []int{0, 2}, precond.DefaultConditionThreshold)
	require.NoError(t, err)
	require.Equal(t, precond.Reduced, bj.Blocks()[0].Precision)
	require.InDelta(t, 1.0, bj.Blocks()[0].Cond(), 1e-9)
}
