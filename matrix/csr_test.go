package matrix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
	"github.com/sparsekernel/sparsekernel/matrix"
)

// newTestCSR builds:
//
//	[1 0 2]
//	[0 3 0]
func newTestCSR(t *testing.T, ex exec.Executor) *matrix.CSR[float64, int32] {
	t.Helper()
	c, err := matrix.NewCSR[float64, int32](ex, 2, 3,
		[]int32{0, 2, 3},
		[]int32{0, 2, 1},
		[]float64{1, 2, 3},
		matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	return c
}

func TestCSRRejectsNonMonotoneRowPtrs(t *testing.T) {
	ref := exec.CreateReference()
	_, err := matrix.NewCSR[float64, int32](ref, 2, 2, []int32{0, 2, 1}, []int32{0, 1}, []float64{1, 2}, matrix.NewStrategy(matrix.Classical))
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.ErrValueMismatch))
}

func TestCSRApply(t *testing.T) {
	ref := exec.CreateReference()
	c := newTestCSR(t, ref)

	b, err := array.New[float64](ref, 3)
	require.NoError(t, err)
	copy(b.Slice(), []float64{1, 1, 1})

	x, err := array.New[float64](ref, 2)
	require.NoError(t, err)

	require.NoError(t, c.Apply(b, x))
	require.Equal(t, []float64{3, 3}, x.Slice())
}

func TestCSRTransposeRoundTrip(t *testing.T) {
	ref := exec.CreateReference()
	c := newTestCSR(t, ref)

	tr, err := c.Transpose()
	require.NoError(t, err)
	trCSR := tr.(*matrix.CSR[float64, int32])
	require.Equal(t, 3, trCSR.Shape().Rows)
	require.Equal(t, 2, trCSR.Shape().Cols)

	back, err := trCSR.Transpose()
	require.NoError(t, err)
	backCSR := back.(*matrix.CSR[float64, int32])
	require.Equal(t, c.RowPtrs(), backCSR.RowPtrs())
}

func TestCSRToCOOToCSRPreservesPattern(t *testing.T) {
	ref := exec.CreateReference()
	c := newTestCSR(t, ref)

	coo, err := c.ToCOO()
	require.NoError(t, err)
	require.Equal(t, []int32{0, 0, 1}, coo.RowIdxs())

	back, err := coo.ToCSR(matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	require.Equal(t, c.RowPtrs(), back.RowPtrs())
	require.Equal(t, c.ColIdxs(), back.ColIdxs())
	require.Equal(t, c.Values(), back.Values())
}

func TestCSRToELLToCSRPreservesPattern(t *testing.T) {
	ref := exec.CreateReference()
	c := newTestCSR(t, ref)

	ell, err := c.ToELL()
	require.NoError(t, err)
	require.Equal(t, 2, ell.MaxNNZPerRow())

	back, err := ell.ToCSR(matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	require.Equal(t, c.RowPtrs(), back.RowPtrs())
}

func TestCSRRowPermute(t *testing.T) {
	ref := exec.CreateReference()
	c := newTestCSR(t, ref)

	p, err := linop.New[int32]([]int32{1, 0}, linop.MaskRow)
	require.NoError(t, err)

	permuted, err := c.RowPermute(p)
	require.NoError(t, err)
	pc := permuted.(*matrix.CSR[float64, int32])
	require.Equal(t, []float64{3, 1, 2}, pc.Values())
}

func TestCSRExtractDiagonal(t *testing.T) {
	ref := exec.CreateReference()
	c, err := matrix.NewCSR[float64, int32](ref, 2, 2, []int32{0, 1, 2}, []int32{0, 1}, []float64{9, 8}, matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	diag, err := c.ExtractDiagonal()
	require.NoError(t, err)
	require.Equal(t, []float64{9, 8}, diag.Slice())
}
