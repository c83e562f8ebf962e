package spgemm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/matrix"
	"github.com/sparsekernel/sparsekernel/spgemm"
)

// buildCSR is a small helper constructing a CSR from dense row-major data.
func buildCSR(t *testing.T, ex exec.Executor, rows, cols int, dense []float64) *matrix.CSR[float64, int32] {
	t.Helper()
	var rowPtrs []int32 = make([]int32, rows+1)
	var colIdxs []int32
	var values []float64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := dense[r*cols+c]
			if v != 0 {
				colIdxs = append(colIdxs, int32(c))
				values = append(values, v)
			}
		}
		rowPtrs[r+1] = int32(len(colIdxs))
	}
	c, err := matrix.NewCSR[float64, int32](ex, rows, cols, rowPtrs, colIdxs, values, matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	return c
}

func denseOf(t *testing.T, c *matrix.CSR[float64, int32]) []float64 {
	t.Helper()
	d, err := c.ToDense()
	require.NoError(t, err)
	rows, cols := d.Shape().Rows, d.Shape().Cols
	out := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			out[r*cols+col] = d.At(r, col)
		}
	}
	return out
}

func TestMultiplyMatchesDenseProduct(t *testing.T) {
	ref := exec.CreateReference()

	// A: 2x3, B: 3x2
	a := buildCSR(t, ref, 2, 3, []float64{
		1, 0, 2,
		0, 3, 0,
	})
	b := buildCSR(t, ref, 3, 2, []float64{
		1, 4,
		0, 0,
		5, 6,
	})

	c, err := spgemm.Multiply[float64, int32](ref, a, b, matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)

	// expected = A*B:
	// row0: [1*1+2*5, 1*4+2*6] = [11, 16]
	// row1: [3*0, 3*0] = [0, 0]
	expected := []float64{11, 16, 0, 0}
	require.Equal(t, expected, denseOf(t, c))
}

func TestMultiplyRejectsDimensionMismatch(t *testing.T) {
	ref := exec.CreateReference()
	a := buildCSR(t, ref, 2, 2, []float64{1, 0, 0, 1})
	b := buildCSR(t, ref, 3, 2, []float64{1, 0, 0, 1, 1, 1})
	_, err := spgemm.Multiply[float64, int32](ref, a, b, matrix.NewStrategy(matrix.Classical))
	require.Error(t, err)
}

func TestEstimateWork(t *testing.T) {
	ref := exec.CreateReference()
	a := buildCSR(t, ref, 2, 2, []float64{1, 1, 0, 1})
	b := buildCSR(t, ref, 2, 2, []float64{1, 0, 1, 1})

	work := spgemm.EstimateWork[float64, int32](a, b)
	// row0 touches B rows 0 and 1 (lengths 1 and 2) = 3
	// row1 touches B row 1 (length 2) = 2
	require.Equal(t, []int{3, 2}, work)
}
