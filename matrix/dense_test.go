package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/matrix"
)

func TestDenseSetAtApply(t *testing.T) {
	ref := exec.CreateReference()
	d, err := matrix.NewDense[float64, int32](ref, 2, 3, 3)
	require.NoError(t, err)

	d.Set(0, 0, 1)
	d.Set(0, 1, 2)
	d.Set(0, 2, 3)
	d.Set(1, 0, 4)
	d.Set(1, 1, 5)
	d.Set(1, 2, 6)

	b, err := array.New[float64](ref, 3)
	require.NoError(t, err)
	copy(b.Slice(), []float64{1, 1, 1})

	x, err := array.New[float64](ref, 2)
	require.NoError(t, err)

	require.NoError(t, d.Apply(b, x))
	require.Equal(t, []float64{6, 15}, x.Slice())
}

func TestDenseApplyScaledUsesBLASPath(t *testing.T) {
	host := exec.CreateHost()
	d, err := matrix.NewDense[float64, int32](host, 2, 2, 2)
	require.NoError(t, err)
	d.Set(0, 0, 2)
	d.Set(0, 1, 0)
	d.Set(1, 0, 0)
	d.Set(1, 1, 2)

	b, err := array.New[float64](host, 2)
	require.NoError(t, err)
	copy(b.Slice(), []float64{3, 4})

	x, err := array.New[float64](host, 2)
	require.NoError(t, err)
	copy(x.Slice(), []float64{1, 1})

	require.NoError(t, d.ApplyScaled(2, b, 1, x))
	require.Equal(t, []float64{13, 17}, x.Slice())
}

func TestDenseTransposeAndDiagonal(t *testing.T) {
	ref := exec.CreateReference()
	d, err := matrix.NewDense[float64, int32](ref, 2, 3, 3)
	require.NoError(t, err)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			d.Set(r, c, float64(r*3+c))
		}
	}

	tr, err := d.Transpose()
	require.NoError(t, err)
	transposed := tr.(*matrix.Dense[float64, int32])
	require.Equal(t, d.At(1, 2), transposed.At(2, 1))

	sq, err := matrix.NewDense[float64, int32](ref, 2, 2, 2)
	require.NoError(t, err)
	sq.Set(0, 0, 5)
	sq.Set(1, 1, 7)
	diag, err := sq.ExtractDiagonal()
	require.NoError(t, err)
	require.Equal(t, []float64{5, 7}, diag.Slice())
}
