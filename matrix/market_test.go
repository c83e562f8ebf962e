package matrix_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/matrix"
)

func TestReadParsesTripleForm(t *testing.T) {
	input := `%%MatrixMarket matrix coordinate real general
% a comment
2 3 2
1 1 5.5
2 3 -2
`
	data, err := matrix.Read[float64](strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, dim.New(2, 3), data.Size)
	require.Equal(t, []int{0, 1}, data.Rows)
	require.Equal(t, []int{0, 2}, data.Cols)
	require.Equal(t, []float64{5.5, -2}, data.Vals)
}

func TestWriteReadRoundTrip(t *testing.T) {
	data := &matrix.Data[float64]{
		Size: dim.New(2, 2),
		Rows: []int{0, 1},
		Cols: []int{1, 0},
		Vals: []float64{3, 4},
	}
	var buf bytes.Buffer
	require.NoError(t, matrix.Write(&buf, data))

	back, err := matrix.Read[float64](&buf)
	require.NoError(t, err)
	require.Equal(t, data, back)
}

func TestReadRejectsOutOfBoundsEntry(t *testing.T) {
	input := "1 1 1\n2 2 1.0\n"
	_, err := matrix.Read[float64](strings.NewReader(input))
	require.Error(t, err)
}
