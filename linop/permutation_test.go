package linop_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

func TestNewRejectsDuplicateAndOutOfBounds(t *testing.T) {
	_, err := linop.New([]int32{0, 0, 2}, linop.MaskRow)
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.ErrValueMismatch))

	_, err = linop.New([]int32{0, 5, 2}, linop.MaskRow)
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.ErrOutOfBounds))
}

func TestInverseSatisfiesPermutationLaw(t *testing.T) {
	p, err := linop.New([]int32{2, 0, 1}, linop.MaskRowAndColumn)
	require.NoError(t, err)
	inv := p.Inverse()

	src := []float64{10, 20, 30}
	mid := make([]float64, 3)
	require.NoError(t, linop.Apply[float64](p, src, mid))

	back := make([]float64, 3)
	require.NoError(t, linop.Apply[float64](inv, mid, back))

	require.Equal(t, src, back)
}

func TestApplyLengthMismatch(t *testing.T) {
	p, err := linop.New([]int32{0, 1}, linop.MaskNone)
	require.NoError(t, err)
	err = linop.Apply[int](p, []int{1, 2, 3}, []int{0, 0})
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.ErrDimensionMismatch))
}

func TestMaskString(t *testing.T) {
	require.Equal(t, "row", linop.MaskRow.String())
	require.Equal(t, "column", linop.MaskColumn.String())
}
