package distmatrix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/distmatrix"
	"github.com/sparsekernel/sparsekernel/kerrors"
)

func TestNewContiguousRowPartitionSplitsEvenly(t *testing.T) {
	p := distmatrix.NewContiguousRowPartition(10, 3)
	require.Equal(t, 3, p.Size())
	require.Equal(t, []int{0, 1, 2, 3}, p.RankRows[0])
	require.Equal(t, []int{4, 5, 6}, p.RankRows[1])
	require.Equal(t, []int{7, 8, 9}, p.RankRows[2])
	require.NoError(t, p.Validate())
}

func TestRowPartitionRankOf(t *testing.T) {
	p := distmatrix.NewContiguousRowPartition(6, 2)
	require.Equal(t, 0, p.RankOf(2))
	require.Equal(t, 1, p.RankOf(5))
	require.Equal(t, -1, p.RankOf(99))
}

func TestRowPartitionValidateRejectsGap(t *testing.T) {
	p := &distmatrix.RowPartition{TotalRows: 4, RankRows: [][]int{{0, 1}, {3}}}
	err := p.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.ErrValueMismatch))
}

func TestRowPartitionValidateRejectsOverlap(t *testing.T) {
	p := &distmatrix.RowPartition{TotalRows: 4, RankRows: [][]int{{0, 1, 2}, {2, 3}}}
	err := p.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.ErrValueMismatch))
}

func TestRowPartitionValidateRejectsOutOfBounds(t *testing.T) {
	p := &distmatrix.RowPartition{TotalRows: 4, RankRows: [][]int{{0, 1}, {2, 4}}}
	err := p.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.ErrOutOfBounds))
}
