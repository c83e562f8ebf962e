package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/matrix"
)

func TestSparsityCSRUniformScalar(t *testing.T) {
	ref := exec.CreateReference()
	c := newTestCSR(t, ref)

	s, err := c.ToSparsityCSR(9)
	require.NoError(t, err)
	require.Equal(t, 9.0, s.Scalar())
	require.Equal(t, c.NNZ(), s.NNZ())

	back, err := s.ToCSR(matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	for _, v := range back.Values() {
		require.Equal(t, 9.0, v)
	}
	require.Equal(t, c.ColIdxs(), back.ColIdxs())
}
