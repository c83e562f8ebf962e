package spgemm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/matrix"
	"github.com/sparsekernel/sparsekernel/spgemm"
)

func TestClassifyThresholds(t *testing.T) {
	require.Equal(t, spgemm.Tier1, spgemm.Classify(1))
	require.Equal(t, spgemm.Tier1, spgemm.Classify(spgemm.DefaultTier1Max))
	require.Equal(t, spgemm.Tier2, spgemm.Classify(spgemm.DefaultTier1Max+1))
	require.Equal(t, spgemm.Tier2, spgemm.Classify(spgemm.DefaultTier2Max))
	require.Equal(t, spgemm.Tier3, spgemm.Classify(spgemm.DefaultTier2Max+1))
}

func TestMultiplyTier3RowMatchesHandComputed(t *testing.T) {
	// A wide row (fan-in 40) forces Tier3; verify the product still matches
	// a hand-computed case: A is a single 1x40 row of ones and B is
	// diag(1..40), so C's one row is (1, 2, ..., 40).
	ref := exec.CreateReference()
	n := 40
	dense := make([]float64, n*n)
	for i := 0; i < n; i++ {
		dense[i*n+i] = float64(i + 1)
	}
	a := buildCSR(t, ref, 1, n, onesRow(n))
	b := buildCSR(t, ref, n, n, dense)

	c, err := spgemm.Multiply[float64, int32](ref, a, b, matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)

	got := denseOf(t, c)
	for i := 0; i < n; i++ {
		require.Equal(t, float64(i+1), got[i])
	}
}

func onesRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = 1
	}
	return row
}
