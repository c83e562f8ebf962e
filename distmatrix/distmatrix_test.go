package distmatrix_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/distmatrix"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/matrix"
)

// buildLaplacianBlocks splits the 4x4 tridiagonal Laplacian
//
//	[ 2 -1  0  0]
//	[-1  2 -1  0]
//	[ 0 -1  2 -1]
//	[ 0  0 -1  2]
//
// into two rank-local 2x4 CSR blocks, rank 0 owning rows 0-1 and rank 1
// owning rows 2-3, per NewContiguousRowPartition(4, 2).
func buildLaplacianBlocks(t *testing.T, ex exec.Executor) []*matrix.CSR[float64, int32] {
	t.Helper()
	block0, err := matrix.NewCSR[float64, int32](ex, 2, 4,
		[]int32{0, 2, 5},
		[]int32{0, 1, 0, 1, 2},
		[]float64{2, -1, -1, 2, -1},
		matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	block1, err := matrix.NewCSR[float64, int32](ex, 2, 4,
		[]int32{0, 3, 5},
		[]int32{1, 2, 3, 2, 3},
		[]float64{-1, 2, -1, -1, 2},
		matrix.NewStrategy(matrix.Classical))
	require.NoError(t, err)
	return []*matrix.CSR[float64, int32]{block0, block1}
}

func TestDistMatrixApplyGathersRHSAcrossRanks(t *testing.T) {
	ex := exec.CreateReference()
	blocks := buildLaplacianBlocks(t, ex)
	partition := distmatrix.NewContiguousRowPartition(4, 2)
	require.NoError(t, partition.Validate())
	comms := distmatrix.NewLocalTeam[float64](2)

	dms := make([]*distmatrix.DistMatrix[float64, int32], 2)
	for r := range dms {
		dms[r] = distmatrix.NewDistMatrix[float64, int32](ex, blocks[r], partition, comms[r])
	}

	localB := [][]float64{{1, 2}, {3, 4}}
	results := make([][]float64, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for r := 0; r < 2; r++ {
		go func(r int) {
			defer wg.Done()
			x, err := array.New[float64](ex, 2)
			require.NoError(t, err)
			require.NoError(t, dms[r].Apply(localB[r], x))
			results[r] = x.Slice()
		}(r)
	}
	wg.Wait()

	require.Equal(t, []float64{0, 0}, results[0])
	require.Equal(t, []float64{0, 5}, results[1])
}

func TestDistMatrixApplyWithReplicatedRHSSkipsGather(t *testing.T) {
	ex := exec.CreateReference()
	blocks := buildLaplacianBlocks(t, ex)
	partition := distmatrix.NewContiguousRowPartition(4, 2)
	require.NoError(t, partition.Validate())
	// team size 1 so a spurious AllGather returns at once instead of waiting
	// for a peer that never calls; on a team of 1 it would echo full back
	// unchanged, so the result alone does not show whether it was called.
	comm := distmatrix.NewLocalTeam[float64](1)[0]

	dm := distmatrix.NewDistMatrix[float64, int32](ex, blocks[0], partition, comm)
	x, err := array.New[float64](ex, 2)
	require.NoError(t, err)

	full := []float64{1, 2, 3, 4}
	require.NoError(t, dm.Apply(full, x))
	require.Equal(t, []float64{0, 0}, x.Slice())
}

func TestDistMatrixGatherOnRootAndOnAll(t *testing.T) {
	ex := exec.CreateReference()
	blocks := buildLaplacianBlocks(t, ex)
	partition := distmatrix.NewContiguousRowPartition(4, 2)
	comms := distmatrix.NewLocalTeam[float64](2)
	dms := []*distmatrix.DistMatrix[float64, int32]{
		distmatrix.NewDistMatrix[float64, int32](ex, blocks[0], partition, comms[0]),
		distmatrix.NewDistMatrix[float64, int32](ex, blocks[1], partition, comms[1]),
	}

	localX := [][]float64{{10, 20}, {30, 40}}

	t.Run("root", func(t *testing.T) {
		rootResults := make([][]float64, 2)
		var wg sync.WaitGroup
		wg.Add(2)
		for r := 0; r < 2; r++ {
			go func(r int) {
				defer wg.Done()
				out, err := dms[r].GatherOnRoot(localX[r], 0)
				require.NoError(t, err)
				rootResults[r] = out
			}(r)
		}
		wg.Wait()
		require.Equal(t, []float64{10, 20, 30, 40}, rootResults[0])
		require.Nil(t, rootResults[1])
	})

	t.Run("all", func(t *testing.T) {
		allResults := make([][]float64, 2)
		var wg sync.WaitGroup
		wg.Add(2)
		for r := 0; r < 2; r++ {
			go func(r int) {
				defer wg.Done()
				out, err := dms[r].GatherOnAll(localX[r])
				require.NoError(t, err)
				allResults[r] = out
			}(r)
		}
		wg.Wait()
		require.Equal(t, []float64{10, 20, 30, 40}, allResults[0])
		require.Equal(t, []float64{10, 20, 30, 40}, allResults[1])
	})
}

func TestDistMatrixComputeDotAndNorm2(t *testing.T) {
	ex := exec.CreateReference()
	blocks := buildLaplacianBlocks(t, ex)
	partition := distmatrix.NewContiguousRowPartition(4, 2)
	comms := distmatrix.NewLocalTeam[float64](2)
	dms := []*distmatrix.DistMatrix[float64, int32]{
		distmatrix.NewDistMatrix[float64, int32](ex, blocks[0], partition, comms[0]),
		distmatrix.NewDistMatrix[float64, int32](ex, blocks[1], partition, comms[1]),
	}

	localA := [][]float64{{1, 2}, {3, 4}}
	localB := [][]float64{{5, 6}, {7, 8}}
	dots := make([]float64, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for r := 0; r < 2; r++ {
		go func(r int) {
			defer wg.Done()
			d, err := dms[r].ComputeDot(localA[r], localB[r])
			require.NoError(t, err)
			dots[r] = d
		}(r)
	}
	wg.Wait()
	require.Equal(t, 70.0, dots[0])
	require.Equal(t, 70.0, dots[1])

	localX := [][]float64{{3, 4}, {0, 0}}
	norms := make([]float64, 2)
	wg.Add(2)
	for r := 0; r < 2; r++ {
		go func(r int) {
			defer wg.Done()
			n, err := dms[r].ComputeNorm2(localX[r])
			require.NoError(t, err)
			norms[r] = n
		}(r)
	}
	wg.Wait()
	require.Equal(t, 5.0, norms[0])
	require.Equal(t, 5.0, norms[1])
}
