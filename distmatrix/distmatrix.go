package distmatrix

import (
	"fmt"
	"math"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/matrix"
)

// DistMatrix wraps a rank-local CSR block plus the RowPartition describing
// which global rows it and its peers each own, and a Communicator. Apply
// gathers a row-partitioned right-hand side across ranks (a replicated one
// is used as is) before delegating to the local CSR's apply.
type DistMatrix[V dim.Value, I dim.Index] struct {
	ex        exec.Executor
	local     *matrix.CSR[V, I]
	partition *RowPartition
	comm      Communicator[V]
}

// NewDistMatrix binds a rank-local CSR block to comm and partition.
// partition must already satisfy Validate; NewDistMatrix does not
// re-validate it on every construction to avoid O(rows) work per rank per
// call in a tight solver loop.
func NewDistMatrix[V dim.Value, I dim.Index](ex exec.Executor, local *matrix.CSR[V, I], partition *RowPartition, comm Communicator[V]) *DistMatrix[V, I] {
	return &DistMatrix[V, I]{ex: ex, local: local, partition: partition, comm: comm}
}

// Local returns the rank-local CSR block.
func (m *DistMatrix[V, I]) Local() *matrix.CSR[V, I] { return m.local }

// Partition returns the row partition.
func (m *DistMatrix[V, I]) Partition() *RowPartition { return m.partition }

// Apply computes localX = A_local * b. If localB is already replicated
// (its length equals the local block's column count), it is used directly;
// otherwise it is treated as this rank's row-partitioned shard and gathered
// across ranks into the full right-hand side before the local apply.
func (m *DistMatrix[V, I]) Apply(localB []V, localX *array.Array[V]) error {
	if len(localB) == m.local.Shape().Cols {
		b, err := array.New[V](m.ex, len(localB))
		if err != nil {
			return err
		}
		copy(b.Slice(), localB)
		return m.local.Apply(b, localX)
	}

	full, err := m.comm.AllGather(localB)
	if err != nil {
		return fmt.Errorf("distmatrix.Apply: %w", err)
	}
	if len(full) != m.local.Shape().Cols {
		return fmt.Errorf("distmatrix.Apply: gathered rhs length %d != local cols %d: %w", len(full), m.local.Shape().Cols, kerrors.ErrDimensionMismatch)
	}
	b, err := array.New[V](m.ex, len(full))
	if err != nil {
		return err
	}
	copy(b.Slice(), full)
	return m.local.Apply(b, localX)
}

// GatherOnRoot assembles the full global vector from every rank's local
// slice onto root; non-root callers get a nil slice.
func (m *DistMatrix[V, I]) GatherOnRoot(localX []V, root int) ([]V, error) {
	data, counts, err := m.comm.Gatherv(localX, root)
	if err != nil {
		return nil, fmt.Errorf("distmatrix.GatherOnRoot: %w", err)
	}
	if m.comm.Rank() != root {
		return nil, nil
	}
	return m.scatterIntoGlobal(data, counts), nil
}

// GatherOnAll assembles the full global vector on every rank.
func (m *DistMatrix[V, I]) GatherOnAll(localX []V) ([]V, error) {
	all, err := m.comm.AllGather(localX)
	if err != nil {
		return nil, fmt.Errorf("distmatrix.GatherOnAll: %w", err)
	}
	counts := make([]int, len(m.partition.RankRows))
	for r, rows := range m.partition.RankRows {
		counts[r] = len(rows)
	}
	return m.scatterIntoGlobal(all, counts), nil
}

func (m *DistMatrix[V, I]) scatterIntoGlobal(data []V, counts []int) []V {
	global := make([]V, m.partition.TotalRows)
	offset := 0
	for r, rows := range m.partition.RankRows {
		n := counts[r]
		for i, row := range rows {
			if i < n {
				global[row] = data[offset+i]
			}
		}
		offset += n
	}
	return global
}

// ComputeDot returns the global dot product of two row-partitioned
// vectors, each rank contributing its local partial sum via AllReduceSum.
func (m *DistMatrix[V, I]) ComputeDot(localA, localB []V) (V, error) {
	if len(localA) != len(localB) {
		var zero V
		return zero, fmt.Errorf("distmatrix.ComputeDot: length mismatch %d != %d: %w", len(localA), len(localB), kerrors.ErrDimensionMismatch)
	}
	var local V
	for i := range localA {
		local += localA[i] * localB[i]
	}
	sum, err := m.comm.AllReduceSum([]V{local})
	if err != nil {
		var zero V
		return zero, fmt.Errorf("distmatrix.ComputeDot: %w", err)
	}
	return sum[0], nil
}

// ComputeNorm2 returns the global Euclidean norm of a row-partitioned
// vector, built on ComputeDot: an iterative refinement solve drives purely
// through apply/compute_dot/compute_norm2, so norm2 needs no hook beyond
// dot.
func (m *DistMatrix[V, I]) ComputeNorm2(localX []V) (V, error) {
	dot, err := m.ComputeDot(localX, localX)
	if err != nil {
		return dot, err
	}
	return V(math.Sqrt(float64(dot))), nil
}
