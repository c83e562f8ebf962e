package precond

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/matrix"
)

// Precision names the storage precision a block's inverse was generated at.
// Adaptive precision reduction picks Reduced for well-conditioned blocks,
// whose inverse is rounded to float32 precision; the storage stays float64.
type Precision int

const (
	Full Precision = iota
	Reduced
)

func (p Precision) String() string {
	if p == Reduced {
		return "reduced"
	}
	return "full"
}

// DefaultConditionThreshold is the condition-number cutoff Generate uses
// when the caller does not supply one: blocks estimated below it are stored
// Reduced, at or above it Full. It is a round value well below float32's
// reciprocal epsilon (about 8.4e6).
const DefaultConditionThreshold = 1e4

// Block is one diagonal block's dense inverse, plus the row range it covers
// and the precision it was generated at.
type Block[V dim.Value] struct {
	Start, End int
	Precision  Precision
	cond       float64
	inv        *mat.Dense
}

// Cond returns the block's estimated condition number, as computed during
// Generate.
func (b *Block[V]) Cond() float64 { return b.cond }

// BlockJacobi is a block-diagonal preconditioner: applying it multiplies
// each diagonal block of the input by that block's precomputed dense
// inverse, ignoring any off-block-diagonal entries of the system matrix
// (the approximation block Jacobi makes by construction).
type BlockJacobi[V dim.Value, I dim.Index] struct {
	blocks       []Block[V]
	maxBlockSize int
}

// FindBlocks detects block-diagonal structure in a square CSR matrix,
// following dense connected components up to maxBlockSize, grounded on the
// block boundaries `reference/test/preconditioner/
// block_jacobi.cpp` exercises: a block grows one row at a time while its
// size is below maxBlockSize and the candidate row shares at least one
// column with the block's accumulated column set — cross-block fill-in is
// tolerated and simply dropped by Generate/Apply, as block Jacobi does by
// design.
func FindBlocks[V dim.Value, I dim.Index](c *matrix.CSR[V, I], maxBlockSize int) ([]int, error) {
	if maxBlockSize <= 0 {
		return nil, fmt.Errorf("precond.FindBlocks: maxBlockSize must be > 0: %w", kerrors.ErrValueMismatch)
	}
	rows, cols := c.Shape().Rows, c.Shape().Cols
	if rows != cols {
		return nil, fmt.Errorf("precond.FindBlocks: non-square %dx%d: %w", rows, cols, kerrors.ErrDimensionMismatch)
	}
	rowPtrs, colIdxs := c.RowPtrs(), c.ColIdxs()

	pointers := []int{0}
	start := 0
	for start < rows {
		blockCols := make(map[int]bool)
		for k := rowPtrs[start]; k < rowPtrs[start+1]; k++ {
			blockCols[int(colIdxs[k])] = true
		}
		size := 1
		for size < maxBlockSize && start+size < rows {
			r := start + size
			shared := false
			for k := rowPtrs[r]; k < rowPtrs[r+1] && !shared; k++ {
				if blockCols[int(colIdxs[k])] {
					shared = true
				}
			}
			if !shared {
				break
			}
			for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
				blockCols[int(colIdxs[k])] = true
			}
			size++
		}
		start += size
		pointers = append(pointers, start)
	}
	return pointers, nil
}

// valueAt scans row r's column range for col, returning 0 if absent.
func valueAt[V dim.Value, I dim.Index](c *matrix.CSR[V, I], r, col int) V {
	rowPtrs, colIdxs, values := c.RowPtrs(), c.ColIdxs(), c.Values()
	for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
		if int(colIdxs[k]) == col {
			return values[k]
		}
	}
	var zero V
	return zero
}

// Generate inverts each diagonal block named by blockPointers (as returned
// by FindBlocks), using gonum's LU factorization for the small dense solve,
// and chooses each block's storage Precision from its estimated condition
// number against threshold (DefaultConditionThreshold if threshold <= 0).
func Generate[V dim.Value, I dim.Index](c *matrix.CSR[V, I], blockPointers []int, threshold float64) (*BlockJacobi[V, I], error) {
	if threshold <= 0 {
		threshold = DefaultConditionThreshold
	}
	numBlocks := len(blockPointers) - 1
	if numBlocks < 0 {
		return nil, fmt.Errorf("precond.Generate: blockPointers must have length >= 1: %w", kerrors.ErrValueMismatch)
	}
	maxSize := 0
	blocks := make([]Block[V], numBlocks)
	for bi := 0; bi < numBlocks; bi++ {
		s, e := blockPointers[bi], blockPointers[bi+1]
		n := e - s
		if n > maxSize {
			maxSize = n
		}
		dense := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				dense.Set(i, j, float64(valueAt(c, s+i, s+j)))
			}
		}
		var lu mat.LU
		lu.Factorize(dense)
		cond := lu.Cond()
		var inv mat.Dense
		identity := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			identity.Set(i, i, 1)
		}
		if err := lu.SolveTo(&inv, false, identity); err != nil {
			return nil, fmt.Errorf("precond.Generate: block [%d,%d) factorization failed: %w", s, e, kerrors.ErrValueMismatch)
		}
		precision := Full
		if cond < threshold {
			precision = Reduced
			roundTripThroughFloat32(&inv)
		}
		blocks[bi] = Block[V]{Start: s, End: e, Precision: precision, cond: cond, inv: &inv}
		klog.V(3).InfoS("precond block generated", "start", s, "end", e, "cond", cond, "precision", precision.String())
	}
	return &BlockJacobi[V, I]{blocks: blocks, maxBlockSize: maxSize}, nil
}

// roundTripThroughFloat32 emulates reduced-precision storage: array/memspace
// has no sub-float32 allocator, so a Reduced block's inverse is simply
// rounded to float32 granularity in place rather than stored at a narrower
// width.
func roundTripThroughFloat32(m *mat.Dense) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, float64(float32(m.At(i, j))))
		}
	}
}

// Blocks returns the generated diagonal blocks.
func (bj *BlockJacobi[V, I]) Blocks() []Block[V] { return bj.blocks }

// Apply computes x = M^{-1}*b, applying each block's dense inverse to its
// row range of b and leaving x untouched outside any block (there should be
// none, since FindBlocks covers every row).
func (bj *BlockJacobi[V, I]) Apply(b, x *array.Array[V]) error {
	if b.Len() != x.Len() {
		return fmt.Errorf("precond.BlockJacobi.Apply: b length %d != x length %d: %w", b.Len(), x.Len(), kerrors.ErrDimensionMismatch)
	}
	bs, xs := b.Slice(), x.Slice()
	for _, blk := range bj.blocks {
		n := blk.End - blk.Start
		bvec := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			bvec.SetVec(i, float64(bs[blk.Start+i]))
		}
		var xvec mat.VecDense
		xvec.MulVec(blk.inv, bvec)
		for i := 0; i < n; i++ {
			xs[blk.Start+i] = V(xvec.AtVec(i))
		}
	}
	return nil
}
