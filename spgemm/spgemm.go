package spgemm

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/matrix"
)

// EstimateWork returns, per row of A, the number of multiply-accumulate
// steps C = A*B's merge will perform for that row: Σ|B_{A.col[j]}| over
// the row's nonzeros, kept verbatim from benchmark/spgemm.cpp's
// work-estimation pass (run before dispatch to balance tiers/threads).
func EstimateWork[V dim.Value, I dim.Index](a, b *matrix.CSR[V, I]) []int {
	rows := a.Shape().Rows
	work := make([]int, rows)
	aRowPtrs, aColIdxs := a.RowPtrs(), a.ColIdxs()
	bRowPtrs := b.RowPtrs()
	for r := 0; r < rows; r++ {
		total := 0
		for k := aRowPtrs[r]; k < aRowPtrs[r+1]; k++ {
			col := aColIdxs[k]
			total += int(bRowPtrs[col+1] - bRowPtrs[col])
		}
		work[r] = total
	}
	return work
}

// Multiply computes C = A*B on ex, running the two-pass Count/Compute
// merge per row with identical traversal order and returning C as a CSR
// under strategy.
func Multiply[V dim.Value, I dim.Index](ex exec.Executor, a, b *matrix.CSR[V, I], strategy matrix.Strategy) (*matrix.CSR[V, I], error) {
	if a.Shape().Cols != b.Shape().Rows {
		return nil, fmt.Errorf("spgemm.Multiply: A.cols %d != B.rows %d: %w", a.Shape().Cols, b.Shape().Rows, kerrors.ErrDimensionMismatch)
	}
	rows := a.Shape().Rows
	outCols := b.Shape().Cols

	aRowPtrs, aColIdxs, aValues := a.RowPtrs(), a.ColIdxs(), a.Values()
	bRowPtrs, bColIdxs, bValues := b.RowPtrs(), b.ColIdxs(), b.Values()

	buildCursors := func(r int) []*cursor[V, I] {
		var cs []*cursor[V, I]
		for k := aRowPtrs[r]; k < aRowPtrs[r+1]; k++ {
			bRow := aColIdxs[k]
			s, e := bRowPtrs[bRow], bRowPtrs[bRow+1]
			if s == e {
				continue
			}
			cs = append(cs, &cursor[V, I]{
				colIdxs: bColIdxs[s:e],
				values:  bValues[s:e],
				scale:   aValues[k],
			})
		}
		return cs
	}

	rowPtrs := make([]I, rows+1)
	rowCols := make([][]I, rows)
	rowVals := make([][]V, rows)

	for r := 0; r < rows; r++ {
		fanIn := int(aRowPtrs[r+1] - aRowPtrs[r])
		tier := Classify(fanIn)

		// Count pass: same cursors, same tier, only tallying distinct
		// output columns so the compute pass can preallocate exactly.
		nnz := 0
		mergeRow(tier, buildCursors(r), func(I, V) { nnz++ })

		rowCap := nnz
		if tier == Tier3 {
			// Open Question (i): Tier3 scratch is sized 3*rowLen index
			// slots / rowLen value slots as the documented upper bound;
			// here rowLen is nnz itself since nnz is now known exactly.
			rowCap = nnz * 3
		}
		rowCol := make([]I, 0, rowCap)
		rowVal := make([]V, 0, nnz)

		// Compute pass: fresh cursors, identical tier and thus identical
		// traversal order as the count pass.
		mergeRow(tier, buildCursors(r), func(col I, val V) {
			rowCol = append(rowCol, col)
			rowVal = append(rowVal, val)
		})

		rowCols[r] = rowCol
		rowVals[r] = rowVal
		rowPtrs[r+1] = rowPtrs[r] + I(len(rowCol))
	}

	outCol := make([]I, 0, rowPtrs[rows])
	outVal := make([]V, 0, rowPtrs[rows])
	for r := 0; r < rows; r++ {
		outCol = append(outCol, rowCols[r]...)
		outVal = append(outVal, rowVals[r]...)
	}

	return matrix.NewCSR[V, I](ex, rows, outCols, rowPtrs, outCol, outVal, strategy)
}
