package precond

import (
	"fmt"
	"sort"

	"k8s.io/klog/v2"

	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/matrix"
)

// DefaultParILUSweeps is the number of fixed-point sweeps GenerateILU0 runs
// when the caller does not request a specific count.
const DefaultParILUSweeps = 20

// IncompleteFactors holds the triangular factors an ILU/ParILU factorization
// produces: L strictly lower with an explicit unit diagonal, U upper
// including its own diagonal.
type IncompleteFactors[V dim.Value, I dim.Index] struct {
	L, U *matrix.CSR[V, I]
}

// GenerateILU0 factors a square CSR matrix with ILU(0): L/U share A's
// sparsity pattern exactly (no fill-in), initialized from A's own entries
// and refined by sweeps rounds of ParILUStep, the parallel Jacobi-style
// fixed-point iteration `core/preconditioner/block_jacobi_kernels.hpp`'s
// sibling ParILU kernels perform (grounded on the Chow-Patel fine-grained
// parallel ILU scheme: every entry is recomputed from the previous sweep's
// values, so entries converge independently and in any order). The sweeps
// here run as a sequential loop over the rows.
func GenerateILU0[V dim.Value, I dim.Index](ex exec.Executor, a *matrix.CSR[V, I], sweeps int) (*IncompleteFactors[V, I], error) {
	rows, cols := a.Shape().Rows, a.Shape().Cols
	if rows != cols {
		return nil, fmt.Errorf("precond.GenerateILU0: non-square %dx%d: %w", rows, cols, kerrors.ErrDimensionMismatch)
	}
	if sweeps <= 0 {
		sweeps = DefaultParILUSweeps
	}

	rowPtrs, colIdxs, values := a.RowPtrs(), a.ColIdxs(), a.Values()
	var lRows, lCols []I
	var lVals []V
	var uRows, uCols []I
	var uVals []V
	for r := 0; r < rows; r++ {
		type entry struct {
			col I
			val V
		}
		var lRow, uRow []entry
		hasDiag := false
		for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
			c := int(colIdxs[k])
			if c < r {
				lRow = append(lRow, entry{colIdxs[k], values[k]})
			} else {
				uRow = append(uRow, entry{colIdxs[k], values[k]})
				if c == r {
					hasDiag = true
				}
			}
		}
		if !hasDiag {
			return nil, fmt.Errorf("precond.GenerateILU0: row %d has no diagonal entry: %w", r, kerrors.ErrValueMismatch)
		}
		lRow = append(lRow, entry{I(r), 1})
		sort.Slice(lRow, func(i, j int) bool { return lRow[i].col < lRow[j].col })
		sort.Slice(uRow, func(i, j int) bool { return uRow[i].col < uRow[j].col })
		for _, e := range lRow {
			lRows = append(lRows, I(r))
			lCols = append(lCols, e.col)
			lVals = append(lVals, e.val)
		}
		for _, e := range uRow {
			uRows = append(uRows, I(r))
			uCols = append(uCols, e.col)
			uVals = append(uVals, e.val)
		}
	}

	l, err := sortAndBuildCSR[V, I](ex, rows, rows, lRows, lCols, lVals)
	if err != nil {
		return nil, fmt.Errorf("precond.GenerateILU0: %w", err)
	}
	u, err := sortAndBuildCSR[V, I](ex, rows, rows, uRows, uCols, uVals)
	if err != nil {
		return nil, fmt.Errorf("precond.GenerateILU0: %w", err)
	}

	for sweep := 0; sweep < sweeps; sweep++ {
		l, u, err = ParILUStep(ex, a, l, u)
		if err != nil {
			return nil, fmt.Errorf("precond.GenerateILU0: sweep %d: %w", sweep, err)
		}
		klog.V(4).InfoS("parilu sweep complete", "sweep", sweep, "rows", rows)
	}
	return &IncompleteFactors[V, I]{L: l, U: u}, nil
}

// ParILUStep performs one fixed-point sweep: every L/U entry is
// recomputed from the *previous* sweep's values (a Jacobi update, not
// Gauss-Seidel), so the sweep is safe to parallelize entry-by-entry.
func ParILUStep[V dim.Value, I dim.Index](ex exec.Executor, a, l, u *matrix.CSR[V, I]) (*matrix.CSR[V, I], *matrix.CSR[V, I], error) {
	rows := a.Shape().Rows
	uTLinOp, err := u.Transpose()
	if err != nil {
		return nil, nil, fmt.Errorf("precond.ParILUStep: %w", err)
	}
	uT := uTLinOp.(*matrix.CSR[V, I])
	diag, err := u.ExtractDiagonal()
	if err != nil {
		return nil, nil, fmt.Errorf("precond.ParILUStep: %w", err)
	}
	diagVals := diag.Slice()

	lRowPtrs, lColIdxs, lValues := l.RowPtrs(), l.ColIdxs(), l.Values()
	uRowPtrs, uColIdxs, uValues := u.RowPtrs(), u.ColIdxs(), u.Values()
	uTRowPtrs, uTColIdxs, uTValues := uT.RowPtrs(), uT.ColIdxs(), uT.Values()

	newLVals := make([]V, len(lValues))
	copy(newLVals, lValues)
	newUVals := make([]V, len(uValues))
	copy(newUVals, uValues)

	for r := 0; r < rows; r++ {
		lRowStart, lRowEnd := lRowPtrs[r], lRowPtrs[r+1]
		for k := lRowStart; k < lRowEnd; k++ {
			c := int(lColIdxs[k])
			if c == r {
				continue // explicit unit diagonal, never refined
			}
			sum := mergeDot(lColIdxs[lRowStart:lRowEnd], lValues[lRowStart:lRowEnd],
				uTColIdxs[uTRowPtrs[c]:uTRowPtrs[c+1]], uTValues[uTRowPtrs[c]:uTRowPtrs[c+1]], c)
			d := diagVals[c]
			if d == 0 {
				return nil, nil, fmt.Errorf("precond.ParILUStep: zero pivot U[%d,%d]: %w", c, c, kerrors.ErrValueMismatch)
			}
			newLVals[k] = (valueAt(a, r, c) - sum) / d
		}
		uRowStart, uRowEnd := uRowPtrs[r], uRowPtrs[r+1]
		for k := uRowStart; k < uRowEnd; k++ {
			c := int(uColIdxs[k])
			sum := mergeDot(lColIdxs[lRowStart:lRowEnd], lValues[lRowStart:lRowEnd],
				uTColIdxs[uTRowPtrs[c]:uTRowPtrs[c+1]], uTValues[uTRowPtrs[c]:uTRowPtrs[c+1]], r)
			newUVals[k] = valueAt(a, r, c) - sum
		}
	}

	newL, err := matrix.NewCSR[V, I](ex, rows, rows, append([]I(nil), lRowPtrs...), append([]I(nil), lColIdxs...), newLVals, l.Strategy())
	if err != nil {
		return nil, nil, err
	}
	newU, err := matrix.NewCSR[V, I](ex, rows, rows, append([]I(nil), uRowPtrs...), append([]I(nil), uColIdxs...), newUVals, u.Strategy())
	if err != nil {
		return nil, nil, err
	}
	return newL, newU, nil
}

// mergeDot sums lVals[i]*uVals[j] over matching column/row keys below
// bound, merging two ascending-sorted (key, value) lists in one pass — the
// sequential-host analogue of a sparse row/column dot product, the same
// shape as spgemm's Tier-1 merge.
func mergeDot[V dim.Value, I dim.Index](lCols []I, lVals []V, uCols []I, uVals []V, bound int) V {
	var sum V
	i, j := 0, 0
	for i < len(lCols) && j < len(uCols) {
		lc, uc := int(lCols[i]), int(uCols[j])
		if uc >= bound {
			break
		}
		switch {
		case lc < uc:
			i++
		case lc > uc:
			j++
		default:
			sum += lVals[i] * uVals[j]
			i++
			j++
		}
	}
	return sum
}
