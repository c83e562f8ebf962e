package matrix

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

// COO is the coordinate (triple) format: size plus parallel row_idxs,
// col_idxs, and values arrays. Rows must be non-decreasing: this is an
// enforced invariant, not just a documented convention, since SpMV here
// uses a row-aware segmented scan that relies on it.
type COO[V dim.Value, I dim.Index] struct {
	ex      exec.Executor
	size    dim.Dim2
	values  *array.Array[V]
	rowIdxs *array.Array[I]
	colIdxs *array.Array[I]
}

// NewCOO builds a COO from host-side triples, validating bounds and
// row-sortedness.
func NewCOO[V dim.Value, I dim.Index](ex exec.Executor, rows, cols int, rowIdxs, colIdxs []I, values []V) (*COO[V, I], error) {
	if len(rowIdxs) != len(colIdxs) || len(rowIdxs) != len(values) {
		return nil, fmt.Errorf("matrix.NewCOO: triple length mismatch rows=%d cols=%d values=%d: %w", len(rowIdxs), len(colIdxs), len(values), kerrors.ErrDimensionMismatch)
	}
	for i, r := range rowIdxs {
		if int(r) < 0 || int(r) >= rows {
			return nil, fmt.Errorf("matrix.NewCOO: row index %d out of bounds [0,%d): %w", r, rows, kerrors.ErrOutOfBounds)
		}
		if int(colIdxs[i]) < 0 || int(colIdxs[i]) >= cols {
			return nil, fmt.Errorf("matrix.NewCOO: col index %d out of bounds [0,%d): %w", colIdxs[i], cols, kerrors.ErrOutOfBounds)
		}
		if i > 0 && r < rowIdxs[i-1] {
			return nil, fmt.Errorf("matrix.NewCOO: row_idxs not non-decreasing at entry %d: %w", i, kerrors.ErrValueMismatch)
		}
	}

	vArr, err := hostBackedArray[V](ex, values)
	if err != nil {
		return nil, err
	}
	rArr, err := hostBackedArray[I](ex, rowIdxs)
	if err != nil {
		return nil, err
	}
	cArr, err := hostBackedArray[I](ex, colIdxs)
	if err != nil {
		return nil, err
	}
	return &COO[V, I]{ex: ex, size: dim.New(rows, cols), values: vArr, rowIdxs: rArr, colIdxs: cArr}, nil
}

func (m *COO[V, I]) Shape() dim.Dim2 { return m.size }
func (m *COO[V, I]) NNZ() int        { return m.values.Len() }
func (m *COO[V, I]) RowIdxs() []I    { return m.rowIdxs.Slice() }
func (m *COO[V, I]) ColIdxs() []I    { return m.colIdxs.Slice() }
func (m *COO[V, I]) Values() []V     { return m.values.Slice() }

// Apply computes x = A*b via a row-aware segmented scan: since entries are
// grouped by non-decreasing row, accumulation flushes to x whenever the row
// changes.
func (m *COO[V, I]) Apply(b, x *array.Array[V]) error {
	var one V = 1
	var zero V = 0
	return m.ApplyScaled(one, b, zero, x)
}

func (m *COO[V, I]) ApplyScaled(alpha V, b *array.Array[V], beta V, x *array.Array[V]) error {
	if b.Len() != m.size.Cols {
		return fmt.Errorf("matrix.COO.ApplyScaled: b length %d != cols %d: %w", b.Len(), m.size.Cols, kerrors.ErrDimensionMismatch)
	}
	if x.Len() != m.size.Rows {
		return fmt.Errorf("matrix.COO.ApplyScaled: x length %d != rows %d: %w", x.Len(), m.size.Rows, kerrors.ErrDimensionMismatch)
	}
	xs := x.Slice()
	for r := range xs {
		xs[r] = beta * xs[r]
	}
	rowIdxs, colIdxs, values := m.rowIdxs.Slice(), m.colIdxs.Slice(), m.values.Slice()
	bs := b.Slice()
	var acc V
	curRow := -1
	flush := func() {
		if curRow >= 0 {
			xs[curRow] += alpha * acc
		}
	}
	for i, r := range rowIdxs {
		if int(r) != curRow {
			flush()
			curRow = int(r)
			acc = 0
		}
		acc += values[i] * bs[colIdxs[i]]
	}
	flush()
	return nil
}

// Transpose hub-converts through CSR, since COO's triples carry no
// transpose shortcut beyond swapping rows and cols and re-sorting.
func (m *COO[V, I]) Transpose() (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](m)
	if err != nil {
		return nil, err
	}
	return csr.Transpose()
}

func (m *COO[V, I]) ConjTranspose() (linop.LinOp[V, I], error) { return m.Transpose() }

func (m *COO[V, I]) RowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](m)
	if err != nil {
		return nil, err
	}
	return csr.RowPermute(p)
}

func (m *COO[V, I]) ColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](m)
	if err != nil {
		return nil, err
	}
	return csr.ColumnPermute(p)
}

func (m *COO[V, I]) InverseRowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](m)
	if err != nil {
		return nil, err
	}
	return csr.InverseRowPermute(p)
}

func (m *COO[V, I]) InverseColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](m)
	if err != nil {
		return nil, err
	}
	return csr.InverseColumnPermute(p)
}

// ExtractDiagonal hub-converts through CSR to reuse its row-scan.
func (m *COO[V, I]) ExtractDiagonal() (*array.Array[V], error) {
	csr, err := hubCSR[V, I](m)
	if err != nil {
		return nil, err
	}
	return csr.ExtractDiagonal()
}

// ToCSR converts this COO to CSR with the two-phase size/fill pattern:
// phase one counts entries per row into row_ptrs, phase two scatters
// values/col_idxs into their final positions.
func (m *COO[V, I]) ToCSR(strategy Strategy) (*CSR[V, I], error) {
	rows := m.size.Rows
	rowIdxs, colIdxs, values := m.rowIdxs.Slice(), m.colIdxs.Slice(), m.values.Slice()

	rowPtrs := make([]I, rows+1)
	for _, r := range rowIdxs {
		rowPtrs[r+1]++
	}
	for r := 0; r < rows; r++ {
		rowPtrs[r+1] += rowPtrs[r]
	}

	outCol := make([]I, len(colIdxs))
	outVal := make([]V, len(values))
	cursor := make([]I, rows)
	copy(cursor, rowPtrs[:rows])
	for i, r := range rowIdxs {
		dst := cursor[r]
		outCol[dst] = colIdxs[i]
		outVal[dst] = values[i]
		cursor[r]++
	}
	return NewCSR[V, I](m.ex, rows, m.size.Cols, rowPtrs, outCol, outVal, strategy)
}
