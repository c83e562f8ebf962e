package matrix

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

// CSR is the compressed-sparse-row format and this module's conversion hub.
// RowPtrs has length Rows+1, is monotone non-decreasing, and RowPtrs[Rows]
// equals the nonzero count.
type CSR[V dim.Value, I dim.Index] struct {
	ex       exec.Executor
	size     dim.Dim2
	values   *array.Array[V]
	colIdxs  *array.Array[I]
	rowPtrs  *array.Array[I]
	strategy Strategy
	// srow is the auxiliary per-"super-row" index the load-balance
	// strategy builds; populated lazily by BuildSrow.
	srow []I
}

// NewCSR builds a CSR from host-side triple arrays, validating row_ptrs
// monotonicity and bounds. values and colIdxs must have length
// rowPtrs[rows]; rowPtrs must have length rows+1.
func NewCSR[V dim.Value, I dim.Index](ex exec.Executor, rows, cols int, rowPtrs []I, colIdxs []I, values []V, strategy Strategy) (*CSR[V, I], error) {
	if len(rowPtrs) != rows+1 {
		return nil, fmt.Errorf("matrix.NewCSR: row_ptrs length %d != rows+1 %d: %w", len(rowPtrs), rows+1, kerrors.ErrDimensionMismatch)
	}
	for r := 1; r < len(rowPtrs); r++ {
		if rowPtrs[r] < rowPtrs[r-1] {
			return nil, fmt.Errorf("matrix.NewCSR: row_ptrs not monotone at row %d: %w", r, kerrors.ErrValueMismatch)
		}
	}
	nnz := int(rowPtrs[rows])
	if len(colIdxs) != nnz || len(values) != nnz {
		return nil, fmt.Errorf("matrix.NewCSR: expected %d nonzeros, got %d col_idxs / %d values: %w", nnz, len(colIdxs), len(values), kerrors.ErrDimensionMismatch)
	}
	for _, c := range colIdxs {
		if int(c) < 0 || int(c) >= cols {
			return nil, fmt.Errorf("matrix.NewCSR: col index %d out of bounds [0,%d): %w", c, cols, kerrors.ErrOutOfBounds)
		}
	}

	vArr, err := hostBackedArray[V](ex, values)
	if err != nil {
		return nil, err
	}
	cArr, err := hostBackedArray[I](ex, colIdxs)
	if err != nil {
		return nil, err
	}
	rArr, err := hostBackedArray[I](ex, rowPtrs)
	if err != nil {
		return nil, err
	}
	return &CSR[V, I]{ex: ex, size: dim.New(rows, cols), values: vArr, colIdxs: cArr, rowPtrs: rArr, strategy: strategy}, nil
}

// hostBackedArray allocates an Array on ex and copies src into it.
func hostBackedArray[T dim.Numeric](ex exec.Executor, src []T) (*array.Array[T], error) {
	a, err := array.New[T](ex, len(src))
	if err != nil {
		return nil, err
	}
	copy(a.Slice(), src)
	return a, nil
}

func (c *CSR[V, I]) Shape() dim.Dim2 { return c.size }

// NNZ returns the nonzero count.
func (c *CSR[V, I]) NNZ() int { return c.values.Len() }

// RowPtrs, ColIdxs, Values expose the raw triple for conversions and SpGEMM.
func (c *CSR[V, I]) RowPtrs() []I { return c.rowPtrs.Slice() }
func (c *CSR[V, I]) ColIdxs() []I { return c.colIdxs.Slice() }
func (c *CSR[V, I]) Values() []V  { return c.values.Slice() }

// Strategy returns the configured kernel-selection strategy.
func (c *CSR[V, I]) Strategy() Strategy { return c.strategy }

// BuildSrow computes the load-balance auxiliary index: srow[k] names the
// row that owns the k-th "work unit" of roughly nnz/num_work_units size,
// used by the load-balance kernel to assign contiguous nonzero ranges to
// threads of uniform work. numUnits must be > 0.
func (c *CSR[V, I]) BuildSrow(numUnits int) {
	if numUnits <= 0 {
		panic("matrix.CSR.BuildSrow: numUnits must be > 0")
	}
	nnz := c.NNZ()
	srow := make([]I, numUnits)
	rowPtrs := c.rowPtrs.Slice()
	row := 0
	for u := 0; u < numUnits; u++ {
		target := I((u * nnz) / numUnits)
		for row < c.size.Rows && rowPtrs[row+1] <= target {
			row++
		}
		srow[u] = I(row)
	}
	c.srow = srow
}

// Srow returns the auxiliary index built by BuildSrow, or nil if it has not
// been built.
func (c *CSR[V, I]) Srow() []I { return c.srow }

// Apply computes x = A*b via the classical row-wise dot-product kernel
// whatever the configured strategy: it does not consult the strategy and
// does not build Srow.
func (c *CSR[V, I]) Apply(b, x *array.Array[V]) error {
	var one V = 1
	var zero V = 0
	return c.ApplyScaled(one, b, zero, x)
}

func (c *CSR[V, I]) ApplyScaled(alpha V, b *array.Array[V], beta V, x *array.Array[V]) error {
	if b.Len() != c.size.Cols {
		return fmt.Errorf("matrix.CSR.ApplyScaled: b length %d != cols %d: %w", b.Len(), c.size.Cols, kerrors.ErrDimensionMismatch)
	}
	if x.Len() != c.size.Rows {
		return fmt.Errorf("matrix.CSR.ApplyScaled: x length %d != rows %d: %w", x.Len(), c.size.Rows, kerrors.ErrDimensionMismatch)
	}
	rowPtrs, colIdxs, values := c.rowPtrs.Slice(), c.colIdxs.Slice(), c.values.Slice()
	bs, xs := b.Slice(), x.Slice()
	for r := 0; r < c.size.Rows; r++ {
		var acc V
		for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
			acc += values[k] * bs[colIdxs[k]]
		}
		xs[r] = alpha*acc + beta*xs[r]
	}
	return nil
}

// Transpose returns A^T as a new CSR, built by a counting pass over column
// indices (the standard CSR-transpose-via-CSC-of-the-transpose algorithm).
func (c *CSR[V, I]) Transpose() (linop.LinOp[V, I], error) {
	rows, cols := c.size.Rows, c.size.Cols
	rowPtrs, colIdxs, values := c.rowPtrs.Slice(), c.colIdxs.Slice(), c.values.Slice()

	counts := make([]I, cols+1)
	for _, ci := range colIdxs {
		counts[ci+1]++
	}
	for i := 1; i <= cols; i++ {
		counts[i] += counts[i-1]
	}

	outCol := make([]I, len(colIdxs))
	outVal := make([]V, len(values))
	cursor := make([]I, cols)
	copy(cursor, counts[:cols])

	for r := 0; r < rows; r++ {
		for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
			col := colIdxs[k]
			dst := cursor[col]
			outCol[dst] = I(r)
			outVal[dst] = values[k]
			cursor[col]++
		}
	}
	rowPtrsOut := make([]I, cols+1)
	copy(rowPtrsOut, counts)
	return NewCSR[V, I](c.ex, cols, rows, rowPtrsOut, outCol, outVal, c.strategy)
}

func (c *CSR[V, I]) ConjTranspose() (linop.LinOp[V, I], error) { return c.Transpose() }

func (c *CSR[V, I]) RowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	if p.Len() != c.size.Rows {
		return nil, fmt.Errorf("matrix.CSR.RowPermute: permutation length %d != rows %d: %w", p.Len(), c.size.Rows, kerrors.ErrDimensionMismatch)
	}
	rowPtrs, colIdxs, values := c.rowPtrs.Slice(), c.colIdxs.Slice(), c.values.Slice()
	newRowPtrs := make([]I, c.size.Rows+1)
	var newCol []I
	var newVal []V
	for dstRow, srcRow := range p.Indices {
		s := rowPtrs[srcRow]
		e := rowPtrs[srcRow+1]
		newCol = append(newCol, colIdxs[s:e]...)
		newVal = append(newVal, values[s:e]...)
		newRowPtrs[dstRow+1] = I(len(newCol))
	}
	return NewCSR[V, I](c.ex, c.size.Rows, c.size.Cols, newRowPtrs, newCol, newVal, c.strategy)
}

func (c *CSR[V, I]) ColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	if p.Len() != c.size.Cols {
		return nil, fmt.Errorf("matrix.CSR.ColumnPermute: permutation length %d != cols %d: %w", p.Len(), c.size.Cols, kerrors.ErrDimensionMismatch)
	}
	inv := p.Inverse()
	rowPtrs, colIdxs, values := c.rowPtrs.Slice(), c.colIdxs.Slice(), c.values.Slice()
	newCol := make([]I, len(colIdxs))
	newVal := make([]V, len(values))
	copy(newVal, values)
	for i, ci := range colIdxs {
		newCol[i] = inv.Indices[ci]
	}
	newRowPtrs := make([]I, len(rowPtrs))
	copy(newRowPtrs, rowPtrs)
	return NewCSR[V, I](c.ex, c.size.Rows, c.size.Cols, newRowPtrs, newCol, newVal, c.strategy)
}

func (c *CSR[V, I]) InverseRowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	return c.RowPermute(p.Inverse())
}

func (c *CSR[V, I]) InverseColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	return c.ColumnPermute(p.Inverse())
}

// ExtractDiagonal returns the main diagonal, 0 where no explicit entry
// exists.
func (c *CSR[V, I]) ExtractDiagonal() (*array.Array[V], error) {
	n := c.size.Rows
	if c.size.Cols < n {
		n = c.size.Cols
	}
	out, err := array.New[V](c.ex, n)
	if err != nil {
		return nil, err
	}
	dst := out.Slice()
	rowPtrs, colIdxs, values := c.rowPtrs.Slice(), c.colIdxs.Slice(), c.values.Slice()
	for r := 0; r < n; r++ {
		for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
			if int(colIdxs[k]) == r {
				dst[r] = values[k]
				break
			}
		}
	}
	return out, nil
}
