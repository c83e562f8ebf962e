package matrix

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

// ELL is the ELLPACK format: a column-major tile of uniform width
// MaxNNZPerRow, padded with col_idx = row, value = 0. Access at (r, k) is
// `values[k*stride + r]`.
type ELL[V dim.Value, I dim.Index] struct {
	ex           exec.Executor
	size         dim.Dim2
	stride       int
	maxNNZPerRow int
	colIdxs      *array.Array[I]
	values       *array.Array[V]
}

// NewELL allocates an ELL of the given shape and stride (stride >= rows),
// filled with the padding pattern (col_idx=row, value=0) everywhere.
func NewELL[V dim.Value, I dim.Index](ex exec.Executor, rows, cols, maxNNZPerRow, stride int) (*ELL[V, I], error) {
	if stride < rows {
		return nil, fmt.Errorf("matrix.NewELL: stride %d < rows %d: %w", stride, rows, kerrors.ErrStrideMismatch)
	}
	n := maxNNZPerRow * stride
	colIdxs, err := array.New[I](ex, n)
	if err != nil {
		return nil, err
	}
	values, err := array.New[V](ex, n)
	if err != nil {
		return nil, err
	}
	ci := colIdxs.Slice()
	for k := 0; k < maxNNZPerRow; k++ {
		for r := 0; r < rows; r++ {
			ci[k*stride+r] = I(r)
		}
	}
	return &ELL[V, I]{ex: ex, size: dim.New(rows, cols), stride: stride, maxNNZPerRow: maxNNZPerRow, colIdxs: colIdxs, values: values}, nil
}

func (e *ELL[V, I]) Shape() dim.Dim2   { return e.size }
func (e *ELL[V, I]) Stride() int       { return e.stride }
func (e *ELL[V, I]) MaxNNZPerRow() int { return e.maxNNZPerRow }
func (e *ELL[V, I]) ColIdxs() []I      { return e.colIdxs.Slice() }
func (e *ELL[V, I]) Values() []V       { return e.values.Slice() }

// Set writes the k-th stored entry of row r (0 <= k < MaxNNZPerRow).
func (e *ELL[V, I]) Set(r, k int, col I, val V) {
	idx := k*e.stride + r
	e.colIdxs.Slice()[idx] = col
	e.values.Slice()[idx] = val
}

func (e *ELL[V, I]) Apply(b, x *array.Array[V]) error {
	var one V = 1
	var zero V = 0
	return e.ApplyScaled(one, b, zero, x)
}

func (e *ELL[V, I]) ApplyScaled(alpha V, b *array.Array[V], beta V, x *array.Array[V]) error {
	if b.Len() != e.size.Cols {
		return fmt.Errorf("matrix.ELL.ApplyScaled: b length %d != cols %d: %w", b.Len(), e.size.Cols, kerrors.ErrDimensionMismatch)
	}
	if x.Len() != e.size.Rows {
		return fmt.Errorf("matrix.ELL.ApplyScaled: x length %d != rows %d: %w", x.Len(), e.size.Rows, kerrors.ErrDimensionMismatch)
	}
	colIdxs, values := e.colIdxs.Slice(), e.values.Slice()
	bs, xs := b.Slice(), x.Slice()
	for r := 0; r < e.size.Rows; r++ {
		var acc V
		for k := 0; k < e.maxNNZPerRow; k++ {
			idx := k*e.stride + r
			if values[idx] == 0 && int(colIdxs[idx]) == r {
				continue // padding entry
			}
			acc += values[idx] * bs[colIdxs[idx]]
		}
		xs[r] = alpha*acc + beta*xs[r]
	}
	return nil
}

// Transpose hub-converts through CSR: ELL's column-major tile has no
// transpose shortcut of its own.
func (e *ELL[V, I]) Transpose() (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](e)
	if err != nil {
		return nil, err
	}
	return csr.Transpose()
}

func (e *ELL[V, I]) ConjTranspose() (linop.LinOp[V, I], error) { return e.Transpose() }

func (e *ELL[V, I]) RowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](e)
	if err != nil {
		return nil, err
	}
	return csr.RowPermute(p)
}

func (e *ELL[V, I]) ColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](e)
	if err != nil {
		return nil, err
	}
	return csr.ColumnPermute(p)
}

func (e *ELL[V, I]) InverseRowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](e)
	if err != nil {
		return nil, err
	}
	return csr.InverseRowPermute(p)
}

func (e *ELL[V, I]) InverseColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](e)
	if err != nil {
		return nil, err
	}
	return csr.InverseColumnPermute(p)
}

// ExtractDiagonal hub-converts through CSR to reuse its row-scan.
func (e *ELL[V, I]) ExtractDiagonal() (*array.Array[V], error) {
	csr, err := hubCSR[V, I](e)
	if err != nil {
		return nil, err
	}
	return csr.ExtractDiagonal()
}

// ToCSR converts ELL to CSR by a two-phase size/fill pass that drops
// padding entries.
func (e *ELL[V, I]) ToCSR(strategy Strategy) (*CSR[V, I], error) {
	colIdxs, values := e.colIdxs.Slice(), e.values.Slice()
	rows := e.size.Rows

	rowPtrs := make([]I, rows+1)
	for r := 0; r < rows; r++ {
		count := I(0)
		for k := 0; k < e.maxNNZPerRow; k++ {
			idx := k*e.stride + r
			if values[idx] == 0 && int(colIdxs[idx]) == r {
				continue
			}
			count++
		}
		rowPtrs[r+1] = rowPtrs[r] + count
	}

	outCol := make([]I, rowPtrs[rows])
	outVal := make([]V, rowPtrs[rows])
	cursor := make([]I, rows)
	copy(cursor, rowPtrs[:rows])
	for r := 0; r < rows; r++ {
		for k := 0; k < e.maxNNZPerRow; k++ {
			idx := k*e.stride + r
			if values[idx] == 0 && int(colIdxs[idx]) == r {
				continue
			}
			d := cursor[r]
			outCol[d] = colIdxs[idx]
			outVal[d] = values[idx]
			cursor[r]++
		}
	}
	return NewCSR[V, I](e.ex, rows, e.size.Cols, rowPtrs, outCol, outVal, strategy)
}
