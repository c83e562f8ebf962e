package matrix

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

// SparsityCSR is CSR without explicit values: every stored entry shares a
// single uniform Scalar. Used where only the nonzero pattern matters, e.g.
// SpGEMM's symbolic (count) phase or a preconditioner's
// fixed-sparsity-pattern factorization.
type SparsityCSR[V dim.Value, I dim.Index] struct {
	ex      exec.Executor
	size    dim.Dim2
	colIdxs *array.Array[I]
	rowPtrs *array.Array[I]
	scalar  V
}

// NewSparsityCSR builds a SparsityCSR from a row_ptrs/col_idxs pattern.
func NewSparsityCSR[V dim.Value, I dim.Index](ex exec.Executor, rows, cols int, rowPtrs, colIdxs []I, scalar V) (*SparsityCSR[V, I], error) {
	if len(rowPtrs) != rows+1 {
		return nil, fmt.Errorf("matrix.NewSparsityCSR: row_ptrs length %d != rows+1 %d: %w", len(rowPtrs), rows+1, kerrors.ErrDimensionMismatch)
	}
	for r := 1; r < len(rowPtrs); r++ {
		if rowPtrs[r] < rowPtrs[r-1] {
			return nil, fmt.Errorf("matrix.NewSparsityCSR: row_ptrs not monotone at row %d: %w", r, kerrors.ErrValueMismatch)
		}
	}
	if int(rowPtrs[rows]) != len(colIdxs) {
		return nil, fmt.Errorf("matrix.NewSparsityCSR: expected %d column indices, got %d: %w", rowPtrs[rows], len(colIdxs), kerrors.ErrDimensionMismatch)
	}
	rArr, err := hostBackedArray[I](ex, rowPtrs)
	if err != nil {
		return nil, err
	}
	cArr, err := hostBackedArray[I](ex, colIdxs)
	if err != nil {
		return nil, err
	}
	return &SparsityCSR[V, I]{ex: ex, size: dim.New(rows, cols), rowPtrs: rArr, colIdxs: cArr, scalar: scalar}, nil
}

// FromCSR builds the pattern-only view of src, all stored entries set to
// scalar regardless of src's actual values.
func FromCSR[V dim.Value, I dim.Index](src *CSR[V, I], scalar V) (*SparsityCSR[V, I], error) {
	return NewSparsityCSR[V, I](src.ex, src.size.Rows, src.size.Cols, append([]I(nil), src.RowPtrs()...), append([]I(nil), src.ColIdxs()...), scalar)
}

func (s *SparsityCSR[V, I]) Shape() dim.Dim2 { return s.size }
func (s *SparsityCSR[V, I]) RowPtrs() []I    { return s.rowPtrs.Slice() }
func (s *SparsityCSR[V, I]) ColIdxs() []I    { return s.colIdxs.Slice() }
func (s *SparsityCSR[V, I]) Scalar() V       { return s.scalar }
func (s *SparsityCSR[V, I]) NNZ() int        { return s.colIdxs.Len() }

// Transpose hub-converts through an explicit-value CSR (via ToCSR), there
// being no uniform-scalar transpose shortcut worth special-casing.
func (s *SparsityCSR[V, I]) Transpose() (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.Transpose()
}

func (s *SparsityCSR[V, I]) ConjTranspose() (linop.LinOp[V, I], error) { return s.Transpose() }

func (s *SparsityCSR[V, I]) RowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.RowPermute(p)
}

func (s *SparsityCSR[V, I]) ColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.ColumnPermute(p)
}

func (s *SparsityCSR[V, I]) InverseRowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.InverseRowPermute(p)
}

func (s *SparsityCSR[V, I]) InverseColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.InverseColumnPermute(p)
}

// ExtractDiagonal hub-converts through CSR to reuse its row-scan.
func (s *SparsityCSR[V, I]) ExtractDiagonal() (*array.Array[V], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.ExtractDiagonal()
}

// ToCSR materializes an explicit-value CSR where every stored entry equals
// the uniform scalar.
func (s *SparsityCSR[V, I]) ToCSR(strategy Strategy) (*CSR[V, I], error) {
	colIdxs := s.colIdxs.Slice()
	values := make([]V, len(colIdxs))
	for i := range values {
		values[i] = s.scalar
	}
	rowPtrs := append([]I(nil), s.rowPtrs.Slice()...)
	return NewCSR[V, I](s.ex, s.size.Rows, s.size.Cols, rowPtrs, append([]I(nil), colIdxs...), values, strategy)
}

// Apply computes x = scalar * (pattern applied to b): every stored
// position contributes scalar*b[col] rather than a distinct weight.
func (s *SparsityCSR[V, I]) Apply(b, x *array.Array[V]) error {
	var one V = 1
	var zero V = 0
	return s.ApplyScaled(one, b, zero, x)
}

func (s *SparsityCSR[V, I]) ApplyScaled(alpha V, b *array.Array[V], beta V, x *array.Array[V]) error {
	if b.Len() != s.size.Cols {
		return fmt.Errorf("matrix.SparsityCSR.ApplyScaled: b length %d != cols %d: %w", b.Len(), s.size.Cols, kerrors.ErrDimensionMismatch)
	}
	if x.Len() != s.size.Rows {
		return fmt.Errorf("matrix.SparsityCSR.ApplyScaled: x length %d != rows %d: %w", x.Len(), s.size.Rows, kerrors.ErrDimensionMismatch)
	}
	rowPtrs, colIdxs := s.rowPtrs.Slice(), s.colIdxs.Slice()
	bs, xs := b.Slice(), x.Slice()
	for r := 0; r < s.size.Rows; r++ {
		var acc V
		for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
			acc += s.scalar * bs[colIdxs[k]]
		}
		xs[r] = alpha*acc + beta*xs[r]
	}
	return nil
}
