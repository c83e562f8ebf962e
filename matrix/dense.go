package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

// Dense is a row-major dense matrix: `values[r*stride + c]` holds entry
// (r, c).
type Dense[V dim.Value, I dim.Index] struct {
	ex     exec.Executor
	size   dim.Dim2
	stride int
	values *array.Array[V]
}

// NewDense allocates a zero-initialized rows x cols Dense on ex with the
// given stride, which must be >= cols.
func NewDense[V dim.Value, I dim.Index](ex exec.Executor, rows, cols, stride int) (*Dense[V, I], error) {
	if stride < cols {
		return nil, fmt.Errorf("matrix.NewDense: stride %d < cols %d: %w", stride, cols, kerrors.ErrStrideMismatch)
	}
	values, err := array.New[V](ex, rows*stride)
	if err != nil {
		return nil, fmt.Errorf("matrix.NewDense: %w", err)
	}
	return &Dense[V, I]{ex: ex, size: dim.New(rows, cols), stride: stride, values: values}, nil
}

// NewDenseFromView wraps an existing Array as a Dense without copying,
// rather than allocating a fresh one.
func NewDenseFromView[V dim.Value, I dim.Index](ex exec.Executor, rows, cols, stride int, values *array.Array[V]) (*Dense[V, I], error) {
	if stride < cols {
		return nil, fmt.Errorf("matrix.NewDenseFromView: stride %d < cols %d: %w", stride, cols, kerrors.ErrStrideMismatch)
	}
	if values.Len() < rows*stride {
		return nil, fmt.Errorf("matrix.NewDenseFromView: view length %d < rows*stride %d: %w", values.Len(), rows*stride, kerrors.ErrOutOfBounds)
	}
	return &Dense[V, I]{ex: ex, size: dim.New(rows, cols), stride: stride, values: values}, nil
}

// Shape returns (rows, cols).
func (d *Dense[V, I]) Shape() dim.Dim2 { return d.size }

// Stride returns the row stride.
func (d *Dense[V, I]) Stride() int { return d.stride }

// At returns the value at (r, c), panicking if out of bounds (a programmer
// error, consistent with Array's own bounds discipline).
func (d *Dense[V, I]) At(r, c int) V {
	if r < 0 || r >= d.size.Rows || c < 0 || c >= d.size.Cols {
		panic(fmt.Sprintf("matrix.Dense.At: (%d,%d) out of bounds %v", r, c, d.size))
	}
	return d.values.Slice()[r*d.stride+c]
}

// Set assigns the value at (r, c).
func (d *Dense[V, I]) Set(r, c int, v V) {
	if r < 0 || r >= d.size.Rows || c < 0 || c >= d.size.Cols {
		panic(fmt.Sprintf("matrix.Dense.Set: (%d,%d) out of bounds %v", r, c, d.size))
	}
	d.values.Slice()[r*d.stride+c] = v
}

// Free releases the backing Array.
func (d *Dense[V, I]) Free() { d.values.Free() }

// Apply computes x = A*b.
func (d *Dense[V, I]) Apply(b, x *array.Array[V]) error {
	var one V = 1
	var zero V = 0
	return d.ApplyScaled(one, b, zero, x)
}

// ApplyScaled computes x = alpha*A*b + beta*x. On non-Reference executors
// with V == float64 it delegates to blas64.Gemv; otherwise (Reference
// executor, or V == float32) it runs the naive triple loop, which doubles
// as the oracle used when comparing kernel variants.
func (d *Dense[V, I]) ApplyScaled(alpha V, b *array.Array[V], beta V, x *array.Array[V]) error {
	if b.Len() != d.size.Cols {
		return fmt.Errorf("matrix.Dense.ApplyScaled: b has length %d, want %d: %w", b.Len(), d.size.Cols, kerrors.ErrDimensionMismatch)
	}
	if x.Len() != d.size.Rows {
		return fmt.Errorf("matrix.Dense.ApplyScaled: x has length %d, want %d: %w", x.Len(), d.size.Rows, kerrors.ErrDimensionMismatch)
	}

	useBLAS := d.ex.Kind() != exec.Reference
	if useBLAS {
		if vs64, ok := any(d.values.Slice()).([]float64); ok {
			bs64 := any(b.Slice()).([]float64)
			xs64 := any(x.Slice()).([]float64)
			gemvFloat64(d.size.Rows, d.size.Cols, d.stride, float64(alpha), vs64, bs64, float64(beta), xs64)
			return nil
		}
	}
	gemvNaive(d.size.Rows, d.size.Cols, d.stride, alpha, d.values.Slice(), b.Slice(), beta, x.Slice())
	return nil
}

func gemvFloat64(rows, cols, stride int, alpha float64, values, b []float64, beta float64, x []float64) {
	a := blas64.General{Rows: rows, Cols: cols, Stride: stride, Data: values}
	blas64.Gemv(blas.NoTrans, alpha, a, blas64.Vector{N: cols, Inc: 1, Data: b}, beta, blas64.Vector{N: rows, Inc: 1, Data: x})
}

func gemvNaive[V dim.Value](rows, cols, stride int, alpha V, values, b []V, beta V, x []V) {
	for r := 0; r < rows; r++ {
		var acc V
		row := values[r*stride : r*stride+cols]
		for c, v := range row {
			acc += v * b[c]
		}
		x[r] = alpha*acc + beta*x[r]
	}
}

// Transpose returns a new Dense computing A^T's action. It materializes a
// transposed copy rather than a lazy view, returning an independently
// owned value.
func (d *Dense[V, I]) Transpose() (linop.LinOp[V, I], error) {
	t, err := NewDense[V, I](d.ex, d.size.Cols, d.size.Rows, d.size.Rows)
	if err != nil {
		return nil, err
	}
	for r := 0; r < d.size.Rows; r++ {
		for c := 0; c < d.size.Cols; c++ {
			t.Set(c, r, d.At(r, c))
		}
	}
	return t, nil
}

// ConjTranspose is Transpose for the real value types this module supports.
func (d *Dense[V, I]) ConjTranspose() (linop.LinOp[V, I], error) { return d.Transpose() }

func (d *Dense[V, I]) RowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	return d.permute(p, true)
}

func (d *Dense[V, I]) ColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	return d.permute(p, false)
}

func (d *Dense[V, I]) InverseRowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	return d.permute(p.Inverse(), true)
}

func (d *Dense[V, I]) InverseColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	return d.permute(p.Inverse(), false)
}

func (d *Dense[V, I]) permute(p *linop.Permutation[I], rows bool) (linop.LinOp[V, I], error) {
	n := d.size.Rows
	if !rows {
		n = d.size.Cols
	}
	if p.Len() != n {
		return nil, fmt.Errorf("matrix.Dense.permute: permutation length %d != %d: %w", p.Len(), n, kerrors.ErrDimensionMismatch)
	}
	out, err := NewDense[V, I](d.ex, d.size.Rows, d.size.Cols, d.size.Cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < d.size.Rows; r++ {
		for c := 0; c < d.size.Cols; c++ {
			if rows {
				out.Set(r, c, d.At(int(p.Indices[r]), c))
			} else {
				out.Set(r, c, d.At(r, int(p.Indices[c])))
			}
		}
	}
	return out, nil
}

// ExtractDiagonal returns the main diagonal as a dense Array of length
// min(rows, cols).
func (d *Dense[V, I]) ExtractDiagonal() (*array.Array[V], error) {
	n := d.size.Rows
	if d.size.Cols < n {
		n = d.size.Cols
	}
	out, err := array.New[V](d.ex, n)
	if err != nil {
		return nil, err
	}
	dst := out.Slice()
	for i := 0; i < n; i++ {
		dst[i] = d.At(i, i)
	}
	return out, nil
}
