package matrix

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

// csrConvertible is satisfied by every format whose hub conversion into CSR
// takes a Strategy — every format but CSR itself, which already is one.
type csrConvertible[V dim.Value, I dim.Index] interface {
	ToCSR(strategy Strategy) (*CSR[V, I], error)
}

// hubCSR converts m to CSR using the classical strategy. It is the shared
// first step every non-CSR format's structural LinOp methods (Transpose,
// the permute family, ExtractDiagonal) delegate through, rather than each
// format reimplementing those algorithms against its own storage layout.
func hubCSR[V dim.Value, I dim.Index, M csrConvertible[V, I]](m M) (*CSR[V, I], error) {
	return m.ToCSR(NewStrategy(Classical))
}

// convertCSRInto hub-converts c into dst's own concrete format, then
// overwrites dst's fields in place with the fresh result. Every format's
// ConvertTo funnels through here once it has reduced itself to a CSR, so
// this switch is the one place that has to know every format PolymorphicObject
// supports converting into.
func convertCSRInto[V dim.Value, I dim.Index](c *CSR[V, I], dst linop.LinOp[V, I]) error {
	switch d := dst.(type) {
	case *CSR[V, I]:
		*d = *c
	case *COO[V, I]:
		conv, err := c.ToCOO()
		if err != nil {
			return err
		}
		*d = *conv
	case *Dense[V, I]:
		conv, err := c.ToDense()
		if err != nil {
			return err
		}
		*d = *conv
	case *ELL[V, I]:
		conv, err := c.ToELL()
		if err != nil {
			return err
		}
		*d = *conv
	case *SELLP[V, I]:
		conv, err := c.ToSELLP(d.sliceSize, d.strideFactor)
		if err != nil {
			return err
		}
		*d = *conv
	case *Hybrid[V, I]:
		conv, err := c.ToHybrid(d.strategy)
		if err != nil {
			return err
		}
		*d = *conv
	case *SparsityCSR[V, I]:
		conv, err := c.ToSparsityCSR(d.scalar)
		if err != nil {
			return err
		}
		*d = *conv
	default:
		return fmt.Errorf("matrix.ConvertTo: unsupported target %T: %w", dst, kerrors.ErrNotSupported)
	}
	return nil
}

// ToCOO converts CSR to COO, the inverse of COO.ToCSR, completing the
// two-phase hub conversion. Rows come out non-decreasing by construction,
// satisfying COO's row-sortedness invariant.
func (c *CSR[V, I]) ToCOO() (*COO[V, I], error) {
	rowPtrs, colIdxs, values := c.RowPtrs(), c.ColIdxs(), c.Values()
	rows := c.size.Rows

	rowIdxs := make([]I, len(colIdxs))
	for r := 0; r < rows; r++ {
		for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
			rowIdxs[k] = I(r)
		}
	}
	return NewCOO[V, I](c.ex, rows, c.size.Cols, rowIdxs, append([]I(nil), colIdxs...), append([]V(nil), values...))
}

// ToDense materializes CSR as a Dense matrix with stride == cols.
func (c *CSR[V, I]) ToDense() (*Dense[V, I], error) {
	rows, cols := c.size.Rows, c.size.Cols
	d, err := NewDense[V, I](c.ex, rows, cols, cols)
	if err != nil {
		return nil, err
	}
	rowPtrs, colIdxs, values := c.RowPtrs(), c.ColIdxs(), c.Values()
	for r := 0; r < rows; r++ {
		for k := rowPtrs[r]; k < rowPtrs[r+1]; k++ {
			d.Set(r, int(colIdxs[k]), values[k])
		}
	}
	return d, nil
}

// ToELL converts CSR to ELL, choosing MaxNNZPerRow as the longest row's
// nonzero count so every row fits without spilling.
func (c *CSR[V, I]) ToELL() (*ELL[V, I], error) {
	rows, cols := c.size.Rows, c.size.Cols
	rowPtrs, colIdxs, values := c.RowPtrs(), c.ColIdxs(), c.Values()

	maxLen := 0
	for r := 0; r < rows; r++ {
		if l := int(rowPtrs[r+1] - rowPtrs[r]); l > maxLen {
			maxLen = l
		}
	}
	e, err := NewELL[V, I](c.ex, rows, cols, maxLen, rows)
	if err != nil {
		return nil, err
	}
	for r := 0; r < rows; r++ {
		s := int(rowPtrs[r])
		n := int(rowPtrs[r+1]) - s
		for k := 0; k < n; k++ {
			e.Set(r, k, colIdxs[s+k], values[s+k])
		}
	}
	return e, nil
}

// ToSELLP converts CSR to SELL-P via NewSELLPFromCSR.
func (c *CSR[V, I]) ToSELLP(sliceSize, strideFactor int) (*SELLP[V, I], error) {
	return NewSELLPFromCSR[V, I](c, sliceSize, strideFactor)
}

// ToHybrid converts CSR to Hybrid via NewHybridFromCSR.
func (c *CSR[V, I]) ToHybrid(strategy HybridStrategy) (*Hybrid[V, I], error) {
	return NewHybridFromCSR[V, I](c, strategy)
}

// ToSparsityCSR drops CSR's values, keeping only the nonzero pattern with a
// uniform scalar.
func (c *CSR[V, I]) ToSparsityCSR(scalar V) (*SparsityCSR[V, I], error) {
	return FromCSR[V, I](c, scalar)
}

// ToCSR converts Dense to CSR, treating values that compare equal to the
// zero value of V as implicit zeros.
func (d *Dense[V, I]) ToCSR(strategy Strategy) (*CSR[V, I], error) {
	rows, cols := d.size.Rows, d.size.Cols
	var rowPtrs []I
	var colIdxs []I
	var values []V
	rowPtrs = make([]I, rows+1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := d.At(r, c)
			if v != 0 {
				colIdxs = append(colIdxs, I(c))
				values = append(values, v)
			}
		}
		rowPtrs[r+1] = I(len(colIdxs))
	}
	return NewCSR[V, I](d.ex, rows, cols, rowPtrs, colIdxs, values, strategy)
}
