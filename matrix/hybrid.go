package matrix

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

// Hybrid splits a matrix's rows between an ELL part (short, regular rows)
// and a COO part holding the long tail.
type Hybrid[V dim.Value, I dim.Index] struct {
	ex       exec.Executor
	size     dim.Dim2
	ell      *ELL[V, I]
	coo      *COO[V, I]
	strategy HybridStrategy
}

// NewHybridFromCSR splits src between ELL and COO using strategy's
// ResolveEllWidth to pick the ELL part's row width; rows with more
// nonzeros than that width spill their excess into the COO part.
func NewHybridFromCSR[V dim.Value, I dim.Index](src *CSR[V, I], strategy HybridStrategy) (*Hybrid[V, I], error) {
	rows, cols := src.Shape().Rows, src.Shape().Cols
	rowPtrs, colIdxs, values := src.RowPtrs(), src.ColIdxs(), src.Values()

	rowLengths := make([]int, rows)
	for r := 0; r < rows; r++ {
		rowLengths[r] = int(rowPtrs[r+1] - rowPtrs[r])
	}
	width := strategy.ResolveEllWidth(rowLengths)
	if width < 0 {
		width = 0
	}

	ell, err := NewELL[V, I](src.ex, rows, cols, width, rows)
	if err != nil {
		return nil, err
	}
	var cooRows, cooCols []I
	var cooVals []V

	for r := 0; r < rows; r++ {
		s, e := int(rowPtrs[r]), int(rowPtrs[r+1])
		n := e - s
		fit := n
		if fit > width {
			fit = width
		}
		for k := 0; k < fit; k++ {
			ell.Set(r, k, colIdxs[s+k], values[s+k])
		}
		for k := fit; k < n; k++ {
			cooRows = append(cooRows, I(r))
			cooCols = append(cooCols, colIdxs[s+k])
			cooVals = append(cooVals, values[s+k])
		}
	}
	if strategy.CooLim >= 0 && len(cooVals) > strategy.CooLim {
		return nil, fmt.Errorf("matrix.NewHybridFromCSR: COO part needs %d entries, limit is %d: %w", len(cooVals), strategy.CooLim, kerrors.ErrOutOfBounds)
	}

	coo, err := NewCOO[V, I](src.ex, rows, cols, cooRows, cooCols, cooVals)
	if err != nil {
		return nil, err
	}
	return &Hybrid[V, I]{ex: src.ex, size: src.size, ell: ell, coo: coo, strategy: strategy}, nil
}

func (h *Hybrid[V, I]) Shape() dim.Dim2          { return h.size }
func (h *Hybrid[V, I]) ELLPart() *ELL[V, I]      { return h.ell }
func (h *Hybrid[V, I]) COOPart() *COO[V, I]      { return h.coo }
func (h *Hybrid[V, I]) Strategy() HybridStrategy { return h.strategy }

func (h *Hybrid[V, I]) Apply(b, x *array.Array[V]) error {
	var one V = 1
	var zero V = 0
	return h.ApplyScaled(one, b, zero, x)
}

// ApplyScaled applies the ELL part first (clearing/scaling x by beta) then
// accumulates the COO part's contribution with alpha, beta=1.
func (h *Hybrid[V, I]) ApplyScaled(alpha V, b *array.Array[V], beta V, x *array.Array[V]) error {
	if err := h.ell.ApplyScaled(alpha, b, beta, x); err != nil {
		return fmt.Errorf("matrix.Hybrid.ApplyScaled: ell part: %w", err)
	}
	var one V = 1
	if err := h.coo.ApplyScaled(alpha, b, one, x); err != nil {
		return fmt.Errorf("matrix.Hybrid.ApplyScaled: coo part: %w", err)
	}
	return nil
}

// Transpose hub-converts through CSR: the ELL/COO split has no transpose
// shortcut that keeps both parts' row-regularity intact.
func (h *Hybrid[V, I]) Transpose() (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](h)
	if err != nil {
		return nil, err
	}
	return csr.Transpose()
}

func (h *Hybrid[V, I]) ConjTranspose() (linop.LinOp[V, I], error) { return h.Transpose() }

func (h *Hybrid[V, I]) RowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](h)
	if err != nil {
		return nil, err
	}
	return csr.RowPermute(p)
}

func (h *Hybrid[V, I]) ColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](h)
	if err != nil {
		return nil, err
	}
	return csr.ColumnPermute(p)
}

func (h *Hybrid[V, I]) InverseRowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](h)
	if err != nil {
		return nil, err
	}
	return csr.InverseRowPermute(p)
}

func (h *Hybrid[V, I]) InverseColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](h)
	if err != nil {
		return nil, err
	}
	return csr.InverseColumnPermute(p)
}

// ExtractDiagonal hub-converts through CSR to reuse its row-scan.
func (h *Hybrid[V, I]) ExtractDiagonal() (*array.Array[V], error) {
	csr, err := hubCSR[V, I](h)
	if err != nil {
		return nil, err
	}
	return csr.ExtractDiagonal()
}

// ToCSR merges the ELL and COO parts back into a single CSR, preserving the
// represented sparse matrix exactly.
func (h *Hybrid[V, I]) ToCSR(strategy Strategy) (*CSR[V, I], error) {
	ellCSR, err := h.ell.ToCSR(strategy)
	if err != nil {
		return nil, err
	}
	rows := h.size.Rows
	rowPtrs := ellCSR.RowPtrs()
	colIdxs := append([]I(nil), ellCSR.ColIdxs()...)
	values := append([]V(nil), ellCSR.Values()...)

	cooRows, cooCols, cooVals := h.coo.RowIdxs(), h.coo.ColIdxs(), h.coo.Values()
	// Bucket COO entries by row, then splice each row's bucket in after its
	// ELL-derived run so row_ptrs stays monotone.
	byRow := make([][]int, rows)
	for i, r := range cooRows {
		byRow[r] = append(byRow[r], i)
	}

	var mergedCol []I
	var mergedVal []V
	mergedRowPtrs := make([]I, rows+1)
	for r := 0; r < rows; r++ {
		s, e := int(rowPtrs[r]), int(rowPtrs[r+1])
		mergedCol = append(mergedCol, colIdxs[s:e]...)
		mergedVal = append(mergedVal, values[s:e]...)
		for _, i := range byRow[r] {
			mergedCol = append(mergedCol, cooCols[i])
			mergedVal = append(mergedVal, cooVals[i])
		}
		mergedRowPtrs[r+1] = I(len(mergedCol))
	}
	return NewCSR[V, I](h.ex, rows, h.size.Cols, mergedRowPtrs, mergedCol, mergedVal, strategy)
}
