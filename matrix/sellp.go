package matrix

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/linop"
)

// SELLP is the sliced ELLPACK format: rows are grouped into fixed-size
// slices, each padded to a per-slice width that is the next multiple of
// StrideFactor above that slice's longest row. SliceSets[s] is slice s's
// starting column offset.
type SELLP[V dim.Value, I dim.Index] struct {
	ex           exec.Executor
	size         dim.Dim2
	sliceSize    int
	strideFactor int
	totalCols    int
	sliceSets    []int
	sliceLengths []int
	colIdxs      *array.Array[I]
	values       *array.Array[V]
}

// NewSELLPFromCSR builds a SELLP from a CSR's row structure, computing each
// slice's padded width as the next multiple of strideFactor above its
// longest row.
func NewSELLPFromCSR[V dim.Value, I dim.Index](src *CSR[V, I], sliceSize, strideFactor int) (*SELLP[V, I], error) {
	if sliceSize <= 0 || strideFactor <= 0 {
		return nil, fmt.Errorf("matrix.NewSELLPFromCSR: sliceSize and strideFactor must be > 0: %w", kerrors.ErrValueMismatch)
	}
	rows := src.Shape().Rows
	rowPtrs, colIdxs, values := src.RowPtrs(), src.ColIdxs(), src.Values()

	numSlices := (rows + sliceSize - 1) / sliceSize
	sliceLengths := make([]int, numSlices)
	sliceSets := make([]int, numSlices+1)
	rowLen := func(r int) int { return int(rowPtrs[r+1] - rowPtrs[r]) }

	for s := 0; s < numSlices; s++ {
		maxLen := 0
		for r := s * sliceSize; r < (s+1)*sliceSize && r < rows; r++ {
			if l := rowLen(r); l > maxLen {
				maxLen = l
			}
		}
		width := nextMultiple(maxLen, strideFactor)
		sliceLengths[s] = width
		sliceSets[s+1] = sliceSets[s] + width*sliceSize
	}
	totalCols := sliceSets[numSlices]

	outCol, err := array.New[I](src.ex, totalCols)
	if err != nil {
		return nil, err
	}
	outVal, err := array.New[V](src.ex, totalCols)
	if err != nil {
		return nil, err
	}
	ocs, ovs := outCol.Slice(), outVal.Slice()

	for s := 0; s < numSlices; s++ {
		width := sliceLengths[s]
		base := sliceSets[s]
		for localR := 0; localR < sliceSize; localR++ {
			r := s*sliceSize + localR
			for k := 0; k < width; k++ {
				dst := base + k*sliceSize + localR
				if r < rows && k < rowLen(r) {
					ocs[dst] = colIdxs[int(rowPtrs[r])+k]
					ovs[dst] = values[int(rowPtrs[r])+k]
				} else {
					// padding row or padding column: col_idx = row clamped
					// into range, value = 0, mirroring ELL's padding rule.
					padRow := r
					if padRow >= rows {
						padRow = rows - 1
					}
					if padRow < 0 {
						padRow = 0
					}
					ocs[dst] = I(padRow)
					ovs[dst] = 0
				}
			}
		}
	}

	return &SELLP[V, I]{
		ex: src.ex, size: src.size, sliceSize: sliceSize, strideFactor: strideFactor,
		totalCols: totalCols, sliceSets: sliceSets, sliceLengths: sliceLengths,
		colIdxs: outCol, values: outVal,
	}, nil
}

func nextMultiple(n, factor int) int {
	if n == 0 {
		return factor
	}
	if n%factor == 0 {
		return n
	}
	return ((n / factor) + 1) * factor
}

func (s *SELLP[V, I]) Shape() dim.Dim2     { return s.size }
func (s *SELLP[V, I]) SliceSize() int      { return s.sliceSize }
func (s *SELLP[V, I]) StrideFactor() int   { return s.strideFactor }
func (s *SELLP[V, I]) TotalCols() int      { return s.totalCols }
func (s *SELLP[V, I]) SliceSets() []int    { return s.sliceSets }
func (s *SELLP[V, I]) SliceLengths() []int { return s.sliceLengths }
func (s *SELLP[V, I]) ColIdxs() []I        { return s.colIdxs.Slice() }
func (s *SELLP[V, I]) Values() []V         { return s.values.Slice() }

func (s *SELLP[V, I]) Apply(b, x *array.Array[V]) error {
	var one V = 1
	var zero V = 0
	return s.ApplyScaled(one, b, zero, x)
}

func (s *SELLP[V, I]) ApplyScaled(alpha V, b *array.Array[V], beta V, x *array.Array[V]) error {
	rows := s.size.Rows
	if b.Len() != s.size.Cols {
		return fmt.Errorf("matrix.SELLP.ApplyScaled: b length %d != cols %d: %w", b.Len(), s.size.Cols, kerrors.ErrDimensionMismatch)
	}
	if x.Len() != rows {
		return fmt.Errorf("matrix.SELLP.ApplyScaled: x length %d != rows %d: %w", x.Len(), rows, kerrors.ErrDimensionMismatch)
	}
	colIdxs, values := s.colIdxs.Slice(), s.values.Slice()
	bs, xs := b.Slice(), x.Slice()

	numSlices := len(s.sliceLengths)
	for sl := 0; sl < numSlices; sl++ {
		base := s.sliceSets[sl]
		width := s.sliceLengths[sl]
		for localR := 0; localR < s.sliceSize; localR++ {
			r := sl*s.sliceSize + localR
			if r >= rows {
				break
			}
			var acc V
			for k := 0; k < width; k++ {
				idx := base + k*s.sliceSize + localR
				v := values[idx]
				if v == 0 && int(colIdxs[idx]) == r {
					continue
				}
				acc += v * bs[colIdxs[idx]]
			}
			xs[r] = alpha*acc + beta*xs[r]
		}
	}
	return nil
}

// Transpose hub-converts through CSR: SELL-P's sliced layout has no
// transpose shortcut of its own.
func (s *SELLP[V, I]) Transpose() (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.Transpose()
}

func (s *SELLP[V, I]) ConjTranspose() (linop.LinOp[V, I], error) { return s.Transpose() }

func (s *SELLP[V, I]) RowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.RowPermute(p)
}

func (s *SELLP[V, I]) ColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.ColumnPermute(p)
}

func (s *SELLP[V, I]) InverseRowPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.InverseRowPermute(p)
}

func (s *SELLP[V, I]) InverseColumnPermute(p *linop.Permutation[I]) (linop.LinOp[V, I], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.InverseColumnPermute(p)
}

// ExtractDiagonal hub-converts through CSR to reuse its row-scan.
func (s *SELLP[V, I]) ExtractDiagonal() (*array.Array[V], error) {
	csr, err := hubCSR[V, I](s)
	if err != nil {
		return nil, err
	}
	return csr.ExtractDiagonal()
}

// ToCSR converts SELLP back to CSR, dropping padding entries, completing
// the two-phase size/fill round trip through the hub format.
func (s *SELLP[V, I]) ToCSR(strategy Strategy) (*CSR[V, I], error) {
	rows := s.size.Rows
	colIdxs, values := s.colIdxs.Slice(), s.values.Slice()

	rowPtrs := make([]I, rows+1)
	rowLenOf := func(r int) int {
		sl := r / s.sliceSize
		localR := r % s.sliceSize
		base := s.sliceSets[sl]
		width := s.sliceLengths[sl]
		count := 0
		for k := 0; k < width; k++ {
			idx := base + k*s.sliceSize + localR
			if values[idx] == 0 && int(colIdxs[idx]) == r {
				continue
			}
			count++
		}
		return count
	}
	for r := 0; r < rows; r++ {
		rowPtrs[r+1] = rowPtrs[r] + I(rowLenOf(r))
	}

	outCol := make([]I, rowPtrs[rows])
	outVal := make([]V, rowPtrs[rows])
	cursor := make([]I, rows)
	copy(cursor, rowPtrs[:rows])
	for r := 0; r < rows; r++ {
		sl := r / s.sliceSize
		localR := r % s.sliceSize
		base := s.sliceSets[sl]
		width := s.sliceLengths[sl]
		for k := 0; k < width; k++ {
			idx := base + k*s.sliceSize + localR
			if values[idx] == 0 && int(colIdxs[idx]) == r {
				continue
			}
			d := cursor[r]
			outCol[d] = colIdxs[idx]
			outVal[d] = values[idx]
			cursor[r]++
		}
	}
	return NewCSR[V, I](s.ex, rows, s.size.Cols, rowPtrs, outCol, outVal, strategy)
}
