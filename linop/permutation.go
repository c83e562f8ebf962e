package linop

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/kerrors"
)

// Mask selects which of a matrix's axes a Permutation applies to: row,
// column, both, or neither.
type Mask int

const (
	MaskNone Mask = iota
	MaskRow
	MaskColumn
	MaskRowAndColumn
)

func (m Mask) String() string {
	switch m {
	case MaskNone:
		return "none"
	case MaskRow:
		return "row"
	case MaskColumn:
		return "column"
	case MaskRowAndColumn:
		return "row∧column"
	default:
		return fmt.Sprintf("Mask(%d)", int(m))
	}
}

// Permutation is an index array plus the axis mask it applies to.
// Indices[i] is the source position that ends up at destination position i.
type Permutation[I dim.Index] struct {
	Indices []I
	Mask    Mask
}

// New validates indices as a permutation of [0, len(indices)) and returns a
// Permutation over them bound to mask.
func New[I dim.Index](indices []I, mask Mask) (*Permutation[I], error) {
	n := len(indices)
	seen := make([]bool, n)
	for _, idx := range indices {
		i := int(idx)
		if i < 0 || i >= n {
			return nil, fmt.Errorf("linop.New: index %d out of bounds [0,%d): %w", i, n, kerrors.ErrOutOfBounds)
		}
		if seen[i] {
			return nil, fmt.Errorf("linop.New: index %d repeated, not a permutation: %w", i, kerrors.ErrValueMismatch)
		}
		seen[i] = true
	}
	cp := make([]I, n)
	copy(cp, indices)
	return &Permutation[I]{Indices: cp, Mask: mask}, nil
}

// Len returns the permutation's size.
func (p *Permutation[I]) Len() int { return len(p.Indices) }

// Inverse returns P^-1, satisfying P ∘ P^-1 = I.
func (p *Permutation[I]) Inverse() *Permutation[I] {
	inv := make([]I, len(p.Indices))
	for dst, src := range p.Indices {
		inv[int(src)] = I(dst)
	}
	return &Permutation[I]{Indices: inv, Mask: p.Mask}
}

// Apply writes dst[i] = src[p.Indices[i]] for every i, permuting src's
// elements into dst according to the receiver. dst and src must have equal
// length, which must equal the permutation's length.
func Apply[T any, I dim.Index](p *Permutation[I], src, dst []T) error {
	if len(src) != len(dst) || len(src) != p.Len() {
		return fmt.Errorf("linop.Apply: length mismatch src=%d dst=%d perm=%d: %w", len(src), len(dst), p.Len(), kerrors.ErrDimensionMismatch)
	}
	for i, srcIdx := range p.Indices {
		dst[i] = src[int(srcIdx)]
	}
	return nil
}
