package matrix

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
	"github.com/sparsekernel/sparsekernel/linop"
)

// cloneArrayTo allocates a fresh Array of src's length on target and copies
// src's contents into it. CloneToExec has no error return in the
// PolymorphicObject contract, so an allocation or copy failure here panics
// rather than propagating — the same discipline Dense.At uses for
// conditions a correctly-constructed receiver should never hit.
func cloneArrayTo[T dim.Numeric](target exec.Executor, src *array.Array[T]) *array.Array[T] {
	dst, err := array.New[T](target, src.Len())
	if err != nil {
		panic(fmt.Sprintf("matrix: CloneToExec: %v", err))
	}
	if err := src.CopyTo(dst); err != nil {
		panic(fmt.Sprintf("matrix: CloneToExec: %v", err))
	}
	return dst
}

// pickCSRStrategy picks the Strategy a non-CSR format's hub conversion
// should use on its way into dst: dst's own strategy when dst is already a
// CSR, otherwise the classical default.
func pickCSRStrategy[V dim.Value, I dim.Index](dst linop.LinOp[V, I]) Strategy {
	if c, ok := dst.(*CSR[V, I]); ok {
		return c.strategy
	}
	return NewStrategy(Classical)
}

// CloneToExec returns a deep copy of c bound to target, copying values,
// colIdxs, and rowPtrs across memory spaces. The load-balance srow index is
// not copied; the clone has none until BuildSrow is called on it.
func (c *CSR[V, I]) CloneToExec(target exec.Executor) linop.LinOp[V, I] {
	return &CSR[V, I]{
		ex:       target,
		size:     c.size,
		values:   cloneArrayTo[V](target, c.values),
		colIdxs:  cloneArrayTo[I](target, c.colIdxs),
		rowPtrs:  cloneArrayTo[I](target, c.rowPtrs),
		strategy: c.strategy,
	}
}

// ConvertTo converts c's representation into dst in place, dispatching on
// dst's concrete format.
func (c *CSR[V, I]) ConvertTo(dst linop.LinOp[V, I]) error {
	return convertCSRInto(c, dst)
}

// CloneToExec returns a deep copy of m bound to target.
func (m *COO[V, I]) CloneToExec(target exec.Executor) linop.LinOp[V, I] {
	return &COO[V, I]{
		ex:      target,
		size:    m.size,
		values:  cloneArrayTo[V](target, m.values),
		rowIdxs: cloneArrayTo[I](target, m.rowIdxs),
		colIdxs: cloneArrayTo[I](target, m.colIdxs),
	}
}

// ConvertTo hub-converts m through CSR into dst's concrete format.
func (m *COO[V, I]) ConvertTo(dst linop.LinOp[V, I]) error {
	csr, err := m.ToCSR(pickCSRStrategy[V, I](dst))
	if err != nil {
		return err
	}
	return convertCSRInto(csr, dst)
}

// CloneToExec returns a deep copy of d bound to target.
func (d *Dense[V, I]) CloneToExec(target exec.Executor) linop.LinOp[V, I] {
	return &Dense[V, I]{
		ex:     target,
		size:   d.size,
		stride: d.stride,
		values: cloneArrayTo[V](target, d.values),
	}
}

// ConvertTo hub-converts d through CSR into dst's concrete format.
func (d *Dense[V, I]) ConvertTo(dst linop.LinOp[V, I]) error {
	csr, err := d.ToCSR(pickCSRStrategy[V, I](dst))
	if err != nil {
		return err
	}
	return convertCSRInto(csr, dst)
}

// CloneToExec returns a deep copy of e bound to target.
func (e *ELL[V, I]) CloneToExec(target exec.Executor) linop.LinOp[V, I] {
	return &ELL[V, I]{
		ex:           target,
		size:         e.size,
		stride:       e.stride,
		maxNNZPerRow: e.maxNNZPerRow,
		colIdxs:      cloneArrayTo[I](target, e.colIdxs),
		values:       cloneArrayTo[V](target, e.values),
	}
}

// ConvertTo hub-converts e through CSR into dst's concrete format.
func (e *ELL[V, I]) ConvertTo(dst linop.LinOp[V, I]) error {
	csr, err := e.ToCSR(pickCSRStrategy[V, I](dst))
	if err != nil {
		return err
	}
	return convertCSRInto(csr, dst)
}

// CloneToExec returns a deep copy of s bound to target.
func (s *SELLP[V, I]) CloneToExec(target exec.Executor) linop.LinOp[V, I] {
	return &SELLP[V, I]{
		ex:           target,
		size:         s.size,
		sliceSize:    s.sliceSize,
		strideFactor: s.strideFactor,
		totalCols:    s.totalCols,
		sliceSets:    append([]int(nil), s.sliceSets...),
		sliceLengths: append([]int(nil), s.sliceLengths...),
		colIdxs:      cloneArrayTo[I](target, s.colIdxs),
		values:       cloneArrayTo[V](target, s.values),
	}
}

// ConvertTo hub-converts s through CSR into dst's concrete format.
func (s *SELLP[V, I]) ConvertTo(dst linop.LinOp[V, I]) error {
	csr, err := s.ToCSR(pickCSRStrategy[V, I](dst))
	if err != nil {
		return err
	}
	return convertCSRInto(csr, dst)
}

// CloneToExec returns a deep copy of h bound to target, cloning both the
// ELL and COO parts.
func (h *Hybrid[V, I]) CloneToExec(target exec.Executor) linop.LinOp[V, I] {
	ell := h.ell.CloneToExec(target).(*ELL[V, I])
	coo := h.coo.CloneToExec(target).(*COO[V, I])
	return &Hybrid[V, I]{ex: target, size: h.size, ell: ell, coo: coo, strategy: h.strategy}
}

// ConvertTo hub-converts h through CSR into dst's concrete format.
func (h *Hybrid[V, I]) ConvertTo(dst linop.LinOp[V, I]) error {
	csr, err := h.ToCSR(pickCSRStrategy[V, I](dst))
	if err != nil {
		return err
	}
	return convertCSRInto(csr, dst)
}

// CloneToExec returns a deep copy of s bound to target.
func (s *SparsityCSR[V, I]) CloneToExec(target exec.Executor) linop.LinOp[V, I] {
	return &SparsityCSR[V, I]{
		ex:      target,
		size:    s.size,
		colIdxs: cloneArrayTo[I](target, s.colIdxs),
		rowPtrs: cloneArrayTo[I](target, s.rowPtrs),
		scalar:  s.scalar,
	}
}

// ConvertTo hub-converts s through CSR into dst's concrete format.
func (s *SparsityCSR[V, I]) ConvertTo(dst linop.LinOp[V, I]) error {
	csr, err := s.ToCSR(pickCSRStrategy[V, I](dst))
	if err != nil {
		return err
	}
	return convertCSRInto(csr, dst)
}
