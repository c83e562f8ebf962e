// SPDX-License-Identifier: MIT

// Package array implements Array[T], the owning 1-D buffer every matrix
// format's raw storage is built from, bound to an Executor. Array also
// offers View, a non-owning borrow used when a caller wants a kernel to
// operate on memory it does not want copied or freed.
//
// Invariant: every raw pointer surfaced to a kernel comes from an Array
// bound to the executing device. Array enforces this by refusing to hand
// back its backing bytes except through the package's own accessors, and by
// panicking (a programmer error, not a recoverable one) if asked to
// read/write past its Len.
package array

import (
	"fmt"

	"github.com/sparsekernel/sparsekernel/memspace"
)

// Numeric is the set of element types Array supports: the value types
// (float32, float64) and index types (int32, int64) matrix formats
// parameterize over.
type Numeric interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// Space is the subset of an exec.Executor an Array needs: a memory space to
// allocate in. Kept narrow here (rather than importing package exec, which
// imports array) to avoid an import cycle; exec.Executor satisfies it.
type Space interface {
	GetMemSpace() memspace.Space
}

// hostAddressable is satisfied by any Space that exposes its backing bytes
// directly, whether that space is true host memory (memspace.HostSpace) or
// an accelerator arena kept host-staged (memspace.cudaSpace, hipSpace):
// every allocating Space in this module's memspace package implements it.
type hostAddressable interface {
	Bytes(p memspace.Pointer) []byte
}

// Array is an owning, contiguous, typed buffer bound to the Executor it was
// allocated on. Its zero value is not usable; construct with New or View.
type Array[T Numeric] struct {
	exec    Space
	length  int
	ptr     memspace.Pointer
	owning  bool
	backing hostAddressable // set for any space exposing host-addressable bytes
}

// elemSize returns sizeof(T) in bytes without relying on unsafe.Sizeof on a
// generic zero value in a const context.
func elemSize[T Numeric]() uintptr {
	var z T
	switch any(z).(type) {
	case float32, int32:
		return 4
	case float64, int64:
		return 8
	default:
		return 8
	}
}

// New allocates an owning Array of length n on exec's memory space.
func New[T Numeric](exec Space, n int) (*Array[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("array.New: negative length %d", n)
	}
	space := exec.GetMemSpace()
	ptr, err := space.Allocate(uintptr(n) * elemSize[T]())
	if err != nil {
		return nil, err
	}
	return &Array[T]{exec: exec, length: n, ptr: ptr, owning: true, backing: hostBacking(space)}, nil
}

// View wraps a caller-supplied, already-allocated Pointer as a non-owning
// borrow: Free is a no-op and the Array must not outlive the allocation it
// borrows from — the caller must guarantee the view's lifetime does not
// exceed the source allocation.
func View[T Numeric](exec Space, n int, ptr memspace.Pointer) *Array[T] {
	return &Array[T]{exec: exec, length: n, ptr: ptr, owning: false, backing: hostBacking(exec.GetMemSpace())}
}

// hostBacking returns space's host-addressable accessor if it exposes one.
// This covers true host memory as well as the CUDA/HIP/UVM arenas, which
// this module keeps host-staged behind the same Bytes(Pointer) accessor
// rather than opaque device pointers; see memspace/arena.go.
func hostBacking(space memspace.Space) hostAddressable {
	if ha, ok := space.(hostAddressable); ok {
		return ha
	}
	return nil
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.length }

// Executor returns the Space (Executor) this Array is bound to.
func (a *Array[T]) Executor() Space { return a.exec }

// Pointer exposes the underlying memspace.Pointer, for Executor/kernel code
// in this module that needs to pass raw storage across package boundaries
// (e.g. matrix formats handing buffers to exec.Operation closures).
func (a *Array[T]) Pointer() memspace.Pointer { return a.ptr }

// IsOwning reports whether this Array frees its storage on Free.
func (a *Array[T]) IsOwning() bool { return a.owning }

// Free releases the backing storage if this Array owns it. Freeing a View
// or an already-freed Array is a no-op.
func (a *Array[T]) Free() {
	if a.owning && !a.ptr.IsNil() {
		a.exec.GetMemSpace().Free(a.ptr)
		a.ptr = memspace.Pointer{}
	}
}

// Slice returns the host-addressable contents as a Go slice of T. It works
// for any Array whose space exposes Bytes (Host and the CUDA, CUDA UVM and
// HIP arenas) and panics for a space that does not, such as the
// distributed marker.
func (a *Array[T]) Slice() []T {
	if a.backing == nil {
		panic("array: Slice called on a non-host-addressable Array; copy to host first")
	}
	raw := a.backing.Bytes(a.ptr)
	return bytesAsSlice[T](raw, a.length)
}

// CopyTo copies this Array's contents into dst, which must have the same
// Len and may be bound to a different Executor; the transport is chosen by
// the destination Executor's memory space via CopyFrom.
func (a *Array[T]) CopyTo(dst *Array[T]) error {
	if a.length != dst.length {
		return fmt.Errorf("array.CopyTo: length mismatch %d != %d", a.length, dst.length)
	}
	n := uintptr(a.length) * elemSize[T]()
	return dst.exec.GetMemSpace().CopyFrom(a.exec.GetMemSpace(), n, a.ptr, dst.ptr)
}
