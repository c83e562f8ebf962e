// SPDX-License-Identifier: MIT

// Package memspace models the typed memory spaces backing Executors and
// Arrays. A Space allocates/frees raw byte buffers and moves bytes between
// spaces; it never interprets those bytes. Crossing a space boundary
// (host<->device, device<->device) always goes through Space.CopyFrom,
// which picks the right transport for the pair involved.
package memspace

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/sparsekernel/sparsekernel/kerrors"
)

// Pointer is an opaque handle to a block of memory owned by a Space. It is
// comparable so it can be used as a map key or for nil checks, but it does
// not expose raw bytes to callers outside this package and its Executor
// collaborators.
type Pointer struct {
	space Kind
	id    uintptr // allocator-assigned handle from the owning arena's counter (never 0)
	size  uintptr
}

// IsNil reports whether p is the zero Pointer (no allocation backs it).
func (p Pointer) IsNil() bool { return p.id == 0 && p.size == 0 }

// Size returns the number of bytes this Pointer spans.
func (p Pointer) Size() uintptr { return p.size }

// Kind identifies a memory space variant.
type Kind int

const (
	// Host is ordinary process heap memory.
	Host Kind = iota
	// CUDADevice is memory resident on an NVIDIA GPU.
	CUDADevice
	// CUDAUVM is NVIDIA unified (managed) memory, host- and device-visible.
	CUDAUVM
	// HIPDevice is memory resident on an AMD GPU.
	HIPDevice
	// DistributedMarker tags a space as belonging to a distributed executor;
	// it never allocates directly.
	DistributedMarker
)

func (k Kind) String() string {
	switch k {
	case Host:
		return "host"
	case CUDADevice:
		return "cuda"
	case CUDAUVM:
		return "cuda-uvm"
	case HIPDevice:
		return "hip"
	case DistributedMarker:
		return "distributed"
	default:
		return "unknown"
	}
}

// Space allocates, frees, and transports bytes for a single memory-space
// variant. Implementations must be safe to call from the single executor
// thread that owns them; Space itself is not required to be safe for
// concurrent use from multiple goroutines — that discipline is the
// Executor's responsibility.
type Space interface {
	// Kind reports which variant this Space implements.
	Kind() Kind

	// Allocate reserves bytes contiguous bytes and returns a Pointer to them.
	// Returns kerrors.ErrAllocationFailed (wrapped with the requested size)
	// if the space cannot satisfy the request.
	Allocate(bytes uintptr) (Pointer, error)

	// Free releases a Pointer previously returned by Allocate. Freeing the
	// zero Pointer is a no-op.
	Free(p Pointer)

	// CopyFrom copies n bytes from src (owned by srcSpace) into dst (owned
	// by this Space), choosing host-staging automatically when the two
	// spaces cannot address each other directly.
	CopyFrom(srcSpace Space, n uintptr, src, dst Pointer) error
}

// Compatible reports whether data on srcKind can be consumed directly by an
// executor bound to dstKind, i.e. whether a cross-space copy is legal at
// all. Every pair is legal for CopyFrom (it stages through host when
// needed); Compatible instead answers the narrower "same address space, no
// copy needed" question. No Executor constructor in this module calls it,
// and nothing here returns kerrors.ErrMemorySpaceMismatch.
func Compatible(objectKind, executorKind Kind) bool {
	if objectKind == executorKind {
		return true
	}
	// CUDA UVM pointers are valid on both the host and the owning CUDA device.
	if objectKind == CUDAUVM && (executorKind == Host || executorKind == CUDADevice) {
		return true
	}
	return false
}

// allocationError builds the wrapped, human-readable allocation failure
// message: "allocation failure (fatal)".
func allocationError(kind Kind, bytes uintptr, cause error) error {
	msg := fmt.Sprintf("%s space: failed to allocate %s", kind, humanize.Bytes(uint64(bytes)))
	if cause != nil && cause != kerrors.ErrAllocationFailed {
		return fmt.Errorf("%s: %w: %w", msg, kerrors.ErrAllocationFailed, cause)
	}
	return fmt.Errorf("%s: %w", msg, kerrors.ErrAllocationFailed)
}
