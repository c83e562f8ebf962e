// SPDX-License-Identifier: MIT

// Package kerrors defines the sentinel error taxonomy shared across every
// package in this module. Every algorithm returns one of these sentinels
// (or wraps one with github.com/pkg/errors at a package boundary); callers
// match with errors.Is, never by string comparison.
//
// ERROR PRIORITY (documented convention; not checked by the tests):
// shape/bounds -> memory space -> allocation/kernel/mpi (fatal) -> value
// precondition violations.
package kerrors

import "errors"

var (
	// ErrNotImplemented indicates an operation-executor pair has no kernel.
	// Recoverable by the caller: it may retry on another executor or fall
	// back to a different strategy.
	ErrNotImplemented = errors.New("kerrors: operation not implemented for this executor")

	// ErrNotSupported indicates the operation cannot be performed on this
	// object at all (e.g. a distributed-only construction requested on a
	// non-distributed executor).
	ErrNotSupported = errors.New("kerrors: operation not supported on this object")

	// ErrDimensionMismatch indicates incompatible sizes between operands.
	ErrDimensionMismatch = errors.New("kerrors: dimension mismatch")

	// ErrStrideMismatch indicates a Dense stride incompatible with its
	// column count (stride must be >= cols).
	ErrStrideMismatch = errors.New("kerrors: stride mismatch")

	// ErrOutOfBounds indicates an index or size exceeds an allocation.
	ErrOutOfBounds = errors.New("kerrors: index or size out of bounds")

	// ErrAllocationFailed indicates a memory space refused an allocation.
	ErrAllocationFailed = errors.New("kerrors: allocation failed")

	// ErrMemorySpaceMismatch indicates an object lives on a memory space
	// incompatible with the requested executor.
	ErrMemorySpaceMismatch = errors.New("kerrors: memory space mismatch")

	// ErrKernelLaunch indicates a device kernel returned an error code.
	ErrKernelLaunch = errors.New("kerrors: kernel launch failed")

	// ErrMpi indicates an MPI-style collective returned a non-zero status.
	ErrMpi = errors.New("kerrors: collective operation failed")

	// ErrValueMismatch indicates a data precondition was violated, e.g. a
	// non-monotonic row_ptrs array encountered during a read, or COO rows
	// that are not sorted non-decreasing.
	ErrValueMismatch = errors.New("kerrors: value precondition violated")
)
