// SPDX-License-Identifier: MIT

// Package exec implements the Executor abstraction that routes an
// Operation to a device-specific kernel, owns per-device resources, and the
// Operation dispatch mechanism itself.
//
// Concurrency: an Executor's handles are not thread-safe; callers must
// serialize operations on a given Executor unless documented otherwise.
// Operations submitted to a single Executor in program order observe each
// other's effects in program order; crossing Executors requires an explicit
// Synchronize on the producing Executor before any cross-space copy.
package exec

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/sparsekernel/sparsekernel/kerrors"
	"github.com/sparsekernel/sparsekernel/memspace"
)

// Kind identifies an Executor variant, used both for Operation dispatch and
// for log correlation.
type Kind int

const (
	Host Kind = iota
	Reference
	CUDA
	HIP
	Distributed
)

func (k Kind) String() string {
	switch k {
	case Host:
		return "host"
	case Reference:
		return "reference"
	case CUDA:
		return "cuda"
	case HIP:
		return "hip"
	case Distributed:
		return "distributed"
	default:
		return "unknown"
	}
}

// Executor is the device-identity and dispatch contract every concrete
// executor variant implements.
type Executor interface {
	// ID is a stable correlation id for log lines spanning this executor's
	// lifetime.
	ID() uuid.UUID

	// Kind reports which variant this Executor implements.
	Kind() Kind

	// Run dispatches op to the kernel entry point matching this Executor's
	// Kind. Returns kerrors.ErrNotImplemented if op has no matching entry
	// point (Reference falls back to the Host entry point).
	Run(op *Operation) error

	// RunClosures is the convenience lambda form: it builds a throwaway
	// Operation from the four closures and runs it.
	RunClosures(host, distributed, cuda, hip func() error) error

	// GetMaster returns the host Executor backing this one (itself, for
	// Host/Reference executors).
	GetMaster() Executor

	// GetSubExecutor returns the per-rank local executor for a Distributed
	// executor, or nil for every other variant.
	GetSubExecutor() Executor

	// GetMemSpace returns the memory space this Executor allocates from.
	GetMemSpace() memspace.Space

	// Synchronize blocks until all work submitted to this Executor has
	// completed; it is the only suspension point a caller sees besides a
	// host-readback copy.
	Synchronize() error

	// Copy moves n bytes between two Pointers addressable from this
	// Executor's memory space.
	Copy(n uintptr, src, dst memspace.Pointer) error
}

// base holds the fields every concrete Executor shares.
type base struct {
	id    uuid.UUID
	kind  Kind
	space memspace.Space
}

func newBase(kind Kind, space memspace.Space) base {
	return base{id: uuid.New(), kind: kind, space: space}
}

func (b base) ID() uuid.UUID            { return b.id }
func (b base) Kind() Kind               { return b.kind }
func (b base) GetMemSpace() memspace.Space { return b.space }

func (b base) Copy(n uintptr, src, dst memspace.Pointer) error {
	if err := b.space.CopyFrom(b.space, n, src, dst); err != nil {
		return errors.Wrapf(err, "exec: copy %d bytes on %s executor %s", n, b.kind, b.id)
	}
	return nil
}

// runOn is the shared dispatch body: pick the kernel for kind, log
// launch/completion, and surface kerrors.ErrNotImplemented when absent.
func runOn(kind Kind, id uuid.UUID, op *Operation) error {
	fn := op.entryPoint(kind)
	if fn == nil && kind == Reference {
		fn = op.entryPoint(Host) // Reference defaults to Host
	}
	if fn == nil {
		klog.V(2).InfoS("operation dispatch: no kernel", "op", op.Name, "opID", op.id, "executor", id, "kind", kind)
		return errors.Wrapf(kerrors.ErrNotImplemented, "operation %q has no %s kernel", op.Name, kind)
	}

	klog.V(4).InfoS("operation launch", "op", op.Name, "opID", op.id, "executor", id, "kind", kind)
	err := fn()
	if err != nil {
		klog.ErrorS(err, "operation launch failed", "op", op.Name, "opID", op.id, "executor", id, "kind", kind)
		return err
	}
	klog.V(4).InfoS("operation completion", "op", op.Name, "opID", op.id, "executor", id, "kind", kind)
	return nil
}

// runClosuresOn builds a throwaway Operation out of the four closures and
// runs it, backing Executor.RunClosures for every concrete variant.
func runClosuresOn(e Executor, host, distributed, cuda, hip func() error) error {
	op := NewOperation(fmt.Sprintf("closure@%s", e.Kind()),
		WithHost(host), WithDistributed(distributed), WithCUDA(cuda), WithHIP(hip))
	return e.Run(op)
}
