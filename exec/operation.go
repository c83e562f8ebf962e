package exec

import "github.com/google/uuid"

// Operation is a named bundle of captured arguments realized as one kernel
// closure per executor variant: each operation declares one entry point per
// executor variant and the executor chooses one. It is the Go realization
// of Ginkgo's Operation double-dispatch: a tagged union plus a switch in
// Executor.Run, rather than a virtual method table.
type Operation struct {
	Name string
	id   uuid.UUID

	hostFn        func() error
	referenceFn   func() error
	cudaFn        func() error
	hipFn         func() error
	distributedFn func() error
}

// OpOption attaches one executor variant's kernel entry point to an
// Operation under construction.
type OpOption func(*Operation)

// WithHost attaches the Host entry point.
func WithHost(fn func() error) OpOption { return func(o *Operation) { o.hostFn = fn } }

// WithReference attaches the Reference entry point. If left unset, Run falls
// back to the Host entry point.
func WithReference(fn func() error) OpOption { return func(o *Operation) { o.referenceFn = fn } }

// WithCUDA attaches the CUDA entry point.
func WithCUDA(fn func() error) OpOption { return func(o *Operation) { o.cudaFn = fn } }

// WithHIP attaches the HIP entry point.
func WithHIP(fn func() error) OpOption { return func(o *Operation) { o.hipFn = fn } }

// WithDistributed attaches the Distributed entry point.
func WithDistributed(fn func() error) OpOption { return func(o *Operation) { o.distributedFn = fn } }

// NewOperation builds an Operation named name with the given per-variant
// kernel entry points. A nil entry point for a variant is legal: running the
// Operation on that variant returns kerrors.ErrNotImplemented.
func NewOperation(name string, opts ...OpOption) *Operation {
	op := &Operation{Name: name, id: uuid.New()}
	for _, opt := range opts {
		if opt != nil {
			opt(op)
		}
	}
	return op
}

// entryPoint returns the kernel closure bound for kind, or nil.
func (o *Operation) entryPoint(kind Kind) func() error {
	switch kind {
	case Host:
		return o.hostFn
	case Reference:
		return o.referenceFn
	case CUDA:
		return o.cudaFn
	case HIP:
		return o.hipFn
	case Distributed:
		return o.distributedFn
	default:
		return nil
	}
}
