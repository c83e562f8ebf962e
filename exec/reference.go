package exec

import "github.com/sparsekernel/sparsekernel/memspace"

// ReferenceExecutor is the simple, unoptimized host implementation used as
// the correctness oracle for tests. It is single-threaded by convention
// (kernels bound to it should avoid parallelism) and falls back to an
// Operation's Host entry point when no Reference-specific entry point was
// supplied.
type ReferenceExecutor struct {
	base
}

// CreateReference builds a ReferenceExecutor.
func CreateReference() *ReferenceExecutor {
	return &ReferenceExecutor{base: newBase(Reference, memspace.NewHost())}
}

func (r *ReferenceExecutor) Run(op *Operation) error { return runOn(r.kind, r.id, op) }

func (r *ReferenceExecutor) RunClosures(host, distributed, cuda, hip func() error) error {
	return runClosuresOn(r, host, distributed, cuda, hip)
}

func (r *ReferenceExecutor) GetMaster() Executor      { return r }
func (r *ReferenceExecutor) GetSubExecutor() Executor { return nil }
func (r *ReferenceExecutor) Synchronize() error       { return nil }
