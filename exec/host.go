package exec

import "github.com/sparsekernel/sparsekernel/memspace"

// HostExecutor is ordinary multi-core host execution: operations may run
// single-threaded or thread-parallel, at the kernel's discretion.
type HostExecutor struct {
	base
}

// CreateHost builds a HostExecutor.
func CreateHost() *HostExecutor {
	return &HostExecutor{base: newBase(Host, memspace.NewHost())}
}

func (h *HostExecutor) Run(op *Operation) error { return runOn(h.kind, h.id, op) }

func (h *HostExecutor) RunClosures(host, distributed, cuda, hip func() error) error {
	return runClosuresOn(h, host, distributed, cuda, hip)
}

func (h *HostExecutor) GetMaster() Executor      { return h }
func (h *HostExecutor) GetSubExecutor() Executor { return nil }
func (h *HostExecutor) Synchronize() error       { return nil }
