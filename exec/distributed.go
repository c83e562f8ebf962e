package exec

import "github.com/sparsekernel/sparsekernel/memspace"

// Communicator is the minimal identity surface a DistributedExecutor needs
// from its collective-communication layer. package distmatrix defines the
// full collective surface (AllGather, AllReduce, ...); any type satisfying
// just Rank/Size here (duck-typed, no explicit dependency) can back a
// DistributedExecutor without exec importing distmatrix.
type Communicator interface {
	Rank() int
	Size() int
}

// DistributedExecutor owns a communicator and the sub-executor backing
// this rank's local computation: one communicator plus one sub-executor
// per rank.
type DistributedExecutor struct {
	base
	communicator Communicator
	sub          Executor
}

// CreateDistributed builds a DistributedExecutor for this rank: comm
// identifies this rank's place in the group, sub is the local executor
// this rank computes on.
func CreateDistributed(comm Communicator, sub Executor) *DistributedExecutor {
	return &DistributedExecutor{
		base:         newBase(Distributed, memspace.NewDistributedMarker()),
		communicator: comm,
		sub:          sub,
	}
}

func (d *DistributedExecutor) Communicator() Communicator { return d.communicator }

func (d *DistributedExecutor) Run(op *Operation) error { return runOn(d.kind, d.id, op) }

func (d *DistributedExecutor) RunClosures(host, distributed, cuda, hip func() error) error {
	return runClosuresOn(d, host, distributed, cuda, hip)
}

func (d *DistributedExecutor) GetMaster() Executor      { return d.sub.GetMaster() }
func (d *DistributedExecutor) GetSubExecutor() Executor { return d.sub }
func (d *DistributedExecutor) Synchronize() error       { return d.sub.Synchronize() }
