package distmatrix

import "github.com/sparsekernel/sparsekernel/dim"

// Communicator is the collective-communication contract a distributed
// matrix's apply, gather, and norm/dot reductions drive: gather, reduce,
// and all-reduce operations participating in apply. It is generic over the
// value type V its payloads carry.
//
// Rank/Size alone (no type parameter) is exposed separately so
// exec.Communicator can be satisfied structurally by any Communicator[V]
// without exec importing this package.
type Communicator[V dim.Value] interface {
	Rank() int
	Size() int

	// AllGather concatenates every rank's local slice, in rank order, and
	// returns the same concatenation to every rank.
	AllGather(local []V) ([]V, error)

	// AllReduceSum, AllReduceMin, AllReduceMax elementwise-combine every
	// rank's local slice (which must be the same length on every rank) and
	// return the combined slice to every rank.
	AllReduceSum(local []V) ([]V, error)
	AllReduceMin(local []V) ([]V, error)
	AllReduceMax(local []V) ([]V, error)

	// Gatherv concatenates every rank's local slice (lengths may differ) to
	// root; non-root callers receive a nil slice and a nil counts slice.
	// counts[r] is the length rank r contributed, valid on root only.
	Gatherv(local []V, root int) (data []V, counts []int, err error)

	// Scatterv is Gatherv's inverse: root provides the full send buffer
	// plus each rank's count; every rank (including root) receives its
	// own slice. Non-root callers' send/counts arguments are ignored.
	Scatterv(send []V, counts []int, root int) ([]V, error)

	// SendRecv exchanges local with the given peer rank: it sends local to
	// dest and returns whatever was sent to the caller's own rank by src.
	SendRecv(local []V, dest, src int) ([]V, error)
}
