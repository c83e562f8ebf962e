package memspace

// distributedSpace is the marker variant of memory space: it never
// allocates on its own behalf. A DistributedExecutor delegates all
// allocation to its sub-executor's Space and only uses this marker to
// identify itself to Compatible checks during construction.
type distributedSpace struct{}

// NewDistributedMarker constructs the Distributed marker Space.
func NewDistributedMarker() Space { return distributedSpace{} }

func (distributedSpace) Kind() Kind { return DistributedMarker }

func (distributedSpace) Allocate(bytes uintptr) (Pointer, error) {
	return Pointer{}, allocationError(DistributedMarker, bytes, errNotAllocatable)
}

func (distributedSpace) Free(Pointer) {}

func (distributedSpace) CopyFrom(Space, uintptr, Pointer, Pointer) error {
	return errNotAllocatable
}
