package memspace

// HostSpace is ordinary process heap memory. It is the only Space every
// other variant can always stage a copy through.
type HostSpace struct {
	a *arena
}

// NewHost constructs a HostSpace.
func NewHost() *HostSpace {
	return &HostSpace{a: newArena(Host)}
}

func (s *HostSpace) Kind() Kind { return Host }

func (s *HostSpace) Allocate(bytes uintptr) (Pointer, error) {
	p, err := s.a.allocate(bytes)
	if err != nil {
		return Pointer{}, allocationError(Host, bytes, err)
	}
	return p, nil
}

func (s *HostSpace) Free(p Pointer) { s.a.free(p) }

// Bytes exposes the raw backing slice for a Pointer owned by this space.
// Kernels operating on the Host/Reference executor read and write through
// this accessor. It is not part of the Space interface; the CUDA and HIP
// spaces expose the same accessor, the distributed marker does not.
func (s *HostSpace) Bytes(p Pointer) []byte { return s.a.bytes(p) }

func (s *HostSpace) CopyFrom(srcSpace Space, n uintptr, src, dst Pointer) error {
	switch ss := srcSpace.(type) {
	case *HostSpace:
		copy(s.a.bytes(dst)[:n], ss.a.bytes(src)[:n])
		return nil
	case *cudaSpace:
		copy(s.a.bytes(dst)[:n], ss.a.bytes(src)[:n])
		return nil
	case *hipSpace:
		copy(s.a.bytes(dst)[:n], ss.a.bytes(src)[:n])
		return nil
	default:
		return copyViaHostStaging(srcSpace, s, n, src, dst)
	}
}
