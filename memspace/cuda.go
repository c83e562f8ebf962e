package memspace

// cudaSpace is memory resident on a single NVIDIA GPU, identified by its
// device id (multiple CUDAExecutors on the same device share the same
// device-level view but each owns its own Space instance here, mirroring
// one allocator per executor).
type cudaSpace struct {
	a        *arena
	deviceID int
	uvm      bool
}

// NewCUDADevice constructs a device-memory Space for the given device id.
func NewCUDADevice(deviceID int) Space {
	return &cudaSpace{a: newArena(CUDADevice), deviceID: deviceID}
}

// NewCUDAUVM constructs a unified-memory Space for the given device id;
// Pointers it returns are legal on both Host and the owning CUDADevice
// executor (see Compatible).
func NewCUDAUVM(deviceID int) Space {
	return &cudaSpace{a: newArena(CUDAUVM), deviceID: deviceID, uvm: true}
}

func (s *cudaSpace) Kind() Kind {
	if s.uvm {
		return CUDAUVM
	}
	return CUDADevice
}

func (s *cudaSpace) DeviceID() int { return s.deviceID }

func (s *cudaSpace) Allocate(bytes uintptr) (Pointer, error) {
	p, err := s.a.allocate(bytes)
	if err != nil {
		return Pointer{}, allocationError(s.Kind(), bytes, err)
	}
	return p, nil
}

func (s *cudaSpace) Free(p Pointer) { s.a.free(p) }

// Bytes exposes the host-staging bytes backing a Pointer; see arena's doc
// comment for why this module keeps accelerator buffers host-addressable.
func (s *cudaSpace) Bytes(p Pointer) []byte { return s.a.bytes(p) }

func (s *cudaSpace) CopyFrom(srcSpace Space, n uintptr, src, dst Pointer) error {
	switch ss := srcSpace.(type) {
	case *cudaSpace:
		copy(s.a.bytes(dst)[:n], ss.a.bytes(src)[:n])
		return nil
	case *HostSpace:
		copy(s.a.bytes(dst)[:n], ss.Bytes(src)[:n])
		return nil
	case *hipSpace:
		copy(s.a.bytes(dst)[:n], ss.a.bytes(src)[:n])
		return nil
	default:
		return copyViaHostStaging(srcSpace, s, n, src, dst)
	}
}
