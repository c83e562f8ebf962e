package memspace

// hipSpace is memory resident on a single AMD GPU, identified by device id.
type hipSpace struct {
	a        *arena
	deviceID int
}

// NewHIPDevice constructs a device-memory Space for the given device id.
func NewHIPDevice(deviceID int) Space {
	return &hipSpace{a: newArena(HIPDevice), deviceID: deviceID}
}

func (s *hipSpace) Kind() Kind     { return HIPDevice }
func (s *hipSpace) DeviceID() int  { return s.deviceID }
func (s *hipSpace) Bytes(p Pointer) []byte { return s.a.bytes(p) }

func (s *hipSpace) Allocate(bytes uintptr) (Pointer, error) {
	p, err := s.a.allocate(bytes)
	if err != nil {
		return Pointer{}, allocationError(HIPDevice, bytes, err)
	}
	return p, nil
}

func (s *hipSpace) Free(p Pointer) { s.a.free(p) }

func (s *hipSpace) CopyFrom(srcSpace Space, n uintptr, src, dst Pointer) error {
	switch ss := srcSpace.(type) {
	case *hipSpace:
		copy(s.a.bytes(dst)[:n], ss.a.bytes(src)[:n])
		return nil
	case *HostSpace:
		copy(s.a.bytes(dst)[:n], ss.Bytes(src)[:n])
		return nil
	case *cudaSpace:
		copy(s.a.bytes(dst)[:n], ss.a.bytes(src)[:n])
		return nil
	default:
		return copyViaHostStaging(srcSpace, s, n, src, dst)
	}
}
