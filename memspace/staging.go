package memspace

import "github.com/pkg/errors"

var errNotAllocatable = errors.New("memspace: distributed marker space does not allocate")

// copyViaHostStaging implements the fallback transport path: choose the
// right path (host<->device, device<->device peer, or via host). When the
// source and destination Spaces have no direct case in their CopyFrom
// switches (e.g. a Space implemented outside this package), the bytes are
// staged through a transient host buffer. Every allocating Space this
// package ships exposes a Bytes(Pointer) []byte escape hatch precisely so
// this staging path can read/write across variants without a combinatorial
// blowup of pairwise cases.
func copyViaHostStaging(srcSpace, dstSpace Space, n uintptr, srcPtr, dstPtr Pointer) error {
	type byteAccessor interface {
		Bytes(Pointer) []byte
	}

	srcAcc, ok := srcSpace.(byteAccessor)
	if !ok {
		return errors.Wrapf(errNotAllocatable, "copy from %s: no host-staging accessor", srcSpace.Kind())
	}
	dstAcc, ok := dstSpace.(byteAccessor)
	if !ok {
		return errors.Wrapf(errNotAllocatable, "copy to %s: no host-staging accessor", dstSpace.Kind())
	}

	staged := make([]byte, n)
	copy(staged, srcAcc.Bytes(srcPtr)[:n])
	copy(dstAcc.Bytes(dstPtr)[:n], staged)
	return nil
}
