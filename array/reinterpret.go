package array

import "unsafe"

// bytesAsSlice reinterprets a host-addressable byte buffer as a typed slice
// of length n. raw must have been sized by elemSize[T]()*n when allocated:
// Array.New allocates exactly that much, while View does not check it and
// relies on its caller passing an n that fits the borrowed allocation.
func bytesAsSlice[T Numeric](raw []byte, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), n)
}
