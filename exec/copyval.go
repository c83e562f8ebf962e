package exec

import (
	"unsafe"

	"github.com/sparsekernel/sparsekernel/memspace"
)

// scalar is the set of element types CopyValToHost supports, mirroring
// array.Numeric without importing package array (which does not depend on
// exec, so this avoids a needless coupling in the other direction too).
type scalar interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// CopyValToHost reads a single value of type T out of ptr on e's memory
// space and returns it on the host. This is one of the two suspension
// points a caller sees, alongside Executor.Synchronize.
func CopyValToHost[T scalar](e Executor, ptr memspace.Pointer) (T, error) {
	var zero T
	size := unsafe.Sizeof(zero)

	host := memspace.NewHost()
	dst, err := host.Allocate(size)
	if err != nil {
		return zero, err
	}
	defer host.Free(dst)

	if err := host.CopyFrom(e.GetMemSpace(), size, ptr, dst); err != nil {
		return zero, err
	}

	raw := host.Bytes(dst)
	return *(*T)(unsafe.Pointer(&raw[0])), nil
}
