package exec

import "sync"

// HandleManager owns the BLAS/SPARSE vendor-library handles a single
// accelerator Executor holds. Handles are owned by one executor instance
// and may not be used concurrently from multiple host threads, so every
// access goes through a mutex scoped to this manager rather than a global
// one.
type HandleManager struct {
	mu         sync.Mutex
	deviceID   int
	blasOpen   bool
	sparseOpen bool
}

// NewHandleManager constructs a handle manager for deviceID. Handles open
// lazily on first use (BLAS/Sparse) and close together via Close.
func NewHandleManager(deviceID int) *HandleManager {
	return &HandleManager{deviceID: deviceID}
}

// WithBLAS serializes access to the BLAS handle around fn, opening the
// handle on first use.
func (h *HandleManager) WithBLAS(fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blasOpen = true
	return fn()
}

// WithSparse serializes access to the SPARSE handle around fn, opening the
// handle on first use.
func (h *HandleManager) WithSparse(fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sparseOpen = true
	return fn()
}

// Close releases both handles. Safe to call multiple times.
func (h *HandleManager) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blasOpen = false
	h.sparseOpen = false
}
