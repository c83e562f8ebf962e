package exec

import (
	"k8s.io/klog/v2"

	"github.com/sparsekernel/sparsekernel/memspace"
)

// DeviceProperties carries the accelerator properties CUDA/HIP executors
// expose for the automatic CSR strategy's tie-break: warp size,
// multiprocessor count, and a nominal warps-per-multiprocessor occupancy
// figure.
type DeviceProperties struct {
	DeviceID            int
	WarpSize            int
	MultiprocessorCount int
	WarpsPerMP          int
}

// CUDAExecutor is an NVIDIA GPU executor. Kernel launches are asynchronous;
// Synchronize blocks until all submitted work completes.
type CUDAExecutor struct {
	base
	master      Executor
	props       DeviceProperties
	handles     *HandleManager
	resetOnLast bool
}

// CreateCUDA builds a CUDA executor for deviceID. master backs GetMaster();
// memSpace defaults to device memory but may be overridden to UVM via
// WithCUDAMemSpace.
func CreateCUDA(deviceID int, master Executor, opts ...CUDAOption) *CUDAExecutor {
	cfg := cudaConfig{memSpace: memspace.NewCUDADevice(deviceID), props: defaultCUDAProps(deviceID)}
	for _, o := range opts {
		o(&cfg)
	}
	e := &CUDAExecutor{
		base:        newBase(CUDA, cfg.memSpace),
		master:      master,
		props:       cfg.props,
		handles:     NewHandleManager(deviceID),
		resetOnLast: cfg.resetOnLast,
	}
	globalDeviceReset.register(deviceID, cfg.resetOnLast)
	return e
}

// CUDAOption configures CreateCUDA.
type CUDAOption func(*cudaConfig)

type cudaConfig struct {
	memSpace    memspace.Space
	props       DeviceProperties
	resetOnLast bool
}

// WithCUDAMemSpace overrides the default device-memory space, e.g. to pass
// a UVM space.
func WithCUDAMemSpace(space memspace.Space) CUDAOption {
	return func(c *cudaConfig) { c.memSpace = space }
}

// WithCUDADeviceReset arms the device-reset-on-last-destroy behavior.
func WithCUDADeviceReset() CUDAOption {
	return func(c *cudaConfig) { c.resetOnLast = true }
}

// WithCUDAProperties overrides the detected device properties (for tests
// that need deterministic warp/SM counts).
func WithCUDAProperties(props DeviceProperties) CUDAOption {
	return func(c *cudaConfig) { c.props = props }
}

func defaultCUDAProps(deviceID int) DeviceProperties {
	return DeviceProperties{DeviceID: deviceID, WarpSize: 32, MultiprocessorCount: 1, WarpsPerMP: 64}
}

func (e *CUDAExecutor) Properties() DeviceProperties { return e.props }
func (e *CUDAExecutor) Handles() *HandleManager       { return e.handles }

func (e *CUDAExecutor) Run(op *Operation) error { return runOn(e.kind, e.id, op) }

func (e *CUDAExecutor) RunClosures(host, distributed, cuda, hip func() error) error {
	return runClosuresOn(e, host, distributed, cuda, hip)
}

func (e *CUDAExecutor) GetMaster() Executor      { return e.master }
func (e *CUDAExecutor) GetSubExecutor() Executor { return nil }

// Synchronize blocks until submitted kernels complete. There is no real
// device queue behind this host-side binding, so this is a no-op that
// exists to preserve the ordering contract call sites rely on.
func (e *CUDAExecutor) Synchronize() error { return nil }

// Destroy unregisters this executor from the device-reset bookkeeping,
// firing the reset callback if it was the last live executor on its device
// and reset-on-last was requested.
func (e *CUDAExecutor) Destroy() {
	e.handles.Close()
	globalDeviceReset.unregister(e.props.DeviceID, func() {
		klog.V(2).InfoS("cuda device reset fired", "device", e.props.DeviceID)
	})
}
