package exec

import (
	"k8s.io/klog/v2"

	"github.com/sparsekernel/sparsekernel/memspace"
)

// HIPExecutor is an AMD GPU executor; see CUDAExecutor for the shared
// contract, which treats CUDA and HIP symmetrically.
type HIPExecutor struct {
	base
	master      Executor
	props       DeviceProperties
	handles     *HandleManager
	resetOnLast bool
}

// CreateHIP builds a HIP executor for deviceID, mirroring CreateCUDA.
func CreateHIP(deviceID int, master Executor, opts ...HIPOption) *HIPExecutor {
	cfg := hipConfig{memSpace: memspace.NewHIPDevice(deviceID), props: defaultCUDAProps(deviceID)}
	for _, o := range opts {
		o(&cfg)
	}
	e := &HIPExecutor{
		base:        newBase(HIP, cfg.memSpace),
		master:      master,
		props:       cfg.props,
		handles:     NewHandleManager(deviceID),
		resetOnLast: cfg.resetOnLast,
	}
	globalDeviceReset.register(deviceID, cfg.resetOnLast)
	return e
}

// HIPOption configures CreateHIP.
type HIPOption func(*hipConfig)

type hipConfig struct {
	memSpace    memspace.Space
	props       DeviceProperties
	resetOnLast bool
}

// WithHIPMemSpace overrides the default device-memory space.
func WithHIPMemSpace(space memspace.Space) HIPOption {
	return func(c *hipConfig) { c.memSpace = space }
}

// WithHIPDeviceReset arms the device-reset-on-last-destroy behavior.
func WithHIPDeviceReset() HIPOption {
	return func(c *hipConfig) { c.resetOnLast = true }
}

// WithHIPProperties overrides the detected device properties.
func WithHIPProperties(props DeviceProperties) HIPOption {
	return func(c *hipConfig) { c.props = props }
}

func (e *HIPExecutor) Properties() DeviceProperties { return e.props }
func (e *HIPExecutor) Handles() *HandleManager       { return e.handles }

func (e *HIPExecutor) Run(op *Operation) error { return runOn(e.kind, e.id, op) }

func (e *HIPExecutor) RunClosures(host, distributed, cuda, hip func() error) error {
	return runClosuresOn(e, host, distributed, cuda, hip)
}

func (e *HIPExecutor) GetMaster() Executor      { return e.master }
func (e *HIPExecutor) GetSubExecutor() Executor { return nil }
func (e *HIPExecutor) Synchronize() error       { return nil }

// Destroy unregisters this executor from the device-reset bookkeeping.
func (e *HIPExecutor) Destroy() {
	e.handles.Close()
	globalDeviceReset.unregister(e.props.DeviceID, func() {
		klog.V(2).InfoS("hip device reset fired", "device", e.props.DeviceID)
	})
}
