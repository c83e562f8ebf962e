package exec

import (
	"sync"

	"k8s.io/klog/v2"
)

// deviceResetRegistry tracks, per physical device id, how many live
// accelerator Executors were constructed with reset-on-last-destroy
// enabled, and how many are still live: a global per-device counter that
// triggers a device reset after the last one is destroyed. This adapts
// Ginkgo's EnableDeviceReset mixin (device_reset_ bool + set/get_device_reset)
// into a package-level registry, since Go has no CRTP mixin to attach the
// bookkeeping to.
type deviceResetRegistry struct {
	mu    sync.Mutex
	live  map[int]int
	armed map[int]bool
}

var globalDeviceReset = &deviceResetRegistry{
	live:  make(map[int]int),
	armed: make(map[int]bool),
}

// register marks one more live executor on deviceID; if resetOnLast is true
// for any executor registered on this device, the registry arms the reset
// callback for when the live count returns to zero.
func (r *deviceResetRegistry) register(deviceID int, resetOnLast bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[deviceID]++
	if resetOnLast {
		r.armed[deviceID] = true
	}
}

// unregister marks one fewer live executor on deviceID and fires reset
// exactly once, the moment the live count reaches zero, if armed.
func (r *deviceResetRegistry) unregister(deviceID int, reset func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[deviceID]--
	if r.live[deviceID] > 0 {
		return
	}
	delete(r.live, deviceID)
	if r.armed[deviceID] {
		delete(r.armed, deviceID)
		if reset != nil {
			klog.V(2).InfoS("device reset: last executor destroyed, resetting", "device", deviceID)
			reset()
		}
	}
}
