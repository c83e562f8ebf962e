// Package memspace implements component A of the sparse-kernel core: typed
// memory spaces bound to a device, and the cross-space copy paths an
// Executor uses to move Array data between them. See types.go for the
// Space contract.
package memspace
