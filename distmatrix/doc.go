// SPDX-License-Identifier: MIT

// Package distmatrix implements row-partitioned distributed matrices and
// the collective-communication seam their apply gathers right-hand sides
// through.
//
// Communicator is the interface a real MPI binding would attach to.
// LocalCommunicator, an in-process goroutine/channel-backed
// implementation, is both the reference and the only implementation
// provided here.
package distmatrix
