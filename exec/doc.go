// Package exec implements components B (Executor) and I (Operation
// dispatch) of the sparse-kernel core. See executor.go for the Executor
// contract and operation.go for Operation.
package exec
