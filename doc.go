// Package sparsekernel is a from-scratch sparse linear algebra engine:
// executor-dispatched dense and sparse matrix formats, an SpGEMM multi-way
// merge engine, a row-partitioned distributed matrix layer, and a set of
// preconditioner cores, all parametrized over float32/float64 values and
// int32/int64 indices.
//
// Subpackages:
//
//	dim/        — shared numeric type-parameter constraints (Value, Index)
//	kerrors/    — sentinel error taxonomy shared across every package
//	memspace/   — memory space abstraction (host, CUDA device/UVM, HIP, distributed)
//	array/      — generic owning buffer and borrowed view, bound to an executor
//	exec/       — executor dispatch, BLAS/SPARSE handle management
//	linop/      — linear operator interfaces and permutations
//	matrix/     — Dense, CSR, COO, ELL, SELL-P, Hybrid, SparsityCSR formats
//	spgemm/     — sparse matrix-matrix multiplication via heap-based merge
//	distmatrix/ — row-partitioned distributed matrix and collective communication
//	precond/    — Block Jacobi, ISAI and ILU/ParILU preconditioner cores
//
// None of these packages depends on a GPU or MPI runtime: every executor
// variant that would dispatch to one is represented, but the reference
// executor backing the tests runs entirely on the host.
package sparsekernel
