// SPDX-License-Identifier: MIT

// Package precond implements format-aware preconditioner cores — block
// Jacobi, ISAI, and ILU/ParILU. The surrounding solver driver that decides
// when and how often to apply a preconditioner is an external collaborator;
// the core factorization and application kernels live here.
package precond
