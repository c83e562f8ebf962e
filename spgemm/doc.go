// SPDX-License-Identifier: MIT

// Package spgemm implements the tiered heap-based multi-way merge
// underlying sparse matrix-matrix multiplication (SpGEMM). A row of the
// product C = A*B is the union, over every nonzero A[i,k], of B's row k,
// scaled by A[i,k] and summed where columns collide. The merge tiers by how
// many of B's rows a given A row fans out to: short rows merge with a
// simple sequential scan, medium rows with a bounded heap, and long rows
// with a full container/heap-based k-way merge.
//
// Multiply runs the merge twice with identical traversal order per row —
// once to count each row's output nonzeros (sizing C's row_ptrs), once to
// compute the values — the two-pass Count-then-Compute pattern.
package spgemm
