// SPDX-License-Identifier: MIT

// Package matrix implements the sparse/dense storage formats (Dense, CSR,
// COO, ELL, SELL-P, Hybrid, SparsityCSR), their hardware-adaptive Strategy
// types, two-phase format conversions, and the matrix-market triple
// reader/writer.
//
// Every format is generic over a value type V (float32 or float64) and,
// where it carries indices, an index type I (int32 or int64), and
// implements linop.LinOp[V, I] so callers can apply, transpose, or permute
// them without a type switch on the concrete format, and
// linop.PolymorphicObject so they can be cloned onto another Executor or
// converted into another format. CSR carries the structural algorithms
// (transpose, permute, extract-diagonal) directly; every other format
// reaches them by hub-converting through CSR first.
package matrix
