// SPDX-License-Identifier: MIT

// Package linop implements the LinOp / PolymorphicObject contract, the
// collapse point for a polymorphic-operator class hierarchy into a single
// Go interface.
//
// LinOp is deliberately thin. It does not know about CSR, Dense, or any
// other concrete format — those live in package matrix and satisfy LinOp
// structurally, the same way exec.Executor satisfies array.Space without
// either package importing the other.
package linop

import (
	"github.com/sparsekernel/sparsekernel/array"
	"github.com/sparsekernel/sparsekernel/dim"
	"github.com/sparsekernel/sparsekernel/exec"
)

// LinOp is the abstract operator contract every matrix format implements:
// generic operator application (apply(b, x) and apply(α, b, β, x)), plus
// transpose/permute/diagonal-extraction. V is the value type the operator's
// entries hold; I is the index type its permutations are expressed in.
type LinOp[V dim.Value, I dim.Index] interface {
	// Shape returns the operator's (rows, cols).
	Shape() dim.Dim2

	// Apply computes x = A*b.
	Apply(b, x *array.Array[V]) error

	// ApplyScaled computes x = alpha*A*b + beta*x.
	ApplyScaled(alpha V, b *array.Array[V], beta V, x *array.Array[V]) error

	// Transpose returns a LinOp computing A^T's action, without
	// necessarily materializing a transposed copy of A's storage.
	Transpose() (LinOp[V, I], error)

	// ConjTranspose returns a LinOp computing A^H's action. For the real
	// value types this module supports it is equivalent to Transpose, kept
	// distinct so a future complex value type has a home.
	ConjTranspose() (LinOp[V, I], error)

	// RowPermute returns P*A for permutation P.
	RowPermute(p *Permutation[I]) (LinOp[V, I], error)

	// ColumnPermute returns A*P for permutation P.
	ColumnPermute(p *Permutation[I]) (LinOp[V, I], error)

	// InverseRowPermute returns P^-1*A. An implementation may compute this
	// as RowPermute(p.Inverse()).
	InverseRowPermute(p *Permutation[I]) (LinOp[V, I], error)

	// InverseColumnPermute returns A*P^-1.
	InverseColumnPermute(p *Permutation[I]) (LinOp[V, I], error)

	// ExtractDiagonal returns the operator's main diagonal as a dense
	// Array of length min(rows, cols).
	ExtractDiagonal() (*array.Array[V], error)
}

// PolymorphicObject is the clone/convert half of the polymorphic-object
// contract: a trait/interface for LinOp with apply, clone_to_exec, and
// convert_to. Kept as a separate interface from LinOp since not every LinOp
// implementation need support cross-executor cloning (e.g. a SpGEMM-internal
// intermediate never leaves its executor).
type PolymorphicObject[V dim.Value, I dim.Index] interface {
	// CloneToExec returns a deep copy of the receiver bound to target,
	// copying its Arrays across memory spaces via target's executor.
	CloneToExec(target exec.Executor) LinOp[V, I]

	// ConvertTo converts the receiver's representation into dst in place,
	// preserving the represented matrix exactly. dst must be a format this
	// receiver knows how to convert into; an unsupported pair returns
	// kerrors.ErrNotSupported.
	ConvertTo(dst LinOp[V, I]) error
}
