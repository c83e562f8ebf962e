// Package linop defines the LinOp/PolymorphicObject operator contract
// (component D) every matrix format in package matrix implements. See
// linop.go for the interfaces and permutation.go for the Permutation type
// every row/column-permuting method is expressed over.
package linop
