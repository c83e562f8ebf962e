// Package array implements component C of the sparse-kernel core. See
// array.go for Array[T] and View.
package array
