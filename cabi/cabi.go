// Package cabi holds the declarations that generated cgo code refers to
// when a Haskell type has no built-in cgo spelling.
package cabi

// FunPtr is a C function pointer whose Go-side signature is F, for example
// FunPtr[func(C.int) C.double]. It has the size and alignment of a C
// pointer. Calling through the pointer is left to C.
type FunPtr[F any] uintptr

// Signature returns the zero value of F. It exists so that F can be
// recovered from a reflect.Type.
func (FunPtr[F]) Signature() (f F) { return f }
