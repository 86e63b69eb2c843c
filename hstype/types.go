// Package hstype models the Haskell C-FFI safe types (Foreign.C) as a closed
// set of Go values, and parses and renders their textual form.
//
// A Type is produced by Parse or by a provider lookup (see package
// hstype/provider), rendered with String, and projected to the matching
// cgo type by package hstype/layout. Values are immutable; every operation
// returns a new value.
package hstype

import "strings"

// Kind identifies the category of a Type.
type Kind int

const (
	KindScalar  Kind = iota // Fixed-width integer, boolean or floating point
	KindUnit                // ()
	KindCString             // CString, sugar for Ptr CChar
	KindPtr                 // Ptr T
	KindIO                  // IO T
	KindFunPtr              // FunPtr (A -> ... -> R)
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindUnit:
		return "Unit"
	case KindCString:
		return "CString"
	case KindPtr:
		return "Ptr"
	case KindIO:
		return "IO"
	case KindFunPtr:
		return "FunPtr"
	default:
		return "Unknown"
	}
}

// Type is the base interface for all model types.
type Type interface {
	// Kind returns the category for type switching.
	Kind() Kind

	// String renders the type in its canonical grammar spelling.
	String() string

	// Ensure only types in this package can implement Type.
	sealed()
}

// PtrType is a pointer to another representable type (Ptr T).
type PtrType struct {
	elem Type
}

// Ptr returns a PtrType pointing at elem.
func Ptr(elem Type) *PtrType {
	return &PtrType{elem: elem}
}

// Elem returns the pointed-to type.
func (t *PtrType) Elem() Type { return t.elem }

// Kind returns KindPtr.
func (t *PtrType) Kind() Kind { return KindPtr }

func (t *PtrType) String() string { return "Ptr (" + t.elem.String() + ")" }

func (*PtrType) sealed() {}

// IOType marks the result of an effectful call (IO T). The wrapper has no
// machine representation of its own.
type IOType struct {
	elem Type
}

// IO returns an IOType wrapping elem.
func IO(elem Type) *IOType {
	return &IOType{elem: elem}
}

// Elem returns the wrapped type.
func (t *IOType) Elem() Type { return t.elem }

// Kind returns KindIO.
func (t *IOType) Kind() Kind { return KindIO }

func (t *IOType) String() string { return "IO (" + t.elem.String() + ")" }

func (*IOType) sealed() {}

// FunPtrType is a C function pointer. The last element is the return type
// and the preceding elements are the arguments in declaration order.
type FunPtrType struct {
	types []Type
}

// FunPtr returns a FunPtrType over types. At least one type (the result) is
// required; an empty list returns ErrFunPtrWithoutTypeArgument.
func FunPtr(types ...Type) (*FunPtrType, error) {
	if len(types) == 0 {
		return nil, ErrFunPtrWithoutTypeArgument
	}
	return &FunPtrType{types: append([]Type(nil), types...)}, nil
}

// MustFunPtr is like FunPtr but panics on an empty list.
// It is intended for static tables.
func MustFunPtr(types ...Type) *FunPtrType {
	fp, err := FunPtr(types...)
	if err != nil {
		panic(err)
	}
	return fp
}

// Types returns a copy of all elements, result last.
func (t *FunPtrType) Types() []Type {
	return append([]Type(nil), t.types...)
}

// Args returns a copy of the argument types.
func (t *FunPtrType) Args() []Type {
	return append([]Type(nil), t.types[:len(t.types)-1]...)
}

// Result returns the return type.
func (t *FunPtrType) Result() Type { return t.types[len(t.types)-1] }

// Len returns the number of elements including the result.
func (t *FunPtrType) Len() int { return len(t.types) }

// Kind returns KindFunPtr.
func (t *FunPtrType) Kind() Kind { return KindFunPtr }

func (t *FunPtrType) String() string {
	args := make([]string, len(t.types))
	for i, elem := range t.types {
		args[i] = elem.String()
	}
	return "FunPtr(" + strings.Join(args, " -> ") + ")"
}

func (*FunPtrType) sealed() {}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Primitive:
		return x == b.(Primitive)
	case *PtrType:
		return Equal(x.elem, b.(*PtrType).elem)
	case *IOType:
		return Equal(x.elem, b.(*IOType).elem)
	case *FunPtrType:
		y := b.(*FunPtrType)
		if len(x.types) != len(y.types) {
			return false
		}
		for i := range x.types {
			if !Equal(x.types[i], y.types[i]) {
				return false
			}
		}
		return true
	}
	return false
}
