// Package provider infers hstype values from Go type descriptors. It is the
// inverse direction of package layout: given the Go type a generator holds,
// it answers which Haskell C-FFI type the value represents.
//
// Two providers cover the two descriptors a generator may hold:
// ReflectionProvider for reflect.Type and SourceProvider for go/types.
// Both share the same mapping:
//
//	bool                       CBool
//	int8, uint8                CChar, CUChar
//	int16, uint16              CShort, CUShort
//	int32, uint32              CInt, CUInt
//	int64, uint64              CLong, CULong (LP64) or CLLong, CULLong
//	int, uint, uintptr         the platform word (see Platform)
//	float32, float64           CFloat, CDouble
//	struct{}                   ()
//	string                     CString
//	unsafe.Pointer             Ptr ()
//	C.xxx (cgo)                the exact C spelling
//	*T, []T, *[N]T             Ptr T
//	func(A...) R               FunPtr (A -> ... -> R), () when R is absent
//	cabi.FunPtr[F]             as F
//
// Other named types are looked up through their underlying type. Sequence
// types decay to a pointer to their first element; the length has to be
// passed separately.
package provider

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/broady/hsbindgen/hstype"
)

// ReflectionProvider looks up model types for reflect.Type values.
// The zero value uses the Host platform and is ready to use.
type ReflectionProvider struct {
	// Platform selects the word table. Zero means Host.
	Platform *Platform

	mu     sync.RWMutex
	custom map[reflect.Type]hstype.Type
}

// Register maps t to ht, overriding the built-in mapping. It is safe to call
// concurrently with Lookup.
func (p *ReflectionProvider) Register(t reflect.Type, ht hstype.Type) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.custom == nil {
		p.custom = make(map[reflect.Type]hstype.Type)
	}
	p.custom[t] = ht
}

// Lookup returns the model type that t represents, if any.
func (p *ReflectionProvider) Lookup(t reflect.Type) (hstype.Type, bool) {
	if t == nil {
		return nil, false
	}
	return p.lookup(t, make(map[reflect.Type]bool))
}

var defaultReflection = &ReflectionProvider{}

// Repr returns the model type for T using the host platform.
//
//	provider.Repr[*int32]()  // Ptr (CInt)
func Repr[T any]() (hstype.Type, bool) {
	return defaultReflection.Lookup(reflect.TypeFor[T]())
}

func (p *ReflectionProvider) platform() Platform {
	if p.Platform == nil {
		return Host
	}
	return *p.Platform
}

func (p *ReflectionProvider) registered(t reflect.Type) (hstype.Type, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ht, ok := p.custom[t]
	return ht, ok
}

// named reports whether t has a mapping of its own that must win over the
// structural rules.
func (p *ReflectionProvider) named(t reflect.Type) bool {
	if _, ok := p.registered(t); ok {
		return true
	}
	_, ok := lookupCgo(t.Name())
	return ok
}

func (p *ReflectionProvider) lookup(t reflect.Type, seen map[reflect.Type]bool) (hstype.Type, bool) {
	if ht, ok := p.registered(t); ok {
		return ht, true
	}
	if ht, ok := lookupCgo(t.Name()); ok {
		return ht, true
	}
	if isFunPtr(t.PkgPath(), t.Name()) {
		m, ok := t.MethodByName("Signature")
		if !ok || m.Type.NumOut() != 1 {
			return nil, false
		}
		return p.lookup(m.Type.Out(0), seen)
	}

	// Named pointer and function types can refer to themselves.
	if seen[t] {
		return nil, false
	}
	seen[t] = true
	defer delete(seen, t)

	words := p.platform()
	switch t.Kind() {
	case reflect.Bool:
		return hstype.CBool, true
	case reflect.Int8:
		return hstype.CChar, true
	case reflect.Uint8:
		return hstype.CUChar, true
	case reflect.Int16:
		return hstype.CShort, true
	case reflect.Uint16:
		return hstype.CUShort, true
	case reflect.Int32:
		return hstype.CInt, true
	case reflect.Uint32:
		return hstype.CUInt, true
	case reflect.Int64:
		return words.Int64, true
	case reflect.Uint64:
		return words.Uint64, true
	case reflect.Int:
		return words.Int, true
	case reflect.Uint, reflect.Uintptr:
		return words.Uint, true
	case reflect.Float32:
		return hstype.CFloat, true
	case reflect.Float64:
		return hstype.CDouble, true
	case reflect.String:
		return hstype.CString, true
	case reflect.UnsafePointer:
		return hstype.Ptr(hstype.Unit), true
	case reflect.Struct:
		if t.NumField() == 0 {
			return hstype.Unit, true
		}
	case reflect.Pointer:
		elem := t.Elem()
		if elem.Kind() == reflect.Array && !p.named(elem) {
			elem = elem.Elem()
		}
		return p.ptr(elem, seen)
	case reflect.Slice:
		return p.ptr(t.Elem(), seen)
	case reflect.Func:
		return p.fun(t, seen)
	}
	return nil, false
}

func (p *ReflectionProvider) ptr(elem reflect.Type, seen map[reflect.Type]bool) (hstype.Type, bool) {
	ht, ok := p.lookup(elem, seen)
	if !ok {
		return nil, false
	}
	return hstype.Ptr(ht), true
}

func (p *ReflectionProvider) fun(t reflect.Type, seen map[reflect.Type]bool) (hstype.Type, bool) {
	if t.IsVariadic() {
		return nil, false
	}
	params := make([]hstype.Type, 0, t.NumIn()+1)
	for i := range t.NumIn() {
		ht, ok := p.lookup(t.In(i), seen)
		if !ok {
			return nil, false
		}
		params = append(params, ht)
	}
	results := make([]hstype.Type, 0, t.NumOut())
	for i := range t.NumOut() {
		ht, ok := p.lookup(t.Out(i), seen)
		if !ok {
			return nil, false
		}
		results = append(results, ht)
	}
	fp, ok := funPtrOf(params, results)
	if !ok {
		return nil, false
	}
	return fp, true
}

// Signature returns the function pointer type for the Go function type t,
// naming the first parameter or result that has no model counterpart.
func (p *ReflectionProvider) Signature(t reflect.Type) (*hstype.FunPtrType, error) {
	if t == nil || t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: not a function", ErrUnsupportedGoType)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic function %s", ErrUnsupportedGoType, t)
	}
	var params, results []hstype.Type
	for i := range t.NumIn() {
		ht, ok := p.Lookup(t.In(i))
		if !ok {
			return nil, fmt.Errorf("parameter %d: %w: %s", i, ErrUnsupportedGoType, t.In(i))
		}
		params = append(params, ht)
	}
	for i := range t.NumOut() {
		ht, ok := p.Lookup(t.Out(i))
		if !ok {
			return nil, fmt.Errorf("result %d: %w: %s", i, ErrUnsupportedGoType, t.Out(i))
		}
		results = append(results, ht)
	}
	fp, ok := funPtrOf(params, results)
	if !ok {
		return nil, fmt.Errorf("%w: %d results in %s", ErrUnsupportedGoType, len(results), t)
	}
	return fp, nil
}
