package provider

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"
)

// ErrNotExportable is wrapped when a Go parameter or result does not cross
// an //export boundary as the single C value its model type describes.
var ErrNotExportable = errors.New("not a C value at the export boundary")

const (
	reasonString = "Go string is passed as GoString, use *C.char"
	reasonSlice  = "Go slice is passed as GoSlice, use a pointer to its first element"
	reasonFunc   = "Go func value is not a C function pointer, use cabi.FunPtr"
)

// CheckExport reports the first parameter or result of sig that cgo passes
// as a Go-only value when the function is called through //export.
//
// Lookup and Signature decay string to CString and []T to Ptr T. At the
// call boundary cgo passes those as GoString and GoSlice structs, so a C
// caller can only bind to functions spelled with *C.char, *T and
// cabi.FunPtr.
func CheckExport(sig *types.Signature) error {
	if reason := exportTuples(sig, make(map[types.Type]bool)); reason != "" {
		return fmt.Errorf("%w: %s", ErrNotExportable, reason)
	}
	return nil
}

func exportTuples(sig *types.Signature, seen map[types.Type]bool) string {
	for i := range sig.Params().Len() {
		if reason := exportReason(sig.Params().At(i).Type(), seen); reason != "" {
			return fmt.Sprintf("argument %d: %s", i+1, reason)
		}
	}
	for i := range sig.Results().Len() {
		if reason := exportReason(sig.Results().At(i).Type(), seen); reason != "" {
			return "result: " + reason
		}
	}
	return ""
}

func exportReason(t types.Type, seen map[types.Type]bool) string {
	t = types.Unalias(t)
	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		if _, ok := lookupCgo(obj.Name()); ok {
			return ""
		}
		if obj.Pkg() != nil && isFunPtr(obj.Pkg().Path(), obj.Name()) {
			if named.TypeArgs().Len() != 1 {
				return ""
			}
			if sig, ok := named.TypeArgs().At(0).Underlying().(*types.Signature); ok {
				if reason := exportTuples(sig, seen); reason != "" {
					return "callback " + reason
				}
			}
			return ""
		}
		if seen[named] {
			return ""
		}
		seen[named] = true
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		if u.Info()&types.IsString != 0 {
			return reasonString
		}
	case *types.Slice:
		return reasonSlice
	case *types.Signature:
		return reasonFunc
	case *types.Pointer:
		return exportReason(u.Elem(), seen)
	}
	return ""
}

// CheckExportFunc is CheckExport for a reflected function type.
func CheckExportFunc(t reflect.Type) error {
	if t == nil || t.Kind() != reflect.Func {
		return fmt.Errorf("%w: not a function", ErrUnsupportedGoType)
	}
	if reason := exportFunc(t, make(map[reflect.Type]bool)); reason != "" {
		return fmt.Errorf("%w: %s", ErrNotExportable, reason)
	}
	return nil
}

func exportFunc(t reflect.Type, seen map[reflect.Type]bool) string {
	for i := range t.NumIn() {
		if reason := reflectExportReason(t.In(i), seen); reason != "" {
			return fmt.Sprintf("argument %d: %s", i+1, reason)
		}
	}
	for i := range t.NumOut() {
		if reason := reflectExportReason(t.Out(i), seen); reason != "" {
			return "result: " + reason
		}
	}
	return ""
}

func reflectExportReason(t reflect.Type, seen map[reflect.Type]bool) string {
	if _, ok := lookupCgo(t.Name()); ok {
		return ""
	}
	if isFunPtr(t.PkgPath(), t.Name()) {
		m, ok := t.MethodByName("Signature")
		if !ok || m.Type.NumOut() != 1 || m.Type.Out(0).Kind() != reflect.Func {
			return ""
		}
		if reason := exportFunc(m.Type.Out(0), seen); reason != "" {
			return "callback " + reason
		}
		return ""
	}
	if seen[t] {
		return ""
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.String:
		return reasonString
	case reflect.Slice:
		return reasonSlice
	case reflect.Func:
		return reasonFunc
	case reflect.Pointer:
		return reflectExportReason(t.Elem(), seen)
	}
	return ""
}
