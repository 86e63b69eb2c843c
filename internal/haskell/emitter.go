// Package haskell emits a Haskell module that imports Go functions exported
// through cgo, one foreign import per declared signature:
//
//	foreign import ccall unsafe "add" add :: CInt -> CInt -> IO CInt
package haskell

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/broady/hsbindgen/hstype"
)

// Binding is one foreign import.
type Binding struct {
	// Symbol is the C symbol, i.e. the name given to //export.
	Symbol string

	// Type is the declared Haskell type, result last.
	Type *hstype.FunPtrType
}

// Config controls the emitted module.
type Config struct {
	// Module is the Haskell module name. Required.
	Module string

	// Header is an optional C header named in each import entity.
	Header string

	// Safe selects the "safe" calling convention. The default is "unsafe":
	// Go callees must not call back into Haskell.
	Safe bool
}

// Emit writes a complete module for bindings, sorted by symbol.
func Emit(buf *bytes.Buffer, cfg Config, bindings []Binding) error {
	if !validModuleName(cfg.Module) {
		return fmt.Errorf("invalid module name %q", cfg.Module)
	}
	bindings = slices.SortedFunc(slices.Values(bindings), func(a, b Binding) int {
		return cmp.Compare(a.Symbol, b.Symbol)
	})

	names := make(map[string]string, len(bindings))
	for _, b := range bindings {
		if b.Symbol == "" || b.Type == nil {
			return errors.New("binding without symbol or type")
		}
		name := varName(b.Symbol)
		if prev, dup := names[name]; dup {
			return fmt.Errorf("symbols %s and %s both map to %s", prev, b.Symbol, name)
		}
		names[name] = b.Symbol
	}

	buf.WriteString("-- Code generated by hsbindgen. DO NOT EDIT.\n\n")
	buf.WriteString("{-# LANGUAGE ForeignFunctionInterface #-}\n\n")
	fmt.Fprintf(buf, "module %s\n", cfg.Module)
	for i, b := range bindings {
		sep := ","
		if i == 0 {
			sep = "("
		}
		fmt.Fprintf(buf, "  %s %s\n", sep, varName(b.Symbol))
	}
	if len(bindings) == 0 {
		buf.WriteString("  (\n")
	}
	buf.WriteString("  ) where\n")

	imports := collectImports(bindings)
	if len(imports) > 0 {
		buf.WriteString("\n")
	}
	for _, imp := range imports {
		buf.WriteString(imp)
		buf.WriteString("\n")
	}

	safety := "unsafe"
	if cfg.Safe {
		safety = "safe"
	}
	if len(bindings) > 0 {
		buf.WriteString("\n")
	}
	for _, b := range bindings {
		entity := b.Symbol
		if cfg.Header != "" {
			entity = cfg.Header + " " + b.Symbol
		}
		fmt.Fprintf(buf, "foreign import ccall %s %q %s :: %s\n", safety, entity, varName(b.Symbol), Signature(b.Type))
	}
	return nil
}

// Signature renders fp as the type of a foreign function, without the
// FunPtr wrapper: "CInt -> Ptr CChar -> IO ()".
func Signature(fp *hstype.FunPtrType) string {
	parts := make([]string, fp.Len())
	for i, t := range fp.Types() {
		parts[i] = Type(t)
	}
	return strings.Join(parts, " -> ")
}

// Type renders t in Haskell surface syntax with minimal parentheses.
func Type(t hstype.Type) string {
	switch t := t.(type) {
	case hstype.Primitive:
		return t.String()
	case *hstype.PtrType:
		return "Ptr " + atom(t.Elem())
	case *hstype.IOType:
		return "IO " + atom(t.Elem())
	case *hstype.FunPtrType:
		return "FunPtr (" + Signature(t) + ")"
	}
	panic(fmt.Sprintf("haskell: unexpected type %T", t))
}

func atom(t hstype.Type) string {
	if _, ok := t.(hstype.Primitive); ok {
		return Type(t)
	}
	return "(" + Type(t) + ")"
}

// collectImports returns the import lines the bindings need, in a fixed
// order.
func collectImports(bindings []Binding) []string {
	var scalars []string
	seen := make(map[string]bool)
	var cstring bool
	var ptr, funptr bool

	var walk func(hstype.Type)
	walk = func(t hstype.Type) {
		switch t := t.(type) {
		case hstype.Primitive:
			switch t.Kind() {
			case hstype.KindCString:
				cstring = true
			case hstype.KindScalar:
				if name := t.String(); !seen[name] {
					seen[name] = true
					scalars = append(scalars, name)
				}
			}
		case *hstype.PtrType:
			ptr = true
			walk(t.Elem())
		case *hstype.IOType:
			walk(t.Elem())
		case *hstype.FunPtrType:
			funptr = true
			for _, elem := range t.Types() {
				walk(elem)
			}
		}
	}
	for _, b := range bindings {
		for _, t := range b.Type.Types() {
			walk(t)
		}
	}

	var lines []string
	if cstring {
		lines = append(lines, "import Foreign.C.String (CString)")
	}
	if len(scalars) > 0 {
		slices.Sort(scalars)
		lines = append(lines, "import Foreign.C.Types ("+strings.Join(scalars, ", ")+")")
	}
	switch {
	case ptr && funptr:
		lines = append(lines, "import Foreign.Ptr (FunPtr, Ptr)")
	case ptr:
		lines = append(lines, "import Foreign.Ptr (Ptr)")
	case funptr:
		lines = append(lines, "import Foreign.Ptr (FunPtr)")
	}
	return lines
}
