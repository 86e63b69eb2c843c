package provider

import (
	"errors"
	"strings"

	"github.com/broady/hsbindgen/hstype"
)

// ErrUnsupportedGoType is returned (wrapped) when a Go type has no
// Haskell C-FFI counterpart.
var ErrUnsupportedGoType = errors.New("unsupported Go type")

const (
	// cgoPrefix is how cmd/cgo names C.xxx types in translated Go code.
	cgoPrefix = "_Ctype_"

	cabiPath = "github.com/broady/hsbindgen/cabi"
)

// cgoTypes maps cgo type names to the model. These keep the exact C
// spelling (C.schar, C.longlong) that the underlying Go type would lose.
var cgoTypes = map[string]hstype.Type{
	"char":      hstype.CChar,
	"schar":     hstype.CSChar,
	"uchar":     hstype.CUChar,
	"short":     hstype.CShort,
	"ushort":    hstype.CUShort,
	"int":       hstype.CInt,
	"uint":      hstype.CUInt,
	"long":      hstype.CLong,
	"ulong":     hstype.CULong,
	"longlong":  hstype.CLLong,
	"ulonglong": hstype.CULLong,
	"float":     hstype.CFloat,
	"double":    hstype.CDouble,
	"_Bool":     hstype.CBool,
	"void":      hstype.Unit,
}

// lookupCgo returns the model for a cgo-translated type name.
func lookupCgo(name string) (hstype.Type, bool) {
	cname, ok := strings.CutPrefix(name, cgoPrefix)
	if !ok {
		return nil, false
	}
	t, ok := cgoTypes[cname]
	return t, ok
}

// isFunPtr reports whether pkgPath.name is an instantiation of cabi.FunPtr.
func isFunPtr(pkgPath, name string) bool {
	return pkgPath == cabiPath && (name == "FunPtr" || strings.HasPrefix(name, "FunPtr["))
}

// funPtrOf builds the model for a Go function from already converted
// parameters and results. Zero results map to ().
func funPtrOf(params []hstype.Type, results []hstype.Type) (*hstype.FunPtrType, bool) {
	switch len(results) {
	case 0:
		return hstype.MustFunPtr(append(params, hstype.Unit)...), true
	case 1:
		return hstype.MustFunPtr(append(params, results[0])...), true
	default:
		return nil, false
	}
}
