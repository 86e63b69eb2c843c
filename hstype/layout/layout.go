// Package layout projects hstype values onto the Go types whose memory
// layout matches them at a cgo boundary.
//
// The result is a go/ast expression, so a generator can splice it into a
// declaration and print it with go/printer. For example
//
//	FunPtr (CInt -> Ptr CChar -> IO ())
//
// projects to
//
//	cabi.FunPtr[func(C.int, *C.char)]
package layout

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"

	"github.com/broady/hsbindgen/hstype"
)

// Projector configures the package qualifiers used in projected fragments.
// The zero value uses "C" and "cabi".
type Projector struct {
	// CPackage is the name of the cgo pseudo-package, "C" by default.
	CPackage string

	// ABIPackage is the local name under which
	// github.com/broady/hsbindgen/cabi is imported, "cabi" by default.
	ABIPackage string
}

var defaultProjector = &Projector{}

// Project returns the fragment for t using the default qualifiers.
func Project(t hstype.Type) ast.Expr {
	return defaultProjector.Project(t)
}

// cNames maps each scalar to its cgo spelling. CBool is absent: Go's bool
// is one byte by definition and cgo maps C's _Bool to it.
var cNames = map[hstype.Primitive]string{
	hstype.CChar:   "char",
	hstype.CSChar:  "schar",
	hstype.CUChar:  "uchar",
	hstype.CShort:  "short",
	hstype.CUShort: "ushort",
	hstype.CInt:    "int",
	hstype.CUInt:   "uint",
	hstype.CLong:   "long",
	hstype.CULong:  "ulong",
	hstype.CLLong:  "longlong",
	hstype.CULLong: "ulonglong",
	hstype.CFloat:  "float",
	hstype.CDouble: "double",
}

// Project returns the Go type expression whose layout matches t.
// It panics if t is nil or not a value built by package hstype.
func (p *Projector) Project(t hstype.Type) ast.Expr {
	switch t := t.(type) {
	case hstype.Primitive:
		switch t {
		case hstype.CBool:
			return ast.NewIdent("bool")
		case hstype.Unit:
			return &ast.StructType{Fields: &ast.FieldList{}}
		case hstype.CString:
			return p.Project(hstype.Ptr(hstype.CChar))
		}
		name, ok := cNames[t]
		if !ok {
			panic(fmt.Sprintf("layout: unknown primitive %d", int(t)))
		}
		return p.sel(p.cPackage(), name)
	case *hstype.PtrType:
		return &ast.StarExpr{X: p.Project(t.Elem())}
	case *hstype.IOType:
		return p.Project(t.Elem())
	case *hstype.FunPtrType:
		return &ast.IndexExpr{
			X:     p.sel(p.abiPackage(), "FunPtr"),
			Index: p.Signature(t),
		}
	default:
		panic(fmt.Sprintf("layout: unsupported type %T", t))
	}
}

// Signature returns the Go function type for fp: one parameter per
// argument and the projected result. A result that erases to () becomes an
// empty result list, the Go spelling of C's void.
func (p *Projector) Signature(fp *hstype.FunPtrType) *ast.FuncType {
	params := &ast.FieldList{}
	for _, arg := range fp.Args() {
		params.List = append(params.List, &ast.Field{Type: p.Project(arg)})
	}
	ft := &ast.FuncType{Params: params}
	if !isVoid(fp.Result()) {
		ft.Results = &ast.FieldList{List: []*ast.Field{{Type: p.Project(fp.Result())}}}
	}
	return ft
}

// isVoid reports whether t is () once IO wrappers are erased.
func isVoid(t hstype.Type) bool {
	for {
		io, ok := t.(*hstype.IOType)
		if !ok {
			break
		}
		t = io.Elem()
	}
	return t == hstype.Unit
}

func (p *Projector) sel(pkg, name string) ast.Expr {
	return &ast.SelectorExpr{X: ast.NewIdent(pkg), Sel: ast.NewIdent(name)}
}

func (p *Projector) cPackage() string {
	if p.CPackage == "" {
		return "C"
	}
	return p.CPackage
}

func (p *Projector) abiPackage() string {
	if p.ABIPackage == "" {
		return "cabi"
	}
	return p.ABIPackage
}

// Format prints a projected fragment as Go source.
func Format(expr ast.Node) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, token.NewFileSet(), expr); err != nil {
		// printer only fails on writer errors or malformed nodes; neither
		// can come out of Project.
		panic(fmt.Sprintf("layout: print %T: %v", expr, err))
	}
	return buf.String()
}

// Compatible reports whether a and b project to the same Go type, that is,
// whether a value of one may cross a cgo boundary declared with the other.
func Compatible(a, b hstype.Type) bool {
	return Format(Project(a)) == Format(Project(b))
}
