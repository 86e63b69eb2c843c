// Package directive parses hsbindgen directives from Go source files.
//
// Directives are line comments in the form:
//
//	//hsbindgen:signature CInt -> CInt -> IO CInt
//
// placed in the doc comment of a package-level function. The text after the
// verb is an arrow list in the Haskell C-FFI grammar (see hstype.ParseSignature)
// and declares the foreign type the function is expected to have.
package directive

import (
	"cmp"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/broady/hsbindgen/hstype"
	"golang.org/x/tools/go/packages"
)

const prefix = "//hsbindgen:"

// Directive represents a parsed hsbindgen directive.
type Directive struct {
	Kind     Kind           // signature
	FuncName string         // name of the function
	Text     string         // signature as written
	Pos      token.Position // source location of the comment

	Signature *hstype.FunPtrType
}

// Kind represents the type of directive.
type Kind string

const (
	KindSignature Kind = "signature"
)

// Result contains all directives found in a package.
type Result struct {
	// Directives in file then source order.
	Directives []Directive

	// PackagePath is the import path of the parsed package.
	PackagePath string

	// PackageName is the package clause name.
	PackageName string

	// Dir is the directory containing the package.
	Dir string
}

// Lookup returns the directive attached to the named function.
func (r *Result) Lookup(funcName string) (Directive, bool) {
	for _, d := range r.Directives {
		if d.FuncName == funcName {
			return d, true
		}
	}
	return Directive{}, false
}

// Parse scans a Go package for hsbindgen directives.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
//
// Returns an error if:
//   - The package cannot be loaded, or the pattern matches several packages
//   - A directive has an unknown verb or an empty or invalid signature
//   - A directive is not immediately followed by a function declaration
//   - A directive is placed on a method
//   - A function carries more than one directive
func Parse(pattern string) (*Result, error) {
	return ParseDir(pattern, "")
}

// ParseDir is like Parse but allows specifying a working directory.
// If dir is empty, the current directory is used.
func ParseDir(pattern, dir string) (*Result, error) {
	return ParseEnv(pattern, dir, nil)
}

// ParseEnv is like ParseDir but selects files with the given go command
// environment, so GOOS and GOARCH build constraints match a cross target.
func ParseEnv(pattern, dir string, env []string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
		Env:  env,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}

	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	result := &Result{
		PackagePath: pkg.PkgPath,
		PackageName: pkg.Name,
	}

	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	fset := token.NewFileSet()
	for _, filename := range pkg.GoFiles {
		f, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}

		directives, err := parseFile(fset, f)
		if err != nil {
			return nil, err
		}
		result.Directives = append(result.Directives, directives...)
	}

	return result, nil
}

type pending struct {
	kind Kind
	text string
	sig  *hstype.FunPtrType
	pos  token.Position
}

// parseFile extracts directives from a single file.
func parseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	var directives []Directive

	// Directives are keyed by the end of their comment group so they can be
	// matched to the function declaration that group documents.
	commentToDirective := make(map[token.Pos]pending)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			text, ok := strings.CutPrefix(c.Text, prefix)
			if !ok {
				continue
			}

			pos := fset.Position(c.Pos())
			verb, rest := text, ""
			if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
				verb, rest = text[:i], text[i:]
			}
			switch Kind(verb) {
			case KindSignature:
				p, err := parseSignature(pos, rest)
				if err != nil {
					return nil, err
				}
				if prev, dup := commentToDirective[cg.End()]; dup {
					return nil, fmt.Errorf("%s: duplicate %s%s directive (first at %s)", pos, prefix, verb, prev.pos)
				}
				commentToDirective[cg.End()] = p
			default:
				return nil, fmt.Errorf("%s: unknown directive %s%s", pos, prefix, verb)
			}
		}
	}

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}

		p, ok := commentToDirective[fn.Doc.End()]
		if !ok {
			continue
		}
		if fn.Recv != nil {
			return nil, fmt.Errorf("%s: %s%s must be on a package-level function, not a method", p.pos, prefix, p.kind)
		}
		directives = append(directives, Directive{
			Kind:      p.kind,
			FuncName:  fn.Name.Name,
			Text:      p.text,
			Pos:       p.pos,
			Signature: p.sig,
		})
		delete(commentToDirective, fn.Doc.End())
	}

	if len(commentToDirective) > 0 {
		unmatched := slices.SortedFunc(maps.Values(commentToDirective), func(a, b pending) int {
			return cmp.Compare(a.pos.Offset, b.pos.Offset)
		})
		p := unmatched[0]
		return nil, fmt.Errorf("%s: %s%s directive must be followed by a function declaration", p.pos, prefix, p.kind)
	}

	return directives, nil
}

func parseSignature(pos token.Position, text string) (pending, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return pending{}, fmt.Errorf("%s: %s%s requires a type", pos, prefix, KindSignature)
	}
	sig, err := hstype.ParseSignature(text)
	if err != nil {
		return pending{}, fmt.Errorf("%s: invalid signature %q: %w", pos, text, err)
	}
	return pending{kind: KindSignature, text: text, sig: sig, pos: pos}, nil
}
