package provider

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"log/slog"
	"strings"
	"sync"

	"github.com/broady/hsbindgen/hstype"
	"golang.org/x/tools/go/packages"
)

// SourceProvider looks up model types for go/types values, and loads Go
// packages to infer the signatures of their functions.
// The zero value uses the Host platform and is ready to use.
type SourceProvider struct {
	// Platform selects the word table. Zero means Host.
	Platform *Platform

	// Logger receives debug output from LoadFuncs. Nil means slog.Default().
	Logger *slog.Logger

	mu     sync.RWMutex
	custom map[string]hstype.Type // key: pkgPath.Name
}

// SourceInputOptions configures LoadFuncs.
type SourceInputOptions struct {
	// Packages are the Go package patterns to analyze.
	Packages []string

	// Dir is the working directory for the go command. Empty means the
	// current directory.
	Dir string

	// Env overrides the go command environment (GOOS, GOARCH, GOFLAGS...).
	// Nil means the current process environment.
	Env []string
}

// Func is a top-level function found by LoadFuncs.
type Func struct {
	Name    string
	Package string
	Pos     token.Position

	// Type is the inferred signature. Nil when Err is set.
	Type *hstype.FunPtrType
	Err  error

	// Go is the declared Go signature.
	Go *types.Signature
}

// Register maps the named Go type pkgPath.name to ht, overriding the
// built-in mapping. It is safe to call concurrently with Lookup.
func (p *SourceProvider) Register(pkgPath, name string, ht hstype.Type) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.custom == nil {
		p.custom = make(map[string]hstype.Type)
	}
	p.custom[pkgPath+"."+name] = ht
}

// Lookup returns the model type that t represents, if any.
func (p *SourceProvider) Lookup(t types.Type) (hstype.Type, bool) {
	if t == nil {
		return nil, false
	}
	return p.lookup(t, make(map[types.Type]bool))
}

// Signature returns the function pointer type for sig, naming the first
// parameter or result that has no model counterpart.
func (p *SourceProvider) Signature(sig *types.Signature) (*hstype.FunPtrType, error) {
	return p.signature(sig, make(map[types.Type]bool))
}

func (p *SourceProvider) signature(sig *types.Signature, seen map[types.Type]bool) (*hstype.FunPtrType, error) {
	if sig.Variadic() {
		return nil, fmt.Errorf("%w: variadic function %s", ErrUnsupportedGoType, sig)
	}
	params, err := p.tuple("parameter", sig.Params(), seen)
	if err != nil {
		return nil, err
	}
	results, err := p.tuple("result", sig.Results(), seen)
	if err != nil {
		return nil, err
	}
	fp, ok := funPtrOf(params, results)
	if !ok {
		return nil, fmt.Errorf("%w: %d results in %s", ErrUnsupportedGoType, len(results), sig)
	}
	return fp, nil
}

func (p *SourceProvider) tuple(what string, tup *types.Tuple, seen map[types.Type]bool) ([]hstype.Type, error) {
	var out []hstype.Type
	for i := range tup.Len() {
		v := tup.At(i)
		ht, ok := p.lookup(v.Type(), seen)
		if !ok {
			name := v.Name()
			if name == "" {
				name = fmt.Sprint(i)
			}
			return nil, fmt.Errorf("%s %s: %w: %s", what, name, ErrUnsupportedGoType, v.Type())
		}
		out = append(out, ht)
	}
	return out, nil
}

// LoadFuncs loads the packages and infers a signature for every top-level
// function, in package then name order. Functions whose signature has no
// model counterpart are returned with Err set rather than failing the load.
func (p *SourceProvider) LoadFuncs(ctx context.Context, opts SourceInputOptions) ([]Func, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Env:     opts.Env,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedTypes |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	var funcs []Func
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		n := 0
		for _, name := range scope.Names() {
			// cgo adds _Cfunc_ and _cgo_ helpers to the package scope.
			if strings.HasPrefix(name, "_") {
				continue
			}
			fn, ok := scope.Lookup(name).(*types.Func)
			if !ok {
				continue
			}
			sig := fn.Type().(*types.Signature)
			f := Func{
				Name:    name,
				Package: pkg.PkgPath,
				Pos:     pkg.Fset.Position(fn.Pos()),
				Go:      sig,
			}
			f.Type, f.Err = p.Signature(sig)
			funcs = append(funcs, f)
			n++
		}
		p.logger().DebugContext(ctx, "package loaded",
			slog.String("package", pkg.PkgPath),
			slog.Int("funcs", n),
		)
	}
	return funcs, nil
}

func (p *SourceProvider) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *SourceProvider) platform() Platform {
	if p.Platform == nil {
		return Host
	}
	return *p.Platform
}

func (p *SourceProvider) registered(named *types.Named) (hstype.Type, bool) {
	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	ht, ok := p.custom[obj.Pkg().Path()+"."+obj.Name()]
	return ht, ok
}

func (p *SourceProvider) lookup(t types.Type, seen map[types.Type]bool) (hstype.Type, bool) {
	t = types.Unalias(t)

	if named, ok := t.(*types.Named); ok {
		if ht, ok := p.registered(named); ok {
			return ht, true
		}
		obj := named.Obj()
		if ht, ok := lookupCgo(obj.Name()); ok {
			return ht, true
		}
		if obj.Pkg() != nil && isFunPtr(obj.Pkg().Path(), obj.Name()) {
			if named.TypeArgs().Len() != 1 {
				return nil, false
			}
			return p.lookup(named.TypeArgs().At(0), seen)
		}
		if seen[named] {
			return nil, false
		}
		seen[named] = true
		defer delete(seen, named)
		return p.lookup(named.Underlying(), seen)
	}

	words := p.platform()
	switch typ := t.(type) {
	case *types.Basic:
		switch typ.Kind() {
		case types.Bool:
			return hstype.CBool, true
		case types.Int8:
			return hstype.CChar, true
		case types.Uint8:
			return hstype.CUChar, true
		case types.Int16:
			return hstype.CShort, true
		case types.Uint16:
			return hstype.CUShort, true
		case types.Int32:
			return hstype.CInt, true
		case types.Uint32:
			return hstype.CUInt, true
		case types.Int64:
			return words.Int64, true
		case types.Uint64:
			return words.Uint64, true
		case types.Int:
			return words.Int, true
		case types.Uint, types.Uintptr:
			return words.Uint, true
		case types.Float32:
			return hstype.CFloat, true
		case types.Float64:
			return hstype.CDouble, true
		case types.String:
			return hstype.CString, true
		case types.UnsafePointer:
			return hstype.Ptr(hstype.Unit), true
		}

	case *types.Struct:
		if typ.NumFields() == 0 {
			return hstype.Unit, true
		}

	case *types.Pointer:
		elem := typ.Elem()
		if arr, ok := elem.Underlying().(*types.Array); ok {
			if named, isNamed := types.Unalias(elem).(*types.Named); !isNamed || !p.named(named) {
				elem = arr.Elem()
			}
		}
		return p.ptr(elem, seen)

	case *types.Slice:
		return p.ptr(typ.Elem(), seen)

	case *types.Signature:
		fp, err := p.signature(typ, seen)
		if err != nil {
			return nil, false
		}
		return fp, true
	}
	return nil, false
}

// named reports whether t has a mapping of its own that must win over the
// structural rules.
func (p *SourceProvider) named(t *types.Named) bool {
	if _, ok := p.registered(t); ok {
		return true
	}
	_, ok := lookupCgo(t.Obj().Name())
	return ok
}

func (p *SourceProvider) ptr(elem types.Type, seen map[types.Type]bool) (hstype.Type, bool) {
	ht, ok := p.lookup(elem, seen)
	if !ok {
		return nil, false
	}
	return hstype.Ptr(ht), true
}
