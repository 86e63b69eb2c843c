// Package check compares the foreign signatures declared by
// //hsbindgen:signature directives with the signatures inferred from the
// Go declarations they annotate.
//
// Two signatures agree when they have the same arity and every position
// projects to the same Go fragment (see layout.Compatible). IO wrappers and
// the CString alias therefore never cause a mismatch on their own.
// The Go function must also be callable from C as declared: string, slice
// and func parameters or results are mismatches even where the model agrees
// (see provider.CheckExport).
package check

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"

	"github.com/broady/hsbindgen/hstype"
	"github.com/broady/hsbindgen/hstype/layout"
	"github.com/broady/hsbindgen/hstype/provider"
	"github.com/broady/hsbindgen/internal/directive"
)

var (
	// ErrArity is wrapped by findings whose argument counts differ.
	ErrArity = errors.New("arity mismatch")

	// ErrMismatch is wrapped by findings where a position projects differently.
	ErrMismatch = errors.New("type mismatch")

	// ErrNotFound is wrapped when a directive names no top-level function.
	ErrNotFound = errors.New("function not found")
)

// Options configures Run.
type Options struct {
	// Package is the package pattern to check. Empty means ".".
	Package string

	// Dir is the working directory for the go command.
	Dir string

	// Env overrides the go command environment of the source loader.
	Env []string

	// Platform selects the word table for inferred signatures. Nil means
	// provider.Host.
	Platform *provider.Platform

	// Logger receives one record per finding. Nil means slog.Default().
	Logger *slog.Logger
}

// Finding is the outcome for one directive.
type Finding struct {
	Func string
	Pos  token.Position

	Declared *hstype.FunPtrType
	Inferred *hstype.FunPtrType // nil if the Go signature is unsupported

	// Fragment is the Go projection of Declared.
	Fragment string

	// Err is nil when the signatures agree.
	Err error
}

// Report lists one finding per directive, in directive order.
type Report struct {
	PackagePath string
	PackageName string
	Findings    []Finding
}

// OK reports whether every finding agrees.
func (r *Report) OK() bool {
	for _, f := range r.Findings {
		if f.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the findings with an error.
func (r *Report) Failed() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Run checks every directive in the package.
func Run(ctx context.Context, opts Options) (*Report, error) {
	pattern := opts.Package
	if pattern == "" {
		pattern = "."
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dirs, err := directive.ParseEnv(pattern, opts.Dir, opts.Env)
	if err != nil {
		return nil, fmt.Errorf("directives: %w", err)
	}

	src := &provider.SourceProvider{Platform: opts.Platform, Logger: logger}
	funcs, err := src.LoadFuncs(ctx, provider.SourceInputOptions{
		Packages: []string{pattern},
		Dir:      opts.Dir,
		Env:      opts.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	byName := make(map[string]provider.Func, len(funcs))
	for _, f := range funcs {
		if f.Package == dirs.PackagePath {
			byName[f.Name] = f
		}
	}

	report := &Report{PackagePath: dirs.PackagePath, PackageName: dirs.PackageName}
	for _, d := range dirs.Directives {
		finding := Finding{
			Func:     d.FuncName,
			Pos:      d.Pos,
			Declared: d.Signature,
			Fragment: layout.Format(layout.Project(d.Signature)),
		}
		fn, ok := byName[d.FuncName]
		switch {
		case !ok:
			finding.Err = fmt.Errorf("%w: %s", ErrNotFound, d.FuncName)
		case fn.Err != nil:
			finding.Err = fn.Err
		default:
			finding.Inferred = fn.Type
			finding.Err = Compare(d.Signature, fn.Type)
			if finding.Err == nil {
				if err := provider.CheckExport(fn.Go); err != nil {
					finding.Err = fmt.Errorf("%w: %w", ErrMismatch, err)
				}
			}
		}
		report.Findings = append(report.Findings, finding)

		if finding.Err != nil {
			logger.WarnContext(ctx, "signature mismatch",
				slog.String("func", finding.Func),
				slog.String("pos", finding.Pos.String()),
				slog.String("declared", finding.Declared.String()),
				slog.Any("error", finding.Err),
			)
			continue
		}
		logger.DebugContext(ctx, "signature ok",
			slog.String("func", finding.Func),
			slog.String("go", finding.Fragment),
		)
	}
	return report, nil
}

// Compare returns nil if declared and inferred agree, or an error wrapping
// ErrArity or ErrMismatch naming the first position that does not.
func Compare(declared, inferred *hstype.FunPtrType) error {
	if declared.Len() != inferred.Len() {
		return fmt.Errorf("%w: declared %d arguments, Go function has %d",
			ErrArity, declared.Len()-1, inferred.Len()-1)
	}
	want, got := declared.Types(), inferred.Types()
	for i := range want {
		if layout.Compatible(want[i], got[i]) {
			continue
		}
		what := fmt.Sprintf("argument %d", i+1)
		if i == len(want)-1 {
			what = "result"
		}
		return fmt.Errorf("%w: %s: declared %s (%s), Go has %s (%s)", ErrMismatch, what,
			want[i], layout.Format(layout.Project(want[i])),
			got[i], layout.Format(layout.Project(got[i])))
	}
	return nil
}
