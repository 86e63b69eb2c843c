// Package gen writes the Haskell side of a Go library's C ABI: one module of
// foreign imports built from the package's //hsbindgen:signature directives.
package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/broady/hsbindgen/hstype/provider"
	"github.com/broady/hsbindgen/internal/check"
	"github.com/broady/hsbindgen/internal/directive"
	"github.com/broady/hsbindgen/internal/haskell"
	"github.com/broady/hsbindgen/internal/sink"
)

// ErrCheckFailed is returned when a directive disagrees with its Go function.
var ErrCheckFailed = errors.New("signature check failed")

// Options configures Run.
type Options struct {
	// Package is the package pattern. Empty means ".".
	Package string

	// Dir is the working directory for the go command.
	Dir string

	// Env overrides the go command environment, for example to select a
	// GOOS/GOARCH target. Nil means the current process environment.
	Env []string

	// Module is the Haskell module name. Empty derives it from the Go
	// package name.
	Module string

	// Header and Safe are passed to the emitter.
	Header string
	Safe   bool

	// NoCheck skips comparing directives with the Go signatures.
	NoCheck bool

	// Platform is the word table used by the check.
	Platform *provider.Platform

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result describes a generated module.
type Result struct {
	Module   string
	Path     string // relative to the sink
	Bindings int
	Report   *check.Report // nil with NoCheck
}

// Run generates the module for opts.Package and writes it to out.
func Run(ctx context.Context, out sink.OutputSink, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		pkgName  string
		bindings []haskell.Binding
		report   *check.Report
	)
	if opts.NoCheck {
		pattern := opts.Package
		if pattern == "" {
			pattern = "."
		}
		dirs, err := directive.ParseEnv(pattern, opts.Dir, opts.Env)
		if err != nil {
			return nil, fmt.Errorf("directives: %w", err)
		}
		pkgName = dirs.PackageName
		for _, d := range dirs.Directives {
			bindings = append(bindings, haskell.Binding{Symbol: d.FuncName, Type: d.Signature})
		}
	} else {
		var err error
		report, err = check.Run(ctx, check.Options{
			Package:  opts.Package,
			Dir:      opts.Dir,
			Env:      opts.Env,
			Platform: opts.Platform,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		if failed := report.Failed(); len(failed) > 0 {
			return &Result{Report: report}, fmt.Errorf("%w: %d of %d signatures do not match",
				ErrCheckFailed, len(failed), len(report.Findings))
		}
		pkgName = report.PackageName
		for _, f := range report.Findings {
			bindings = append(bindings, haskell.Binding{Symbol: f.Func, Type: f.Declared})
		}
	}

	module := opts.Module
	if module == "" {
		module = haskell.ModuleName(pkgName)
	}

	var buf bytes.Buffer
	if err := haskell.Emit(&buf, haskell.Config{Module: module, Header: opts.Header, Safe: opts.Safe}, bindings); err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}

	path := strings.ReplaceAll(module, ".", "/") + ".hs"
	if err := out.WriteFile(ctx, path, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	logger.InfoContext(ctx, "module generated",
		slog.String("module", module),
		slog.String("path", path),
		slog.Int("bindings", len(bindings)),
	)

	return &Result{
		Module:   module,
		Path:     path,
		Bindings: len(bindings),
		Report:   report,
	}, nil
}
