package gen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/broady/hsbindgen/cmd/hsbindgen/internal/target"
	"github.com/broady/hsbindgen/internal/gen"
	"github.com/broady/hsbindgen/internal/sink"
)

type Cmd struct {
	Out         string `arg:"" help:"Output directory for the generated Haskell module."`
	Package     string `help:"Package to scan (default: current directory)." short:"p" default:"."`
	Module      string `help:"Haskell module name (default: derived from the Go package name)." short:"m"`
	Header      string `help:"C header to name in each foreign import."`
	Safe        bool   `help:"Use the safe calling convention."`
	NoCheck     bool   `help:"Skip comparing directives with the Go signatures."`
	Target      string `help:"Target platform as GOOS/GOARCH (default: host)." short:"t"`
	NoOverwrite bool   `help:"Fail instead of replacing an existing module file."`
}

func (c *Cmd) Run(k *kong.Context, logger *slog.Logger) error {
	outDir, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	platform, env, err := target.Parse(c.Target)
	if err != nil {
		return err
	}

	out := sink.NewFilesystemSink(outDir)
	out.Overwrite = !c.NoOverwrite

	res, err := gen.Run(context.Background(), out, gen.Options{
		Package:  c.Package,
		Env:      env,
		Module:   c.Module,
		Header:   c.Header,
		Safe:     c.Safe,
		NoCheck:  c.NoCheck,
		Platform: platform,
		Logger:   logger,
	})
	if err != nil {
		if res != nil && res.Report != nil {
			for _, f := range res.Report.Failed() {
				fmt.Fprintf(k.Stderr, "✗ %s: %s: %v\n", f.Pos, f.Func, f.Err)
			}
		}
		return err
	}

	fmt.Fprintf(k.Stdout, "✓ %s: %d foreign imports written to %s\n",
		res.Module, res.Bindings, filepath.Join(outDir, filepath.FromSlash(res.Path)))
	return nil
}
