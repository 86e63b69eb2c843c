package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/broady/hsbindgen/cmd/hsbindgen/internal/check"
	"github.com/broady/hsbindgen/cmd/hsbindgen/internal/gen"
	"github.com/broady/hsbindgen/cmd/hsbindgen/internal/serve"
	"github.com/broady/hsbindgen/hstype"
	"github.com/broady/hsbindgen/hstype/layout"
)

type CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Parse   ParseCmd   `cmd:"" help:"Parse Haskell C-FFI types and print their canonical form."`
	Project ProjectCmd `cmd:"" help:"Print the Go type whose layout matches a Haskell C-FFI type."`
	Check   check.Cmd  `cmd:"" help:"Compare //hsbindgen:signature directives with the Go functions they annotate."`
	Gen     gen.Cmd    `cmd:"" help:"Generate a Haskell module of foreign imports for a Go package."`
	Serve   serve.Cmd  `cmd:"" help:"Start the type playground server."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(k *kong.Context) error {
	fmt.Fprintln(k.Stdout, Version())
	return nil
}

type ParseCmd struct {
	Types []string `arg:"" help:"Types to parse, e.g. 'FunPtr (CInt -> IO ())'."`
	JSON  bool     `help:"Print the structured model as JSON." name:"json"`
}

func (c *ParseCmd) Run(k *kong.Context) error {
	enc := json.NewEncoder(k.Stdout)
	enc.SetEscapeHTML(false)
	for _, s := range c.Types {
		t, err := hstype.Parse(s)
		if err != nil {
			return fmt.Errorf("%q: %w", s, err)
		}
		if c.JSON {
			if err := enc.Encode(t); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(k.Stdout, t)
	}
	return nil
}

type ProjectCmd struct {
	Type string `arg:"" help:"Type to project."`
	C    string `help:"Qualifier of the cgo pseudo-package." default:"C"`
	ABI  string `help:"Qualifier of the cabi package." default:"cabi" name:"abi"`
}

func (c *ProjectCmd) Run(k *kong.Context) error {
	t, err := hstype.Parse(c.Type)
	if err != nil {
		return fmt.Errorf("%q: %w", c.Type, err)
	}
	p := &layout.Projector{CPackage: c.C, ABIPackage: c.ABI}
	fmt.Fprintln(k.Stdout, layout.Format(p.Project(t)))
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("hsbindgen"),
		kong.Description("Haskell C-FFI type tools for Go bindings."),
		kong.UsageOnError(),
	)
	err := ctx.Run(newLogger(cli.Verbose))
	ctx.FatalIfErrorf(err)
}
