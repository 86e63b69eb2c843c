package check

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/broady/hsbindgen/cmd/hsbindgen/internal/target"
	sigcheck "github.com/broady/hsbindgen/internal/check"
)

type Cmd struct {
	Package string `help:"Package to scan (default: current directory)." short:"p" default:"."`
	Target  string `help:"Target platform as GOOS/GOARCH (default: host)." short:"t"`
}

func (c *Cmd) Run(k *kong.Context, logger *slog.Logger) error {
	platform, env, err := target.Parse(c.Target)
	if err != nil {
		return err
	}
	opts := sigcheck.Options{
		Package:  c.Package,
		Platform: platform,
		Env:      env,
		Logger:   logger,
	}

	report, err := sigcheck.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	for _, f := range report.Findings {
		if f.Err != nil {
			fmt.Fprintf(k.Stdout, "✗ %s: %s: %v\n", f.Pos, f.Func, f.Err)
			continue
		}
		fmt.Fprintf(k.Stdout, "✓ %s %s\n", f.Func, f.Fragment)
	}

	if failed := len(report.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d signatures do not match", failed, len(report.Findings))
	}
	fmt.Fprintf(k.Stdout, "✓ %d signatures match\n", len(report.Findings))
	return nil
}
