// Package target parses the GOOS/GOARCH value of the --target flag.
package target

import (
	"fmt"
	"os"
	"strings"

	"github.com/broady/hsbindgen/hstype/provider"
)

// Parse returns the word table for s and a go command environment that
// selects the same target. An empty s means the host: both results are nil.
func Parse(s string) (*provider.Platform, []string, error) {
	if s == "" {
		return nil, nil, nil
	}
	goos, goarch, ok := strings.Cut(s, "/")
	if !ok || goos == "" || goarch == "" {
		return nil, nil, fmt.Errorf("target %q: want GOOS/GOARCH", s)
	}
	platform, ok := provider.PlatformFor(goos, goarch)
	if !ok {
		return nil, nil, fmt.Errorf("target %q: unknown architecture", s)
	}
	env := append(os.Environ(), "GOOS="+goos, "GOARCH="+goarch)
	return &platform, env, nil
}
