package provider

import (
	"runtime"
	"testing"
)

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		ok           bool
	}{
		{"linux", "amd64", "LP64", true},
		{"darwin", "arm64", "LP64", true},
		{"linux", "riscv64", "LP64", true},
		{"windows", "amd64", "LLP64", true},
		{"windows", "arm64", "LLP64", true},
		{"linux", "386", "ILP32", true},
		{"linux", "arm", "ILP32", true},
		{"windows", "386", "ILP32", true},
		{"linux", "pdp11", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, ok := PlatformFor(tt.goos, tt.goarch)
			if ok != tt.ok {
				t.Fatalf("PlatformFor() ok = %v, want %v", ok, tt.ok)
			}
			if got.Name != tt.want {
				t.Errorf("PlatformFor() = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestHost(t *testing.T) {
	want, ok := PlatformFor(runtime.GOOS, runtime.GOARCH)
	if !ok {
		t.Skipf("gc sizes unknown for %s", runtime.GOARCH)
	}
	if Host != want {
		t.Errorf("Host = %s, want %s", Host.Name, want.Name)
	}
}
