package provider

import (
	"go/types"
	"runtime"
	"strconv"

	"github.com/broady/hsbindgen/hstype"
)

// Platform resolves the Go integer types whose C spelling depends on the
// target: int64 and uint64 (C long on LP64, long long elsewhere) and the
// word-sized int, uint and uintptr.
type Platform struct {
	// Name identifies the data model, "LP64" or "LLP64" (or "ILP32").
	Name string

	Int64, Uint64 hstype.Primitive
	Int, Uint     hstype.Primitive
}

// The fixed word tables. LP64 covers 64-bit non-Windows targets, where C
// long is 64 bits wide; everything else spells 64-bit integers long long.
var (
	LP64 = Platform{
		Name:   "LP64",
		Int64:  hstype.CLong,
		Uint64: hstype.CULong,
		Int:    hstype.CLong,
		Uint:   hstype.CULong,
	}
	LLP64 = Platform{
		Name:   "LLP64",
		Int64:  hstype.CLLong,
		Uint64: hstype.CULLong,
		Int:    hstype.CLLong,
		Uint:   hstype.CULLong,
	}
	ILP32 = Platform{
		Name:   "ILP32",
		Int64:  hstype.CLLong,
		Uint64: hstype.CULLong,
		Int:    hstype.CInt,
		Uint:   hstype.CUInt,
	}
)

// hostLP64 and hostWord64 are compile-time constants: the table below is
// chosen when the package is built, not per lookup.
const (
	hostWord64 = strconv.IntSize == 64
	hostLP64   = hostWord64 && runtime.GOOS != "windows"
)

// Host is the table for the platform this binary was built for.
var Host = hostPlatform()

func hostPlatform() Platform {
	switch {
	case hostLP64:
		return LP64
	case hostWord64:
		return LLP64
	default:
		return ILP32
	}
}

// PlatformFor returns the table for a GOOS/GOARCH pair, for loading source
// for another target. ok is false if the gc toolchain does not know goarch.
func PlatformFor(goos, goarch string) (p Platform, ok bool) {
	sizes := types.SizesFor("gc", goarch)
	if sizes == nil {
		return Platform{}, false
	}
	switch {
	case sizes.Sizeof(types.Typ[types.Uintptr]) == 4:
		return ILP32, true
	case goos == "windows":
		return LLP64, true
	default:
		return LP64, true
	}
}
