// Package cpufeat selects which kernel variant (scalar, 128-bit, 256-bit)
// a dispatcher entry point should run on the current host.
//
// Modeled on the grailbio/base simd package's amd64 dispatch: a
// package-level tier is computed once from golang.org/x/sys/cpu feature
// flags, rather than probed on every call. Function multi-versioning by
// CPU feature is a runtime-dispatch concern separate from the kernels
// themselves — kernel/dotprod and kernel/convolve each expose their
// Scalar/128/256 entry points directly and are individually testable for
// bit-identical output; Select only decides which one a convenience
// wrapper should prefer.
package cpufeat

import "golang.org/x/sys/cpu"

// Tier names a kernel variant width.
type Tier int

const (
	// TierScalar processes one 56-bit chunk per iteration.
	TierScalar Tier = iota
	// Tier128 processes two overlapping 56-bit chunks (112 bits) per
	// iteration, the widest DotProd variant this module implements in
	// portable Go without hand-written assembly.
	Tier128
	// Tier256 processes four lanes (for Convolve only; DotProd has no
	// 256-bit variant per spec).
	Tier256
)

func (t Tier) String() string {
	switch t {
	case TierScalar:
		return "scalar"
	case Tier128:
		return "128-bit"
	case Tier256:
		return "256-bit"
	default:
		return "unknown"
	}
}

var selected Tier

func init() {
	selected = detect()
}

// detect inspects the host's CPU feature flags and picks the widest
// tier this module can exercise. Non-amd64 hosts, or amd64 hosts
// missing the needed feature flags, fall back to scalar — the 128/256
// variants in this module are portable-Go realizations of the
// overlapping-load and parallel-shift-register techniques (see
// kernel/dotprod and kernel/convolve package docs), not hand-written
// vector assembly, so they are always available to run directly; detect
// only governs what the convenience dispatcher picks by default.
func detect() Tier {
	if cpu.X86.HasAVX2 {
		return Tier256
	}
	if cpu.X86.HasSSE42 {
		return Tier128
	}
	return TierScalar
}

// Select returns the tier the convenience dispatch wrappers should use
// on this host. It never panics; hosts without AVX2/SSE4.2 (including
// non-x86 architectures, where cpu.X86's fields all read false) simply
// resolve to TierScalar.
func Select() Tier {
	return selected
}
