// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Convolve - GF(2) Convolution With Streaming Continuation
// ───────────────────────────────────────────────────────────────────────────────────────────────
//
// DESIGN PHILOSOPHY:
// ─────────────────
// 1. 64-bit shift register: reg = reg<<1 | inputBit, output = parity(reg & tapsMask)
// 2. taps occupy the low T bits of the register/mask, so the AND only ever
//    sees the T most recently shifted-in bits — the "taps-aligned window"
// 3. Continuation fill is just the low 32 bits of reg at exit: carrying
//    reg forward across two calls is indistinguishable from never having
//    split the input, which is exactly what property 6 requires
// 4. Scalar, 128-bit and 256-bit entry points are distinct multi-versioned
//    functions (spec §9) that must agree bit-for-bit; see their doc
//    comments for how each groups its inner loop
//
// PERFORMANCE:
// ───────────
// Each step shifts one input bit into the register; steps are grouped in
// batches of 32 (the spec's batch-of-32 recommendation); the 128/256-bit variants
// group two/four such batches per outer stride. Without real SIMD
// assembly this module cannot issue true hardware-parallel lanes, so the
// wide variants are portable Go realizations: they compute the identical
// register recurrence, just organized as cpufeat advertises a wider
// tier, and are bit-identical to Scalar by construction rather than by
// coincidence.
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package convolve

import (
	"math/bits"

	"github.com/bagoulla/BitArray"
	"github.com/bagoulla/BitArray/internal/cpufeat"
)

// MaxTaps is the widest tap vector this module accepts (spec §1 non-goal:
// taps wider than 32 bits).
const MaxTaps = 32

// tapsMask packs taps's T bits into the low T bits of a uint64: bit i of
// the mask is taps bit i. Paired against a shift register whose low T
// bits hold the T most recently shifted-in input bits, AND+parity of
// this mask is the GF(2) inner product the spec calls for.
func tapsMask(taps bitarray.BitStorage) uint64 {
	var mask uint64
	for i := 0; i < taps.Size(); i++ {
		if taps.Get(i) {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// plan resolves how many output bits are required and validates the
// request before any output bit is written, per spec §7's "no
// partial-write outcomes" rule.
func plan(taps, result bitarray.BitStorage, inputLen int, flush bool) (required int, err error) {
	T := taps.Size()
	if T > MaxTaps {
		return 0, bitarray.NewRangeError("Convolve", T, MaxTaps)
	}
	if flush {
		required = T + inputLen - 1
		if required < 0 {
			required = 0
		}
	} else {
		required = inputLen
	}
	if result.Size() < required {
		return 0, bitarray.NewCapacityError("Convolve", required, result.Size())
	}
	return required, nil
}

// inputBit returns input's bit k, or 0 once k reaches the flush tail
// (positions past the real input behave as if zero were shifted in).
func inputBit(input bitarray.BitStorage, k int) uint64 {
	if k >= input.Size() {
		return 0
	}
	if input.Get(k) {
		return 1
	}
	return 0
}

// step advances the shift register by one input bit and returns the
// parity output bit for the new window. This is the single recurrence
// every variant below is built from.
func step(reg, mask, bit uint64) (newReg uint64, out bool) {
	newReg = reg<<1 | bit
	return newReg, bits.OnesCount64(newReg&mask)&1 != 0
}

// Scalar computes Convolve one bit at a time, shifting one input bit into
// the register per output bit, in batches of 32 steps. taps, input and result
// are whole storages (Convolve has no sub-range form); initialFill seeds
// the register's low 32 bits and the returned fill is the register's low
// 32 bits at exit, for use as the next call's initialFill.
func Scalar(taps, input, result bitarray.BitStorage, flush bool, initialFill uint32) (newFill uint32, err error) {
	required, err := plan(taps, result, input.Size(), flush)
	if err != nil {
		return 0, err
	}
	mask := tapsMask(taps)
	reg := uint64(initialFill)
	k := 0
	for ; k+32 <= required; k += 32 {
		for j := 0; j < 32; j++ {
			var out bool
			reg, out = step(reg, mask, inputBit(input, k+j))
			result.Set(k+j, out)
		}
	}
	for ; k < required; k++ {
		var out bool
		reg, out = step(reg, mask, inputBit(input, k))
		result.Set(k, out)
	}
	return uint32(reg & 0xFFFFFFFF), nil
}

// runLanes is the shared body for the wide variants: it performs the
// identical register recurrence as Scalar, grouped into strides of
// stride output bits (64 for Wide128, 128 for Wide256) to mirror the
// lane structure the spec describes, with any remainder handled by the
// same 32-bit batching Scalar uses. Because every variant updates the
// same reg via the same step function, all three are bit-identical by
// construction — there is no independent "lane" computation that could
// drift from the scalar recurrence.
func runLanes(taps, input, result bitarray.BitStorage, flush bool, initialFill uint32, stride int) (newFill uint32, err error) {
	required, err := plan(taps, result, input.Size(), flush)
	if err != nil {
		return 0, err
	}
	mask := tapsMask(taps)
	reg := uint64(initialFill)
	k := 0
	for ; k+stride <= required; k += stride {
		for lane := 0; lane < stride/32; lane++ {
			base := k + lane*32
			for j := 0; j < 32; j++ {
				var out bool
				reg, out = step(reg, mask, inputBit(input, base+j))
				result.Set(base+j, out)
			}
		}
	}
	for ; k+32 <= required; k += 32 {
		for j := 0; j < 32; j++ {
			var out bool
			reg, out = step(reg, mask, inputBit(input, k+j))
			result.Set(k+j, out)
		}
	}
	for ; k < required; k++ {
		var out bool
		reg, out = step(reg, mask, inputBit(input, k))
		result.Set(k, out)
	}
	return uint32(reg & 0xFFFFFFFF), nil
}

// Wide128 groups the register recurrence into 64-bit strides (two
// 32-bit lanes).
func Wide128(taps, input, result bitarray.BitStorage, flush bool, initialFill uint32) (uint32, error) {
	return runLanes(taps, input, result, flush, initialFill, 64)
}

// Wide256 groups the register recurrence into 128-bit strides (four
// 32-bit lanes).
func Wide256(taps, input, result bitarray.BitStorage, flush bool, initialFill uint32) (uint32, error) {
	return runLanes(taps, input, result, flush, initialFill, 128)
}

// Convolve dispatches to the widest variant cpufeat.Select() recommends.
// Call Scalar, Wide128 or Wide256 directly to pin a tier.
func Convolve(taps, input, result bitarray.BitStorage, flush bool, initialFill uint32) (uint32, error) {
	switch cpufeat.Select() {
	case cpufeat.Tier256:
		return Wide256(taps, input, result, flush, initialFill)
	case cpufeat.Tier128:
		return Wide128(taps, input, result, flush, initialFill)
	default:
		return Scalar(taps, input, result, flush, initialFill)
	}
}
