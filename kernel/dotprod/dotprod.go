// ═══════════════════════════════════════════════════════════════════════════════════════════════
// DotProd - Unaligned AND-Popcount Inner Product
// ───────────────────────────────────────────────────────────────────────────────────────────────
//
// DESIGN PHILOSOPHY:
// ─────────────────
// 1. No aligned-copy step: operate directly on arbitrary sub-byte offsets
// 2. Overlapping 64-bit loads: load 8 bytes, keep the low 56, the 8th
//    byte becomes the anchor of the next load 7 bytes later
// 3. Tail-zero guard (bitarray.BitStorage) makes the final overrun-by-up-to-7-bytes load safe
// 4. Scalar and 128-bit variants share one tail path and must agree bit-for-bit
//
// PERFORMANCE:
// ───────────
// The overlapping-load trick produces 56 correct result bits per 64-bit
// load. Replacing it with a plain aligned-load-and-mask loop works but
// needs an extra shift-and-combine step per word to stitch bytes that
// straddle the two operands' independent alignments; this is the
// documented reason to keep the overlap trick rather than "simplify" it.
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package dotprod

import (
	"encoding/binary"
	"math/bits"

	"github.com/bagoulla/BitArray"
	"github.com/bagoulla/BitArray/internal/cpufeat"
)

// low56Mask keeps the low 56 bits of a 64-bit word: a 64-bit load gives
// 64-pos valid bits after the right-shift-by-position, but bits 56..63
// belong to the next chunk (the load 7 bytes ahead already covers them),
// so they must be excluded here to avoid double-counting.
const low56Mask = 0x00FFFFFFFFFFFFFF

// loadWord64LE reads an unaligned little-endian 64-bit word starting at
// byte offset off. Reads that would run past the end of data are
// zero-padded; BitRef.CheckRange already established that any such
// overrun lands inside the tail-zero guard, so the padding is
// semantically identical to what the guard bytes would have supplied.
func loadWord64LE(data []byte, off int) uint64 {
	if off >= len(data) {
		return 0
	}
	if off+8 <= len(data) {
		return binary.LittleEndian.Uint64(data[off : off+8])
	}
	var buf [8]byte
	copy(buf[:], data[off:])
	return binary.LittleEndian.Uint64(buf[:])
}

// scalarRange computes the AND-popcount of a length-bit range starting
// at the given byte offset / sub-byte position on each side. It is the
// core 56-bits-per-chunk loop from the spec, parameterized so both the
// scalar entry point and the 128-bit variant's tail can share it.
func scalarRange(aData []byte, aOff int, aPos uint, bData []byte, bOff int, bPos uint, length int) int {
	count := 0
	i := 0
	for length >= 56 {
		wa := (loadWord64LE(aData, aOff+i) >> aPos) & low56Mask
		wb := (loadWord64LE(bData, bOff+i) >> bPos) & low56Mask
		count += bits.OnesCount64(wa & wb)
		i += 7
		length -= 56
	}
	if length > 0 {
		wa := loadWord64LE(aData, aOff+i) >> aPos
		wb := loadWord64LE(bData, bOff+i) >> bPos
		shift := uint(64 - length)
		count += bits.OnesCount64((wa << shift) & (wb << shift))
	}
	return count
}

// Scalar computes popcount(a[0:length] AND b[0:length]), processing 56
// bits per loop iteration. a and b must be ranges of equal length
// starting at the given refs; CheckRange enforces the tail-guard
// contract before any load runs.
func Scalar(a, b bitarray.BitRef, length int) int {
	a.CheckRange(length, "DotProd")
	b.CheckRange(length, "DotProd")
	return scalarRange(a.Bytes(), a.ByteOffset(), uint(a.BitPos()), b.Bytes(), b.ByteOffset(), uint(b.BitPos()), length)
}

// Wide128 computes the same result as Scalar but consumes 112 bits
// (two overlapping 56-bit chunks) per loop iteration, assembling each
// chunk pair from two 64-bit loads offset by 7 bytes. The final partial
// stride (< 112 bits left) falls through to scalarRange, so output is
// bit-identical to Scalar for every length.
func Wide128(a, b bitarray.BitRef, length int) int {
	a.CheckRange(length, "DotProd")
	b.CheckRange(length, "DotProd")

	aData, bData := a.Bytes(), b.Bytes()
	aOff, bOff := a.ByteOffset(), b.ByteOffset()
	aPos, bPos := uint(a.BitPos()), uint(b.BitPos())

	count := 0
	i := 0
	for length >= 112 {
		wa0 := (loadWord64LE(aData, aOff+i) >> aPos) & low56Mask
		wb0 := (loadWord64LE(bData, bOff+i) >> bPos) & low56Mask
		count += bits.OnesCount64(wa0 & wb0)

		wa1 := (loadWord64LE(aData, aOff+i+7) >> aPos) & low56Mask
		wb1 := (loadWord64LE(bData, bOff+i+7) >> bPos) & low56Mask
		count += bits.OnesCount64(wa1 & wb1)

		i += 14
		length -= 112
	}
	count += scalarRange(aData, aOff+i, aPos, bData, bOff+i, bPos, length)
	return count
}

// DotProd dispatches to the widest kernel variant cpufeat.Select()
// recommends for the host. Call Scalar or Wide128 directly to pin a
// specific tier, e.g. in cross-variant agreement tests.
func DotProd(a, b bitarray.BitRef, length int) int {
	if cpufeat.Select() >= cpufeat.Tier128 {
		return Wide128(a, b, length)
	}
	return Scalar(a, b, length)
}
