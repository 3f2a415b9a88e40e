// Package optimize holds the small CPU-dispatched primitives used on
// the hot path. Feature detection happens once at init; callers just
// use the exported functions.
package optimize

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// useWide selects the 8-byte-word comparison path. Gated on the SIMD
// baselines the teacher platforms guarantee fast unaligned loads on.
var useWide bool

func init() {
	if cpu.X86.HasSSE42 || cpu.X86.HasAVX2 {
		useWide = true
	}
	if cpu.ARM64.HasASIMD {
		useWide = true
	}
}

const (
	foldHi    = 0x8080808080808080
	foldLo    = 0x0101010101010101
	foldSeven = 0x7f7f7f7f7f7f7f7f
)

// EqualFoldASCII reports whether a and b are equal under ASCII
// case-folding. Intended for short tokens (file extensions, header
// values); bytes outside A-Z/a-z must match exactly.
func EqualFoldASCII(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if useWide {
		for len(a) >= 8 {
			if !wordEqualFold(binary.LittleEndian.Uint64(a), binary.LittleEndian.Uint64(b)) {
				return false
			}
			a, b = a[8:], b[8:]
		}
	}
	for i := range a {
		if foldByte(a[i]) != foldByte(b[i]) {
			return false
		}
	}
	return true
}

// wordEqualFold compares eight bytes at once, folding A-Z to a-z in
// both words before the compare.
func wordEqualFold(x, y uint64) bool {
	return foldWord(x) == foldWord(y)
}

// foldWord sets bit 0x20 in every byte of w that holds an ASCII
// uppercase letter. The range test runs on the low seven bits of every
// byte in parallel; masking to seven bits first keeps the per-byte adds
// from carrying into their neighbors.
func foldWord(w uint64) uint64 {
	seven := w & foldSeven
	geA := seven + foldLo*(0x80-'A') // high bit set iff byte >= 'A'
	gtZ := seven + foldLo*(0x7f-'Z') // high bit set iff byte > 'Z'
	upper := geA &^ gtZ &^ w & foldHi
	return w | upper>>2
}

func foldByte(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		c += 'a' - 'A'
	}
	return c
}
