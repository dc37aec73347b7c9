// pack.go implements the string/numeric precision packing rules: a
// Barracuda string literal is not a distinct runtime type, it is a
// user-space array of numeric values — one value per *slot*, each slot
// holding several characters packed byte-by-byte, in source order,
// terminated by a zero sentinel so a null-terminated C-style read still
// works from the same storage.

package ast

import "barracuda/types"

// charsPerSlot returns how many single-byte characters pack into one
// numeric slot at precision: 4 for f32 (32 bits / 8), 8 for f64.
func charsPerSlot(precision types.Precision) int {
	if precision == types.PrecisionF32 {
		return 4
	}
	return 8
}

// PackString converts a decoded string literal's runes into the numeric
// sequence that will be written into user-space storage: each rune is
// truncated to a single byte, a zero terminator byte is appended, and the
// resulting byte run is packed charsPerSlot(precision) bytes to a slot
// (little-endian, first character in the low byte), matching how the
// generator later narrows/widens every other value to precision.
func PackString(runes []rune, precision types.Precision) []float64 {
	bytes := make([]byte, 0, len(runes)+1)
	for _, r := range runes {
		bytes = append(bytes, byte(r))
	}
	bytes = append(bytes, 0)

	perSlot := charsPerSlot(precision)
	packed := make([]float64, 0, (len(bytes)+perSlot-1)/perSlot)
	for i := 0; i < len(bytes); i += perSlot {
		end := i + perSlot
		if end > len(bytes) {
			end = len(bytes)
		}
		var slot uint64
		for j := i; j < end; j++ {
			slot |= uint64(bytes[j]) << (8 * uint(j-i))
		}
		packed = append(packed, float64(slot))
	}
	return packed
}
