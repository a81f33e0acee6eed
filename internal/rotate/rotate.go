// Package rotate implements the Alignment/Rotation Unit: the pure
// transformations applied to an already-fetched, alignment-masked value to
// reproduce the ARM7TDMI's rotated-read behavior for unaligned loads (spec
// §4.2). The backing fetch itself always happens at the address with its
// low bits cleared; these functions rotate the result afterward.
package rotate

// Word rotates a 32-bit load right by (addr&3)*8 bits, reproducing the ARM
// LDR misaligned-access quirk. Addresses with their low two bits clear are
// returned unchanged.
func Word(v uint32, addr uint32) uint32 {
	shift := (addr & 3) * 8
	if shift == 0 {
		return v
	}
	return (v >> shift) | (v << (32 - shift))
}

// Half rotates a 16-bit load right by 8 bits when addr is odd, widening the
// result to 32 bits so the rotated-in byte lands in the upper half (spec
// §4.2's rotateHalf). Even addresses are returned unchanged, zero-extended.
func Half(v uint16, addr uint32) uint32 {
	if addr&1 == 0 {
		return uint32(v)
	}
	v32 := uint32(v)
	return (v32 >> 8) | (v32 << 24)
}

// SignExtendHalf implements the ARM signed-halfword-load quirk for
// misaligned addresses: an odd address sign-extends only the low byte of
// the aligned halfword (discarding the high byte entirely), while an even
// address sign-extends the full halfword normally.
func SignExtendHalf(v uint16, addr uint32) int32 {
	if addr&1 != 0 {
		return int32(int8(byte(v)))
	}
	return int32(int16(v))
}
