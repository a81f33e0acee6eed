// Package region implements the GBA bus's Region Map and Mirroring Unit: a
// pure function of the top byte of an address to a region kind, and the
// per-region address masks that fold an address onto its backing array.
package region

// Kind is the closed enumeration of regions the bus can route an access to.
type Kind uint8

const (
	BIOS Kind = iota
	Unused
	WRAM
	IWRAM
	IORegisters
	Palette
	VRAM
	OAM
	ROM
	ROMAliasEEPROM // 0x0D: second ROM alias, reserved for EEPROM accesses
	Save           // 0x0E: SRAM / Flash / motion sensor
	Invalid
)

// Classify maps address>>24 to a Kind, per spec §4.1.
func Classify(addr uint32) Kind {
	switch addr >> 24 {
	case 0x00:
		return BIOS
	case 0x01:
		return Unused
	case 0x02:
		return WRAM
	case 0x03:
		return IWRAM
	case 0x04:
		return IORegisters
	case 0x05:
		return Palette
	case 0x06:
		return VRAM
	case 0x07:
		return OAM
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C:
		return ROM
	case 0x0D:
		return ROMAliasEEPROM
	case 0x0E:
		return Save
	default:
		return Invalid
	}
}

// Mirroring masks, one triple per region, per spec §4.3.
const (
	BIOSWordMask = 0x3FFC
	BIOSHalfMask = 0x3FFE
	BIOSByteMask = 0x3FFF

	WRAMWordMask = 0x3FFFC
	WRAMHalfMask = 0x3FFFE
	WRAMByteMask = 0x3FFFF

	IWRAMWordMask = 0x7FFC
	IWRAMHalfMask = 0x7FFE
	IWRAMByteMask = 0x7FFF

	IOWordMask = 0x3FC
	IOHalfMask = 0x3FE
	IOByteMask = 0x3FF

	PaletteWordMask = 0x3FC
	PaletteHalfMask = 0x3FE
	PaletteByteMask = 0x3FF

	OAMWordMask = 0x3FC
	OAMHalfMask = 0x3FE
	OAMByteMask = 0x3FF

	ROMWordMask = 0x1FFFFFC
	ROMHalfMask = 0x1FFFFFE
	ROMByteMask = 0x1FFFFFF
)

// VRAM mirroring is not a flat mask: the 128 KiB window first wraps at
// 0x1FFFF, and the top 32 KiB of that window (0x18000-0x1FFFF)
// additionally mirrors down onto the 32 KiB just below it (spec §3
// invariant 6, §4.3).
const (
	vramWindowMask = 0x1FFFF
	vramHoleBase   = 0x18000
	vramHoleMask   = 0x17FFF
)

// MirrorVRAM applies the two-step VRAM mirror to an already width-aligned
// offset (the caller clears the low bits for half/word accesses before
// calling). It returns the in-range offset to index the 96 KiB backing
// array with, along with whether the pre-mirror offset fell in the
// mirrored upper-32KiB subrange (needed by the BG-mode>2 zero-read rule).
func MirrorVRAM(offset uint32) (mirrored uint32, inUpperMirror bool) {
	offset &= vramWindowMask
	inUpperMirror = offset&0x18000 == vramHoleBase
	if inUpperMirror {
		offset &= vramHoleMask
	}
	return offset, inUpperMirror
}
