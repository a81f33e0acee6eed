package bus

import (
	"gbabus/internal/cartridge"
	"gbabus/internal/diag"
	"gbabus/internal/memory"
	"gbabus/internal/region"
)

// soundRegisterOffsets is the enumerated set of I/O byte offsets that route
// byte writes to the sound engine rather than the generic I/O store (spec
// §4.5).
var soundRegisterOffsets = buildSoundRegisterSet()

func buildSoundRegisterSet() map[uint32]bool {
	ranges := [][2]uint32{
		{0x60, 0x65}, {0x68, 0x69}, {0x6C, 0x6D},
		{0x70, 0x75}, {0x78, 0x79}, {0x7C, 0x7D},
		{0x80, 0x81}, {0x84, 0x85}, {0x90, 0x9F},
	}
	set := make(map[uint32]bool)
	for _, r := range ranges {
		for off := r[0]; off <= r[1]; off++ {
			set[off] = true
		}
	}
	return set
}

const haltcntOffset = 0x301

// WriteByte implements the CPU's write_byte operation.
func (b *Bus) WriteByte(addr uint32, value uint8) {
	b.dispatchWrite(addr, 1, uint32(value))
}

// WriteHalfword implements write_halfword.
func (b *Bus) WriteHalfword(addr uint32, value uint16) {
	b.dispatchWrite(addr, 2, uint32(value))
}

// WriteWord implements write_word.
func (b *Bus) WriteWord(addr uint32, value uint32) {
	b.dispatchWrite(addr, 4, value)
}

func (b *Bus) dispatchWrite(addr uint32, width int, value uint32) {
	switch region.Classify(addr) {
	case region.BIOS:
		// Read-only; all writes are ignored (spec §4.5, invariant 3).
		b.diag.Event(diag.IllegalWrite, "bus: write to read-only BIOS at %#08x", addr)
	case region.WRAM:
		off := alignedOffset(addr, width, region.WRAMWordMask, region.WRAMHalfMask, region.WRAMByteMask)
		writeAligned(b.mem.WRAM[:], off, width, value)
	case region.IWRAM:
		off := alignedOffset(addr, width, region.IWRAMWordMask, region.IWRAMHalfMask, region.IWRAMByteMask)
		writeAligned(b.mem.IWRAM[:], off, width, value)
	case region.Palette:
		b.writePalette(addr, width, value)
	case region.OAM:
		b.writeOAM(addr, width, value)
	case region.IORegisters:
		b.writeIO(addr, width, value)
	case region.VRAM:
		b.writeVRAM(addr, width, value)
	case region.ROM:
		b.writeROM(addr, width, value)
	case region.ROMAliasEEPROM:
		b.writeEEPROMAlias(addr, width, value)
	case region.Save:
		b.writeSaveRegion(addr, width, value)
	default:
		b.diag.Event(diag.IllegalWrite, "bus: write to invalid region at %#08x", addr)
	}
}

func (b *Bus) writePalette(addr uint32, width int, value uint32) {
	off := alignedOffset(addr, width, region.PaletteWordMask, region.PaletteHalfMask, region.PaletteByteMask)
	if width == 1 {
		v := uint16(value&0xFF) | uint16(value&0xFF)<<8
		memory.WriteHalf(b.mem.Palette[:], off&^1, v)
		return
	}
	writeAligned(b.mem.Palette[:], off, width, value)
}

func (b *Bus) writeOAM(addr uint32, width int, value uint32) {
	if width == 1 {
		return // OAM byte writes are always dropped (spec §4.5, invariant 7).
	}
	off := alignedOffset(addr, width, region.OAMWordMask, region.OAMHalfMask, region.OAMByteMask)
	writeAligned(b.mem.OAM[:], off, width, value)
}

func (b *Bus) writeIO(addr uint32, width int, value uint32) {
	// Boundary checked against the raw sub-address before masking, same
	// reasoning as readIO: masking first would make this unreachable.
	if addr&0xFFFFFF >= memory.IOSize {
		return
	}
	off := addr & region.IOByteMask
	switch width {
	case 4:
		aligned := off &^ 3
		lo := uint16(value)
		hi := uint16(value >> 16)
		memory.WriteWord(b.mem.IO[:], aligned, value)
		b.regUpd.UpdateRegister(aligned, lo)
		b.regUpd.UpdateRegister(aligned+2, hi)
	case 2:
		aligned := off &^ 1
		memory.WriteHalf(b.mem.IO[:], aligned, uint16(value))
		b.regUpd.UpdateRegister(aligned, uint16(value))
	default:
		b.writeIOByte(off, uint8(value))
	}
}

func (b *Bus) writeIOByte(off uint32, value uint8) {
	if off == haltcntOffset {
		b.ctx.SetHaltState(value == 0x80)
		b.ctx.WakeCheck()
		return
	}
	if soundRegisterOffsets[off] {
		b.sound.WriteSoundRegister(off, value)
		return
	}
	aligned := off &^ 1
	merged := memory.ReadHalf(b.mem.IO[:], aligned)
	if off&1 == 0 {
		merged = (merged & 0xFF00) | uint16(value)
	} else {
		merged = (merged & 0x00FF) | uint16(value)<<8
	}
	memory.WriteHalf(b.mem.IO[:], aligned, merged)
	b.regUpd.UpdateRegister(aligned, merged)
}

func (b *Bus) writeVRAM(addr uint32, width int, value uint32) {
	raw := addr & 0x1FFFF
	mask := uint32(width - 1)
	rawAligned := raw &^ mask
	mirrored, inHole := region.MirrorVRAM(rawAligned)
	if inHole && b.bgMode() > 2 {
		return
	}
	if width == 1 {
		if mirrored >= b.objTilesBase() {
			return // OBJ-tile region byte writes are dropped.
		}
		v := uint16(value&0xFF) | uint16(value&0xFF)<<8
		memory.WriteHalf(b.mem.VRAM[:], mirrored&^1, v)
		return
	}
	writeAligned(b.mem.VRAM[:], mirrored, width, value)
}

func (b *Bus) writeROM(addr uint32, width int, value uint32) {
	if width == 2 {
		switch addr {
		case 0x080000C4, 0x080000C6, 0x080000C8:
			if b.cart.Features.HasRTC && b.cart.RTC != nil && b.cart.RTC.Enabled() {
				b.cart.RTC.Write(addr, uint16(value))
			}
			return
		}
	}
	b.diag.Event(diag.IllegalWrite, "bus: write to read-only ROM at %#08x", addr)
}

func (b *Bus) writeEEPROMAlias(addr uint32, width int, value uint32) {
	if b.cart.Features.SaveType != cartridge.SaveEEPROM || b.cart.EEPROM == nil {
		return
	}
	if width == 4 {
		b.cart.EEPROM.WriteWord(addr, value)
		return
	}
	b.cart.EEPROM.WriteByte(addr, uint8(value))
}

func (b *Bus) writeSaveRegion(addr uint32, width int, value uint32) {
	off := addr & 0xFFFF
	switch {
	case b.cart.Features.SaveType == cartridge.SaveSRAM && b.cart.SRAM != nil:
		b.cart.SRAM.Write(off, uint8(value))
	case b.cart.Features.SaveType == cartridge.SaveFlash && b.cart.Flash != nil:
		b.cart.Flash.Write(off, uint8(value))
	}
}

// writeAligned performs a little-endian store of the given width to an
// already in-range, width-aligned offset.
func writeAligned(b []byte, off uint32, width int, value uint32) {
	switch width {
	case 1:
		memory.WriteByte(b, off, uint8(value))
	case 2:
		memory.WriteHalf(b, off, uint16(value))
	default:
		memory.WriteWord(b, off, value)
	}
}
