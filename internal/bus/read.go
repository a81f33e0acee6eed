package bus

import (
	"gbabus/internal/cartridge"
	"gbabus/internal/diag"
	"gbabus/internal/memory"
	"gbabus/internal/region"
	"gbabus/internal/rotate"
	"gbabus/internal/timer"
)

// timerIOOffsets maps an I/O byte offset to the timer index whose live
// counter is synthesized there, per spec §4.4.
var timerIOOffsets = map[uint32]int{
	0x100: 0,
	0x104: 1,
	0x108: 2,
	0x10C: 3,
}

// ReadByte implements the CPU's read_byte operation.
func (b *Bus) ReadByte(addr uint32) uint8 {
	return uint8(b.dispatchRead(addr, 1))
}

// ReadHalfword implements read_halfword: zero-extended, rotated if
// unaligned.
func (b *Bus) ReadHalfword(addr uint32) uint32 {
	v := b.dispatchRead(addr, 2)
	return rotate.Half(uint16(v), addr)
}

// ReadHalfwordSigned implements read_halfword_signed: sign-extended per the
// unaligned-load quirk in spec §4.2.
func (b *Bus) ReadHalfwordSigned(addr uint32) int32 {
	v := b.dispatchRead(addr, 2)
	return rotate.SignExtendHalf(uint16(v), addr)
}

// ReadWord implements read_word.
func (b *Bus) ReadWord(addr uint32) uint32 {
	v := b.dispatchRead(addr, 4)
	return rotate.Word(v, addr)
}

// dispatchRead fetches the aligned value at addr for the given width (in
// bytes), before rotation is applied. The backing fetch always uses addr
// with its low bits for this width cleared (spec §4.2).
func (b *Bus) dispatchRead(addr uint32, width int) uint32 {
	switch region.Classify(addr) {
	case region.BIOS:
		return b.readBIOS(addr, width)
	case region.WRAM:
		off := alignedOffset(addr, width, region.WRAMWordMask, region.WRAMHalfMask, region.WRAMByteMask)
		return readAligned(b.mem.WRAM[:], off, width)
	case region.IWRAM:
		off := alignedOffset(addr, width, region.IWRAMWordMask, region.IWRAMHalfMask, region.IWRAMByteMask)
		return readAligned(b.mem.IWRAM[:], off, width)
	case region.Palette:
		off := alignedOffset(addr, width, region.PaletteWordMask, region.PaletteHalfMask, region.PaletteByteMask)
		return readAligned(b.mem.Palette[:], off, width)
	case region.OAM:
		off := alignedOffset(addr, width, region.OAMWordMask, region.OAMHalfMask, region.OAMByteMask)
		return readAligned(b.mem.OAM[:], off, width)
	case region.IORegisters:
		return b.readIO(addr, width)
	case region.VRAM:
		return b.readVRAM(addr, width)
	case region.ROM:
		return b.readROM(addr, width)
	case region.ROMAliasEEPROM:
		return b.readEEPROMAlias(addr, width)
	case region.Save:
		return b.readSaveRegion(addr, width)
	default:
		b.diag.Event(diag.IllegalRead, "bus: open-bus read at %#08x (width %d)", addr, width)
		return b.openBus(width)
	}
}

func (b *Bus) readBIOS(addr uint32, width int) uint32 {
	if !b.executingFromBIOS() {
		// The protected-word substitution applies to the whole documented
		// [0, 0x4000) range, checked against the raw address, not the
		// mirrored offset (which would wrongly narrow the window to the
		// literal bytes [0,3] of the mask).
		if addr >= 0x4000 {
			return b.openBus(width)
		}
		switch width {
		case 1:
			return uint32(b.biosProtected[addr&3])
		case 2:
			off := addr & 2
			return uint32(b.biosProtected[off]) | uint32(b.biosProtected[off+1])<<8
		default:
			return uint32(b.biosProtected[0]) | uint32(b.biosProtected[1])<<8 |
				uint32(b.biosProtected[2])<<16 | uint32(b.biosProtected[3])<<24
		}
	}
	off := alignedOffset(addr, width, region.BIOSWordMask, region.BIOSHalfMask, region.BIOSByteMask)
	return readAligned(b.mem.BIOS[:], off, width)
}

func (b *Bus) readIO(addr uint32, width int) uint32 {
	// The 1KiB I/O window's boundary is checked against the raw sub-address
	// before masking; masking first (with 0x3FC/0x3FE/0x3FF) always yields
	// an in-range value and would make this check unreachable.
	if addr&0xFFFFFF >= memory.IOSize {
		return b.openBus(width)
	}
	off := addr & region.IOByteMask
	aligned := off &^ uint32(width-1)

	if width == 2 {
		if ti, ok := timerIOOffsets[aligned]; ok && b.timers.Enabled(ti) && !b.timers.Cascading(ti) {
			return uint32(timer.LiveValue(b.timers, ti))
		}
	}

	if !b.mem.IOMask[aligned] {
		return b.openBus(width)
	}
	switch width {
	case 1:
		return uint32(b.mem.IO[aligned])
	case 2:
		return uint32(memory.ReadHalf(b.mem.IO[:], aligned))
	default:
		if !b.mem.IOMask[aligned+2] {
			return uint32(memory.ReadHalf(b.mem.IO[:], aligned))
		}
		return memory.ReadWord(b.mem.IO[:], aligned)
	}
}

func (b *Bus) readVRAM(addr uint32, width int) uint32 {
	raw := addr & 0x1FFFF
	mask := uint32(width - 1)
	raw &^= mask
	mirrored, inHole := region.MirrorVRAM(raw)
	if inHole && b.bgMode() > 2 {
		return 0
	}
	return readAligned(b.mem.VRAM[:], mirrored, width)
}

func (b *Bus) readROM(addr uint32, width int) uint32 {
	if width == 2 {
		switch addr {
		case 0x080000C4, 0x080000C6, 0x080000C8:
			if b.cart.Features.HasRTC && b.cart.RTC != nil && b.cart.RTC.Enabled() {
				return uint32(b.cart.RTC.Read(addr))
			}
		}
	}
	off := alignedOffset(addr, width, region.ROMWordMask, region.ROMHalfMask, region.ROMByteMask)
	if int(off)+width > len(b.cart.ROM) {
		return b.openBus(width)
	}
	return readAligned(b.cart.ROM, off, width)
}

func (b *Bus) readEEPROMAlias(addr uint32, width int) uint32 {
	if b.cart.Features.SaveType != cartridge.SaveEEPROM || b.cart.EEPROM == nil {
		return b.openBus(width)
	}
	v := b.cart.EEPROM.Read(addr)
	switch width {
	case 1:
		return v & 0xFF
	case 2:
		return v & 0xFFFF
	default:
		return v
	}
}

func (b *Bus) readSaveRegion(addr uint32, width int) uint32 {
	off := addr & 0xFFFF
	switch {
	case b.cart.Features.SaveType == cartridge.SaveSRAM && b.cart.SRAM != nil:
		return uint32(b.cart.SRAM.Read(off))
	case b.cart.Features.SaveType == cartridge.SaveFlash && b.cart.Flash != nil:
		return uint32(b.cart.Flash.Read(off))
	case b.cart.Features.HasMotionSensor && b.cart.Sensor != nil:
		switch off {
		case 0x8200:
			return uint32(uint16(b.cart.Sensor.X()) & 0xFF)
		case 0x8300:
			return uint32((uint16(b.cart.Sensor.X())>>8)&0xFF) | 0x80
		case 0x8400:
			return uint32(uint16(b.cart.Sensor.Y()) & 0xFF)
		case 0x8500:
			return uint32((uint16(b.cart.Sensor.Y()) >> 8) & 0xFF)
		default:
			return b.openBus(width)
		}
	default:
		return b.openBus(width)
	}
}

// alignedOffset masks addr into an in-range, width-aligned backing-store
// offset using the region's word/half/byte mask triple.
func alignedOffset(addr uint32, width int, wordMask, halfMask, byteMask uint32) uint32 {
	switch width {
	case 1:
		return addr & byteMask
	case 2:
		return addr & halfMask
	default:
		return addr & wordMask
	}
}

// readAligned performs a little-endian load of the given width from an
// already in-range, width-aligned offset.
func readAligned(b []byte, off uint32, width int) uint32 {
	switch width {
	case 1:
		return uint32(memory.ReadByte(b, off))
	case 2:
		return uint32(memory.ReadHalf(b, off))
	default:
		return memory.ReadWord(b, off)
	}
}
