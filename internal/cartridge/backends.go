package cartridge

// This file holds minimal, correct-but-not-hardware-faithful
// implementations of the save/RTC/sensor interfaces. Real EEPROM command
// sequencing, Flash sector/chip erase, and RTC calendar state are out of
// scope (spec §1); these exist so the bus has something real to call
// through to in tests and in the demo front-end.

// FlatSRAM is a flat byte array backend for battery SRAM.
type FlatSRAM struct{ data []byte }

// NewFlatSRAM allocates a zeroed SRAM backend of the given size.
func NewFlatSRAM(size int) *FlatSRAM { return &FlatSRAM{data: make([]byte, size)} }

func (s *FlatSRAM) Read(addr uint32) uint8 {
	if int(addr) >= len(s.data) {
		return 0xFF
	}
	return s.data[addr]
}

func (s *FlatSRAM) Write(addr uint32, value uint8) {
	if int(addr) < len(s.data) {
		s.data[addr] = value
	}
}

// FlatFlash is a flat byte array backend for Flash save memory. It accepts
// plain byte-addressed reads/writes without modeling sector erase or the
// Macronix/Sanyo command protocol.
type FlatFlash struct{ data []byte }

// NewFlatFlash allocates a zeroed Flash backend of the given size.
func NewFlatFlash(size int) *FlatFlash { return &FlatFlash{data: make([]byte, size)} }

func (f *FlatFlash) Read(addr uint32) uint8 {
	if int(addr) >= len(f.data) {
		return 0xFF
	}
	return f.data[addr]
}

func (f *FlatFlash) Write(addr uint32, value uint8) {
	if int(addr) < len(f.data) {
		f.data[addr] = value
	}
}

// FlatEEPROM is a flat word array backend for EEPROM save memory. It does
// not model the DMA-driven serial read/write-request protocol real EEPROM
// uses; it simply stores whatever value the bus hands it, preserving the
// word/byte write-width asymmetry described in spec §9 Open Question (a).
type FlatEEPROM struct{ data []uint32 }

// NewFlatEEPROM allocates a zeroed EEPROM backend of the given word count.
func NewFlatEEPROM(words int) *FlatEEPROM { return &FlatEEPROM{data: make([]uint32, words)} }

func (e *FlatEEPROM) index(addr uint32) int {
	i := int(addr) % len(e.data)
	if i < 0 {
		i += len(e.data)
	}
	return i
}

func (e *FlatEEPROM) Read(addr uint32) uint32 {
	if len(e.data) == 0 {
		return 0
	}
	return e.data[e.index(addr)]
}

func (e *FlatEEPROM) WriteByte(addr uint32, value uint8) {
	if len(e.data) == 0 {
		return
	}
	e.data[e.index(addr)] = uint32(value)
}

func (e *FlatEEPROM) WriteWord(addr uint32, value uint32) {
	if len(e.data) == 0 {
		return
	}
	e.data[e.index(addr)] = value
}

// StubRTC reports itself enabled and accepts writes to exactly the three
// addresses the bus is allowed to route to it, but keeps no clock state of
// its own (real date/time tracking is out of scope).
type StubRTC struct {
	ports map[uint32]uint16
}

// NewStubRTC returns an RTC stub that is always enabled.
func NewStubRTC() *StubRTC {
	return &StubRTC{ports: make(map[uint32]uint16)}
}

func (r *StubRTC) Enabled() bool { return true }

func (r *StubRTC) Read(addr uint32) uint16 {
	return r.ports[addr]
}

func (r *StubRTC) Write(addr uint32, value uint16) bool {
	switch addr {
	case 0x080000C4, 0x080000C6, 0x080000C8:
		r.ports[addr] = value
		return true
	default:
		return false
	}
}

// FixedSensor reports a constant reading on both axes; the real motion
// sensor's analog sampling is out of scope.
type FixedSensor struct{ x, y int16 }

// NewFixedSensor builds a sensor stub reporting the given fixed readings.
func NewFixedSensor(x, y int16) *FixedSensor { return &FixedSensor{x: x, y: y} }

func (s *FixedSensor) X() int16 { return s.x }
func (s *FixedSensor) Y() int16 { return s.y }

// Set updates the fixed reading; useful for tests exercising the bus's
// motion-sensor decode path (spec scenario S7) against varying values.
func (s *FixedSensor) Set(x, y int16) { s.x, s.y = x, y }
