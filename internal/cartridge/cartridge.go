// Package cartridge implements the bus's Cartridge Gate: the read-only
// feature set that says which save backend (if any) and which optional
// peripherals (RTC, motion sensor) a loaded game pak has, plus the
// collaborator interfaces the bus calls into for each (spec §3 "Cartridge
// Feature Set", §4.7). The save backends' own internal state machines
// (EEPROM command sequencing, Flash sector erase, SRAM persistence, RTC
// clock state) are out of scope per spec §1; this package only defines the
// contract the bus talks to them through, plus minimal in-memory
// implementations of that contract so the bus is independently testable
// and runnable without a real save-file backend wired in.
//
// Grounded in LJS360d-RoBA/internal/cartridge/cartridge.go (ROM+SRAM byte
// arrays behind simple Read/Write methods); the EEPROM/Flash/RTC/sensor
// surface is new, modeled directly on spec §4.4/§4.5/§6.
package cartridge

// SaveType is the closed enumeration of cartridge save backends.
type SaveType uint8

const (
	SaveNone SaveType = iota
	SaveEEPROM
	SaveSRAM
	SaveFlash
)

// Features is the read-only-per-load description of what a cartridge
// carries beyond its ROM: which save backend, and whether it has an RTC or
// motion sensor (spec §3).
type Features struct {
	SaveType        SaveType
	HasRTC          bool
	HasMotionSensor bool
}

// RTC is the real-time-clock collaborator, addressed via three fixed
// halfword offsets in the ROM region (0x080000C4/C6/C8).
type RTC interface {
	Read(addr uint32) uint16
	// Write reports false when the RTC refuses the write (e.g. address not
	// one of the three RTC ports), matching CPUWriteHalfWord's
	// Cartridge::rtcWrite return value in the original source.
	Write(addr uint32, value uint16) bool
	Enabled() bool
}

// EEPROM is addressed through the ROM alias at 0x0D. Per spec §9 Open
// Question (a), word writes carry the full 32-bit value while byte/half
// writes carry only the low byte — preserved from the original source
// rather than "fixed", since no hardware test has overridden it.
type EEPROM interface {
	Read(addr uint32) uint32
	WriteByte(addr uint32, value uint8)
	WriteWord(addr uint32, value uint32)
}

// SRAM is addressed through the save region (0x0E), one byte at a time.
type SRAM interface {
	Read(addr uint32) uint8
	Write(addr uint32, value uint8)
}

// Flash is addressed through the save region (0x0E), one byte at a time.
type Flash interface {
	Read(addr uint32) uint8
	Write(addr uint32, value uint8)
}

// MotionSensor reports the two axes the "tilt" peripheral (as used by
// Kirby Tilt 'n' Tumble / WarioWare: Twisted) exposes at fixed sub-offsets
// of the save region (spec §4.4, scenario S7).
type MotionSensor interface {
	X() int16
	Y() int16
}

// Cartridge bundles a loaded ROM image with its feature set and whichever
// save/RTC/sensor collaborators apply. A nil collaborator simply means the
// corresponding Features flag is false; the bus never calls a collaborator
// method without having checked the matching flag first.
type Cartridge struct {
	ROM      []byte
	Features Features

	RTC    RTC
	EEPROM EEPROM
	SRAM   SRAM
	Flash  Flash
	Sensor MotionSensor
}

// New wraps a ROM image with no save backend and no peripherals. Callers
// attach backends with the With* helpers or by setting the fields directly.
func New(rom []byte) *Cartridge {
	return &Cartridge{ROM: rom}
}

// WithSRAM attaches an in-memory SRAM backend and sets the feature flag.
func (c *Cartridge) WithSRAM(size int) *Cartridge {
	c.Features.SaveType = SaveSRAM
	c.SRAM = NewFlatSRAM(size)
	return c
}

// WithFlash attaches an in-memory Flash backend and sets the feature flag.
func (c *Cartridge) WithFlash(size int) *Cartridge {
	c.Features.SaveType = SaveFlash
	c.Flash = NewFlatFlash(size)
	return c
}

// WithEEPROM attaches an in-memory EEPROM backend and sets the feature flag.
func (c *Cartridge) WithEEPROM(words int) *Cartridge {
	c.Features.SaveType = SaveEEPROM
	c.EEPROM = NewFlatEEPROM(words)
	return c
}

// WithRTC attaches an always-enabled, clockless RTC stub and sets the
// feature flag.
func (c *Cartridge) WithRTC() *Cartridge {
	c.Features.HasRTC = true
	c.RTC = NewStubRTC()
	return c
}

// WithMotionSensor attaches a fixed-reading sensor stub and sets the
// feature flag.
func (c *Cartridge) WithMotionSensor() *Cartridge {
	c.Features.HasMotionSensor = true
	c.Sensor = NewFixedSensor(0, 0)
	return c
}
