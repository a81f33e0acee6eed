package bus

import (
	"testing"

	"gbabus/internal/cartridge"
	"gbabus/internal/cpu"
	"gbabus/internal/memory"
	"gbabus/internal/timer"
)

func newTestBus(rom []byte) (*Bus, *cpu.Core, *timer.State) {
	if rom == nil {
		rom = make([]byte, 0x1000)
	}
	mem := memory.New(rom, nil)
	cart := cartridge.New(rom)
	core := cpu.NewCore()
	core.SetPC(0x08000000) // outside BIOS by default
	timers := timer.NewState()
	b := New(mem, cart).WithCPU(core).WithTimers(timers)
	return b, core, timers
}

// S1: unaligned word read rotates the aligned load.
func TestUnalignedWordRead(t *testing.T) {
	b, _, _ := newTestBus(nil)
	mem := b.Memory()
	mem.WRAM[0], mem.WRAM[1], mem.WRAM[2], mem.WRAM[3] = 0x11, 0x22, 0x33, 0x44
	got := b.ReadWord(0x02000001)
	want := uint32(0x11443322)
	if got != want {
		t.Errorf("ReadWord(0x02000001) = %#08x, want %#08x", got, want)
	}
}

// S2: timer live-counter synthesis.
func TestTimerLiveRead(t *testing.T) {
	b, _, timers := newTestBus(nil)
	timers.Configure(0, true, false, 0, 1000)
	timers.SetTotalCycles(400)
	b.SetIOReadable(0x100, true)
	b.SetIOReadable(0x101, true)

	want := uint32(0xFFFF - (1000 - 400))
	if got := b.ReadHalfword(0x04000100); got != want {
		t.Errorf("ReadHalfword(0x04000100) = %#04x, want %#04x", got, want)
	}
}

func TestTimerLiveReadSkippedWhenCascading(t *testing.T) {
	b, _, timers := newTestBus(nil)
	timers.Configure(1, true, true, 0, 1000)
	timers.SetTotalCycles(400)
	b.SetIOReadable(0x104, true)
	b.SetIOReadable(0x105, true)
	b.Memory().IO[0x104] = 0xAA
	b.Memory().IO[0x105] = 0xBB

	if got := b.ReadHalfword(0x04000104); got != 0xBBAA {
		t.Errorf("ReadHalfword with cascading timer = %#04x, want raw 0xBBAA", got)
	}
}

// S3: VRAM mirror write/read round trip.
func TestVRAMMirrorRoundTrip(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WriteWord(0x06010000, 0xDEADBEEF)
	if got := b.ReadWord(0x06018000); got != 0xDEADBEEF {
		t.Errorf("ReadWord(0x06018000) = %#08x, want 0xDEADBEEF", got)
	}
}

// S4: VRAM mode>2 hole reads as zero.
func TestVRAMModeGreaterThanTwoHole(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WithBGModeFunc(func() uint32 { return 4 })
	b.WriteWord(0x06010000, 0xDEADBEEF)
	if got := b.ReadHalfword(0x0601A000); got != 0 {
		t.Errorf("ReadHalfword(0x0601A000) in mode>2 hole = %#04x, want 0", got)
	}
}

// S5: palette byte writes splat into the enclosing halfword.
func TestPaletteByteSplat(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WriteByte(0x05000000, 0xAB)
	if got := b.ReadHalfword(0x05000000); got != 0xABAB {
		t.Errorf("ReadHalfword(0x05000000) = %#04x, want 0xABAB", got)
	}
}

// S6: RTC write gate only accepts the three documented ports.
func TestRTCWriteGate(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.Cartridge().WithRTC()
	rtc := b.Cartridge().RTC.(*cartridge.StubRTC)

	b.WriteHalfword(0x080000C4, 0x55AA)
	if got := rtc.Read(0x080000C4); got != 0x55AA {
		t.Errorf("RTC port C4 = %#04x, want 0x55AA", got)
	}

	b.WriteHalfword(0x080000C0, 0x55AA)
	if got := rtc.Read(0x080000C0); got != 0 {
		t.Errorf("write to non-RTC ROM halfword reached RTC: %#04x", got)
	}
}

// disabledRTC reports itself disabled regardless of the port addressed, so
// the bus's RTC gate must consult Enabled() rather than only Features.HasRTC.
type disabledRTC struct{ reads, writes int }

func (r *disabledRTC) Enabled() bool             { return false }
func (r *disabledRTC) Read(uint32) uint16        { r.reads++; return 0xFFFF }
func (r *disabledRTC) Write(uint32, uint16) bool { r.writes++; return true }

func TestRTCGateChecksEnabled(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.Cartridge().Features.HasRTC = true
	rtc := &disabledRTC{}
	b.Cartridge().RTC = rtc

	if got := b.ReadHalfword(0x080000C4); got != 0 {
		t.Errorf("ReadHalfword via disabled RTC = %#04x, want open-bus 0", got)
	}
	b.WriteHalfword(0x080000C4, 0x1234)

	if rtc.reads != 0 || rtc.writes != 0 {
		t.Errorf("disabled RTC was called: reads=%d writes=%d, want 0,0", rtc.reads, rtc.writes)
	}
}

// S7: motion sensor X/Y byte decode.
func TestMotionSensorDecode(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.Cartridge().WithMotionSensor()
	sensor := b.Cartridge().Sensor.(*cartridge.FixedSensor)
	sensor.Set(0x1234, 0)

	if got := b.ReadByte(0x0E008200); got != 0x34 {
		t.Errorf("ReadByte(0x0E008200) = %#02x, want 0x34", got)
	}
	if got := b.ReadByte(0x0E008300); got != 0x92 {
		t.Errorf("ReadByte(0x0E008300) = %#02x, want 0x92", got)
	}
}

// BIOS protection: reads outside BIOS execution return the protected word.
func TestBIOSProtection(t *testing.T) {
	b, core, _ := newTestBus(nil)
	b.Memory().BIOS[0] = 0xFF // real BIOS contents, should never surface
	b.SetBIOSProtectedWord([4]byte{0x11, 0x22, 0x33, 0x44})
	core.SetPC(0x08000000) // executing from ROM, not BIOS

	if got := b.ReadWord(0); got != 0x44332211 {
		t.Errorf("ReadWord(0) outside BIOS = %#08x, want 0x44332211", got)
	}

	core.SetPC(0x100) // executing from BIOS
	if got := b.ReadByte(0); got != 0xFF {
		t.Errorf("ReadByte(0) inside BIOS = %#02x, want BIOS contents 0xFF", got)
	}
}

// BIOS protection applies across the whole documented [0, 0x4000) range, not
// just the literal bytes [0,3]; reads deep in that range must still return
// the protected word rather than falling through to open bus.
func TestBIOSProtectionCoversFullRange(t *testing.T) {
	b, core, _ := newTestBus(nil)
	b.SetBIOSProtectedWord([4]byte{0x11, 0x22, 0x33, 0x44})
	core.SetPC(0x08000000) // executing outside BIOS

	if got := b.ReadWord(0x100); got != 0x44332211 {
		t.Errorf("ReadWord(0x100) outside BIOS = %#08x, want 0x44332211", got)
	}
	if got := b.ReadWord(0x3FFC); got != 0x44332211 {
		t.Errorf("ReadWord(0x3FFC) outside BIOS = %#08x, want 0x44332211", got)
	}
	if got := b.ReadWord(0x4000); got != 0 {
		t.Errorf("ReadWord(0x4000) outside BIOS = %#08x, want open-bus 0", got)
	}
}

// An unaligned halfword read at an odd address whose raw offset would have
// indexed past the protected word's end (addr==3 -> off+1==4) must not
// panic; it must slice from addr&2 instead of the raw address.
func TestBIOSProtectionUnalignedHalfwordDoesNotPanic(t *testing.T) {
	b, core, _ := newTestBus(nil)
	b.SetBIOSProtectedWord([4]byte{0x11, 0x22, 0x33, 0x44})
	core.SetPC(0x08000000) // executing outside BIOS

	if got := b.ReadHalfword(3); got != 0x33000044 {
		t.Errorf("ReadHalfword(3) outside BIOS = %#08x, want 0x33000044", got)
	}
}

// OBJ-tile VRAM byte writes are dropped; BG-tile VRAM byte writes splat.
func TestOBJTileByteWriteDropped(t *testing.T) {
	b, _, _ := newTestBus(nil)
	// Mode 0: objTilesBase == 0x10000, so 0x06014000 lies in the OBJ region.
	b.WriteHalfword(0x06014000, 0xBEEF)
	b.WriteByte(0x06014000, 0xAB)
	if got := b.ReadHalfword(0x06014000); got != 0xBEEF {
		t.Errorf("OBJ-tile VRAM byte write changed halfword: got %#04x, want unchanged 0xBEEF", got)
	}
}

func TestBGTileByteWriteSplats(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WriteByte(0x06000000, 0xCD)
	if got := b.ReadHalfword(0x06000000); got != 0xCDCD {
		t.Errorf("BG-tile VRAM byte write = %#04x, want 0xCDCD", got)
	}
}

// OAM byte writes are always dropped.
func TestOAMByteWriteDropped(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WriteHalfword(0x07000000, 0x1234)
	b.WriteByte(0x07000000, 0xFF)
	if got := b.ReadHalfword(0x07000000); got != 0x1234 {
		t.Errorf("OAM byte write changed halfword: got %#04x, want unchanged 0x1234", got)
	}
}

// Write-read round trip in WRAM/IWRAM.
func TestWriteReadRoundTrip(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WriteWord(0x02001000, 0xCAFEBABE)
	if got := b.ReadWord(0x02001000); got != 0xCAFEBABE {
		t.Errorf("WRAM round trip = %#08x, want 0xCAFEBABE", got)
	}
	b.WriteWord(0x03001000, 0x0BADF00D)
	if got := b.ReadWord(0x03001000); got != 0x0BADF00D {
		t.Errorf("IWRAM round trip = %#08x, want 0x0BADF00D", got)
	}
}

// Mirroring closure: WRAM's 256KiB store repeats across its full 16MiB window.
func TestWRAMMirrorClosure(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WriteByte(0x02000010, 0x99)
	if got := b.ReadByte(0x02040010); got != 0x99 {
		t.Errorf("mirrored WRAM read = %#02x, want 0x99", got)
	}
}

// Open bus: I/O reads from unreadable offsets fall back to the DMA latch.
type fixedLatch struct{ v uint32 }

func (f fixedLatch) Last() uint32 { return f.v }

func TestOpenBusFallsBackToDMALatch(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WithDMALatch(fixedLatch{v: 0xABCD1234})
	if got := b.ReadByte(0x04000050); got != 0x34 {
		t.Errorf("open-bus byte read = %#02x, want 0x34", got)
	}
	if got := b.ReadHalfword(0x04000050); got != 0x1234 {
		t.Errorf("open-bus halfword read = %#04x, want 0x1234", got)
	}
}

// The I/O window is exactly 1KiB (0x04000000-0x040003FF); an address beyond
// that must read open bus / ignore the write, not alias into a readable
// offset inside the true window via the 0x3FF mirroring mask.
func TestIOWindowBoundary(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.WithDMALatch(fixedLatch{v: 0xDEADBEEF})
	b.SetIOReadable(0x034, true) // the in-window offset 0x04001034 would mirror onto
	b.SetIOReadable(0x035, true)
	b.Memory().IO[0x34] = 0xAB
	b.Memory().IO[0x35] = 0xCD

	if got := b.ReadHalfword(0x04001034); got != 0xBEEF {
		t.Errorf("ReadHalfword(0x04001034) (beyond I/O window) = %#04x, want open-bus 0xBEEF", got)
	}

	upd := &recordingRegisterUpdater{}
	b.WithRegisterUpdater(upd)
	b.WriteHalfword(0x04001034, 0x5678)
	if upd.offset != 0 || upd.value != 0 {
		t.Errorf("write beyond I/O window reached RegisterUpdater: offset=%#x value=%#04x", upd.offset, upd.value)
	}
	if b.Memory().IO[0x34] != 0xAB {
		t.Errorf("write beyond I/O window mutated in-window IO byte: got %#02x, want unchanged 0xAB", b.Memory().IO[0x34])
	}
}

// HALTCNT byte writes signal halt/stop and trigger a wake-check.
func TestHALTCNTWrite(t *testing.T) {
	b, core, _ := newTestBus(nil)
	b.WriteByte(0x04000301, 0x80)
	if !core.Stopped {
		t.Error("HALTCNT write of 0x80 did not signal stop")
	}
	if core.WakeRequests != 1 {
		t.Errorf("WakeRequests = %d, want 1", core.WakeRequests)
	}

	core.Resume()
	b.WriteByte(0x04000301, 0x00)
	if !core.Halted {
		t.Error("HALTCNT write of 0x00 did not signal halt")
	}
}

// Sound-register byte writes bypass the generic I/O store and route to the
// sound sink instead.
type recordingSoundSink struct {
	offset uint32
	value  uint8
	called bool
}

func (s *recordingSoundSink) WriteSoundRegister(offset uint32, value uint8) {
	s.offset, s.value, s.called = offset, value, true
}

func TestSoundRegisterByteWriteRoutedToSink(t *testing.T) {
	b, _, _ := newTestBus(nil)
	sink := &recordingSoundSink{}
	b.WithSound(sink)
	b.WriteByte(0x04000060, 0x7F)
	if !sink.called || sink.offset != 0x60 || sink.value != 0x7F {
		t.Errorf("sound sink not invoked correctly: %+v", sink)
	}
	if b.Memory().IO[0x60] != 0 {
		t.Errorf("sound register write leaked into generic IO store: %#02x", b.Memory().IO[0x60])
	}
}

// RegisterUpdater is notified on generic I/O writes with the merged
// halfword value.
type recordingRegisterUpdater struct {
	offset uint32
	value  uint16
}

func (u *recordingRegisterUpdater) UpdateRegister(offset uint32, value uint16) {
	u.offset, u.value = offset, value
}

func TestGenericIOByteWriteMergesHalfword(t *testing.T) {
	b, _, _ := newTestBus(nil)
	upd := &recordingRegisterUpdater{}
	b.WithRegisterUpdater(upd)
	b.Memory().IO[0x04] = 0x00
	b.Memory().IO[0x05] = 0x00

	b.WriteByte(0x04000004, 0x12)
	if upd.offset != 0x04 || upd.value != 0x0012 {
		t.Errorf("UpdateRegister called with (%#x, %#04x), want (0x04, 0x0012)", upd.offset, upd.value)
	}
	b.WriteByte(0x04000005, 0x34)
	if upd.offset != 0x04 || upd.value != 0x3412 {
		t.Errorf("UpdateRegister called with (%#x, %#04x), want (0x04, 0x3412)", upd.offset, upd.value)
	}
}

// EEPROM alias write-width asymmetry (spec §9 Open Question (a)): word
// writes carry the full value, byte/half writes carry only the low byte.
func TestEEPROMAliasWriteWidthAsymmetry(t *testing.T) {
	b, _, _ := newTestBus(nil)
	b.Cartridge().WithEEPROM(4)
	b.WriteByte(0x0D000000, 0xAB)
	if got := b.Cartridge().EEPROM.Read(0); got != 0xAB {
		t.Errorf("byte write to EEPROM alias = %#x, want 0xAB", got)
	}
	b.WriteWord(0x0D000000, 0xDEADBEEF)
	if got := b.Cartridge().EEPROM.Read(0); got != 0xDEADBEEF {
		t.Errorf("word write to EEPROM alias = %#x, want 0xDEADBEEF", got)
	}
}

// BIOS writes are always ignored.
func TestBIOSWriteIgnored(t *testing.T) {
	b, core, _ := newTestBus(nil)
	core.SetPC(0x100)
	b.WriteWord(0, 0xFFFFFFFF)
	if got := b.ReadWord(0); got != 0 {
		t.Errorf("BIOS write was not ignored: ReadWord(0) = %#08x", got)
	}
}
