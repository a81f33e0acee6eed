// Package timer models the read-only view of the GBA's four hardware
// timers that the memory bus needs in order to synthesize a live counter
// value on I/O reads (spec §3 "Timer State", §4.4 "Timer live-counter
// synthesis"). Timer scheduling itself — when nextTickCounter advances,
// overflow/reload, cascade chaining — belongs to the timer subsystem
// proper and is out of scope here; the bus only ever reads this state.
package timer

// Count is the number of hardware timers on the GBA.
const Count = 4

// Bank is the collaborator interface the bus consults when an I/O read
// lands on one of the four live-counter offsets (0x100, 0x104, 0x108,
// 0x10C). All four queries are read-only from the bus's perspective.
type Bank interface {
	// Enabled reports whether timer i is currently counting.
	Enabled(i int) bool
	// Cascading reports whether timer i advances on the overflow of timer
	// i-1 rather than on cycles (control bit 2). Cascading timers never
	// have their live read synthesized. Timer 0 cannot cascade.
	Cascading(i int) bool
	// ReloadShift is the prescaler shift applied to the live countdown.
	ReloadShift(i int) uint
	// NextTick is the absolute cycle count at which timer i next overflows.
	NextTick(i int) uint64
	// TotalCycles is the emulator's running cycle counter.
	TotalCycles() uint64
}

// State is a plain, directly-settable reference implementation of Bank,
// useful both as the real owner of this data in a minimal emulator build
// and as a test fixture for the bus's live-read synthesis path.
type State struct {
	enabled     [Count]bool
	cascading   [Count]bool
	reloadShift [Count]uint
	nextTick    [Count]uint64
	totalCycles uint64
}

// NewState returns a State with every timer disabled.
func NewState() *State {
	return &State{}
}

// Configure sets the full live-read state for timer i in one call.
func (s *State) Configure(i int, enabled, cascading bool, reloadShift uint, nextTick uint64) {
	s.enabled[i] = enabled
	s.cascading[i] = cascading
	s.reloadShift[i] = reloadShift
	s.nextTick[i] = nextTick
}

// SetTotalCycles advances the emulator's global cycle counter.
func (s *State) SetTotalCycles(c uint64) { s.totalCycles = c }

func (s *State) Enabled(i int) bool     { return s.enabled[i] }
func (s *State) Cascading(i int) bool   { return s.cascading[i] }
func (s *State) ReloadShift(i int) uint { return s.reloadShift[i] }
func (s *State) NextTick(i int) uint64  { return s.nextTick[i] }
func (s *State) TotalCycles() uint64    { return s.totalCycles }

// LiveValue computes the 0xFFFF-down counter read for timer i, per spec
// §4.4: 0xFFFF - ((nextTickCounter - totalCycles) >> reloadShift). Callers
// are expected to have already checked Enabled/Cascading.
func LiveValue(b Bank, i int) uint16 {
	delta := b.NextTick(i) - b.TotalCycles()
	return uint16(0xFFFF - (delta >> b.ReloadShift(i)))
}
