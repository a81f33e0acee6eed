// Package cpu defines the minimal CPU-side surface the memory bus consults
// and drives: the current program counter (needed for BIOS read
// protection, spec §4.4) and the halt/stop/wake-check signals a HALTCNT
// write triggers (spec §4.5). The ARM7TDMI instruction interpreter itself
// is an external collaborator and explicitly out of scope (spec §1); this
// package does not decode or execute anything.
//
// The teacher (LJS360d-RoBA/internal/cpu) carries a large, non-compiling
// ARM decode/execute core alongside duplicate, conflicting register
// interfaces. None of that is exercised by the bus, so it is not adapted
// here — see DESIGN.md for the deletion rationale. What's kept is the
// small collaborator contract the bus actually needs, restated cleanly.
package cpu

// Context is the collaborator interface the bus calls into.
type Context interface {
	// PC returns the CPU's current program counter.
	PC() uint32
	// SetHaltState signals that the CPU should enter STOP (stop==true) or
	// HALT (stop==false), per a HALTCNT write.
	SetHaltState(stop bool)
	// WakeCheck requests that the CPU re-evaluate wake conditions
	// immediately, rather than waiting for its next scheduled event.
	WakeCheck()
}

// Core is a minimal, directly-settable reference implementation of
// Context: enough state to drive the bus standalone, in tests and in the
// demo front-end, without a real instruction interpreter behind it.
type Core struct {
	pc           uint32
	Halted       bool
	Stopped      bool
	WakeRequests int
}

// NewCore returns a Core reset to program counter 0.
func NewCore() *Core { return &Core{} }

// PC implements Context.
func (c *Core) PC() uint32 { return c.pc }

// SetPC lets a driver (test, demo loop) move the program counter, e.g. to
// simulate leaving BIOS execution.
func (c *Core) SetPC(pc uint32) { c.pc = pc }

// SetHaltState implements Context.
func (c *Core) SetHaltState(stop bool) {
	if stop {
		c.Stopped = true
	} else {
		c.Halted = true
	}
}

// WakeCheck implements Context.
func (c *Core) WakeCheck() { c.WakeRequests++ }

// Resume clears both halt flags, e.g. once an interrupt wakes the CPU.
func (c *Core) Resume() {
	c.Halted = false
	c.Stopped = false
}
