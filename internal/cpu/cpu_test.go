package cpu

import "testing"

func TestCoreHaltState(t *testing.T) {
	c := NewCore()
	c.SetHaltState(false)
	if !c.Halted || c.Stopped {
		t.Errorf("SetHaltState(false): Halted=%v Stopped=%v, want Halted=true Stopped=false", c.Halted, c.Stopped)
	}
	c.Resume()
	c.SetHaltState(true)
	if !c.Stopped || c.Halted {
		t.Errorf("SetHaltState(true): Halted=%v Stopped=%v, want Halted=false Stopped=true", c.Halted, c.Stopped)
	}
}

func TestCoreWakeCheck(t *testing.T) {
	c := NewCore()
	c.WakeCheck()
	c.WakeCheck()
	if c.WakeRequests != 2 {
		t.Errorf("WakeRequests = %d, want 2", c.WakeRequests)
	}
}

func TestCoreSetPC(t *testing.T) {
	c := NewCore()
	c.SetPC(0x08000100)
	if c.PC() != 0x08000100 {
		t.Errorf("PC() = %#08x, want 0x08000100", c.PC())
	}
}
