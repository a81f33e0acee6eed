package timer

import "testing"

func TestLiveValue(t *testing.T) {
	tests := []struct {
		name        string
		reloadShift uint
		nextTick    uint64
		totalCycles uint64
		want        uint16
	}{
		// Formula per spec §4.4: 0xFFFF - ((nextTickCounter - totalCycles) >> reloadShift).
		{"no prescale", 0, 1000, 400, uint16(0xFFFF - (1000 - 400))},
		{"prescaled by 6", 6, 4096, 0, uint16(0xFFFF - (4096 >> 6))},
		{"about to overflow", 0, 100, 99, uint16(0xFFFF - 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.Configure(0, true, false, tt.reloadShift, tt.nextTick)
			s.SetTotalCycles(tt.totalCycles)
			if got := LiveValue(s, 0); got != tt.want {
				t.Errorf("LiveValue() = %#04x, want %#04x", got, tt.want)
			}
		})
	}
}

func TestStateDefaultsDisabled(t *testing.T) {
	s := NewState()
	for i := 0; i < Count; i++ {
		if s.Enabled(i) {
			t.Errorf("timer %d enabled by default, want disabled", i)
		}
		if s.Cascading(i) {
			t.Errorf("timer %d cascading by default, want non-cascading", i)
		}
	}
}
