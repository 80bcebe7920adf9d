package timing

import "testing"

func TestTicksPerBarTimeSignature(t *testing.T) {
	ti := NewTiming()
	ti.BeatsPerBar = 3
	if got := ti.TicksPerBar(); got != 72 {
		t.Errorf("3/4 ticks_per_bar = %d, want 72", got)
	}
}

func TestTicksToMicrosTempoChange(t *testing.T) {
	ti := NewTiming().WithTempo(60)
	got := ti.TicksToMicros(24)
	if got < 999_900 || got > 1_000_100 {
		t.Errorf("ticks_to_micros(24)@60bpm = %d, want ~1,000,000", got)
	}

	ti = ti.WithTempo(120)
	got = ti.TicksToMicros(24)
	if got < 499_900 || got > 500_100 {
		t.Errorf("ticks_to_micros(24)@120bpm = %d, want ~500,000", got)
	}
}

func TestTicksToNextBar(t *testing.T) {
	ti := NewTiming()
	ti.PositionTicks = 10
	if got := ti.TicksToNextBar(); got != 86 {
		t.Errorf("ticks_to_next_bar at 10 = %d, want 86", got)
	}
	ti.PositionTicks = 96
	if got := ti.TicksToNextBar(); got != 0 {
		t.Errorf("ticks_to_next_bar at bar boundary = %d, want 0", got)
	}
}
