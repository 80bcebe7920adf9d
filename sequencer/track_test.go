package sequencer

import (
	"testing"

	"seqcore/generators"
)

func TestTrackDropsOutOfRangeTranspose(t *testing.T) {
	tr := NewTrack(0)
	tr.Transpose = -10
	e := generators.MidiEvent{Note: 5, Velocity: 100}
	if _, ok := tr.process(e, 24); ok {
		t.Error("expected transpose below 0 to drop the event")
	}
}

func TestTrackVelocityClamped(t *testing.T) {
	tr := NewTrack(0)
	tr.VelocityScale = 2.0
	tr.VelocityOffset = 50
	e := generators.MidiEvent{Note: 60, Velocity: 100}
	out, ok := tr.process(e, 24)
	if !ok {
		t.Fatal("event should survive")
	}
	if out.Velocity != 127 {
		t.Errorf("velocity = %d, want clamped to 127", out.Velocity)
	}
}

func TestTrackSwingDelaysBackHalf(t *testing.T) {
	tr := NewTrack(0)
	tr.Swing = 1.0
	// ppqn=24: back half of the beat is tick_in_beat >= 12
	delayed := tr.applySwing(15, 24)
	if delayed <= 15 {
		t.Errorf("expected swing to delay a back-half tick, got %d", delayed)
	}
	unchanged := tr.applySwing(5, 24)
	if unchanged != 5 {
		t.Errorf("expected front-half tick unchanged, got %d", unchanged)
	}
}

func TestManagerSoloExclusivity(t *testing.T) {
	tracks := []*Track{NewTrack(0), NewTrack(1), NewTrack(2)}
	m := NewManager(tracks)
	tracks[1].Soloed = true

	if m.ShouldOutput(0) {
		t.Error("track 0 should be silenced while track 1 is soloed")
	}
	if !m.ShouldOutput(1) {
		t.Error("soloed track should output")
	}
	if m.ShouldOutput(2) {
		t.Error("track 2 should be silenced while track 1 is soloed")
	}
}

func TestManagerMuteOverridesSolo(t *testing.T) {
	tracks := []*Track{NewTrack(0), NewTrack(1)}
	m := NewManager(tracks)
	tracks[0].Soloed = true
	tracks[0].Muted = true

	if m.ShouldOutput(0) {
		t.Error("muted track should never output, even if soloed")
	}
}

func TestGenerateScheduledPairsNoteOnOff(t *testing.T) {
	tr := NewTrack(0)
	events := []generators.MidiEvent{{StartTick: 0, Duration: 12, Note: 60, Velocity: 100}}
	scheduled := tr.GenerateScheduled(events, 100, 24)
	if len(scheduled) != 2 {
		t.Fatalf("expected a NoteOn/NoteOff pair, got %d events", len(scheduled))
	}
	if scheduled[0].TimeTicks != 100 || scheduled[1].TimeTicks != 112 {
		t.Errorf("unexpected tick placement: %d, %d", scheduled[0].TimeTicks, scheduled[1].TimeTicks)
	}
}
