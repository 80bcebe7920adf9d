package sequencer

import (
	"testing"

	"seqcore/generators"
)

func ctx(ticks uint64) generators.Context {
	return generators.Context{Tempo: 120, PPQN: 24, BeatsPerBar: 4, TicksToGenerate: ticks}
}

func TestClipOneShotStopsAtLoopEnd(t *testing.T) {
	c := NewSequencedClip(nil, 96, 0, 96)
	c.Mode = OneShot
	c.Play()
	c.Generate(ctx(96))
	if c.State != Stopped || c.Position != 0 {
		t.Errorf("OneShot should stop and zero position, got state=%v position=%d", c.State, c.Position)
	}
}

func TestClipLoopWraps(t *testing.T) {
	c := NewSequencedClip(nil, 96, 0, 96)
	c.Mode = Loop
	c.Play()
	c.Generate(ctx(100)) // overshoots loop end by 4
	if c.State != Playing {
		t.Fatalf("Loop clip should keep playing, got %v", c.State)
	}
	if c.Position != 4 {
		t.Errorf("Loop wrap position = %d, want 4", c.Position)
	}
	if c.loopCount != 1 {
		t.Errorf("loopCount = %d, want 1", c.loopCount)
	}
}

func TestClipLoopCountStopsAtTarget(t *testing.T) {
	c := NewSequencedClip(nil, 48, 0, 48).WithLoopCount(2)
	c.Play()
	c.Generate(ctx(48))
	if c.State != Playing {
		t.Fatalf("expected still playing after 1 of 2 loops, got %v", c.State)
	}
	c.Generate(ctx(48))
	if c.State != Stopped {
		t.Errorf("expected stopped after reaching loop target, got %v", c.State)
	}
}

func TestClipPingPongReflects(t *testing.T) {
	c := NewSequencedClip(nil, 96, 0, 96)
	c.Mode = PingPong
	c.Play()
	c.Generate(ctx(100))
	if !c.reverse {
		t.Error("expected PingPong to toggle reverse at the boundary")
	}
	if c.Position != 92 {
		t.Errorf("PingPong reflected position = %d, want 92", c.Position)
	}
}

func TestClipResetClearsState(t *testing.T) {
	c := NewSequencedClip(nil, 96, 0, 96)
	c.Mode = Loop
	c.Play()
	c.Generate(ctx(100))
	c.Reset()
	if c.State != Stopped || c.Position != 0 || c.loopCount != 0 || c.reverse {
		t.Errorf("Reset left stale state: %+v", c)
	}
}

func TestClipQueueStopTransitionsOnWrap(t *testing.T) {
	c := NewSequencedClip(nil, 96, 0, 96)
	c.Mode = Loop
	c.Play()
	c.QueueStop()
	c.Generate(ctx(100))
	if c.State != Stopped {
		t.Errorf("expected Stopping clip to finish stopping at wrap, got %v", c.State)
	}
}

func TestClipZeroLoopEndUsesFullLength(t *testing.T) {
	c := NewSequencedClip(nil, 96, 0, 0) // loopEnd 0 => loop over LengthTicks
	c.Mode = Loop
	c.Play()
	c.Generate(ctx(100)) // overshoots the 96-tick length by 4
	if c.State != Playing {
		t.Fatalf("Loop clip should keep playing, got %v", c.State)
	}
	if c.Position != 4 {
		t.Errorf("Loop wrap position = %d, want 4", c.Position)
	}
}
