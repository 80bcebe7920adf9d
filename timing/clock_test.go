package timing

import (
	"testing"
	"time"
)

func TestSetBPMClamps(t *testing.T) {
	c := NewClock(DefaultPPQN)
	c.SetBPM(10)
	if c.BPM() != minBPM {
		t.Errorf("SetBPM(10) = %v, want %v", c.BPM(), minBPM)
	}
	c.SetBPM(500)
	if c.BPM() != maxBPM {
		t.Errorf("SetBPM(500) = %v, want %v", c.BPM(), maxBPM)
	}
}

func TestPulseIntervalAt120BPM(t *testing.T) {
	c := NewClock(DefaultPPQN)
	c.SetBPM(120)
	bpm := 120.0
	want := time.Duration(60.0 / (bpm * 24.0) * float64(time.Second))
	got := c.PulseInterval()
	if got != want {
		t.Errorf("PulseInterval() = %v, want %v", got, want)
	}
}

func TestStartStopPauseContinue(t *testing.T) {
	c := NewClock(DefaultPPQN)
	if b := c.Start(); b != ByteStart {
		t.Errorf("Start() = %x, want Start byte", b)
	}
	if c.State() != Running {
		t.Errorf("state after Start = %v, want Running", c.State())
	}

	c.pulse, c.beat = 5, 2
	if b := c.Pause(); b != ByteStop {
		t.Errorf("Pause() = %x, want Stop byte", b)
	}
	if c.State() != Paused || c.Pulse() != 5 || c.Beat() != 2 {
		t.Errorf("Pause did not preserve position: state=%v pulse=%d beat=%d", c.State(), c.Pulse(), c.Beat())
	}

	if _, ok := c.Continue(); !ok {
		t.Fatal("Continue() from Paused should succeed")
	}
	if c.State() != Running || c.Pulse() != 5 {
		t.Errorf("Continue did not resume correctly: state=%v pulse=%d", c.State(), c.Pulse())
	}

	if b := c.Stop(); b != ByteStop {
		t.Errorf("Stop() = %x, want Stop byte", b)
	}
	if c.State() != Stopped || c.Pulse() != 0 || c.Beat() != 0 {
		t.Errorf("Stop did not zero position: state=%v pulse=%d beat=%d", c.State(), c.Pulse(), c.Beat())
	}
}

func TestContinueOnlyFromPaused(t *testing.T) {
	c := NewClock(DefaultPPQN)
	if _, ok := c.Continue(); ok {
		t.Error("Continue() should fail when not Paused")
	}
}

func TestTapTempoConverges(t *testing.T) {
	c := NewClock(DefaultPPQN)
	interval := 500 * time.Millisecond // 120 BPM
	base := time.Now()
	c.tap.taps = nil
	var bpm float64
	var ok bool
	for i := 0; i < 4; i++ {
		bpm, ok = c.tap.tap(base.Add(time.Duration(i) * interval))
	}
	if !ok {
		t.Fatal("expected tap tempo estimate after 4 taps")
	}
	if diff := bpm - 120; diff < -1.2 || diff > 1.2 {
		t.Errorf("tap tempo = %v, want ~120", bpm)
	}
}

func TestRampZeroDurationJumpsImmediately(t *testing.T) {
	c := NewClock(DefaultPPQN)
	c.SetBPM(100)
	c.RampTo(200, 0)
	if c.BPM() != 200 {
		t.Errorf("zero-duration ramp did not jump immediately: %v", c.BPM())
	}
}
