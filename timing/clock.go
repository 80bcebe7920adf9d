package timing

import "time"

// MIDI realtime status bytes, per the spec's MIDI sink byte grammar.
const (
	ByteClock    byte = 0xF8
	ByteStart    byte = 0xFA
	ByteContinue byte = 0xFB
	ByteStop     byte = 0xFC
)

// State is the transport run state.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

const (
	minBPM = 20.0
	maxBPM = 300.0
)

func clampBPM(bpm float64) float64 {
	if bpm < minBPM {
		return minBPM
	}
	if bpm > maxBPM {
		return maxBPM
	}
	return bpm
}

// tempoRamp linearly interpolates tempo from FromBPM to ToBPM over Duration
// of wallclock time, starting at StartedAt.
type tempoRamp struct {
	fromBPM   float64
	toBPM     float64
	startedAt time.Time
	duration  time.Duration
}

func (r *tempoRamp) currentBPM(now time.Time) (bpm float64, done bool) {
	if r.duration <= 0 {
		return r.toBPM, true
	}
	elapsed := now.Sub(r.startedAt)
	if elapsed >= r.duration {
		return r.toBPM, true
	}
	frac := float64(elapsed) / float64(r.duration)
	return r.fromBPM + (r.toBPM-r.fromBPM)*frac, false
}

// TapTempoConfig bounds the tap-tempo ring buffer.
type TapTempoConfig struct {
	MaxTaps int
	Timeout time.Duration
}

// DefaultTapTempoConfig matches the original's tap-tempo defaults: keep the
// last 8 taps, reset the history if more than 2 seconds pass between taps.
func DefaultTapTempoConfig() TapTempoConfig {
	return TapTempoConfig{MaxTaps: 8, Timeout: 2 * time.Second}
}

type tapTempo struct {
	cfg  TapTempoConfig
	taps []time.Time
}

func newTapTempo(cfg TapTempoConfig) *tapTempo {
	return &tapTempo{cfg: cfg}
}

// tap records now and returns an estimated BPM once at least 2 taps within
// the stale timeout have accumulated; otherwise returns (0, false). A tap
// that arrives after the timeout since the previous one resets the ring to
// just that tap.
func (tt *tapTempo) tap(now time.Time) (float64, bool) {
	if len(tt.taps) > 0 && now.Sub(tt.taps[len(tt.taps)-1]) > tt.cfg.Timeout {
		tt.taps = tt.taps[:0]
	}
	tt.taps = append(tt.taps, now)
	if len(tt.taps) > tt.cfg.MaxTaps {
		tt.taps = tt.taps[len(tt.taps)-tt.cfg.MaxTaps:]
	}
	if len(tt.taps) < 2 {
		return 0, false
	}
	var totalInterval time.Duration
	for i := 1; i < len(tt.taps); i++ {
		totalInterval += tt.taps[i].Sub(tt.taps[i-1])
	}
	avg := totalInterval / time.Duration(len(tt.taps)-1)
	if avg <= 0 {
		return 0, false
	}
	bpm := 60.0 / avg.Seconds()
	return clampBPM(bpm), true
}

// Clock is the transport's tempo-to-wallclock mapping: it owns tempo state,
// pulse/beat counters, the run state machine, an optional tempo ramp, and
// tap-tempo history. It emits MIDI realtime bytes from Tick/Start/Stop/
// Pause/Continue, mirroring original_source/src/timing/clock.rs.
type Clock struct {
	bpm    float64
	ppqn   uint32
	state  State
	pulse  uint32
	beat   uint64
	lastPulse time.Time
	hasLastPulse bool

	ramp *tempoRamp
	tap  *tapTempo

	// External-clock slaving: when true, Tick is a no-op and pulse/beat
	// advance only through ExternalPulse/ExternalStart/etc.
	externalSlaved bool
}

// NewClock creates a Clock at 120 BPM with the given PPQN (use DefaultPPQN
// for standard MIDI clock resolution).
func NewClock(ppqn uint32) *Clock {
	return &Clock{
		bpm:  120,
		ppqn: ppqn,
		tap:  newTapTempo(DefaultTapTempoConfig()),
	}
}

// BPM returns the current tempo, following an active ramp if present.
func (c *Clock) BPM() float64 {
	if c.ramp != nil {
		bpm, done := c.ramp.currentBPM(time.Now())
		if done {
			c.bpm = c.ramp.toBPM
			c.ramp = nil
			return c.bpm
		}
		return bpm
	}
	return c.bpm
}

// PPQN returns the fixed pulse resolution.
func (c *Clock) PPQN() uint32 { return c.ppqn }

// State returns the current run state.
func (c *Clock) State() State { return c.state }

// Pulse returns the current 0..ppqn-1 pulse-within-beat counter.
func (c *Clock) Pulse() uint32 { return c.pulse }

// Beat returns the running beat counter.
func (c *Clock) Beat() uint64 { return c.beat }

// SetBPM clamps to [20,300] and cancels any active ramp.
func (c *Clock) SetBPM(bpm float64) {
	c.bpm = clampBPM(bpm)
	c.ramp = nil
}

// RampTo begins a linear tempo ramp to targetBPM over duration. A
// zero-or-negative duration takes effect immediately.
func (c *Clock) RampTo(targetBPM float64, duration time.Duration) {
	from := c.BPM()
	target := clampBPM(targetBPM)
	if duration <= 0 {
		c.bpm = target
		c.ramp = nil
		return
	}
	c.ramp = &tempoRamp{fromBPM: from, toBPM: target, startedAt: time.Now(), duration: duration}
}

// Tap records a tap-tempo beat; once at least two taps have landed within
// the stale timeout it calls SetBPM with the estimated tempo and returns
// (bpm, true).
func (c *Clock) Tap() (float64, bool) {
	bpm, ok := c.tap.tap(time.Now())
	if ok {
		c.SetBPM(bpm)
	}
	return bpm, ok
}

// Start resets pulse/beat to zero, stamps the pulse clock, and transitions
// to Running. Returns the MIDI Start byte.
func (c *Clock) Start() byte {
	c.pulse = 0
	c.beat = 0
	c.lastPulse = time.Now()
	c.hasLastPulse = true
	c.state = Running
	return ByteStart
}

// Stop zeros pulse/beat/position and transitions to Stopped. Returns the
// MIDI Stop byte.
func (c *Clock) Stop() byte {
	c.pulse = 0
	c.beat = 0
	c.hasLastPulse = false
	c.state = Stopped
	return ByteStop
}

// Pause preserves pulse/beat but transitions to Paused. Returns the MIDI
// Stop byte (there is no dedicated "pause" realtime message in MIDI 1.0).
func (c *Clock) Pause() byte {
	c.state = Paused
	return ByteStop
}

// Continue resumes from Paused, re-anchoring the wallclock baseline.
// No-ops (returns 0, false) if not currently Paused. Returns the MIDI
// Continue byte on success.
func (c *Clock) Continue() (byte, bool) {
	if c.state != Paused {
		return 0, false
	}
	c.lastPulse = time.Now()
	c.hasLastPulse = true
	c.state = Running
	return ByteContinue, true
}

// SeekTo jumps pulse/beat to the given absolute tick count and re-anchors
// the wallclock pulse baseline to now, the way Continue re-anchors after a
// pause.
func (c *Clock) SeekTo(ticks uint64) {
	c.beat = ticks / uint64(c.ppqn)
	c.pulse = uint32(ticks % uint64(c.ppqn))
	c.lastPulse = time.Now()
	c.hasLastPulse = true
}

// PulseInterval returns the wallclock duration of one pulse at the current
// tempo: 60s / (bpm * ppqn).
func (c *Clock) PulseInterval() time.Duration {
	seconds := 60.0 / (c.BPM() * float64(c.ppqn))
	return time.Duration(seconds * float64(time.Second))
}

// Tick should be called repeatedly from the timing thread. If running and
// not externally slaved, and at least one pulse interval has elapsed since
// the last pulse, it advances pulse/beat (wrapping to the next beat at
// ppqn) and returns the MIDI Clock byte. Otherwise returns (0, false).
func (c *Clock) Tick() (byte, bool) {
	if c.state != Running || c.externalSlaved {
		return 0, false
	}
	now := time.Now()
	if !c.hasLastPulse {
		c.lastPulse = now
		c.hasLastPulse = true
		return 0, false
	}
	elapsed := now.Sub(c.lastPulse)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed < c.PulseInterval() {
		return 0, false
	}
	c.pulse++
	if c.pulse >= c.ppqn {
		c.pulse = 0
		c.beat++
	}
	c.lastPulse = now
	return ByteClock, true
}

// TimeUntilNextPulse returns the remaining time until Tick would next fire,
// clamped to zero. Returns zero if not running.
func (c *Clock) TimeUntilNextPulse() time.Duration {
	if c.state != Running || !c.hasLastPulse {
		return 0
	}
	remaining := c.PulseInterval() - time.Since(c.lastPulse)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SetExternalSlaved enables or disables external-clock slaving (§4.7):
// while true, Tick is suppressed and position advances only via
// ExternalPulse/ExternalStart/ExternalContinue/ExternalStop.
func (c *Clock) SetExternalSlaved(slaved bool) { c.externalSlaved = slaved }

// ExternalSlaved reports whether external-clock slaving is active.
func (c *Clock) ExternalSlaved() bool { return c.externalSlaved }

// ExternalStart handles an incoming MIDI Start message while slaved: zeros
// pulse/beat and transitions to Running.
func (c *Clock) ExternalStart() {
	c.pulse = 0
	c.beat = 0
	c.state = Running
}

// ExternalContinue handles an incoming MIDI Continue message while slaved.
func (c *Clock) ExternalContinue() { c.state = Running }

// ExternalStop handles an incoming MIDI Stop message while slaved.
func (c *Clock) ExternalStop() { c.state = Stopped }

// ExternalPulse handles an incoming MIDI Clock message while slaved:
// advances pulse (wrapping to the next beat at ppqn) if Running.
func (c *Clock) ExternalPulse() {
	if c.state != Running {
		return
	}
	c.pulse++
	if c.pulse >= c.ppqn {
		c.pulse = 0
		c.beat++
	}
}
