// Package sequencer owns the clip state machine and the per-track event
// transform pipeline that sits between a generator's raw output and the
// scheduler's tick-addressed queue.
package sequencer

import (
	"seqcore/generators"
)

// ClipState is the clip playback state machine.
type ClipState int

const (
	Stopped ClipState = iota
	Queued
	Playing
	Stopping
)

// LoopMode selects wrap/reflect behavior at the clip's loop boundary.
type LoopMode int

const (
	OneShot LoopMode = iota
	Loop
	LoopCount // count held in Clip.loopTarget
	PingPong
)

// ClipKind selects how a clip produces events: a fixed event list, a
// delegated generator, or both combined.
type ClipKind int

const (
	KindSequenced ClipKind = iota
	KindGenerated
	KindHybrid
)

// Clip is a single pattern slot: a loop region over either static events, a
// generator, or a probability-mixed combination of the two.
type Clip struct {
	State ClipState
	Mode  LoopMode

	kind       ClipKind
	events     []generators.MidiEvent // Sequenced/Hybrid source material
	generator  generators.Generator   // Generated/Hybrid source
	variation  float64                // Hybrid: probability a generated event is included

	Position    uint64
	LengthTicks uint64 // the clip's full length; LoopEnd==0 means loop over this
	LoopStart   uint64
	LoopEnd     uint64
	loopTarget  int // LoopCount target
	loopCount   int // completed loop iterations
	reverse     bool
}

// NewSequencedClip builds a clip that replays a fixed event list. loopEnd of
// 0 means "loop over the clip's full length", per the clip model's
// length_ticks/loop_start/loop_end triple.
func NewSequencedClip(events []generators.MidiEvent, lengthTicks, loopStart, loopEnd uint64) *Clip {
	return &Clip{kind: KindSequenced, events: events, LengthTicks: lengthTicks, LoopStart: loopStart, LoopEnd: loopEnd}
}

// NewGeneratedClip builds a clip that delegates entirely to a generator.
func NewGeneratedClip(gen generators.Generator, lengthTicks, loopStart, loopEnd uint64) *Clip {
	return &Clip{kind: KindGenerated, generator: gen, LengthTicks: lengthTicks, LoopStart: loopStart, LoopEnd: loopEnd}
}

// NewHybridClip builds a clip that always includes its sequenced events and
// includes each generated event independently with probability variation.
func NewHybridClip(events []generators.MidiEvent, gen generators.Generator, variation float64, lengthTicks, loopStart, loopEnd uint64) *Clip {
	return &Clip{kind: KindHybrid, events: events, generator: gen, variation: variation, LengthTicks: lengthTicks, LoopStart: loopStart, LoopEnd: loopEnd}
}

// WithLoopCount sets Mode to LoopCount with the given target iteration count.
func (c *Clip) WithLoopCount(n int) *Clip {
	c.Mode = LoopCount
	c.loopTarget = n
	return c
}

// Play transitions Stopped/Queued clips to Playing.
func (c *Clip) Play() { c.State = Playing }

// Stop halts immediately and resets position.
func (c *Clip) Stop() {
	c.State = Stopped
	c.reset()
}

// QueueStop marks the clip to stop at the next loop boundary.
func (c *Clip) QueueStop() {
	if c.State == Playing {
		c.State = Stopping
	}
}

// Queue marks the clip pending launch (a trigger fired later transitions it
// to Playing).
func (c *Clip) Queue() { c.State = Queued }

func (c *Clip) reset() {
	c.Position = 0
	c.loopCount = 0
	c.reverse = false
	if c.generator != nil {
		c.generator.Reset()
	}
}

// Reset fully resets the clip: position, loop count, reverse flag, the
// embedded generator, and stops it.
func (c *Clip) Reset() {
	c.reset()
	c.State = Stopped
}

// effectiveLoopEnd is LoopEnd, or the clip's full LengthTicks when LoopEnd
// is 0, per the clip model's length_ticks/loop_start/loop_end triple (kept
// as a distinct accessor so Generate, reverse mirroring and loop-wrap logic
// share one definition).
func (c *Clip) effectiveLoopEnd() uint64 {
	if c.LoopEnd == 0 {
		return c.LengthTicks
	}
	return c.LoopEnd
}

func (c *Clip) loopLength() uint64 {
	end := c.effectiveLoopEnd()
	if end <= c.LoopStart {
		return 1
	}
	return end - c.LoopStart
}

// Generate emits the clip's events for the next ticksToGenerate ticks and
// advances Position, handling loop wrap/reflect at the boundary.
func (c *Clip) Generate(ctx generators.Context) []generators.MidiEvent {
	if c.State != Playing && c.State != Stopping {
		return nil
	}

	var out []generators.MidiEvent
	windowStart := c.Position
	windowEnd := c.Position + ctx.TicksToGenerate

	switch c.kind {
	case KindSequenced:
		out = append(out, c.sequencedInWindow(windowStart, windowEnd)...)
	case KindGenerated:
		if c.generator != nil {
			out = append(out, c.generator.Generate(ctx)...)
		}
	case KindHybrid:
		out = append(out, c.sequencedInWindow(windowStart, windowEnd)...)
		if c.generator != nil {
			for _, e := range c.generator.Generate(ctx) {
				if sampleInclude(c.variation) {
					out = append(out, e)
				}
			}
		}
	}

	c.Position += ctx.TicksToGenerate
	if c.Position >= c.effectiveLoopEnd() {
		c.wrap()
	}
	return out
}

// sequencedInWindow returns events from the fixed list whose StartTick,
// adjusted for reverse (mirrored about effectiveLoopEnd), falls within
// [windowStart, windowEnd).
func (c *Clip) sequencedInWindow(windowStart, windowEnd uint64) []generators.MidiEvent {
	var out []generators.MidiEvent
	end := c.effectiveLoopEnd()
	for _, e := range c.events {
		tick := e.StartTick
		if c.reverse {
			if tick > end {
				continue
			}
			tick = end - tick
		}
		if tick >= windowStart && tick < windowEnd {
			shifted := e
			shifted.StartTick = tick - windowStart
			out = append(out, shifted)
		}
	}
	return out
}

func (c *Clip) wrap() {
	switch c.Mode {
	case OneShot:
		c.State = Stopped
		c.Position = 0
	case Loop:
		overshoot := c.Position - c.effectiveLoopEnd()
		c.Position = c.LoopStart + (overshoot % c.loopLength())
		c.loopCount++
		c.finishStoppingIfQueued()
	case LoopCount:
		overshoot := c.Position - c.effectiveLoopEnd()
		c.Position = c.LoopStart + (overshoot % c.loopLength())
		c.loopCount++
		if c.loopCount >= c.loopTarget {
			c.State = Stopped
		} else {
			c.finishStoppingIfQueued()
		}
	case PingPong:
		overshoot := c.Position - c.effectiveLoopEnd()
		c.reverse = !c.reverse
		c.Position = c.effectiveLoopEnd() - overshoot
		c.loopCount++
		c.finishStoppingIfQueued()
	}
}

func (c *Clip) finishStoppingIfQueued() {
	if c.State == Stopping {
		c.State = Stopped
	}
}

// sampleInclude reports true with probability p, drawing from math/rand/v2.
var sampleInclude = func(p float64) bool {
	return randFloat() < p
}
