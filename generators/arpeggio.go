package generators

import (
	"math/rand/v2"
	"sort"

	"seqcore/music"
)

// ArpeggioPattern is the traversal order over the built note sequence.
type ArpeggioPattern string

const (
	ArpUp      ArpeggioPattern = "up"
	ArpDown    ArpeggioPattern = "down"
	ArpUpDown  ArpeggioPattern = "updown"
	ArpDownUp  ArpeggioPattern = "downup"
	ArpRandom  ArpeggioPattern = "random"
	ArpOrder   ArpeggioPattern = "order" // scale-degree order as given, no sort
)

// Arpeggio walks a sorted note sequence across octaves in a chosen pattern,
// optionally gated by a precomputed Euclidean rhythm.
type Arpeggio struct {
	pattern     ArpeggioPattern
	degrees     []int // empty = all scale degrees
	octaves     int
	division    uint32
	probability float64
	velocity    uint8
	accentVel   uint8
	gate        float64

	euclidean  bool
	euclidHits int
	euclidLen  int
	euclidPat  []bool

	notes     []uint8 // built note sequence
	step      int     // current index into the traversal
	direction int     // ±1, for bounce patterns
	subTick   uint64  // ticks accumulated toward the next sub-step
}

// NewArpeggio returns an Arpeggio with the original's defaults.
func NewArpeggio() *Arpeggio {
	return &Arpeggio{
		pattern:     ArpUp,
		octaves:     1,
		division:    16,
		probability: 1.0,
		velocity:    90,
		accentVel:   110,
		gate:        0.8,
		euclidHits:  4,
		euclidLen:   8,
		direction:   1,
	}
}

func (a *Arpeggio) Name() string { return "arpeggio" }

func (a *Arpeggio) Reset() {
	a.notes = nil
	a.step = 0
	a.direction = 1
	a.subTick = 0
	a.euclidPat = nil
}

func (a *Arpeggio) Params() map[string]float64 {
	euclid := 0.0
	if a.euclidean {
		euclid = 1
	}
	return map[string]float64{
		"octaves":     float64(a.octaves),
		"division":    float64(a.division),
		"probability": a.probability,
		"velocity":    float64(a.velocity),
		"accent_velocity": float64(a.accentVel),
		"gate":        a.gate,
		"euclidean":   euclid,
		"euclid_hits": float64(a.euclidHits),
		"euclid_steps": float64(a.euclidLen),
	}
}

func (a *Arpeggio) GetParam(name string) (float64, bool) {
	v, ok := a.Params()[name]
	return v, ok
}

func (a *Arpeggio) SetParam(name string, value float64) {
	switch name {
	case "octaves":
		a.octaves = int(value)
		a.notes = nil
	case "division":
		a.division = uint32(value)
	case "probability":
		a.probability = value
	case "velocity":
		a.velocity = uint8(value)
	case "accent_velocity":
		a.accentVel = uint8(value)
	case "gate":
		a.gate = value
	case "euclidean":
		a.euclidean = value != 0
		a.euclidPat = nil
	case "euclid_hits":
		a.euclidHits = int(value)
		a.euclidPat = nil
	case "euclid_steps":
		a.euclidLen = int(value)
		a.euclidPat = nil
	}
}

// SetPattern sets the traversal pattern.
func (a *Arpeggio) SetPattern(p ArpeggioPattern) { a.pattern = p }

// SetDegrees restricts which scale degrees participate; empty means all.
func (a *Arpeggio) SetDegrees(degrees []int) {
	a.degrees = degrees
	a.notes = nil
}

func (a *Arpeggio) build(scale *music.Scale) {
	degrees := a.degrees
	if len(degrees) == 0 {
		for d := 1; d <= scale.Len(); d++ {
			degrees = append(degrees, d)
		}
	}
	var notes []uint8
	for oct := 0; oct < a.octaves; oct++ {
		for _, d := range degrees {
			if m, ok := scale.MidiNoteAt(d, 4+oct); ok {
				notes = append(notes, uint8(m))
			}
		}
	}
	if a.pattern != ArpOrder {
		sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	}
	if a.pattern == ArpDown {
		reverseU8(notes)
	}
	a.notes = notes
}

func reverseU8(s []uint8) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// nextIndex advances the traversal cursor according to pattern and returns
// the note index to play this step.
func (a *Arpeggio) nextIndex() int {
	n := len(a.notes)
	if n == 0 {
		return -1
	}
	switch a.pattern {
	case ArpRandom:
		return rand.IntN(n)
	case ArpUpDown, ArpDownUp:
		idx := a.step
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		next := idx + a.direction
		if next >= n {
			next = n - 2
			if next < 0 {
				next = 0
			}
			a.direction = -1
		} else if next < 0 {
			next = 1
			if next >= n {
				next = 0
			}
			a.direction = 1
		}
		a.step = next
		return idx
	default: // Up, Down, Order all walk forward over the already-oriented slice
		idx := a.step % n
		a.step++
		return idx
	}
}

func (a *Arpeggio) Generate(ctx Context) []MidiEvent {
	scale := ctx.Scale()
	if a.notes == nil {
		a.build(scale)
		if a.pattern == ArpUpDown {
			a.step = 0
			a.direction = 1
		} else if a.pattern == ArpDownUp {
			a.step = len(a.notes) - 1
			a.direction = -1
		}
	}
	if a.euclidean && a.euclidPat == nil {
		a.euclidPat = Euclidean(a.euclidHits, a.euclidLen)
	}

	stepTicks := ctx.NoteDuration(a.division)
	if stepTicks == 0 || len(a.notes) == 0 {
		return nil
	}
	gateTicks := uint64(float64(stepTicks) * a.gate)

	var events []MidiEvent
	absoluteTick := ctx.TotalTicks()
	// a.subTick is the offset (within this window) of the first sub-step
	// boundary, carried over from how the previous window ended.
	for pos := a.subTick; pos < ctx.TicksToGenerate; pos += stepTicks {
		stepIndex := (absoluteTick + pos) / stepTicks

		play := rand.Float64() < a.probability
		if play && a.euclidean && len(a.euclidPat) > 0 {
			play = a.euclidPat[int(stepIndex)%len(a.euclidPat)]
		}
		if play {
			idx := a.nextIndex()
			if idx >= 0 {
				onBar := (absoluteTick+pos)%ctx.TicksPerBar() == 0
				vel := a.velocity
				if onBar {
					vel = a.accentVel
				}
				events = append(events, MidiEvent{
					StartTick: pos,
					Duration:  gateTicks,
					Note:      a.notes[idx],
					Velocity:  vel,
				})
			}
		}
	}
	// Carry the phase into the next window: distance from the last
	// in-window boundary to the window's end, wrapped into [0, stepTicks).
	if ctx.TicksToGenerate >= a.subTick {
		consumed := (ctx.TicksToGenerate - a.subTick) % stepTicks
		if consumed == 0 {
			a.subTick = 0
		} else {
			a.subTick = stepTicks - consumed
		}
	} else {
		a.subTick -= ctx.TicksToGenerate
	}
	return events
}
