package generators

import (
	"math/rand/v2"

	"seqcore/music"
)

// ChordProgression selects how successive chord roots are chosen.
type ChordProgression string

const (
	ProgressionFunctional  ChordProgression = "functional"
	ProgressionRandomInKey ChordProgression = "random_in_key"
	ProgressionCustom      ChordProgression = "custom"
)

// ChordVoicing rearranges chord-tone octaves after the triad/extension is
// built.
type ChordVoicing string

const (
	VoicingClose ChordVoicing = "close"
	VoicingOpen  ChordVoicing = "open"  // middle notes up an octave
	VoicingDrop2 ChordVoicing = "drop2" // second-highest down an octave
	VoicingSpread ChordVoicing = "spread" // arithmetic octave distribution
)

// ChordInversion selects which inversion of the voiced chord sounds.
type ChordInversion string

const (
	InversionRoot      ChordInversion = "root"
	InversionRandom    ChordInversion = "random"
	InversionAscending ChordInversion = "ascending" // cycles through inversions
	InversionVoiceLed  ChordInversion = "voice_led" // minimizes movement from previous chord
)

// functionalDegrees is the degree sequence a Functional progression cycles
// through: I - IV - V - I-ish motion via scale degrees.
var functionalDegrees = []int{1, 4, 5, 1, 6, 4, 5, 1}

// Chord builds triads/extensions at a configured rate and voices/inverts
// them, tracking the previous chord for voice-leading.
type Chord struct {
	progression ChordProgression
	customDegrees []int
	changeRateBeats float64
	seventhProb  float64
	ninthProb    float64
	susProb      float64
	voicing      ChordVoicing
	inversion    ChordInversion

	velocity uint8

	ticksUntilChange uint64
	progressionIndex int
	ascendingIndex   int
	currentChord     []uint8 // absolute MIDI notes, as last emitted
}

// NewChord returns a Chord with the original's defaults.
func NewChord() *Chord {
	return &Chord{
		progression:     ProgressionFunctional,
		changeRateBeats: 4,
		seventhProb:     0.3,
		ninthProb:       0.1,
		susProb:         0.05,
		voicing:         VoicingClose,
		inversion:       InversionRoot,
		velocity:        85,
	}
}

func (c *Chord) Name() string { return "chord" }

func (c *Chord) Reset() {
	c.ticksUntilChange = 0
	c.progressionIndex = 0
	c.ascendingIndex = 0
	c.currentChord = nil
}

func (c *Chord) Params() map[string]float64 {
	return map[string]float64{
		"change_rate":  c.changeRateBeats,
		"seventh_probability": c.seventhProb,
		"ninth_probability":   c.ninthProb,
		"sus_probability":     c.susProb,
		"velocity": float64(c.velocity),
	}
}

func (c *Chord) GetParam(name string) (float64, bool) {
	v, ok := c.Params()[name]
	return v, ok
}

func (c *Chord) SetParam(name string, value float64) {
	switch name {
	case "change_rate":
		c.changeRateBeats = value
	case "seventh_probability":
		c.seventhProb = value
	case "ninth_probability":
		c.ninthProb = value
	case "sus_probability":
		c.susProb = value
	case "velocity":
		c.velocity = uint8(value)
	}
}

// SetVoicing sets the chord voicing.
func (c *Chord) SetVoicing(v ChordVoicing) { c.voicing = v }

// SetInversion sets the inversion strategy.
func (c *Chord) SetInversion(i ChordInversion) { c.inversion = i }

// nextDegree picks the next chord root degree per the configured
// progression. Functional cycles the fixed I-IV-V-I-vi-IV-V-I sequence;
// RandomInKey samples any scale degree; Custom cycles customDegrees (falling
// back to degree 1 if empty).
func (c *Chord) nextDegree(scaleLen int) int {
	switch c.progression {
	case ProgressionRandomInKey:
		if scaleLen == 0 {
			return 1
		}
		return rand.IntN(scaleLen) + 1
	case ProgressionCustom:
		if len(c.customDegrees) == 0 {
			return 1
		}
		d := c.customDegrees[c.progressionIndex%len(c.customDegrees)]
		c.progressionIndex++
		return d
	default: // Functional
		d := functionalDegrees[c.progressionIndex%len(functionalDegrees)]
		c.progressionIndex++
		return d
	}
}

// buildTriad constructs a chord's MIDI notes for root degree d: the base
// triad {d, d+2, d+4} (wrapping scale length, carrying octave offset), with
// 7th/9th additions and sus-4 substitution applied independently.
func buildTriad(scale *music.Scale, degree, octave int, seventh, ninth, sus bool) []uint8 {
	scaleLen := scale.Len()
	if scaleLen == 0 {
		return nil
	}
	degreeAt := func(offset int) (uint8, bool) {
		pos := degree - 1 + offset
		wrapped := ((pos % scaleLen) + scaleLen) % scaleLen
		octaveOffset := floorDivChord(pos, scaleLen)
		m, ok := scale.MidiNoteAt(wrapped+1, octave+octaveOffset)
		return uint8(m), ok
	}

	var notes []uint8
	if root, ok := degreeAt(0); ok {
		notes = append(notes, root)
	}
	thirdOffset := 2
	if sus {
		thirdOffset = 3 // 4th instead of 3rd
	}
	if third, ok := degreeAt(thirdOffset); ok {
		notes = append(notes, third)
	}
	if fifth, ok := degreeAt(4); ok {
		notes = append(notes, fifth)
	}
	if seventh {
		if sev, ok := degreeAt(6); ok {
			notes = append(notes, sev)
		}
	}
	if ninth {
		if nin, ok := degreeAt(8); ok {
			notes = append(notes, nin)
		}
	}
	return notes
}

func floorDivChord(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// applyVoicing rearranges octaves of an already-built, ascending chord.
func applyVoicing(notes []uint8, voicing ChordVoicing) []uint8 {
	out := append([]uint8{}, notes...)
	switch voicing {
	case VoicingOpen:
		for i := 1; i < len(out)-1; i++ {
			out[i] += 12
		}
	case VoicingDrop2:
		if len(out) >= 2 {
			out[len(out)-2] -= 12
		}
	case VoicingSpread:
		for i := range out {
			out[i] += uint8(i * 12 / max1(len(out)-1))
		}
	}
	return out
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// applyInversion rotates the lowest notes up an octave according to the
// inversion strategy. VoiceLed brute-forces every inversion and keeps the
// one minimizing total positional-index absolute movement from previous;
// ties favor the first (lowest) inversion checked.
func (c *Chord) applyInversion(notes []uint8, previous []uint8) []uint8 {
	n := len(notes)
	if n == 0 {
		return notes
	}
	invert := func(notes []uint8, k int) []uint8 {
		out := append([]uint8{}, notes...)
		for i := 0; i < k; i++ {
			out[i] += 12
		}
		// re-sort by rotating the incremented notes to the end, preserving
		// ascending order as a simple triad inversion would
		rotated := append(append([]uint8{}, out[k:]...), out[:k]...)
		return rotated
	}

	switch c.inversion {
	case InversionRoot:
		return notes
	case InversionRandom:
		return invert(notes, rand.IntN(n))
	case InversionAscending:
		k := c.ascendingIndex % n
		c.ascendingIndex++
		return invert(notes, k)
	case InversionVoiceLed:
		if len(previous) == 0 {
			return notes
		}
		best := notes
		bestCost := -1
		for k := 0; k < n; k++ {
			candidate := invert(notes, k)
			cost := 0
			for i := 0; i < len(candidate) && i < len(previous); i++ {
				d := int(candidate[i]) - int(previous[i])
				if d < 0 {
					d = -d
				}
				cost += d
			}
			if bestCost == -1 || cost < bestCost {
				bestCost = cost
				best = candidate
			}
		}
		return best
	default:
		return notes
	}
}

func (c *Chord) Generate(ctx Context) []MidiEvent {
	scale := ctx.Scale()
	changeRateTicks := uint64(c.changeRateBeats * float64(ctx.TicksPerBeat()))
	if changeRateTicks == 0 {
		changeRateTicks = ctx.TicksPerBar()
	}

	if c.ticksUntilChange == 0 {
		degree := c.nextDegree(scale.Len())
		seventh := rand.Float64() < c.seventhProb
		ninth := rand.Float64() < c.ninthProb
		sus := rand.Float64() < c.susProb
		triad := buildTriad(scale, degree, 4, seventh, ninth, sus)
		voiced := applyVoicing(triad, c.voicing)
		inverted := c.applyInversion(voiced, c.currentChord)
		c.currentChord = inverted
		c.ticksUntilChange = changeRateTicks
	}

	if c.ticksUntilChange <= ctx.TicksToGenerate {
		c.ticksUntilChange = 0
	} else {
		c.ticksUntilChange -= ctx.TicksToGenerate
	}

	var events []MidiEvent
	for _, note := range c.currentChord {
		events = append(events, MidiEvent{
			StartTick: 0,
			Duration:  ctx.TicksToGenerate,
			Note:      note,
			Velocity:  c.velocity,
		})
	}
	return events
}
