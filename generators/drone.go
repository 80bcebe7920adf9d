package generators

import (
	"math/rand/v2"

	"seqcore/music"
)

// IntervalPreference biases which scale degree a drone voice moves toward
// when it changes note.
type IntervalPreference string

const (
	PreferAny    IntervalPreference = "any"
	PreferRoot   IntervalPreference = "root"
	PreferFifth  IntervalPreference = "fifth"
	PreferThirds IntervalPreference = "thirds"
)

const maxDroneVoices = 8

type droneVoice struct {
	note             uint8
	velocity         uint8
	active           bool
	ticksUntilChange uint64
}

// Drone is a sustained multi-voice pad generator: voices are built once per
// reset and occasionally reassigned to a new nearby scale note.
type Drone struct {
	voices            int
	changeRateBeats   float64 // 0 = never
	changeProbability float64
	velocity          uint8
	velocityVariation uint8
	interval          IntervalPreference
	maxJump           int
	baseOctave        int
	octaveSpread      int

	built []droneVoice
}

// NewDrone returns a Drone with the original's defaults.
func NewDrone() *Drone {
	return &Drone{
		voices:            4,
		changeRateBeats:   16,
		changeProbability: 0.3,
		velocity:          70,
		velocityVariation: 10,
		interval:          PreferAny,
		maxJump:           2,
		baseOctave:        3,
		octaveSpread:      2,
	}
}

func (d *Drone) Name() string { return "drone" }

func (d *Drone) Reset() { d.built = nil }

func (d *Drone) Params() map[string]float64 {
	return map[string]float64{
		"voices":             float64(d.voices),
		"change_rate":        d.changeRateBeats,
		"change_probability": d.changeProbability,
		"velocity":           float64(d.velocity),
		"velocity_variation": float64(d.velocityVariation),
		"max_jump":           float64(d.maxJump),
		"base_octave":        float64(d.baseOctave),
		"octave_spread":      float64(d.octaveSpread),
	}
}

func (d *Drone) GetParam(name string) (float64, bool) {
	v, ok := d.Params()[name]
	return v, ok
}

func (d *Drone) SetParam(name string, value float64) {
	switch name {
	case "voices":
		n := int(value)
		if n < 1 {
			n = 1
		}
		if n > maxDroneVoices {
			n = maxDroneVoices
		}
		d.voices = n
		d.built = nil
	case "change_rate":
		d.changeRateBeats = value
	case "change_probability":
		d.changeProbability = value
	case "velocity":
		d.velocity = uint8(value)
	case "velocity_variation":
		d.velocityVariation = uint8(value)
	case "max_jump":
		d.maxJump = int(value)
	case "base_octave":
		d.baseOctave = int(value)
		d.built = nil
	case "octave_spread":
		d.octaveSpread = int(value)
		d.built = nil
	}
}

// build spreads voices across octaves around base_octave, seeding the first
// three from scale degrees 1 (root), 5 (fifth), 3 (third), then cycling
// further voices by degree index modulo the scale length.
func (d *Drone) build(scale *music.Scale) {
	seedDegrees := []int{1, 5, 3}
	d.built = make([]droneVoice, d.voices)
	for i := 0; i < d.voices; i++ {
		degree := 1
		if i < len(seedDegrees) {
			degree = seedDegrees[i]
		} else if scale.Len() > 0 {
			degree = (i % scale.Len()) + 1
		}
		octave := d.baseOctave + (i % (d.octaveSpread + 1))
		note, ok := scale.MidiNoteAt(degree, octave)
		if !ok {
			note = 60
		}
		d.built[i] = droneVoice{
			note:     uint8(note),
			velocity: d.velocity,
			active:   true,
		}
	}
}

// preferredDegree returns the target scale degree for this interval
// preference: root=1, fifth=5, thirds=3, any=0 (no fixed target).
func (d *Drone) preferredDegree() int {
	switch d.interval {
	case PreferRoot:
		return 1
	case PreferFifth:
		return 5
	case PreferThirds:
		return 3
	default:
		return 0
	}
}

// retarget picks a new scale note for voice i within max_jump scale degrees
// of its current note, biased toward the preferred degree and filtered
// against the other voices' current notes to avoid doubling.
func (d *Drone) retarget(scale *music.Scale, idx int) {
	v := &d.built[idx]
	currentPC := music.NoteFromPitchClass(int(v.note % 12))
	currentDegree := scale.DegreeOf(currentPC)
	if currentDegree == 0 {
		currentDegree = 1
	}
	octave := int(v.note)/12 - 1

	jump := d.maxJump
	if jump < 1 {
		jump = 1
	}

	type candidate struct {
		midi  uint8
		score float64
	}
	var candidates []candidate
	preferred := d.preferredDegree()
	for delta := -jump; delta <= jump; delta++ {
		degree := currentDegree + delta
		if degree < 1 {
			continue
		}
		midi, ok := scale.MidiNoteAt(((degree-1)%scale.Len())+1, octave)
		if !ok {
			continue
		}
		doubled := false
		for j, other := range d.built {
			if j != idx && other.active && other.note == uint8(midi) {
				doubled = true
				break
			}
		}
		if doubled {
			continue
		}
		score := float64(jump+1) - float64(abs(delta))
		if preferred != 0 && ((degree-1)%scale.Len())+1 == preferred {
			score += 10
		}
		candidates = append(candidates, candidate{midi: uint8(midi), score: score})
	}
	if len(candidates) == 0 {
		return
	}
	// Weighted pick favoring higher score, matching the original's
	// interval-preference bias without collapsing to a hard rule.
	total := 0.0
	for _, c := range candidates {
		total += c.score
	}
	r := rand.Float64() * total
	for _, c := range candidates {
		r -= c.score
		if r <= 0 {
			v.note = c.midi
			return
		}
	}
	v.note = candidates[len(candidates)-1].midi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (d *Drone) Generate(ctx Context) []MidiEvent {
	scale := ctx.Scale()
	if d.built == nil || len(d.built) != d.voices {
		d.build(scale)
	}

	changeRateTicks := uint64(0)
	if d.changeRateBeats > 0 {
		changeRateTicks = uint64(d.changeRateBeats * float64(ctx.TicksPerBeat()))
	}

	var events []MidiEvent
	for i := range d.built {
		v := &d.built[i]
		if changeRateTicks > 0 {
			if v.ticksUntilChange <= ctx.TicksToGenerate {
				if rand.Float64() < d.changeProbability {
					d.retarget(scale, i)
				}
				v.ticksUntilChange = changeRateTicks
			} else {
				v.ticksUntilChange -= ctx.TicksToGenerate
			}
		}
		if !v.active {
			continue
		}
		vel := v.velocity
		if d.velocityVariation > 0 {
			jitter := rand.IntN(int(d.velocityVariation)*2+1) - int(d.velocityVariation)
			vel = clampVelocity(int(v.velocity) + jitter)
		}
		events = append(events, MidiEvent{
			StartTick: 0,
			Duration:  ctx.TicksToGenerate,
			Note:      v.note,
			Velocity:  vel,
		})
	}
	return events
}

func clampVelocity(v int) uint8 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
