package generators

import (
	"math/rand/v2"
)

// MotifTransform names a way to reinterpret a stored motif on repetition.
type MotifTransform int

const (
	TransformOriginal MotifTransform = iota
	TransformRepeat
	TransformTranspose // interval carried separately
	TransformInvert
	TransformRetrograde
	TransformRetroInvert
)

// intervalWeights is the 15-entry probability table over scale-degree
// intervals -7..+7, heavily weighted toward small steps.
var intervalWeights = [15]float64{
	0.01, 0.02, 0.03, 0.05, 0.07, 0.10, 0.15, // -7..-1
	0.20,                                     // 0
	0.15, 0.10, 0.07, 0.05, 0.03, 0.02, 0.01, // +1..+7
}

func sampleInterval() int {
	total := 0.0
	for _, w := range intervalWeights {
		total += w
	}
	r := rand.Float64() * total
	for i, w := range intervalWeights {
		r -= w
		if r <= 0 {
			return i - 7
		}
	}
	return 0
}

type motifNote struct {
	interval int
	division uint32
}

// Melody is a motif-based Markov line generator.
type Melody struct {
	baseOctave         int
	octaveRange        int
	velocity           uint8
	velocityVariation  uint8
	baseRate           uint32 // subdivision, in notes-per-beat-ish division units
	gate               float64
	stepProbability    float64
	repeatProbability  float64
	restProbability    float64
	maxJump            int
	useMotifs          bool
	motifLength        int

	currentDegree   int
	motif           []motifNote
	motifPosition   int // index into motif, 0..motifLength-1, advances once per note
	motifRepetition int // completed full passes through motif, not notes
}

// NewMelody returns a Melody with the original's defaults.
func NewMelody() *Melody {
	return &Melody{
		baseOctave:        4,
		octaveRange:       2,
		velocity:          100,
		velocityVariation: 15,
		baseRate:          8,
		gate:              0.85,
		stepProbability:   0.7,
		repeatProbability: 0.1,
		restProbability:   0.15,
		maxJump:           4,
		useMotifs:         true,
		motifLength:       4,
		currentDegree:     1,
	}
}

func (m *Melody) Name() string { return "melody" }

func (m *Melody) Reset() {
	m.currentDegree = 1
	m.motif = nil
	m.motifPosition = 0
	m.motifRepetition = 0
}

func (m *Melody) Params() map[string]float64 {
	useMotifs := 0.0
	if m.useMotifs {
		useMotifs = 1
	}
	return map[string]float64{
		"base_octave":         float64(m.baseOctave),
		"octave_range":        float64(m.octaveRange),
		"velocity":            float64(m.velocity),
		"velocity_variation":  float64(m.velocityVariation),
		"base_rate":           float64(m.baseRate),
		"gate":                m.gate,
		"step_probability":    m.stepProbability,
		"repeat_probability":  m.repeatProbability,
		"rest_probability":    m.restProbability,
		"max_jump":            float64(m.maxJump),
		"use_motifs":          useMotifs,
		"motif_length":        float64(m.motifLength),
	}
}

func (m *Melody) GetParam(name string) (float64, bool) {
	v, ok := m.Params()[name]
	return v, ok
}

func (m *Melody) SetParam(name string, value float64) {
	switch name {
	case "base_octave":
		m.baseOctave = int(value)
	case "octave_range":
		m.octaveRange = int(value)
	case "velocity":
		m.velocity = uint8(value)
	case "velocity_variation":
		m.velocityVariation = uint8(value)
	case "base_rate":
		m.baseRate = uint32(value)
	case "gate":
		m.gate = value
	case "step_probability":
		m.stepProbability = value
	case "repeat_probability":
		m.repeatProbability = value
	case "rest_probability":
		m.restProbability = value
	case "max_jump":
		m.maxJump = int(value)
	case "use_motifs":
		m.useMotifs = value != 0
	case "motif_length":
		m.motifLength = int(value)
		m.motif = nil
		m.motifPosition = 0
	}
}

// chooseInterval picks the next scale-degree interval: repeat_probability
// gates a zero move, then step_probability gates a ±1 move, else sample the
// full distribution clamped to max_jump.
func (m *Melody) chooseInterval() int {
	if rand.Float64() < m.repeatProbability {
		return 0
	}
	if rand.Float64() < m.stepProbability {
		if rand.Float64() < 0.5 {
			return 1
		}
		return -1
	}
	iv := sampleInterval()
	if iv > m.maxJump {
		iv = m.maxJump
	}
	if iv < -m.maxJump {
		iv = -m.maxJump
	}
	return iv
}

// moveByInterval advances currentDegree by interval scale degrees, clamped
// to [1, 1+octave_range*scale_len].
func (m *Melody) moveByInterval(interval, scaleLen int) {
	m.currentDegree += interval
	max := 1 + m.octaveRange*scaleLen
	if m.currentDegree < 1 {
		m.currentDegree = 1
	}
	if m.currentDegree > max {
		m.currentDegree = max
	}
}

// noteForDegree maps a 1-based degree possibly beyond the scale length to a
// MIDI note, wrapping into additional octaves as needed.
func (m *Melody) noteForDegree(ctx Context, degree int) (uint8, bool) {
	scale := ctx.Scale()
	scaleLen := scale.Len()
	if scaleLen == 0 {
		return 0, false
	}
	if degree < 1 {
		degree = 1
	}
	octaveOffset := (degree - 1) / scaleLen
	wrapped := ((degree - 1) % scaleLen) + 1
	midi, ok := scale.MidiNoteAt(wrapped, m.baseOctave+octaveOffset)
	return uint8(midi), ok
}

func (m *Melody) generateMotif(scaleLen int) []motifNote {
	motif := make([]motifNote, m.motifLength)
	divisions := []uint32{m.baseRate, m.baseRate, m.baseRate * 2}
	for i := range motif {
		motif[i] = motifNote{
			interval: m.chooseInterval(),
			division: divisions[i%len(divisions)],
		}
	}
	return motif
}

// chooseTransform weighted-rolls a transform for the next motif repetition.
func chooseTransform() (MotifTransform, int) {
	r := rand.Float64()
	switch {
	case r < 0.3:
		return TransformOriginal, 0
	case r < 0.5:
		return TransformRepeat, 0
	case r < 0.7:
		return TransformTranspose, rand.IntN(7) - 3
	case r < 0.85:
		return TransformInvert, 0
	case r < 0.95:
		return TransformRetrograde, 0
	default:
		return TransformRetroInvert, 0
	}
}

func transformMotif(motif []motifNote, t MotifTransform, transposeBy int) []motifNote {
	out := append([]motifNote{}, motif...)
	switch t {
	case TransformTranspose:
		if len(out) > 0 {
			out[0].interval += transposeBy
		}
	case TransformInvert:
		for i := range out {
			out[i].interval = -out[i].interval
		}
	case TransformRetrograde:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	case TransformRetroInvert:
		for i := range out {
			out[i].interval = -out[i].interval
		}
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func (m *Melody) Generate(ctx Context) []MidiEvent {
	scale := ctx.Scale()
	scaleLen := scale.Len()
	if scaleLen == 0 {
		return nil
	}

	var events []MidiEvent
	tick := uint64(0)
	for tick < ctx.TicksToGenerate {
		if rand.Float64() < m.restProbability {
			slotTicks := ctx.NoteDuration(m.baseRate)
			if slotTicks == 0 {
				break
			}
			tick += slotTicks
			continue
		}

		var note motifNote
		if m.useMotifs {
			// A motif plays all motifLength notes (motifPosition walking
			// 0..motifLength-1) before the next transform/regeneration
			// decision is made, matching generators/melody.rs's
			// motif_position/motif_repetitions state machine: a
			// "repetition" is one full pass through the motif, not one note.
			if m.motif == nil || m.motifPosition >= m.motifLength {
				if m.motif == nil || m.motifRepetition >= 3 {
					m.motif = m.generateMotif(scaleLen)
					m.motifRepetition = 0
				} else {
					t, by := chooseTransform()
					m.motif = transformMotif(m.motif, t, by)
					m.motifRepetition++
				}
				m.motifPosition = 0
			}
			note = m.motif[m.motifPosition]
			m.motifPosition++
		} else {
			note = motifNote{interval: m.chooseInterval(), division: m.baseRate}
		}

		m.moveByInterval(note.interval, scaleLen)
		midiNote, ok := m.noteForDegree(ctx, m.currentDegree)
		durationTicks := ctx.NoteDuration(note.division)
		if durationTicks == 0 {
			durationTicks = ctx.NoteDuration(m.baseRate)
		}
		if durationTicks == 0 {
			break
		}
		if ok && tick < ctx.TicksToGenerate {
			vel := m.velocity
			if m.velocityVariation > 0 {
				jitter := rand.IntN(int(m.velocityVariation)*2+1) - int(m.velocityVariation)
				vel = clampVelocity(int(m.velocity) + jitter)
			}
			events = append(events, MidiEvent{
				StartTick: tick,
				Duration:  uint64(float64(durationTicks) * m.gate),
				Note:      midiNote,
				Velocity:  vel,
			})
		}
		tick += durationTicks
	}
	return events
}
