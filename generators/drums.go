package generators

import "math/rand/v2"

// GM percussion note numbers (General MIDI drum map).
const (
	GMKick       uint8 = 36
	GMSnare      uint8 = 38
	GMClosedHat  uint8 = 42
	GMOpenHat    uint8 = 46
	GMLowTom     uint8 = 45
	GMMidTom     uint8 = 47
	GMHighTom    uint8 = 50
	GMCrash      uint8 = 49
	GMRide       uint8 = 51
	GMClap       uint8 = 39
	GMRim        uint8 = 37
	GMCowbell    uint8 = 56
)

// DrumStyle selects the initial per-voice step pattern.
type DrumStyle string

const (
	StyleFourOnFloor DrumStyle = "four_on_floor"
	StyleBreakbeat   DrumStyle = "breakbeat"
	StyleSparse      DrumStyle = "sparse"
	StyleBusy        DrumStyle = "busy"
	StyleEuclidean   DrumStyle = "euclidean"
	StyleRandom      DrumStyle = "random"
)

type drumVoice struct {
	note          uint8
	pattern       [16]bool
	probability   float64
	velocity      uint8
	accentVel     uint8
	accentPattern [16]bool
	ghostPattern  [16]bool
	ghostVel      uint8
	enabled       bool
}

// Drums is a 16-step-per-bar generator with per-voice main/accent/ghost
// patterns, fills, and humanization.
type Drums struct {
	style           DrumStyle
	stepsPerBar     int
	swing           float64
	humanizeTiming  float64
	humanizeVel     uint8
	fillProbability float64
	fillEveryBars   int

	kickHits, snareHits, hatHits int // euclidean hit counts

	voices map[string]*drumVoice
	order  []string

	step    int
	bar     int
	inFill  bool
}

// NewDrums returns a Drums with the original's defaults and a built
// FourOnFloor pattern.
func NewDrums() *Drums {
	d := &Drums{
		style:           StyleFourOnFloor,
		stepsPerBar:     16,
		fillProbability: 0.3,
		fillEveryBars:   4,
		kickHits:        4,
		snareHits:       4,
		hatHits:         8,
		humanizeVel:     5,
	}
	d.buildPattern()
	return d
}

func (d *Drums) Name() string { return "drums" }

func (d *Drums) Reset() {
	d.step = 0
	d.bar = 0
	d.inFill = false
}

func (d *Drums) Params() map[string]float64 {
	return map[string]float64{
		"swing":             d.swing,
		"humanize_timing":   d.humanizeTiming,
		"humanize_velocity": float64(d.humanizeVel),
		"fill_probability":  d.fillProbability,
		"fill_every_bars":   float64(d.fillEveryBars),
		"kick_euclidean_hits":  float64(d.kickHits),
		"snare_euclidean_hits": float64(d.snareHits),
		"hat_euclidean_hits":   float64(d.hatHits),
	}
}

func (d *Drums) GetParam(name string) (float64, bool) {
	v, ok := d.Params()[name]
	return v, ok
}

func (d *Drums) SetParam(name string, value float64) {
	rebuild := false
	switch name {
	case "swing":
		d.swing = value
	case "humanize_timing":
		d.humanizeTiming = value
	case "humanize_velocity":
		d.humanizeVel = uint8(value)
	case "fill_probability":
		d.fillProbability = value
	case "fill_every_bars":
		d.fillEveryBars = int(value)
	case "kick_euclidean_hits":
		d.kickHits = int(value)
		rebuild = true
	case "snare_euclidean_hits":
		d.snareHits = int(value)
		rebuild = true
	case "hat_euclidean_hits":
		d.hatHits = int(value)
		rebuild = true
	}
	if rebuild && d.style == StyleEuclidean {
		d.buildPattern()
	}
}

// SetStyle changes the drum style and rebuilds voice patterns.
func (d *Drums) SetStyle(s DrumStyle) {
	d.style = s
	d.buildPattern()
}

func newVoice(note uint8, velocity, accentVel, ghostVel uint8) *drumVoice {
	return &drumVoice{note: note, velocity: velocity, accentVel: accentVel, ghostVel: ghostVel, probability: 1.0, enabled: true}
}

func setSteps(pat *[16]bool, steps ...int) {
	for _, s := range steps {
		if s >= 0 && s < 16 {
			pat[s] = true
		}
	}
}

// buildPattern lays out the literal per-style step tables (or Euclidean/
// Random generation) for kick/snare/hat/open-hat/rim.
func (d *Drums) buildPattern() {
	kick := newVoice(GMKick, 110, 120, 60)
	snare := newVoice(GMSnare, 100, 110, 50)
	hat := newVoice(GMClosedHat, 80, 95, 40)
	openHat := newVoice(GMOpenHat, 85, 100, 0)
	openHat.enabled = false
	rim := newVoice(GMRim, 70, 0, 0)
	rim.enabled = false

	switch d.style {
	case StyleFourOnFloor:
		setSteps(&kick.pattern, 0, 4, 8, 12)
		setSteps(&snare.pattern, 4, 12)
		setSteps(&hat.pattern, 0, 2, 4, 6, 8, 10, 12, 14)
	case StyleBreakbeat:
		setSteps(&kick.pattern, 0, 10)
		setSteps(&snare.pattern, 4, 12, 14)
		setSteps(&hat.pattern, 0, 2, 4, 6, 8, 10, 12, 14)
		setSteps(&openHat.pattern, 6)
		openHat.enabled = true
	case StyleSparse:
		setSteps(&kick.pattern, 0)
		setSteps(&snare.pattern, 8)
		setSteps(&hat.pattern, 0, 4, 8, 12)
	case StyleBusy:
		setSteps(&kick.pattern, 0, 3, 6, 8, 11, 14)
		setSteps(&snare.pattern, 4, 12)
		for i := 0; i < 16; i++ {
			hat.pattern[i] = true
		}
		setSteps(&rim.pattern, 2, 10)
		rim.enabled = true
	case StyleEuclidean:
		copyBoolSlice(&kick.pattern, Euclidean(d.kickHits, 16))
		copyBoolSlice(&snare.pattern, Euclidean(d.snareHits, 16))
		copyBoolSlice(&hat.pattern, Euclidean(d.hatHits, 16))
	case StyleRandom:
		for i := 0; i < 16; i++ {
			kick.pattern[i] = rand.Float64() < 0.25
			snare.pattern[i] = rand.Float64() < 0.2
			hat.pattern[i] = rand.Float64() < 0.5
		}
		kick.pattern[0] = true // forced downbeat
	}

	setSteps(&kick.accentPattern, 0)
	setSteps(&snare.accentPattern, 4, 12)

	d.voices = map[string]*drumVoice{
		"kick": kick, "snare": snare, "hat": hat, "open_hat": openHat, "rim": rim,
	}
	d.order = []string{"kick", "snare", "hat", "open_hat", "rim"}
}

func copyBoolSlice(dst *[16]bool, src []bool) {
	for i := 0; i < 16 && i < len(src); i++ {
		dst[i] = src[i]
	}
}

// generateFill builds a tom-sweep over the last four steps, cycling
// HighTom/MidTom/LowTom/Kick.
func generateFill(stepTicks uint64, velocity uint8) []MidiEvent {
	notes := []uint8{GMHighTom, GMMidTom, GMLowTom, GMKick}
	var events []MidiEvent
	for i, n := range notes {
		step := 12 + i
		events = append(events, MidiEvent{
			StartTick: uint64(step) * stepTicks,
			Duration:  stepTicks,
			Note:      n,
			Velocity:  velocity,
		})
	}
	return events
}

func (d *Drums) humanizedVelocity(base uint8) uint8 {
	if d.humanizeVel == 0 {
		return base
	}
	jitter := rand.IntN(int(d.humanizeVel)*2+1) - int(d.humanizeVel)
	return clampVelocity(int(base) + jitter)
}

func (d *Drums) Generate(ctx Context) []MidiEvent {
	if d.voices == nil {
		d.buildPattern()
	}
	stepTicks := ctx.TicksPerBar() / uint64(d.stepsPerBar)
	if stepTicks == 0 {
		return nil
	}

	var events []MidiEvent
	ticksConsumed := uint64(0)
	for ticksConsumed < ctx.TicksToGenerate {
		if d.step == 12 && !d.inFill && d.fillEveryBars > 0 && (d.bar+1)%d.fillEveryBars == 0 {
			if rand.Float64() < d.fillProbability {
				d.inFill = true
			}
		}

		startTick := ticksConsumed
		if d.inFill && d.step >= 12 {
			fillNotes := []uint8{GMHighTom, GMMidTom, GMLowTom, GMKick}
			events = append(events, MidiEvent{
				StartTick: startTick,
				Duration:  stepTicks,
				Note:      fillNotes[d.step-12],
				Velocity:  d.humanizedVelocity(100),
			})
		} else {
			for _, name := range d.order {
				v := d.voices[name]
				if !v.enabled || !v.pattern[d.step] {
					continue
				}
				if rand.Float64() > v.probability {
					continue
				}
				vel := v.velocity
				if v.accentPattern[d.step] {
					vel = v.accentVel
				}
				events = append(events, MidiEvent{
					StartTick: startTick,
					Duration:  stepTicks,
					Note:      v.note,
					Velocity:  d.humanizedVelocity(vel),
				})
				if v.ghostPattern[d.step] && v.ghostVel > 0 {
					events = append(events, MidiEvent{
						StartTick: startTick,
						Duration:  stepTicks / 2,
						Note:      v.note,
						Velocity:  v.ghostVel,
					})
				}
			}
		}

		d.step++
		if d.step >= d.stepsPerBar {
			d.step = 0
			d.bar++
			d.inFill = false
		}
		ticksConsumed += stepTicks
	}
	return events
}
