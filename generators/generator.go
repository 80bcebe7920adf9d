// Package generators implements the stateful tick-driven event producers
// (drone, arpeggio, chord, melody, drums) that fill a generation window with
// scale-bound MIDI events, per §4.3.
package generators

import "seqcore/music"

// MidiEvent is a generator's raw output: a note or control event positioned
// relative to the start of the generation window it was produced in.
type MidiEvent struct {
	StartTick uint64
	Duration  uint64 // ticks; zero for instantaneous events (CC, program change)
	Note      uint8
	Velocity  uint8
	Channel   uint8
	IsNoteOff bool // when true, Note/Velocity describe a note-off, Duration is unused
}

// Context carries everything a generator needs to fill one generation
// window: transport state, the active scale, and the window length.
type Context struct {
	Tempo            float64
	PPQN             uint32
	Beat             uint64
	Tick             uint64
	Bar              uint64
	BeatsPerBar      uint32
	Key              music.Key
	TicksToGenerate  uint64
	Swing            float64 // 0..1, applied by the track pipeline, not generators
}

// TotalTicks returns Bar*TicksPerBar()+Beat*TicksPerBeat()+Tick, the
// absolute tick position the window starts at.
func (c Context) TotalTicks() uint64 {
	return c.Bar*c.TicksPerBar() + c.Beat*uint64(c.PPQN) + c.Tick
}

// TicksPerBeat is always PPQN.
func (c Context) TicksPerBeat() uint64 { return uint64(c.PPQN) }

// TicksPerBar is PPQN * BeatsPerBar.
func (c Context) TicksPerBar() uint64 { return uint64(c.PPQN) * uint64(c.BeatsPerBar) }

// NoteDuration converts a rhythmic division (4=quarter, 8=eighth, 16=
// sixteenth, ...) into ticks: (ppqn*4)/division.
func (c Context) NoteDuration(division uint32) uint64 {
	if division == 0 {
		return 0
	}
	return (uint64(c.PPQN) * 4) / uint64(division)
}

// Scale returns the context's active scale.
func (c Context) Scale() *music.Scale { return c.Key.Scale() }

// Generator is the uniform contract every producer implements.
type Generator interface {
	Generate(ctx Context) []MidiEvent
	SetParam(name string, value float64)
	GetParam(name string) (float64, bool)
	Params() map[string]float64
	Reset()
	Name() string
}

// Factory constructs a fresh, default-configured Generator instance.
type Factory func() Generator

// Registry maps generator names to factories, mirroring the original's
// GeneratorFactory = fn() -> Box<dyn Generator>: a plain constructor value,
// not a closure capturing state. Populated once at process start by
// RegisterDefaults.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named factory, overwriting any existing entry under the
// same name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Create instantiates a fresh generator by name, or (nil, false) if no such
// factory is registered.
func (r *Registry) Create(name string) (Generator, bool) {
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns the registered generator names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	return names
}

// RegisterDefaults registers the five built-in generators under their
// canonical names.
func RegisterDefaults(r *Registry) {
	r.Register("drone", func() Generator { return NewDrone() })
	r.Register("arpeggio", func() Generator { return NewArpeggio() })
	r.Register("chord", func() Generator { return NewChord() })
	r.Register("melody", func() Generator { return NewMelody() })
	r.Register("drums", func() Generator { return NewDrums() })
}
