// Package arrangement implements the Part/Scene/Song layer that sits on top
// of the sequencer core: named snapshots of track clip-state, macro actions,
// and section-by-section song playback, grounded in
// original_source/src/arrangement/{part,scene,song}.rs.
package arrangement

// TrackClipStateKind names what a Part says a track should do when the part
// activates.
type TrackClipStateKind int

const (
	Hold TrackClipStateKind = iota // zero value: leave the track's current clip/generator alone
	Empty
	Clip
	Generator
	Stop
)

// TrackClipState pairs a kind with whichever payload it needs.
type TrackClipState struct {
	Kind          TrackClipStateKind
	ClipIndex     int    // valid when Kind == Clip
	GeneratorName string // valid when Kind == Generator
}

// MacroActionKind names a one-shot action a Part executes on activation.
type MacroActionKind int

const (
	SetTempo MacroActionKind = iota
	AdjustTempo
	SetParameter
	MuteTrack
	UnmuteTrack
	SoloTrack
	UnsoloTrack
	SendCC
	SendProgramChange
	TriggerPart
)

// MacroAction is one entry in a Part's ordered macro list.
type MacroAction struct {
	Kind MacroActionKind

	Tempo         float64 // SetTempo
	TempoDelta    float64 // AdjustTempo
	ParamName     string  // SetParameter
	ParamValue    float64 // SetParameter
	TrackIndex    int     // Mute/Unmute/Solo/Unsolo/SendCC/SendProgramChange
	Channel       uint8   // SendCC/SendProgramChange
	CC            uint8   // SendCC
	CCValue       uint8   // SendCC
	Program       uint8   // SendProgramChange
	PartName      string  // TriggerPart
}

// PartTransitionKind names when a part activation takes effect. Its values
// parallel the trigger queue's QuantizeMode values, plus Crossfade; nothing
// in this package converts a PartTransition into a trigger tick.
type PartTransitionKind int

const (
	Immediate PartTransitionKind = iota
	NextBeat
	NextBar
	Beats
	Bars
	EndOfPhrase
	Crossfade
)

// PartTransition records when and how a part activation takes effect. It is
// stored on the Part only: no code schedules a part activation from it, and
// the Crossfade duration in Ticks drives no velocity ramp.
type PartTransition struct {
	Kind  PartTransitionKind
	N     uint32 // Beats(n)/Bars(n) count
	Ticks uint64 // Crossfade duration
}

// Color is an RGB triple used for display only.
type Color struct{ R, G, B uint8 }

// Part is a named snapshot of what every track should be doing, plus a
// one-shot macro list executed when the part activates.
type Part struct {
	Name  string
	Color Color

	trackStates         map[int]TrackClipState
	trackPlaybackStates map[int]TrackState
	macros              []MacroAction

	Transition   PartTransition
	DurationBars *uint32
	FollowPart   *string
}

// TrackState is an opaque playback-state snapshot a Part can pin per track
// (e.g. "was muted", "was soloed") independent of the clip/generator it's
// running.
type TrackState struct {
	Muted  bool
	Soloed bool
}

// NewPart returns an empty part; every track defaults to Hold.
func NewPart(name string) *Part {
	return &Part{
		Name:                name,
		trackStates:         make(map[int]TrackClipState),
		trackPlaybackStates: make(map[int]TrackState),
	}
}

// SetTrackState records what track i should do when this part activates.
func (p *Part) SetTrackState(i int, s TrackClipState) { p.trackStates[i] = s }

// TrackClipState returns track i's configured state, defaulting to Hold.
func (p *Part) TrackClipState(i int) TrackClipState {
	if s, ok := p.trackStates[i]; ok {
		return s
	}
	return TrackClipState{Kind: Hold}
}

// SetPlaybackState records a pinned mute/solo snapshot for track i.
func (p *Part) SetPlaybackState(i int, s TrackState) { p.trackPlaybackStates[i] = s }

// PlaybackState returns track i's pinned playback state, if any.
func (p *Part) PlaybackState(i int) (TrackState, bool) {
	s, ok := p.trackPlaybackStates[i]
	return s, ok
}

// AddMacro appends a macro action to the part's activation list.
func (p *Part) AddMacro(m MacroAction) { p.macros = append(p.macros, m) }

// Macros returns the part's ordered macro list.
func (p *Part) Macros() []MacroAction { return p.macros }
