package sequencer

import (
	"seqcore/generators"
	"seqcore/scheduler"
)

// Track holds the per-track event transform pipeline: transpose, note-range
// filter, velocity scale/offset, channel routing, swing, and mute/solo
// flags. It owns no clips directly — callers drive Generate on whichever
// Clip is active and hand the result to Track.GenerateScheduled.
type Track struct {
	Index int

	Transpose     int8
	NoteMin       uint8
	NoteMax       uint8
	VelocityScale float64
	VelocityOffset float64
	Channel       uint8
	Swing         float64 // 0..1

	Muted  bool
	Soloed bool
}

// NewTrack returns a Track with an identity transform pipeline (no
// transpose, full note range, unity velocity) on channel index mod 16.
func NewTrack(index int) *Track {
	return &Track{
		Index:          index,
		NoteMin:        0,
		NoteMax:        127,
		VelocityScale:  1.0,
		VelocityOffset: 0,
		Channel:        uint8(index) & 0x0F,
	}
}

// process applies the transform pipeline to a single event. Returns
// (event, true) on survival, (zero, false) if the event is dropped by the
// transpose or note-range step.
func (t *Track) process(e generators.MidiEvent, ppqn uint32) (generators.MidiEvent, bool) {
	note := int(e.Note) + int(t.Transpose)
	if note < 0 || note > 127 {
		return generators.MidiEvent{}, false
	}
	e.Note = uint8(note)

	if e.Note < t.NoteMin || e.Note > t.NoteMax {
		return generators.MidiEvent{}, false
	}

	vel := float64(e.Velocity)*t.VelocityScale + t.VelocityOffset
	e.Velocity = clampVelocity127(vel)

	e.Channel = t.Channel

	e.StartTick = t.applySwing(e.StartTick, ppqn)
	return e, true
}

func clampVelocity127(v float64) uint8 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// applySwing delays a start tick landing on the back half of its beat
// (tick_in_beat >= ppqn/2) by (ppqn/2)*swing*0.5 ticks, matching §4.5.
func (t *Track) applySwing(startTick uint64, ppqn uint32) uint64 {
	if t.Swing == 0 || ppqn == 0 {
		return startTick
	}
	tickInBeat := startTick % uint64(ppqn)
	if tickInBeat >= uint64(ppqn)/2 {
		delay := uint64(float64(ppqn/2) * t.Swing * 0.5)
		return startTick + delay
	}
	return startTick
}

// GenerateScheduled runs events through the transform pipeline and pairs
// each surviving MidiEvent into NoteOn/NoteOff ScheduledEvents anchored at
// baseTick, both tagged with the track index.
func (t *Track) GenerateScheduled(events []generators.MidiEvent, baseTick uint64, ppqn uint32) []scheduler.ScheduledEvent {
	var out []scheduler.ScheduledEvent
	for _, e := range events {
		processed, ok := t.process(e, ppqn)
		if !ok {
			continue
		}
		onTick := baseTick + processed.StartTick
		offTick := onTick + processed.Duration
		out = append(out,
			scheduler.NewNoteOn(onTick, t.Channel, processed.Note, processed.Velocity).WithTrack(t.Index),
			scheduler.NewNoteOff(offTick, t.Channel, processed.Note, 0).WithTrack(t.Index),
		)
	}
	return out
}

// Manager arbitrates mute/solo across a set of tracks.
type Manager struct {
	tracks []*Track
}

// NewManager wraps a set of tracks.
func NewManager(tracks []*Track) *Manager { return &Manager{tracks: tracks} }

// Tracks returns the managed tracks.
func (m *Manager) Tracks() []*Track { return m.tracks }

// ShouldOutput reports whether track i should sound: false if muted, else
// if any track is soloed, true only for soloed tracks, else true.
func (m *Manager) ShouldOutput(i int) bool {
	if i < 0 || i >= len(m.tracks) {
		return false
	}
	if m.tracks[i].Muted {
		return false
	}
	anySoloed := false
	for _, t := range m.tracks {
		if t.Soloed {
			anySoloed = true
			break
		}
	}
	if anySoloed {
		return m.tracks[i].Soloed
	}
	return true
}
