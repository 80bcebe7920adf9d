// Package export renders sequencer output to Standard MIDI Files, grounded
// on midi.GenerateFromTrack's absolute-tick-then-delta conversion but
// generalized from a fixed four-track layout to however many tracks the
// sequencer has.
package export

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"seqcore/scheduler"
)

// TrackEvents is one output track's worth of scheduled events, in any
// order — SMF writes them sorted by tick.
type TrackEvents struct {
	Name   string
	Events []scheduler.ScheduledEvent
}

// WriteSMF renders tempo plus one track per TrackEvents entry to w, using
// ppqn ticks per quarter note (the sequencer's own PPQN, not a fixed 480 —
// the teacher hardcodes 480 because it only ever emits one fixed format;
// here PPQN is whatever the project configured).
func WriteSMF(w io.Writer, bpm float64, ppqn uint16, tracks []TrackEvents) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ppqn)

	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaTempo(bpm))
	tempoTrack.Close(0)
	s.Add(tempoTrack)

	for _, t := range tracks {
		var track smf.Track
		if t.Name != "" {
			track.Add(0, smf.MetaTrackSequenceName(t.Name))
		}

		events := make([]scheduler.ScheduledEvent, len(t.Events))
		copy(events, t.Events)
		sort.Slice(events, func(i, j int) bool {
			return events[i].TimeTicks < events[j].TimeTicks
		})

		var prevTick uint64
		for _, e := range events {
			delta := uint32(e.TimeTicks - prevTick)
			msg, ok := toGomidiMessage(e)
			if ok {
				track.Add(delta, msg)
				prevTick = e.TimeTicks
			}
		}

		track.Close(0)
		s.Add(track)
	}

	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing SMF: %w", err)
	}
	return nil
}

func toGomidiMessage(e scheduler.ScheduledEvent) (midi.Message, bool) {
	switch e.Kind {
	case scheduler.NoteOn:
		return midi.NoteOn(e.Channel, e.Data1, e.Data2), true
	case scheduler.NoteOff:
		return midi.NoteOff(e.Channel, e.Data1), true
	case scheduler.ControlChange:
		return midi.ControlChange(e.Channel, e.Data1, e.Data2), true
	case scheduler.ProgramChange:
		return midi.ProgramChange(e.Channel, e.Data1), true
	case scheduler.PitchBend:
		value := int16(uint16(e.Data1) | uint16(e.Data2)<<7)
		return midi.Pitchbend(e.Channel, value), true
	default:
		return nil, false
	}
}
