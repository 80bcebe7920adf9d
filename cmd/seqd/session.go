package main

import (
	"fmt"

	"seqcore/arrangement"
	"seqcore/collab/config"
	"seqcore/generators"
	"seqcore/music"
	"seqcore/scheduler"
	"seqcore/sequencer"
	"seqcore/timing"
	"seqcore/trigger"
)

// trackUnit pairs a track's event-transform pipeline with the clip that
// drives its generator and the follow action to apply once that clip stops.
type trackUnit struct {
	name   string
	track  *sequencer.Track
	clip   *sequencer.Clip
	follow trigger.FollowAction
}

// Session is a loaded project wired into live sequencer components: one
// clip+track pipeline per configured track sharing a key/scale and a
// transport, plus the song-section arrangement (if the project names one).
type Session struct {
	Project *config.Project
	Key     music.Key
	Timing  timing.Timing
	Tracks  []trackUnit
	Manager *sequencer.Manager

	Song  *arrangement.Song
	Parts map[string]*arrangement.Part
}

// LoadSession builds a Session from a project file.
func LoadSession(path string) (*Session, error) {
	proj, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	key, ok := music.ParseKey(proj.Key, proj.Scale)
	if !ok {
		return nil, fmt.Errorf("unrecognized key/scale: %s %s", proj.Key, proj.Scale)
	}

	reg := generators.NewRegistry()
	generators.RegisterDefaults(reg)

	t := timing.NewTiming().WithTempo(proj.Tempo)
	t.PPQN = proj.PPQN
	t.BeatsPerBar = uint32(proj.TimeSignature.Num)
	t.BeatUnit = uint32(proj.TimeSignature.Denom)

	var units []trackUnit
	var tracks []*sequencer.Track
	for i, tc := range proj.Tracks {
		gen, ok := reg.Create(tc.Generator)
		if !ok {
			return nil, fmt.Errorf("track %q: unknown generator %q", tc.Name, tc.Generator)
		}
		for name, value := range tc.Params {
			gen.SetParam(name, value)
		}

		track := sequencer.NewTrack(i)
		track.Transpose = tc.Transpose
		track.NoteMin = tc.NoteMin
		track.NoteMax = tc.NoteMax
		track.VelocityScale = tc.VelocityScale
		track.VelocityOffset = tc.VelocityOffset
		track.Channel = tc.Channel
		track.Swing = tc.Swing
		track.Muted = tc.Muted
		track.Soloed = tc.Soloed

		clip := newTrackClip(gen, t, tc)

		units = append(units, trackUnit{name: tc.Name, track: track, clip: clip, follow: parseFollow(tc.Follow)})
		tracks = append(tracks, track)
	}

	song, parts := buildSong(proj.Song)

	return &Session{
		Project: proj,
		Key:     key,
		Timing:  t,
		Tracks:  units,
		Manager: sequencer.NewManager(tracks),
		Song:    song,
		Parts:   parts,
	}, nil
}

// newTrackClip wraps a track's generator in a Clip sized and moded per its
// config, with loopEnd left at 0 so the clip loops over its full length.
func newTrackClip(gen generators.Generator, t timing.Timing, tc config.TrackConfig) *sequencer.Clip {
	lengthTicks := t.TicksPerBar() * uint64(tc.ClipLengthBars)
	clip := sequencer.NewGeneratedClip(gen, lengthTicks, 0, 0)
	switch tc.ClipMode {
	case "oneshot":
		clip.Mode = sequencer.OneShot
	case "loopcount":
		clip.WithLoopCount(tc.ClipLoopCount)
	default:
		clip.Mode = sequencer.Loop
	}
	return clip
}

// parseFollow maps a track's configured follow-action name onto the
// trigger package's FollowAction, defaulting to FollowAgain (relaunch the
// same clip) when unset or unrecognized.
func parseFollow(name string) trigger.FollowAction {
	switch name {
	case "stop":
		return trigger.FollowAction{Kind: trigger.FollowStop}
	case "next":
		return trigger.FollowAction{Kind: trigger.FollowNext}
	case "previous":
		return trigger.FollowAction{Kind: trigger.FollowPrevious}
	case "none":
		return trigger.FollowAction{Kind: trigger.FollowNone}
	default:
		return trigger.FollowAction{Kind: trigger.FollowAgain}
	}
}

// buildSong loads a project's song config into an arrangement.Song, plus one
// arrangement.Part per distinct section part name (carrying a SetTempo
// macro when a section overrides tempo). Returns (nil, nil) for a project
// with no song section, leaving the caller to fall back to flat playback.
func buildSong(sc *config.SongConfig) (*arrangement.Song, map[string]*arrangement.Part) {
	if sc == nil || len(sc.Sections) == 0 {
		return nil, nil
	}

	song := arrangement.NewSong("")
	parts := make(map[string]*arrangement.Part)
	for _, secCfg := range sc.Sections {
		section := arrangement.NewSongSection(secCfg.Part, secCfg.LengthBars)
		if secCfg.Tempo != nil {
			section = section.WithTempo(*secCfg.Tempo)
		}
		song.AddSection(section)

		if _, ok := parts[secCfg.Part]; ok {
			continue
		}
		part := arrangement.NewPart(secCfg.Part)
		if secCfg.Tempo != nil {
			part.AddMacro(arrangement.MacroAction{Kind: arrangement.SetTempo, Tempo: *secCfg.Tempo})
		}
		parts[secCfg.Part] = part
	}

	if sc.Loop != nil {
		song.Mode = arrangement.SongLoop
		region := arrangement.NewLoopRegion(uint64(sc.Loop.Start), uint64(sc.Loop.End))
		if sc.Loop.Count > 0 {
			region = region.WithCount(sc.Loop.Count)
		}
		song.Loop = &region
	}

	return song, parts
}

// StartAllClips plays every track's clip directly, bypassing the quantized
// trigger-queue path playRuntime uses: a fixed-span export has no live
// transport to quantize against, so it just starts every clip at tick 0.
func (s *Session) StartAllClips() {
	for _, u := range s.Tracks {
		u.clip.Play()
	}
}

// GenerateWindow advances every track's clip by ticksToGenerate ticks
// starting at baseTick, returning each track's scheduled NoteOn/NoteOff
// pairs (muted/un-soloed tracks are skipped). A clip not currently Playing
// or Stopping emits nothing, so a track stays silent until its clip is
// launched through the trigger queue.
func (s *Session) GenerateWindow(baseTick uint64, ticksToGenerate uint64) map[int][]scheduler.ScheduledEvent {
	out := make(map[int][]scheduler.ScheduledEvent)
	// at positions the Context's Bar/Beat/Tick fields to baseTick: s.Timing
	// itself never advances (Session keeps one long-lived Timing for tempo/
	// PPQN/signature, not as a moving playhead), so without this every
	// window would report Bar/Beat/Tick 0 regardless of how far generation
	// has actually progressed.
	at := s.Timing
	at.PositionTicks = baseTick

	for i, u := range s.Tracks {
		if !s.Manager.ShouldOutput(i) {
			continue
		}
		ctx := generators.Context{
			Tempo:           s.Timing.Tempo,
			PPQN:            s.Timing.PPQN,
			Beat:            at.CurrentBeat(),
			Tick:            at.CurrentTick(),
			Bar:             at.CurrentBar(),
			BeatsPerBar:     s.Timing.BeatsPerBar,
			Key:             s.Key,
			TicksToGenerate: ticksToGenerate,
		}
		events := u.clip.Generate(ctx)
		out[i] = u.track.GenerateScheduled(events, baseTick, s.Timing.PPQN)
	}
	return out
}
