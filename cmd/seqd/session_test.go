package main

import (
	"testing"

	"seqcore/arrangement"
	"seqcore/collab/config"
	"seqcore/generators"
	"seqcore/music"
	"seqcore/sequencer"
	"seqcore/timing"
	"seqcore/trigger"
)

func testTrackUnit(t *testing.T) trackUnit {
	t.Helper()
	ti := timing.NewTiming()
	ti.PPQN = 24
	tc := config.TrackConfig{Name: "lead", Generator: "drone", ClipLengthBars: 4}
	clip := newTrackClip(generators.NewDrone(), ti, tc)
	return trackUnit{name: tc.Name, track: sequencer.NewTrack(0), clip: clip, follow: parseFollow(tc.Follow)}
}

func testKey(t *testing.T) music.Key {
	t.Helper()
	key, ok := music.ParseKey("C", "major")
	if !ok {
		t.Fatal("ParseKey(C, major) should succeed")
	}
	return key
}

func TestGenerateWindowSilentUntilClipLaunched(t *testing.T) {
	s := &Session{
		Key:     testKey(t),
		Timing:  timing.NewTiming(),
		Tracks:  []trackUnit{testTrackUnit(t)},
		Manager: sequencer.NewManager([]*sequencer.Track{sequencer.NewTrack(0)}),
	}

	window := s.GenerateWindow(0, s.Timing.TicksPerBar())
	if len(window[0]) != 0 {
		t.Errorf("expected no events before the clip is launched, got %d", len(window[0]))
	}

	s.Tracks[0].clip.Play()
	window = s.GenerateWindow(0, s.Timing.TicksPerBar())
	if len(window[0]) == 0 {
		t.Error("expected events once the clip is playing")
	}
}

func TestStartAllClipsPlaysEveryTrack(t *testing.T) {
	s := &Session{
		Timing:  timing.NewTiming(),
		Tracks:  []trackUnit{testTrackUnit(t)},
		Manager: sequencer.NewManager([]*sequencer.Track{sequencer.NewTrack(0)}),
	}
	s.StartAllClips()
	if s.Tracks[0].clip.State != sequencer.Playing {
		t.Errorf("clip state = %v, want Playing", s.Tracks[0].clip.State)
	}
}

// The arpeggio generator's Euclidean gate phase depends on the absolute
// tick position (ctx.TotalTicks()), so GenerateWindow must advance the
// Context it builds from baseTick rather than always reporting position 0.
func TestGenerateWindowAdvancesContextPosition(t *testing.T) {
	newArp := func() *generators.Arpeggio {
		a := generators.NewArpeggio()
		a.SetParam("division", 16)
		a.SetParam("euclidean", 1)
		a.SetParam("euclid_hits", 3)
		a.SetParam("euclid_steps", 5)
		return a
	}
	newSession := func(gen generators.Generator) *Session {
		ti := timing.NewTiming()
		ti.PPQN = 24
		clip := sequencer.NewGeneratedClip(gen, ti.TicksPerBar(), 0, 0)
		clip.Play()
		unit := trackUnit{name: "arp", track: sequencer.NewTrack(0), clip: clip}
		return &Session{
			Key:     testKey(t),
			Timing:  ti,
			Tracks:  []trackUnit{unit},
			Manager: sequencer.NewManager([]*sequencer.Track{sequencer.NewTrack(0)}),
		}
	}

	barZero := newSession(newArp())
	barOne := newSession(newArp())

	ticksPerBar := barZero.Timing.TicksPerBar()
	eventsAtZero := barZero.GenerateWindow(0, ticksPerBar)
	eventsAtOne := barOne.GenerateWindow(ticksPerBar, ticksPerBar)

	if len(eventsAtZero[0]) == len(eventsAtOne[0]) {
		sameCount := len(eventsAtZero[0])
		matching := true
		for i := range eventsAtZero[0] {
			if eventsAtZero[0][i].StartTick != eventsAtOne[0][i].StartTick-ticksPerBar {
				matching = false
				break
			}
		}
		if sameCount > 0 && matching {
			t.Error("bar 1's Euclidean gate pattern matched bar 0's exactly; ctx.Bar/Beat/Tick look unadvanced")
		}
	}
}

func TestBuildSongGroupsPartsByName(t *testing.T) {
	tempo := 140.0
	sc := &config.SongConfig{
		Sections: []config.SongSectionConfig{
			{Part: "intro", LengthBars: 4},
			{Part: "verse", LengthBars: 8, Tempo: &tempo},
			{Part: "intro", LengthBars: 4},
		},
		Loop: &config.SongLoopConfig{Start: 1, End: 3, Count: 2},
	}

	song, parts := buildSong(sc)
	if song == nil {
		t.Fatal("expected a non-nil song")
	}
	if song.SectionCount() != 3 {
		t.Errorf("SectionCount() = %d, want 3", song.SectionCount())
	}
	if len(parts) != 2 {
		t.Errorf("expected 2 distinct parts, got %d", len(parts))
	}
	versePart, ok := parts["verse"]
	if !ok {
		t.Fatal("expected a 'verse' part")
	}
	macros := versePart.Macros()
	if len(macros) != 1 || macros[0].Kind != arrangement.SetTempo || macros[0].Tempo != tempo {
		t.Errorf("verse part macros = %+v, want one SetTempo(140)", macros)
	}
	if song.Mode != arrangement.SongLoop || song.Loop == nil {
		t.Fatal("expected a SongLoop mode with a loop region")
	}
}

func TestBuildSongNilWithoutSections(t *testing.T) {
	song, parts := buildSong(nil)
	if song != nil || parts != nil {
		t.Error("expected buildSong(nil) to return (nil, nil)")
	}
	song, parts = buildSong(&config.SongConfig{})
	if song != nil || parts != nil {
		t.Error("expected buildSong of an empty config to return (nil, nil)")
	}
}

func TestParseFollowDefaultsToAgain(t *testing.T) {
	if got := parseFollow(""); got.Kind != trigger.FollowAgain {
		t.Errorf("parseFollow(\"\") = %v, want FollowAgain", got.Kind)
	}
	if got := parseFollow("stop"); got.Kind != trigger.FollowStop {
		t.Errorf("parseFollow(\"stop\") = %v, want FollowStop", got.Kind)
	}
}
