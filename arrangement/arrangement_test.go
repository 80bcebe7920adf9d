package arrangement

import (
	"testing"

	"seqcore/timing"
	"seqcore/trigger"
)

func TestPartDefaultsToHold(t *testing.T) {
	p := NewPart("verse")
	if s := p.TrackClipState(0); s.Kind != Hold {
		t.Errorf("unconfigured track state = %v, want Hold", s.Kind)
	}
}

func TestPartMacrosOrdered(t *testing.T) {
	p := NewPart("verse")
	p.AddMacro(MacroAction{Kind: SetTempo, Tempo: 140})
	p.AddMacro(MacroAction{Kind: MuteTrack, TrackIndex: 2})
	macros := p.Macros()
	if len(macros) != 2 || macros[0].Kind != SetTempo || macros[1].Kind != MuteTrack {
		t.Errorf("unexpected macro order: %+v", macros)
	}
}

func TestSceneLaunchQueuesOneTriggerPerSlot(t *testing.T) {
	sm := NewSceneManager(4)
	scene := NewScene("drop")
	scene.SetSlot(0, SceneSlot{Kind: SlotClip, ClipIndex: 1})
	scene.SetSlot(2, SceneSlot{Kind: SlotStop})
	sm.AddScene(scene)

	q := trigger.NewQueue()
	ti := timing.NewTiming()
	if !sm.LaunchScene(0, ti, q) {
		t.Fatal("LaunchScene should succeed for a valid index")
	}
	if q.Len() != 2 {
		t.Errorf("expected 2 queued triggers (one per populated slot), got %d", q.Len())
	}
}

func TestSceneLaunchInvalidIndex(t *testing.T) {
	sm := NewSceneManager(4)
	q := trigger.NewQueue()
	if sm.LaunchScene(5, timing.NewTiming(), q) {
		t.Error("LaunchScene should fail for an out-of-range index")
	}
}

func TestSceneUpdateActivatesAtTriggerTick(t *testing.T) {
	sm := NewSceneManager(1)
	scene := NewScene("a")
	scene.LaunchMode = LaunchImmediate
	scene.SetSlot(0, SceneSlot{Kind: SlotClip, ClipIndex: 0})
	sm.AddScene(scene)

	q := trigger.NewQueue()
	ti := timing.NewTiming()
	ti.PositionTicks = 50
	sm.LaunchScene(0, ti, q)

	if _, ok := sm.Update(49); ok {
		t.Error("scene should not activate before its trigger tick")
	}
	active, ok := sm.Update(50)
	if !ok || active.Name != "a" {
		t.Errorf("expected scene 'a' to activate at tick 50, got %+v ok=%v", active, ok)
	}
	if got, ok := sm.Current(); !ok || got != 0 {
		t.Errorf("Current() = (%d,%v), want (0,true)", got, ok)
	}
}

func TestSongToTicksSumsSectionLengths(t *testing.T) {
	song := NewSong("test")
	song.AddSection(NewSongSection("intro", 4))
	song.AddSection(NewSongSection("verse", 8))

	pos := SongPosition{Section: 1, Bar: 2}
	ticks := pos.ToTicks(24, 4, song.SectionLengths())
	// section 0 is 4 bars = 4*96=384 ticks, plus 2 bars into section 1 = 192
	want := uint64(384 + 192)
	if ticks != want {
		t.Errorf("ToTicks = %d, want %d", ticks, want)
	}
}

func TestLoopRegionIsDone(t *testing.T) {
	r := NewLoopRegion(0, 10).WithCount(2)
	if r.IsDone() {
		t.Error("fresh loop region should not be done")
	}
	r.completed = 2
	if !r.IsDone() {
		t.Error("loop region should be done once completed reaches count")
	}
}

func TestSongAdvanceSectionWrapsLoopRegion(t *testing.T) {
	song := NewSong("test")
	song.AddSection(NewSongSection("intro", 4))
	song.AddSection(NewSongSection("verse", 8))
	song.AddSection(NewSongSection("chorus", 8))
	song.AddSection(NewSongSection("outro", 4))
	song.Mode = SongLoop
	loop := NewLoopRegion(1, 3).WithCount(2)
	song.Loop = &loop

	next, ok := song.AdvanceSection(0)
	if !ok || next != 1 {
		t.Fatalf("AdvanceSection(0) = (%d,%v), want (1,true)", next, ok)
	}

	next, ok = song.AdvanceSection(2) // reaches Loop.End=3: wrap to Loop.Start=1
	if !ok || next != 1 {
		t.Fatalf("AdvanceSection(2) = (%d,%v), want wrap to (1,true)", next, ok)
	}
	if song.Loop.completed != 1 {
		t.Errorf("Loop.completed = %d, want 1 after one wrap", song.Loop.completed)
	}

	next, ok = song.AdvanceSection(2) // second wrap exhausts the count
	if !ok || next != 1 {
		t.Fatalf("AdvanceSection(2) second wrap = (%d,%v), want (1,true)", next, ok)
	}
	if !song.Loop.IsDone() {
		t.Error("loop region should be done after its configured count of wraps")
	}

	// Now that the loop is exhausted, reaching its end falls through to the
	// next section instead of wrapping again.
	next, ok = song.AdvanceSection(2)
	if !ok || next != 3 {
		t.Errorf("AdvanceSection(2) after loop exhausted = (%d,%v), want (3,true)", next, ok)
	}
}
