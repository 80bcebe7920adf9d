package generators

import (
	"testing"

	"seqcore/music"
)

func testContext(ticks uint64) Context {
	return Context{
		Tempo:           120,
		PPQN:            24,
		BeatsPerBar:     4,
		Key:             music.NewKey(music.C, music.ScaleMajor),
		TicksToGenerate: ticks,
	}
}

func notesInScale(t *testing.T, events []MidiEvent, scale *music.Scale) {
	t.Helper()
	for _, e := range events {
		if !scale.ContainsMidi(music.MidiNote(e.Note)) {
			t.Errorf("note %d not in scale", e.Note)
		}
	}
}

func TestDroneNotesStayInScale(t *testing.T) {
	d := NewDrone()
	ctx := testContext(96)
	events := d.Generate(ctx)
	if len(events) == 0 {
		t.Fatal("expected drone to emit sustained voices")
	}
	notesInScale(t, events, ctx.Scale())
}

func TestArpeggioNotesStayInScale(t *testing.T) {
	a := NewArpeggio()
	ctx := testContext(96)
	events := a.Generate(ctx)
	notesInScale(t, events, ctx.Scale())
}

func TestChordNotesStayInScale(t *testing.T) {
	c := NewChord()
	ctx := testContext(96)
	events := c.Generate(ctx)
	if len(events) == 0 {
		t.Fatal("expected chord to emit tones")
	}
	notesInScale(t, events, ctx.Scale())
}

func TestMelodyNotesStayInScale(t *testing.T) {
	m := NewMelody()
	ctx := testContext(192)
	events := m.Generate(ctx)
	notesInScale(t, events, ctx.Scale())
}

func TestDrumsProduceEvents(t *testing.T) {
	d := NewDrums()
	ctx := testContext(384) // four bars at 24 ppqn * 4 beats
	events := d.Generate(ctx)
	if len(events) == 0 {
		t.Fatal("expected four-on-floor pattern to emit hits")
	}
}

func TestRegistryCreatesByName(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	for _, name := range []string{"drone", "arpeggio", "chord", "melody", "drums"} {
		g, ok := r.Create(name)
		if !ok || g == nil {
			t.Errorf("expected registry to create %q", name)
		}
		if g.Name() != name {
			t.Errorf("created generator for %q reports name %q", name, g.Name())
		}
	}
	if _, ok := r.Create("nonexistent"); ok {
		t.Error("expected unknown generator name to fail")
	}
}
