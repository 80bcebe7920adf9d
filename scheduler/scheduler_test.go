package scheduler

import (
	"testing"

	"seqcore/timing"
)

func TestPollOrdersByTimeNotInsertOrder(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), timing.NewTiming().WithTempo(120))
	s.Schedule(NewNoteOn(48, 0, 60, 100)) // later tick, scheduled first
	s.Schedule(NewNoteOn(0, 0, 62, 100))  // earlier tick, scheduled second

	first, ok := s.Poll(^uint64(0))
	if !ok || first.Data1 != 62 {
		t.Fatalf("expected the earlier-tick event first, got %+v ok=%v", first, ok)
	}
	second, ok := s.Poll(^uint64(0))
	if !ok || second.Data1 != 60 {
		t.Fatalf("expected the later-tick event second, got %+v ok=%v", second, ok)
	}
}

func TestPollRespectsNow(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), timing.NewTiming().WithTempo(120))
	s.Schedule(NewNoteOn(24, 0, 60, 100))
	if _, ok := s.Poll(0); ok {
		t.Fatal("event due in the future should not poll yet")
	}
	due, _ := s.TimeToNextEvent()
	if _, ok := s.Poll(due); !ok {
		t.Fatal("event due exactly at now should poll")
	}
}

func TestSetTempoPreservesOrder(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), timing.NewTiming().WithTempo(60))
	s.Schedule(NewNoteOn(24, 0, 60, 100))
	s.Schedule(NewNoteOn(48, 0, 62, 100))

	s.SetTempo(180) // speed up; ordering among pending events must survive

	a, _ := s.Poll(^uint64(0))
	b, _ := s.Poll(^uint64(0))
	if a.TimeTicks != 24 || b.TimeTicks != 48 {
		t.Errorf("tempo change reordered events: got ticks %d then %d", a.TimeTicks, b.TimeTicks)
	}
	if a.TimeMicros > b.TimeMicros {
		t.Errorf("tempo change broke nondecreasing TimeMicros: %d then %d", a.TimeMicros, b.TimeMicros)
	}
}

// SetTempo can be called directly (not just from Seek, which pre-filters
// the queue to TimeTicks >= PositionTicks); an event at or behind the
// current position must not underflow TimeMicros into a value that never
// polls due.
func TestSetTempoHandlesEventAtOrBeforePosition(t *testing.T) {
	ti := timing.NewTiming().WithTempo(120)
	ti.PositionTicks = 48
	s := NewScheduler(DefaultSchedulerConfig(), ti)
	s.Schedule(NewNoteOn(24, 0, 60, 100)) // already behind PositionTicks

	s.SetTempo(180)

	nowMicros := s.baseNow + ti.TicksToMicros(ti.PositionTicks)
	e, ok := s.Poll(nowMicros)
	if !ok {
		t.Fatal("event at/behind the current position should poll immediately after a tempo change, not underflow into the far future")
	}
	if e.TimeTicks != 24 {
		t.Errorf("polled event ticks = %d, want 24", e.TimeTicks)
	}
}

func TestSeekDropsEarlierEvents(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), timing.NewTiming().WithTempo(120))
	s.Schedule(NewNoteOn(0, 0, 60, 100))
	s.Schedule(NewNoteOn(24, 0, 62, 100))
	s.Schedule(NewNoteOn(48, 0, 64, 100))

	s.Seek(24, 0)

	if s.Len() != 2 {
		t.Fatalf("seek(24) should drop the tick-0 event, left with %d", s.Len())
	}
	e, ok := s.Poll(^uint64(0))
	if !ok || e.TimeTicks != 24 {
		t.Errorf("expected tick-24 event first after seek, got %+v", e)
	}
}

func TestPollWindowReturnsInOrder(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), timing.NewTiming().WithTempo(120))
	s.Schedule(NewNoteOn(24, 0, 60, 100))
	s.Schedule(NewNoteOn(0, 0, 61, 100))
	s.Schedule(NewNoteOn(12, 0, 62, 100))

	due := s.PollWindow(^uint64(0)/2, ^uint64(0)/2)
	if len(due) != 3 {
		t.Fatalf("expected all 3 events due, got %d", len(due))
	}
	for i := 1; i < len(due); i++ {
		if due[i-1].TimeMicros > due[i].TimeMicros {
			t.Errorf("PollWindow result not sorted at index %d", i)
		}
	}
}
