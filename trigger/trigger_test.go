package trigger

import (
	"testing"

	"seqcore/timing"
)

func TestQuantizeBarTicksUntil(t *testing.T) {
	ti := timing.NewTiming()
	ti.PositionTicks = 10 // 86 ticks to next bar at 4/4, 24ppqn
	if got := Bar.TicksUntil(ti, 4); got != 86 {
		t.Errorf("Bar.TicksUntil = %d, want 86", got)
	}
}

func TestQuantizePhraseHonorsConfiguredLength(t *testing.T) {
	ti := timing.NewTiming()
	ti.PositionTicks = 0
	// 8-bar phrase at 96 ticks/bar = 768 ticks; at position 0, gap is 0
	if got := Phrase.TicksUntil(ti, 8); got != 0 {
		t.Errorf("Phrase.TicksUntil at phrase start = %d, want 0", got)
	}
	ti.PositionTicks = 96 // one bar into an 8-bar phrase
	if got := Phrase.TicksUntil(ti, 8); got != 768-96 {
		t.Errorf("Phrase.TicksUntil mid-phrase = %d, want %d", got, 768-96)
	}
}

func TestQuantizeBeatsN(t *testing.T) {
	ti := timing.NewTiming()
	ti.PositionTicks = 0
	// Beats(2) from exactly on a beat: ticks_to_next_beat=0, + (2-1)*24 = 24
	if got := Beats(2).TicksUntil(ti, 4); got != 24 {
		t.Errorf("Beats(2).TicksUntil = %d, want 24", got)
	}
}

func TestFollowNextWraps(t *testing.T) {
	f := FollowAction{Kind: FollowNext}
	if idx, ok := f.Resolve(3, 4); !ok || idx != 0 {
		t.Errorf("Next at last index = (%d,%v), want (0,true)", idx, ok)
	}
}

func TestFollowPreviousWraps(t *testing.T) {
	f := FollowAction{Kind: FollowPrevious}
	if idx, ok := f.Resolve(0, 4); !ok || idx != 3 {
		t.Errorf("Previous at first index = (%d,%v), want (3,true)", idx, ok)
	}
}

func TestFollowSpecificOutOfRange(t *testing.T) {
	f := FollowAction{Kind: FollowSpecific, Specific: 9}
	if _, ok := f.Resolve(0, 4); ok {
		t.Error("Specific beyond total should fail")
	}
}

func TestFollowStopAndNoneHalt(t *testing.T) {
	for _, k := range []FollowKind{FollowStop, FollowNone} {
		f := FollowAction{Kind: k}
		if _, ok := f.Resolve(0, 4); ok {
			t.Errorf("kind %v should not resolve to a next clip", k)
		}
	}
}

func TestQueuePollReturnsDueInOrder(t *testing.T) {
	q := NewQueue()
	q.Insert(QueuedTrigger{TrackIndex: 0, TriggerTick: 100})
	q.Insert(QueuedTrigger{TrackIndex: 1, TriggerTick: 10})
	q.Insert(QueuedTrigger{TrackIndex: 2, TriggerTick: 50})

	due := q.Poll(60)
	if len(due) != 2 {
		t.Fatalf("expected 2 due triggers, got %d", len(due))
	}
	if due[0].TrackIndex != 1 || due[1].TrackIndex != 2 {
		t.Errorf("unexpected poll order: %+v", due)
	}
	if q.Len() != 1 {
		t.Errorf("expected 1 remaining trigger, got %d", q.Len())
	}
}

func TestQueueCancelForTrack(t *testing.T) {
	q := NewQueue()
	q.Insert(QueuedTrigger{TrackIndex: 0, TriggerTick: 10})
	q.Insert(QueuedTrigger{TrackIndex: 1, TriggerTick: 20})
	q.CancelForTrack(0)
	if q.Len() != 1 || q.Pending()[0].TrackIndex != 1 {
		t.Errorf("CancelForTrack(0) left unexpected state: %+v", q.Pending())
	}
}
