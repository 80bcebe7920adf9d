package scheduler

import (
	"container/heap"

	"seqcore/timing"
)

// SchedulerConfig bounds how far ahead the scheduler looks and how many
// pending events it will hold.
type SchedulerConfig struct {
	LookaheadMs int
	BufferSize  int
}

// DefaultSchedulerConfig matches the original's defaults: 50ms lookahead,
// room for 1024 pending events.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{LookaheadMs: 50, BufferSize: 1024}
}

// eventHeap is a min-heap on TimeMicros, the idiomatic Go translation of the
// original's reversed-Ord BinaryHeap min-heap trick: container/heap is
// natively a min-heap given an ascending Less, so no inversion is needed.
type eventHeap []ScheduledEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].TimeMicros != h[j].TimeMicros {
		return h[i].TimeMicros < h[j].TimeMicros
	}
	// Stable tie-break on tick so same-microsecond events still come out
	// in schedule order rather than heap-arbitrary order.
	return h[i].TimeTicks < h[j].TimeTicks
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(ScheduledEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Scheduler converts tick-addressed events into a wallclock-ordered priority
// queue, as in §4.2. It holds no generator state of its own; callers push
// events produced elsewhere in and poll them back out in nondecreasing
// TimeMicros order.
type Scheduler struct {
	cfg     SchedulerConfig
	timing  timing.Timing
	queue   eventHeap
	baseNow uint64 // wallclock micros corresponding to timing.PositionTicks==0
}

// NewScheduler creates an empty Scheduler anchored to t.
func NewScheduler(cfg SchedulerConfig, t timing.Timing) *Scheduler {
	s := &Scheduler{cfg: cfg, timing: t}
	heap.Init(&s.queue)
	return s
}

// Len reports the number of pending events.
func (s *Scheduler) Len() int { return s.queue.Len() }

// Schedule computes an event's TimeMicros from its TimeTicks at the current
// tempo and pushes it onto the queue.
func (s *Scheduler) Schedule(e ScheduledEvent) {
	e.TimeMicros = s.baseNow + s.timing.TicksToMicros(e.TimeTicks)
	heap.Push(&s.queue, e)
}

// SetTempo updates the tempo and re-derives TimeMicros for every pending
// event against the new tempo, preserving queue order invariants (§8
// "Tempo reconsistency"). The anchor point is the scheduler's current
// position, so already-elapsed time isn't rewritten — only ticks still
// ahead of PositionTicks are rescaled.
func (s *Scheduler) SetTempo(bpm float64) {
	pending := make([]ScheduledEvent, len(s.queue))
	copy(pending, s.queue)

	nowMicros := s.baseNow + s.timing.TicksToMicros(s.timing.PositionTicks)
	s.timing = s.timing.WithTempo(bpm)

	s.queue = s.queue[:0]
	heap.Init(&s.queue)
	for _, e := range pending {
		var ticksAhead uint64
		if e.TimeTicks > s.timing.PositionTicks {
			ticksAhead = e.TimeTicks - s.timing.PositionTicks
		}
		e.TimeMicros = nowMicros + s.timing.TicksToMicros(ticksAhead)
		heap.Push(&s.queue, e)
	}
}

// TimeToNextEvent returns the TimeMicros of the earliest pending event and
// true, or (0, false) if the queue is empty.
func (s *Scheduler) TimeToNextEvent() (uint64, bool) {
	if s.queue.Len() == 0 {
		return 0, false
	}
	return s.queue[0].TimeMicros, true
}

// Poll pops and returns the earliest pending event if its TimeMicros is at
// or before nowMicros; otherwise returns (ScheduledEvent{}, false) without
// modifying the queue.
func (s *Scheduler) Poll(nowMicros uint64) (ScheduledEvent, bool) {
	if s.queue.Len() == 0 || s.queue[0].TimeMicros > nowMicros {
		return ScheduledEvent{}, false
	}
	return heap.Pop(&s.queue).(ScheduledEvent), true
}

// PollWindow pops and returns every pending event due at or before
// nowMicros+lookaheadMicros, in nondecreasing TimeMicros order.
func (s *Scheduler) PollWindow(nowMicros uint64, lookaheadMicros uint64) []ScheduledEvent {
	deadline := nowMicros + lookaheadMicros
	var due []ScheduledEvent
	for s.queue.Len() > 0 && s.queue[0].TimeMicros <= deadline {
		due = append(due, heap.Pop(&s.queue).(ScheduledEvent))
	}
	return due
}

// LookaheadMicros returns the configured lookahead window in microseconds.
func (s *Scheduler) LookaheadMicros() uint64 { return uint64(s.cfg.LookaheadMs) * 1000 }

// Seek discards every pending event whose TimeTicks is strictly before
// target, and rebases the scheduler's wallclock anchor so TimeTicks==target
// maps to nowMicros. This implements "seek drops earlier events" (§8):
// a seek backward or forward never leaves stale events due in the past.
func (s *Scheduler) Seek(target uint64, nowMicros uint64) {
	kept := s.queue[:0]
	for _, e := range s.queue {
		if e.TimeTicks >= target {
			kept = append(kept, e)
		}
	}
	s.queue = kept
	s.timing.PositionTicks = target
	// baseNow is the wallclock of tick 0. When target lies further out than
	// nowMicros this subtraction wraps; the additions in Schedule and
	// SetTempo wrap back, so ticks at or after target land at or after
	// nowMicros.
	s.baseNow = nowMicros - s.timing.TicksToMicros(target)
	heap.Init(&s.queue)
	s.SetTempo(s.timing.Tempo) // re-derive TimeMicros from the new anchor
}

// Clear discards every pending event without touching position or tempo.
func (s *Scheduler) Clear() {
	s.queue = s.queue[:0]
	heap.Init(&s.queue)
}

// Timing exposes the scheduler's internal tick/tempo state for callers that
// need to compute additional conversions (e.g. the transport reading
// CurrentBar/CurrentBeat).
func (s *Scheduler) Timing() timing.Timing { return s.timing }
