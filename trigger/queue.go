package trigger

import "sort"

// QueuedTrigger is a pending launch request: fire TrackIndex's clip
// ClipIndex at TriggerTick, then apply Follow when that clip completes.
type QueuedTrigger struct {
	TrackIndex  int
	ClipIndex   int // -1 for a part/scene-level action with no specific clip
	TriggerTick uint64
	Follow      FollowAction
}

// Queue is a time-ordered queue of pending triggers, insertion-sorted by
// TriggerTick so Poll can simply scan from the front.
type Queue struct {
	PhraseBars uint32 // default 4; see QuantizeMode.TicksUntil
	pending    []QueuedTrigger
}

// NewQueue returns an empty Queue with the default 4-bar phrase length.
func NewQueue() *Queue {
	return &Queue{PhraseBars: 4}
}

// Insert adds a trigger, maintaining ascending TriggerTick order via binary
// search.
func (q *Queue) Insert(t QueuedTrigger) {
	i := sort.Search(len(q.pending), func(i int) bool {
		return q.pending[i].TriggerTick > t.TriggerTick
	})
	q.pending = append(q.pending, QueuedTrigger{})
	copy(q.pending[i+1:], q.pending[i:])
	q.pending[i] = t
}

// Poll pops and returns every trigger with TriggerTick <= currentTick, in
// order.
func (q *Queue) Poll(currentTick uint64) []QueuedTrigger {
	i := 0
	for i < len(q.pending) && q.pending[i].TriggerTick <= currentTick {
		i++
	}
	due := q.pending[:i]
	q.pending = q.pending[i:]
	return due
}

// CancelForTrack removes every pending trigger addressed to track i.
func (q *Queue) CancelForTrack(i int) {
	kept := q.pending[:0]
	for _, t := range q.pending {
		if t.TrackIndex != i {
			kept = append(kept, t)
		}
	}
	q.pending = kept
}

// Len reports the number of pending triggers.
func (q *Queue) Len() int { return len(q.pending) }

// Pending returns the queue's contents without consuming them (for
// display/debugging).
func (q *Queue) Pending() []QueuedTrigger { return q.pending }
