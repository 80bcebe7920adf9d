package trigger

import "math/rand/v2"

// FollowKind names a follow-action behavior.
type FollowKind int

const (
	FollowNone FollowKind = iota
	FollowStop
	FollowAgain
	FollowNext
	FollowPrevious
	FollowFirst
	FollowLast
	FollowRandom
	FollowSpecific
	FollowEither
)

// FollowAction resolves which clip index should play next when a clip
// finishes (or a trigger requests the next launch). Either recurses into
// two child actions via pointers, mirroring the original's boxed recursive
// variant.
type FollowAction struct {
	Kind     FollowKind
	Specific int // FollowSpecific target index

	EitherA *FollowAction
	EitherB *FollowAction
	EitherP float64 // probability of resolving A
}

// Resolve yields the next clip index given the current index and the total
// clip count. ok is false for Stop/None (the track should stop, not relaunch)
// or when Specific names an out-of-range index.
func (f FollowAction) Resolve(current, total int) (index int, ok bool) {
	if total <= 0 {
		return 0, false
	}
	switch f.Kind {
	case FollowAgain:
		return current, true
	case FollowNext:
		return (current + 1) % total, true
	case FollowPrevious:
		return ((current-1)%total + total) % total, true
	case FollowFirst:
		return 0, true
	case FollowLast:
		return total - 1, true
	case FollowRandom:
		return rand.IntN(total), true
	case FollowSpecific:
		if f.Specific < 0 || f.Specific >= total {
			return 0, false
		}
		return f.Specific, true
	case FollowEither:
		if f.EitherA == nil || f.EitherB == nil {
			return 0, false
		}
		if rand.Float64() < f.EitherP {
			return f.EitherA.Resolve(current, total)
		}
		return f.EitherB.Resolve(current, total)
	default: // FollowNone, FollowStop
		return 0, false
	}
}
