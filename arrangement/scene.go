package arrangement

import (
	"seqcore/timing"
	"seqcore/trigger"
)

// SceneSlotKind is what a Scene says a single track should do; narrower than
// TrackClipState because scenes don't reference generators by name.
type SceneSlotKind int

const (
	SlotEmpty SceneSlotKind = iota
	SlotClip
	SlotStop
)

// SceneSlot pairs a kind with its clip index, when relevant.
type SceneSlot struct {
	Kind      SceneSlotKind
	ClipIndex int
}

// SceneLaunchMode selects whether a scene launches instantly or defers to
// its own quantize mode.
type SceneLaunchMode int

const (
	LaunchImmediate SceneLaunchMode = iota
	LaunchQuantized
)

// Scene is a named snapshot of per-track clip slots, launched as a unit.
type Scene struct {
	Name    string
	Color   Color
	Tempo   *float64

	slots map[int]SceneSlot

	LaunchMode      SceneLaunchMode
	QuantizeMode    trigger.QuantizeMode
	FollowAction    trigger.FollowAction
	FollowAfterBars *uint32
}

// NewScene returns an empty scene.
func NewScene(name string) *Scene {
	return &Scene{Name: name, slots: make(map[int]SceneSlot), QuantizeMode: trigger.Bar}
}

// SetSlot sets track i's slot.
func (s *Scene) SetSlot(i int, slot SceneSlot) { s.slots[i] = slot }

// Slot returns track i's slot, defaulting to SlotEmpty.
func (s *Scene) Slot(i int) SceneSlot {
	if slot, ok := s.slots[i]; ok {
		return slot
	}
	return SceneSlot{Kind: SlotEmpty}
}

// Slots returns the populated track indices.
func (s *Scene) Slots() map[int]SceneSlot { return s.slots }

// IsEmpty reports whether the scene has no populated slots.
func (s *Scene) IsEmpty() bool { return len(s.slots) == 0 }

// PendingSceneLaunch is a scene launch awaiting its quantized trigger tick.
// The time signature is captured here at launch_scene time (pinned), rather
// than re-read live from the transport, resolving the distillation's Open
// Question about signature changes mid-scene.
type PendingSceneLaunch struct {
	SceneIndex  int
	TriggerTick uint64
	BeatsPerBar uint32
}

// SceneManager tracks the scene list, the currently active scene, and any
// pending quantized launch.
type SceneManager struct {
	trackCount int
	scenes     []*Scene
	current    *int
	pending    *PendingSceneLaunch
	activeTimeSig uint32 // pinned beats_per_bar for the current scene, from its launch
}

// NewSceneManager returns an empty manager for trackCount tracks.
func NewSceneManager(trackCount int) *SceneManager {
	return &SceneManager{trackCount: trackCount}
}

// AddScene appends a scene and returns its index.
func (m *SceneManager) AddScene(s *Scene) int {
	m.scenes = append(m.scenes, s)
	return len(m.scenes) - 1
}

// InsertScene inserts a scene at index i.
func (m *SceneManager) InsertScene(i int, s *Scene) {
	m.scenes = append(m.scenes, nil)
	copy(m.scenes[i+1:], m.scenes[i:])
	m.scenes[i] = s
}

// RemoveScene removes the scene at index i.
func (m *SceneManager) RemoveScene(i int) {
	if i < 0 || i >= len(m.scenes) {
		return
	}
	m.scenes = append(m.scenes[:i], m.scenes[i+1:]...)
}

// Scene returns the scene at index i, or nil if out of range.
func (m *SceneManager) Scene(i int) *Scene {
	if i < 0 || i >= len(m.scenes) {
		return nil
	}
	return m.scenes[i]
}

// Scenes returns all scenes.
func (m *SceneManager) Scenes() []*Scene { return m.scenes }

// SceneCount reports the number of scenes.
func (m *SceneManager) SceneCount() int { return len(m.scenes) }

// Current returns the active scene index, if any.
func (m *SceneManager) Current() (int, bool) {
	if m.current == nil {
		return 0, false
	}
	return *m.current, true
}

// LaunchScene quantizes a scene launch per its launch mode and queues one
// QueuedTrigger per populated slot through q. Returns false if the scene
// index is invalid.
func (m *SceneManager) LaunchScene(i int, t timing.Timing, q *trigger.Queue) bool {
	scene := m.Scene(i)
	if scene == nil {
		return false
	}

	var ticksUntil uint64
	if scene.LaunchMode == LaunchImmediate {
		ticksUntil = 0
	} else {
		ticksUntil = scene.QuantizeMode.TicksUntil(t, q.PhraseBars)
	}
	triggerTick := t.PositionTicks + ticksUntil

	for trackIdx, slot := range scene.slots {
		if slot.Kind == SlotEmpty {
			continue
		}
		clipIdx := -1
		if slot.Kind == SlotClip {
			clipIdx = slot.ClipIndex
		}
		q.Insert(trigger.QueuedTrigger{
			TrackIndex:  trackIdx,
			ClipIndex:   clipIdx,
			TriggerTick: triggerTick,
			Follow:      scene.FollowAction,
		})
	}

	m.pending = &PendingSceneLaunch{SceneIndex: i, TriggerTick: triggerTick, BeatsPerBar: t.BeatsPerBar}
	return true
}

// Update activates the pending scene launch once currentTick reaches its
// trigger tick, returning the now-active scene.
func (m *SceneManager) Update(currentTick uint64) (*Scene, bool) {
	if m.pending == nil || currentTick < m.pending.TriggerTick {
		return nil, false
	}
	idx := m.pending.SceneIndex
	m.activeTimeSig = m.pending.BeatsPerBar
	m.current = &idx
	m.pending = nil
	return m.Scene(idx), true
}

// PendingLaunch returns the in-flight scene launch, if any.
func (m *SceneManager) PendingLaunch() (PendingSceneLaunch, bool) {
	if m.pending == nil {
		return PendingSceneLaunch{}, false
	}
	return *m.pending, true
}

// ActiveTimeSignature returns the beats-per-bar pinned at the active
// scene's launch time.
func (m *SceneManager) ActiveTimeSignature() uint32 { return m.activeTimeSig }

// CheckFollowAction returns the active scene's follow action whenever that
// scene has FollowAfterBars set. It does not measure the bars elapsed since
// activation: callers track elapsed bars themselves and call this once due.
func (m *SceneManager) CheckFollowAction() (trigger.FollowAction, bool) {
	if m.current == nil {
		return trigger.FollowAction{}, false
	}
	scene := m.Scene(*m.current)
	if scene == nil || scene.FollowAfterBars == nil {
		return trigger.FollowAction{}, false
	}
	return scene.FollowAction, true
}
