package main

import (
	"sync"
	"time"

	"seqcore/arrangement"
	"seqcore/collab/audio"
	"seqcore/scheduler"
	"seqcore/sequencer"
	"seqcore/timing"
	"seqcore/trigger"
)

// playRuntime drives a Session live: a ticker goroutine generates ahead in
// whole bars, schedules the result, and sends events due at the current
// wallclock offset to an audio.Sink, grounded on the teacher's
// RealtimePlayer.playbackLoop (5ms ticker, mutex-guarded state, stop
// channel, all-notes-off on stop). Clip launches and relaunches are routed
// through a trigger.Queue fed by a single-scene arrangement.SceneManager;
// song-section progression (when the project names one) drives tempo
// macros off the active arrangement.Part.
type playRuntime struct {
	session *Session
	sink    audio.Sink
	sched   *scheduler.Scheduler
	clock   *timing.Clock

	triggerQueue *trigger.Queue
	sceneManager *arrangement.SceneManager

	songSectionIdx int
	songSectionEnd uint64 // absolute tick at which the current song section ends

	mu        sync.Mutex
	startedAt time.Time
	genUpTo   uint64 // ticks already generated and scheduled

	stopChan chan struct{}
	stopOnce sync.Once
}

func newPlayRuntime(s *Session, sink audio.Sink) *playRuntime {
	return &playRuntime{
		session:      s,
		sink:         sink,
		sched:        scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), s.Timing),
		clock:        timing.NewClock(s.Timing.PPQN),
		triggerQueue: trigger.NewQueue(),
		sceneManager: arrangement.NewSceneManager(len(s.Tracks)),
		stopChan:     make(chan struct{}),
	}
}

// Start begins the clock and the playback goroutine.
func (r *playRuntime) Start() {
	r.mu.Lock()
	r.startedAt = time.Now()
	r.clock.SetBPM(r.session.Project.Tempo)
	r.clock.Start()
	r.launchAllClips()
	if r.session.Song != nil && r.session.Song.SectionCount() > 0 {
		r.songSectionEnd = r.session.Timing.TicksPerBar() * uint64(r.session.Song.Sections[0].LengthBars)
		r.applySongSection(0)
	}
	r.mu.Unlock()

	go r.loop()
}

// launchAllClips queues one immediate-launch trigger per track through a
// single-scene SceneManager, so the session's initial clip launches travel
// the same Scene -> TriggerQueue -> Clip.Play path a live scene launch
// would use rather than calling Play directly.
func (r *playRuntime) launchAllClips() {
	scene := arrangement.NewScene("start")
	scene.LaunchMode = arrangement.LaunchImmediate
	for i := range r.session.Tracks {
		scene.SetSlot(i, arrangement.SceneSlot{Kind: arrangement.SlotClip, ClipIndex: 0})
	}
	r.sceneManager.AddScene(scene)
	r.sceneManager.LaunchScene(0, r.session.Timing, r.triggerQueue)
	r.sceneManager.Update(r.session.Timing.PositionTicks)
}

// applySongSection switches the active song section, running its part's
// macros (currently only SetTempo is meaningful to a live transport).
func (r *playRuntime) applySongSection(idx int) {
	r.songSectionIdx = idx
	sec := r.session.Song.Section(idx)
	if sec == nil {
		return
	}
	part, ok := r.session.Parts[sec.PartName]
	if !ok {
		return
	}
	for _, m := range part.Macros() {
		if m.Kind == arrangement.SetTempo {
			r.clock.SetBPM(m.Tempo)
		}
	}
}

// advanceSong steps the song section forward as many times as nowTicks has
// crossed section boundaries. A SongLoop region's wraps keep the tick
// boundary strictly increasing even though the section index jumps
// backward, so this terminates even while looping.
func (r *playRuntime) advanceSong(nowTicks uint64) {
	if r.session.Song == nil {
		return
	}
	for nowTicks >= r.songSectionEnd {
		next, ok := r.session.Song.AdvanceSection(r.songSectionIdx)
		if !ok {
			return
		}
		sec := r.session.Song.Section(next)
		if sec == nil {
			return
		}
		r.songSectionEnd += r.session.Timing.TicksPerBar() * uint64(sec.LengthBars)
		r.applySongSection(next)
	}
}

// fireDueTriggers plays whatever clips the trigger queue says are due at
// nowTicks, whether queued by launchAllClips or by a prior requeueStopped
// follow-action resolution.
func (r *playRuntime) fireDueTriggers(nowTicks uint64) {
	for _, qt := range r.triggerQueue.Poll(nowTicks) {
		if qt.TrackIndex < 0 || qt.TrackIndex >= len(r.session.Tracks) {
			continue
		}
		r.session.Tracks[qt.TrackIndex].clip.Play()
	}
}

// requeueStopped resolves each stopped track's follow action and, if it
// names a clip to relaunch, inserts a new immediate trigger so the next
// tick's fireDueTriggers picks it back up. With one clip per track every
// FollowKind other than None/Stop resolves to the same index, but the
// resolution still runs for real through trigger.FollowAction.Resolve.
func (r *playRuntime) requeueStopped(nowTicks uint64) {
	for i, u := range r.session.Tracks {
		if u.clip.State != sequencer.Stopped {
			continue
		}
		if _, ok := u.follow.Resolve(0, 1); !ok {
			continue
		}
		r.triggerQueue.Insert(trigger.QueuedTrigger{TrackIndex: i, ClipIndex: 0, TriggerTick: nowTicks, Follow: u.follow})
	}
}

// Stop halts playback and silences any sounding notes.
func (r *playRuntime) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
	r.sink.AllNotesOff()
}

func (r *playRuntime) loop() {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	const lookaheadBars = 2

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.clock.State() != timing.Running {
				r.mu.Unlock()
				continue
			}
			r.clock.Tick()

			nowMicros := uint64(time.Since(r.startedAt).Microseconds())
			ticksPerBar := r.session.Timing.TicksPerBar()
			nowTicks := r.session.Timing.MicrosToTicks(nowMicros)

			r.fireDueTriggers(nowTicks)

			for r.genUpTo < nowTicks+lookaheadBars*ticksPerBar {
				window := r.session.GenerateWindow(r.genUpTo, ticksPerBar)
				for _, events := range window {
					for _, e := range events {
						r.sched.Schedule(e)
					}
				}
				r.genUpTo += ticksPerBar
			}

			r.requeueStopped(nowTicks)
			r.advanceSong(nowTicks)

			for {
				e, ok := r.sched.Poll(nowMicros)
				if !ok {
					break
				}
				sendToSink(r.sink, e)
			}
			r.mu.Unlock()
		}
	}
}

func sendToSink(sink audio.Sink, e scheduler.ScheduledEvent) {
	switch e.Kind {
	case scheduler.NoteOn:
		sink.NoteOn(e.Channel, e.Data1, e.Data2)
	case scheduler.NoteOff:
		sink.NoteOff(e.Channel, e.Data1)
	case scheduler.ControlChange:
		sink.ControlChange(e.Channel, e.Data1, e.Data2)
	case scheduler.ProgramChange:
		sink.ProgramChange(e.Channel, e.Data1)
	case scheduler.PitchBend:
		value := uint16(e.Data1) | uint16(e.Data2)<<7
		sink.PitchBend(e.Channel, value)
	}
}

// --- display.Transport implementation ---

func (r *playRuntime) TogglePlay() {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.clock.State() {
	case timing.Running:
		r.clock.Pause()
	case timing.Paused:
		r.clock.Continue()
	case timing.Stopped:
		r.clock.Start()
	}
}

func (r *playRuntime) IsPlaying() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock.State() == timing.Running
}

func (r *playRuntime) BPM() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock.BPM()
}

func (r *playRuntime) Position() (bar, beat uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticks := r.clock.Beat()*uint64(r.session.Timing.PPQN) + uint64(r.clock.Pulse())
	t := r.session.Timing
	t.PositionTicks = ticks
	return uint32(t.CurrentBar()), uint32(t.CurrentBeat())
}

func (r *playRuntime) TrackNames() []string {
	names := make([]string, len(r.session.Tracks))
	for i, u := range r.session.Tracks {
		names[i] = u.name
	}
	return names
}

func (r *playRuntime) TrackMuted(i int) bool {
	tracks := r.session.Manager.Tracks()
	if i < 0 || i >= len(tracks) {
		return false
	}
	return tracks[i].Muted
}

func (r *playRuntime) TrackSoloed(i int) bool {
	tracks := r.session.Manager.Tracks()
	if i < 0 || i >= len(tracks) {
		return false
	}
	return tracks[i].Soloed
}

func (r *playRuntime) ToggleMute(i int) {
	tracks := r.session.Manager.Tracks()
	if i < 0 || i >= len(tracks) {
		return
	}
	tracks[i].Muted = !tracks[i].Muted
}

func (r *playRuntime) ToggleSolo(i int) {
	tracks := r.session.Manager.Tracks()
	if i < 0 || i >= len(tracks) {
		return
	}
	tracks[i].Soloed = !tracks[i].Soloed
}

// SeekBars jumps the transport forward or backward by n bars, silencing any
// sounding notes and dropping queued-but-stale events — resolving the
// "seek + sounding notes" ambiguity by always clearing the sink on seek.
func (r *playRuntime) SeekBars(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticksPerBar := int64(r.session.Timing.TicksPerBar())
	current := int64(r.clock.Beat()*uint64(r.session.Timing.PPQN) + uint64(r.clock.Pulse()))
	target := current + int64(n)*ticksPerBar
	if target < 0 {
		target = 0
	}

	r.clock.SeekTo(uint64(target))
	r.sink.AllNotesOff()

	nowMicros := uint64(time.Since(r.startedAt).Microseconds())
	r.sched.Seek(uint64(target), nowMicros)
	r.genUpTo = uint64(target)
}

// ActivePartName returns the current song section's part name once a song
// is loaded, otherwise the project's own name.
func (r *playRuntime) ActivePartName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session.Song != nil {
		if sec := r.session.Song.Section(r.songSectionIdx); sec != nil {
			return sec.PartName
		}
	}
	return r.session.Project.Name
}
