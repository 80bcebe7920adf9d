package arrangement

// SongMode selects whether a song plays through once or loops a region.
type SongMode int

const (
	Linear SongMode = iota
	SongLoop
)

// LoopRegion bounds a song-mode loop: sections [Start, End), repeated Count
// times (nil = forever).
type LoopRegion struct {
	Start uint64
	End   uint64
	Count *uint32

	completed uint32
}

// NewLoopRegion returns a LoopRegion with no repeat limit.
func NewLoopRegion(start, end uint64) LoopRegion {
	return LoopRegion{Start: start, End: end}
}

// WithCount sets a finite repeat count.
func (r LoopRegion) WithCount(n uint32) LoopRegion {
	r.Count = &n
	return r
}

// IsDone reports whether the loop has exhausted its configured count.
func (r LoopRegion) IsDone() bool {
	return r.Count != nil && r.completed >= *r.Count
}

// Advance records one completed pass through the loop region. Callers
// should check IsDone before wrapping back to Start again.
func (r *LoopRegion) Advance() { r.completed++ }

// SongPosition addresses a point in a song by section/bar/beat/tick.
type SongPosition struct {
	Section int
	Bar     uint32
	Beat    uint32
	Tick    uint32
}

// AtSection returns the position at the start of a section.
func AtSection(section int) SongPosition {
	return SongPosition{Section: section}
}

// ToTicks converts the position to an absolute tick count, summing the
// lengths of all prior sections.
func (p SongPosition) ToTicks(ppqn, beatsPerBar uint32, sectionLengthsBars []uint32) uint64 {
	ticksPerBar := uint64(ppqn) * uint64(beatsPerBar)
	var ticks uint64
	for i := 0; i < p.Section && i < len(sectionLengthsBars); i++ {
		ticks += uint64(sectionLengthsBars[i]) * ticksPerBar
	}
	ticks += uint64(p.Bar) * ticksPerBar
	ticks += uint64(p.Beat) * uint64(ppqn)
	ticks += uint64(p.Tick)
	return ticks
}

// TimeSignature is a (numerator, denominator) pair.
type TimeSignature struct {
	Num   uint8
	Denom uint8
}

// SongSection is one entry in a song's linear arrangement.
type SongSection struct {
	PartName      string
	LengthBars    uint32
	SceneIndex    *int
	Tempo         *float64
	TimeSignature TimeSignature
	IsLoopPoint   bool
	Color         Color
	Notes         string
}

// NewSongSection returns a section with a 4/4 time signature.
func NewSongSection(partName string, lengthBars uint32) SongSection {
	return SongSection{PartName: partName, LengthBars: lengthBars, TimeSignature: TimeSignature{Num: 4, Denom: 4}}
}

// WithScene attaches a scene index to the section.
func (s SongSection) WithScene(i int) SongSection { s.SceneIndex = &i; return s }

// WithTempo attaches a tempo override to the section.
func (s SongSection) WithTempo(bpm float64) SongSection { s.Tempo = &bpm; return s }

// WithTimeSignature overrides the section's time signature.
func (s SongSection) WithTimeSignature(num, denom uint8) SongSection {
	s.TimeSignature = TimeSignature{Num: num, Denom: denom}
	return s
}

// AsLoopPoint marks the section as a loop point.
func (s SongSection) AsLoopPoint() SongSection { s.IsLoopPoint = true; return s }

// Song is the top-level arrangement a song-mode player steps through
// section by section.
type Song struct {
	Name                 string
	Sections             []SongSection
	DefaultTempo         float64
	DefaultTimeSignature TimeSignature
	Metadata             map[string]string

	Mode SongMode
	Loop *LoopRegion // bounds the [Start,End) section range repeated in SongLoop mode
}

// NewSong returns an empty song at 120 BPM, 4/4.
func NewSong(name string) *Song {
	return &Song{
		Name:                 name,
		DefaultTempo:         120,
		DefaultTimeSignature: TimeSignature{Num: 4, Denom: 4},
		Metadata:             make(map[string]string),
	}
}

// AddSection appends a section and returns its index.
func (s *Song) AddSection(section SongSection) int {
	s.Sections = append(s.Sections, section)
	return len(s.Sections) - 1
}

// InsertSection inserts a section at index i.
func (s *Song) InsertSection(i int, section SongSection) {
	s.Sections = append(s.Sections, SongSection{})
	copy(s.Sections[i+1:], s.Sections[i:])
	s.Sections[i] = section
}

// RemoveSection removes the section at index i.
func (s *Song) RemoveSection(i int) {
	if i < 0 || i >= len(s.Sections) {
		return
	}
	s.Sections = append(s.Sections[:i], s.Sections[i+1:]...)
}

// Section returns the section at index i, or nil if out of range.
func (s *Song) Section(i int) *SongSection {
	if i < 0 || i >= len(s.Sections) {
		return nil
	}
	return &s.Sections[i]
}

// SectionCount reports the number of sections.
func (s *Song) SectionCount() int { return len(s.Sections) }

// TotalBars sums every section's length.
func (s *Song) TotalBars() uint32 {
	var total uint32
	for _, sec := range s.Sections {
		total += sec.LengthBars
	}
	return total
}

// SectionLengths returns each section's length in bars, for ToTicks.
func (s *Song) SectionLengths() []uint32 {
	lengths := make([]uint32, len(s.Sections))
	for i, sec := range s.Sections {
		lengths[i] = sec.LengthBars
	}
	return lengths
}

// AdvanceSection returns the section index that follows current: the next
// section in line, or, once the loop region's end is reached in SongLoop
// mode, a wrap back to the loop's start (recording one completed pass via
// Loop.Advance) until Loop.IsDone. ok is false once a Linear song, or an
// exhausted loop, runs past the last section.
func (s *Song) AdvanceSection(current int) (next int, ok bool) {
	n := current + 1
	if s.Mode == SongLoop && s.Loop != nil && n >= int(s.Loop.End) {
		if !s.Loop.IsDone() {
			s.Loop.Advance()
			return int(s.Loop.Start), true
		}
	}
	if n >= len(s.Sections) {
		return 0, false
	}
	return n, true
}

// SetMetadata records a metadata key/value pair.
func (s *Song) SetMetadata(key, value string) { s.Metadata[key] = value }

// GetMetadata looks up a metadata value.
func (s *Song) GetMetadata(key string) (string, bool) {
	v, ok := s.Metadata[key]
	return v, ok
}
