package music

import "strings"

// ScaleType names a built-in interval set. Custom scales use ScaleCustom and
// carry their own interval list.
type ScaleType string

const (
	ScaleMajor           ScaleType = "major"
	ScaleDorian          ScaleType = "dorian"
	ScalePhrygian        ScaleType = "phrygian"
	ScaleLydian          ScaleType = "lydian"
	ScaleMixolydian      ScaleType = "mixolydian"
	ScaleNaturalMinor    ScaleType = "natural_minor"
	ScaleLocrian         ScaleType = "locrian"
	ScaleHarmonicMinor   ScaleType = "harmonic_minor"
	ScaleMelodicMinor    ScaleType = "melodic_minor"
	ScaleMajorPentatonic ScaleType = "major_pentatonic"
	ScaleMinorPentatonic ScaleType = "minor_pentatonic"
	ScaleBlues           ScaleType = "blues"
	ScaleMajorBlues      ScaleType = "major_blues"
	ScaleWholeTone       ScaleType = "whole_tone"
	ScaleDiminished      ScaleType = "diminished"
	ScaleDiminishedWH    ScaleType = "diminished_wh"
	ScaleChromatic       ScaleType = "chromatic"
	ScaleCustom          ScaleType = "custom"
)

// scaleIntervals gives the semitone offsets from the root for each built-in
// scale type, mirroring original_source/src/music/scale.rs::ScaleType::intervals.
var scaleIntervals = map[ScaleType][]uint8{
	ScaleMajor:           {0, 2, 4, 5, 7, 9, 11},
	ScaleDorian:          {0, 2, 3, 5, 7, 9, 10},
	ScalePhrygian:        {0, 1, 3, 5, 7, 8, 10},
	ScaleLydian:          {0, 2, 4, 6, 7, 9, 11},
	ScaleMixolydian:      {0, 2, 4, 5, 7, 9, 10},
	ScaleNaturalMinor:    {0, 2, 3, 5, 7, 8, 10},
	ScaleLocrian:         {0, 1, 3, 5, 6, 8, 10},
	ScaleHarmonicMinor:   {0, 2, 3, 5, 7, 8, 11},
	ScaleMelodicMinor:    {0, 2, 3, 5, 7, 9, 11},
	ScaleMajorPentatonic: {0, 2, 4, 7, 9},
	ScaleMinorPentatonic: {0, 3, 5, 7, 10},
	ScaleBlues:           {0, 3, 5, 6, 7, 10},
	ScaleMajorBlues:      {0, 2, 3, 4, 7, 9},
	ScaleWholeTone:       {0, 2, 4, 6, 8, 10},
	ScaleDiminished:      {0, 1, 3, 4, 6, 7, 9, 10},
	ScaleDiminishedWH:    {0, 2, 3, 5, 6, 8, 9, 11},
	ScaleChromatic:       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// ParseScaleType parses common names/aliases for a scale type.
func ParseScaleType(s string) (ScaleType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	switch s {
	case "major", "ionian":
		return ScaleMajor, true
	case "dorian":
		return ScaleDorian, true
	case "phrygian":
		return ScalePhrygian, true
	case "lydian":
		return ScaleLydian, true
	case "mixolydian":
		return ScaleMixolydian, true
	case "minor", "naturalminor", "aeolian":
		return ScaleNaturalMinor, true
	case "locrian":
		return ScaleLocrian, true
	case "harmonicminor":
		return ScaleHarmonicMinor, true
	case "melodicminor":
		return ScaleMelodicMinor, true
	case "majorpentatonic", "pentatonicmajor":
		return ScaleMajorPentatonic, true
	case "minorpentatonic", "pentatonicminor", "pentatonic":
		return ScaleMinorPentatonic, true
	case "blues", "minorblues":
		return ScaleBlues, true
	case "majorblues":
		return ScaleMajorBlues, true
	case "wholetone":
		return ScaleWholeTone, true
	case "diminished", "octatonic", "halfwhole":
		return ScaleDiminished, true
	case "diminishedwh", "wholehalf":
		return ScaleDiminishedWH, true
	case "chromatic":
		return ScaleChromatic, true
	default:
		return "", false
	}
}

// Scale is a root pitch class plus an ordered set of intervals from it.
type Scale struct {
	root     Note
	intervals []uint8
	notes    []Note
}

// NewScale builds a scale from a root and a built-in scale type. Unknown
// scale types fall back to an empty-interval (degenerate) scale.
func NewScale(root Note, scaleType ScaleType) *Scale {
	return NewCustomScale(root, scaleIntervals[scaleType])
}

// NewCustomScale builds a scale from an explicit interval list.
func NewCustomScale(root Note, intervals []uint8) *Scale {
	notes := make([]Note, len(intervals))
	for i, iv := range intervals {
		notes[i] = root.Transpose(Semitones(iv))
	}
	return &Scale{root: root, intervals: intervals, notes: notes}
}

// ParseScale parses a root/scale-type string pair.
func ParseScale(rootStr, scaleStr string) (*Scale, bool) {
	root, ok := ParseNote(rootStr)
	if !ok {
		return nil, false
	}
	st, ok := ParseScaleType(scaleStr)
	if !ok {
		return nil, false
	}
	return NewScale(root, st), true
}

func (s *Scale) Root() Note          { return s.root }
func (s *Scale) Intervals() []uint8  { return s.intervals }
func (s *Scale) Notes() []Note       { return s.notes }
func (s *Scale) Len() int            { return len(s.notes) }
func (s *Scale) IsEmpty() bool       { return len(s.notes) == 0 }

// Contains reports whether note is a member of the scale.
func (s *Scale) Contains(note Note) bool {
	for _, n := range s.notes {
		if n == note {
			return true
		}
	}
	return false
}

// ContainsMidi reports whether a MIDI note's pitch class is in the scale.
func (s *Scale) ContainsMidi(m MidiNote) bool {
	return s.Contains(NoteFromPitchClass(int(m % 12)))
}

// DegreeOf returns the 1-based scale degree of note, or 0 if absent.
func (s *Scale) DegreeOf(note Note) int {
	for i, n := range s.notes {
		if n == note {
			return i + 1
		}
	}
	return 0
}

// NoteAtDegree returns the note at a 1-based scale degree, or false if out
// of range.
func (s *Scale) NoteAtDegree(degree int) (Note, bool) {
	if degree < 1 || degree > len(s.notes) {
		return 0, false
	}
	return s.notes[degree-1], true
}

// MidiNoteAt returns the MIDI note number for a 1-based scale degree at a
// given MIDI octave (octave 4 contains middle C, i.e. MIDI note 60). Returns
// false if the result would be outside 0..127.
func (s *Scale) MidiNoteAt(degree int, octave int) (MidiNote, bool) {
	note, ok := s.NoteAtDegree(degree)
	if !ok {
		return 0, false
	}
	midi := (octave+1)*12 + int(note.PitchClass())
	if midi < 0 || midi > 127 {
		return 0, false
	}
	return MidiNote(midi), true
}

// nearestDegree returns the index (0-based) of the scale note closest in
// pitch class to note, breaking ties toward the lowest-indexed candidate.
func (s *Scale) nearestDegree(note Note) int {
	pc := int(note.PitchClass())
	minDist := 12
	nearest := 0
	for i, sn := range s.notes {
		spc := int(sn.PitchClass())
		d := pc - spc
		if d < 0 {
			d = -d
		}
		if 12-d < d {
			d = 12 - d
		}
		if d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// TransposeInScale moves a MIDI note by a number of scale degrees (positive
// or negative), wrapping octaves as the degree count overflows the scale
// length. If midiNote's pitch class is not in the scale, it is first mapped
// to its nearest scale degree.
func (s *Scale) TransposeInScale(midiNote MidiNote, degrees int) MidiNote {
	if s.IsEmpty() {
		return midiNote
	}

	pc := int(midiNote % 12)
	note := NoteFromPitchClass(pc)
	octave := int(midiNote)/12 - 1

	currentDegree := s.DegreeOf(note)
	if currentDegree == 0 {
		currentDegree = s.nearestDegree(note) + 1
	}
	currentDegree-- // 0-based for the arithmetic below

	scaleLen := len(s.notes)
	newPos := currentDegree + degrees
	newDegree := ((newPos % scaleLen) + scaleLen) % scaleLen
	octaveChange := floorDiv(newPos, scaleLen)

	newNote := s.notes[newDegree]
	newOctave := octave + octaveChange
	result := (newOctave+1)*12 + int(newNote.PitchClass())
	return MidiNote(clampInt(result, 0, 127))
}

// Quantize projects a MIDI note to the nearest in-scale pitch class, in the
// same octave, leaving already-in-scale notes unchanged.
func (s *Scale) Quantize(midiNote MidiNote) MidiNote {
	if s.IsEmpty() {
		return midiNote
	}
	pc := midiNote % 12
	octave := midiNote / 12
	note := NoteFromPitchClass(int(pc))
	if s.Contains(note) {
		return midiNote
	}
	nearest := s.notes[s.nearestDegree(note)]
	return octave*12 + MidiNote(nearest.PitchClass())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
