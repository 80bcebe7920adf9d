// Package music implements the pitch-class, scale, and key primitives the
// rest of the sequencer core quantizes and transposes against.
package music

import (
	"fmt"
	"strings"
)

// MidiNote is a MIDI note number (0-127).
type MidiNote = uint8

// Semitones is a signed transposition amount in semitones.
type Semitones = int8

// Note is a pitch class: one of the twelve chromatic steps.
type Note uint8

const (
	C Note = iota
	Cs
	D
	Ds
	E
	F
	Fs
	G
	Gs
	A
	As
	B
)

// AllNotes lists the twelve pitch classes in chromatic order.
var AllNotes = [12]Note{C, Cs, D, Ds, E, F, Fs, G, Gs, A, As, B}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass returns the 0..11 pitch class for a note.
func (n Note) PitchClass() uint8 {
	return uint8(n) % 12
}

// NoteFromPitchClass maps a pitch class (any integer, wrapped mod 12) to a Note.
func NoteFromPitchClass(pc int) Note {
	pc = ((pc % 12) + 12) % 12
	return Note(pc)
}

// Transpose shifts a note by semitones, wrapping within the octave.
func (n Note) Transpose(semitones Semitones) Note {
	return NoteFromPitchClass(int(n.PitchClass()) + int(semitones))
}

// IntervalTo returns the ascending interval in semitones from n to other.
func (n Note) IntervalTo(other Note) uint8 {
	d := int(other.PitchClass()) - int(n.PitchClass())
	return uint8(((d % 12) + 12) % 12)
}

func (n Note) String() string {
	return noteNames[n.PitchClass()]
}

// ParseNote parses a pitch-class name such as "C", "C#", "Db", "F#". Returns
// false if the string does not name a recognized pitch class.
func ParseNote(s string) (Note, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "C":
		return C, true
	case "C#", "CS", "DB":
		return Cs, true
	case "D":
		return D, true
	case "D#", "DS", "EB":
		return Ds, true
	case "E", "FB":
		return E, true
	case "F", "E#", "ES":
		return F, true
	case "F#", "FS", "GB":
		return Fs, true
	case "G":
		return G, true
	case "G#", "GS", "AB":
		return Gs, true
	case "A":
		return A, true
	case "A#", "AS", "BB":
		return As, true
	case "B", "CB":
		return B, true
	default:
		return 0, false
	}
}

// MustParseNote parses s or panics; meant for package-init-time literals only.
func MustParseNote(s string) Note {
	n, ok := ParseNote(s)
	if !ok {
		panic(fmt.Sprintf("music: invalid note %q", s))
	}
	return n
}
