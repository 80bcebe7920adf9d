package music

import "fmt"

// Key pairs a root note with its scale.
type Key struct {
	root  Note
	scale *Scale
}

// NewKey builds a key from a root note and scale type.
func NewKey(root Note, scaleType ScaleType) Key {
	return Key{root: root, scale: NewScale(root, scaleType)}
}

// ParseKey parses a root/scale-type string pair.
func ParseKey(rootStr, scaleStr string) (Key, bool) {
	scale, ok := ParseScale(rootStr, scaleStr)
	if !ok {
		return Key{}, false
	}
	return Key{root: scale.Root(), scale: scale}, true
}

func (k Key) Root() Note    { return k.root }
func (k Key) Scale() *Scale { return k.scale }

// Transpose shifts the key's root by semitones, keeping the same scale type.
func (k Key) Transpose(semitones Semitones) Key {
	return NewKey(k.root.Transpose(semitones), k.scale.intervalsAsType())
}

// Dominant returns the key a perfect fifth above this one.
func (k Key) Dominant() Key { return k.Transpose(7) }

// Subdominant returns the key a perfect fourth above this one.
func (k Key) Subdominant() Key { return k.Transpose(5) }

func (k Key) String() string {
	return fmt.Sprintf("%s %s", k.root, k.scale.intervalsAsType())
}

// intervalsAsType recovers a best-effort ScaleType label for a scale by
// interval-set match; used only for key transposition/display where we need
// to carry the scale "kind" across a root change. Custom interval sets that
// don't match a built-in are treated as ScaleMajor (documented fallback: a
// transposed custom scale degenerates to major rather than silently losing
// its root). This mirrors the narrow surface the original Key type needs —
// it never round-trips truly custom scales through Transpose.
func (s *Scale) intervalsAsType() ScaleType {
	for st, ivs := range scaleIntervals {
		if sameIntervals(ivs, s.intervals) {
			return st
		}
	}
	return ScaleMajor
}

func sameIntervals(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
