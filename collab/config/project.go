// Package config loads sequencer project files (YAML) and watches them for
// changes, grounded on parser.LoadTrack's load-and-default-fill shape.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project is the top-level YAML document describing a sequencer session:
// transport defaults, per-track configuration, and generator parameter
// overrides.
type Project struct {
	Name          string            `yaml:"name"`
	Tempo         float64           `yaml:"tempo"`
	PPQN          uint32            `yaml:"ppqn,omitempty"`
	Key           string            `yaml:"key"`
	Scale         string            `yaml:"scale"`
	TimeSignature StringOrPair      `yaml:"time_signature"`
	Tracks        []TrackConfig     `yaml:"tracks"`
	Song          *SongConfig       `yaml:"song,omitempty"`
}

// TrackConfig configures one track: which generator it runs, how its event
// pipeline transforms that generator's output, and the clip that schedules
// its launch/loop/stop behavior.
type TrackConfig struct {
	Name           string             `yaml:"name"`
	Channel        uint8              `yaml:"channel"`
	Generator      string             `yaml:"generator"`
	Params         map[string]float64 `yaml:"params,omitempty"`
	Transpose      int8               `yaml:"transpose,omitempty"`
	NoteMin        uint8              `yaml:"note_min,omitempty"`
	NoteMax        uint8              `yaml:"note_max,omitempty"`
	VelocityScale  float64            `yaml:"velocity_scale,omitempty"`
	VelocityOffset float64            `yaml:"velocity_offset,omitempty"`
	Swing          float64            `yaml:"swing,omitempty"`
	Muted          bool               `yaml:"muted,omitempty"`
	Soloed         bool               `yaml:"soloed,omitempty"`

	ClipMode       string `yaml:"clip_mode,omitempty"`        // "loop" (default), "oneshot", "loopcount"
	ClipLoopCount  int    `yaml:"clip_loop_count,omitempty"`  // LoopCount target when clip_mode is loopcount
	ClipLengthBars uint32 `yaml:"clip_length_bars,omitempty"` // clip length in bars; defaults to 4
	Follow         string `yaml:"follow,omitempty"`           // "again" (default), "next", "previous", "stop"
}

// SongConfig names the sections of a linear song arrangement, plus an
// optional loop region; cmd/seqd loads this into an arrangement.Song and
// builds one arrangement.Part per distinct section name.
type SongConfig struct {
	Sections []SongSectionConfig `yaml:"sections"`
	Loop     *SongLoopConfig     `yaml:"loop,omitempty"`
}

// SongSectionConfig is one YAML-level song section entry.
type SongSectionConfig struct {
	Part       string   `yaml:"part"`
	LengthBars uint32   `yaml:"length_bars"`
	Tempo      *float64 `yaml:"tempo,omitempty"`
}

// SongLoopConfig names a [Start,End) section-index range to repeat, with an
// optional repeat count (omitted or zero means loop forever).
type SongLoopConfig struct {
	Start uint32 `yaml:"start"`
	End   uint32 `yaml:"end"`
	Count uint32 `yaml:"count,omitempty"`
}

// StringOrPair unmarshals a time signature given either as "4/4" or as a
// two-element list [4, 4], mirroring parser.StringOrList's
// either-shape-works UnmarshalYAML approach.
type StringOrPair struct {
	Num, Denom uint8
}

// UnmarshalYAML accepts "4/4" or [4,4]; defaults to 4/4 on anything else.
func (s *StringOrPair) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err == nil {
		num, denom, ok := parseTimeSignature(str)
		if !ok {
			s.Num, s.Denom = 4, 4
			return nil
		}
		s.Num, s.Denom = num, denom
		return nil
	}

	var pair [2]uint8
	if err := node.Decode(&pair); err == nil {
		s.Num, s.Denom = pair[0], pair[1]
		return nil
	}

	s.Num, s.Denom = 4, 4
	return nil
}

func parseTimeSignature(s string) (num, denom uint8, ok bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	var n, d int
	if _, err := fmt.Sscanf(parts[0], "%d", &n); err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &d); err != nil {
		return 0, 0, false
	}
	return uint8(n), uint8(d), true
}

// Load reads and parses a project file, filling in defaults the way
// parser.LoadTrack does for BTML files.
func Load(filename string) (*Project, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}

	if p.Tempo == 0 {
		p.Tempo = 120
	}
	if p.PPQN == 0 {
		p.PPQN = 24
	}
	if p.TimeSignature.Num == 0 {
		p.TimeSignature.Num = 4
		p.TimeSignature.Denom = 4
	}
	for i := range p.Tracks {
		if p.Tracks[i].NoteMax == 0 {
			p.Tracks[i].NoteMax = 127
		}
		if p.Tracks[i].VelocityScale == 0 {
			p.Tracks[i].VelocityScale = 1.0
		}
		if p.Tracks[i].ClipLengthBars == 0 {
			p.Tracks[i].ClipLengthBars = 4
		}
	}

	return &p, nil
}
