package audio

import (
	"fmt"
	"os"
	"sync"

	"github.com/sinshu/go-meltysynth/meltysynth"
)

const meltySampleRate = 44100

// MeltySynthSink renders audio in-process via go-meltysynth instead of
// shelling out to fluidsynth, grounded on the teacher pack's MIDIBridge
// (zurustar-son-et/pkg/engine/midi_player.go): MIDI messages are forwarded
// directly to Synthesizer.ProcessMidiMessage rather than rendered to a wav
// file first. Unlike that bridge, this sink owns no audio device — it only
// synthesizes; Render lets a caller pull PCM frames into whatever output
// backend it has (no audio-output library appears anywhere in this pack to
// ground one here, so that boundary is left to the caller).
type MeltySynthSink struct {
	mu   sync.Mutex
	synth *meltysynth.Synthesizer
}

// NewMeltySynthSink loads a SoundFont and prepares a synthesizer at the
// standard 44.1kHz sample rate.
func NewMeltySynthSink(soundFontPath string) (*MeltySynthSink, error) {
	f, err := os.Open(soundFontPath)
	if err != nil {
		return nil, fmt.Errorf("opening soundfont: %w", err)
	}
	defer f.Close()

	sf, err := meltysynth.NewSoundFont(f)
	if err != nil {
		return nil, fmt.Errorf("parsing soundfont: %w", err)
	}

	settings := meltysynth.NewSynthesizerSettings(meltySampleRate)
	synth, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, fmt.Errorf("creating synthesizer: %w", err)
	}

	return &MeltySynthSink{synth: synth}, nil
}

func (s *MeltySynthSink) NoteOn(channel, note, velocity uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synth.ProcessMidiMessage(int32(channel), 0x90, int32(note), int32(velocity))
	return nil
}

func (s *MeltySynthSink) NoteOff(channel, note uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synth.ProcessMidiMessage(int32(channel), 0x80, int32(note), 0)
	return nil
}

func (s *MeltySynthSink) ControlChange(channel, cc, value uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synth.ProcessMidiMessage(int32(channel), 0xB0, int32(cc), int32(value))
	return nil
}

func (s *MeltySynthSink) ProgramChange(channel, program uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synth.ProcessMidiMessage(int32(channel), 0xC0, int32(program), 0)
	return nil
}

func (s *MeltySynthSink) PitchBend(channel uint8, value uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lsb := int32(value & 0x7F)
	msb := int32((value >> 7) & 0x7F)
	s.synth.ProcessMidiMessage(int32(channel), 0xE0, lsb, msb)
	return nil
}

// AllNotesOff sends CC 123 on every channel.
func (s *MeltySynthSink) AllNotesOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := int32(0); ch < 16; ch++ {
		s.synth.ProcessMidiMessage(ch, 0xB0, 123, 0)
	}
	return nil
}

// Close is a no-op; the synthesizer holds no OS resources beyond the
// SoundFont already read into memory.
func (s *MeltySynthSink) Close() error { return nil }

// Render fills left/right with the next len(left) samples of synthesized
// audio, for a caller to forward to its own audio output.
func (s *MeltySynthSink) Render(left, right []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synth.Render(left, right)
}
