// Package midiio is an external collaborator that bridges the sequencer
// core to real MIDI hardware/virtual ports via gitlab.com/gomidi/midi/v2's
// driver layer. The teacher only ever uses this library to build Standard
// MIDI Files (midi/generator.go); this package generalizes it to live
// input/output ports, which §4.7/§6 of the system call for and the library
// fully supports.
package midiio

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"seqcore/scheduler"
	"seqcore/timing"
)

// OutputPort wraps a gomidi output port send function, converting
// ScheduledEvents to wire bytes.
type OutputPort struct {
	send func(midi.Message) error
	stop func()
}

// OpenOutput opens the named MIDI output port (a substring match against
// the system's available ports, per gomidi's convention).
func OpenOutput(name string) (*OutputPort, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("finding output port %q: %w", name, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("opening output port %q: %w", name, err)
	}
	return &OutputPort{send: send, stop: func() { drivers.Close() }}, nil
}

// Send writes one scheduled event's MIDI bytes to the port.
func (o *OutputPort) Send(e scheduler.ScheduledEvent) error {
	return o.send(midi.NewMessage(e.ToMIDIBytes()))
}

// Close releases the port.
func (o *OutputPort) Close() {
	if o.stop != nil {
		o.stop()
	}
}

// ListOutputs names every output port gomidi can see, for CLI port
// selection.
func ListOutputs() []string {
	var names []string
	for _, p := range midi.OutPorts() {
		names = append(names, p.String())
	}
	return names
}

// MIDI realtime system messages that drive external clock sync (§4.7).
const (
	statusClock    byte = 0xF8
	statusStart    byte = 0xFA
	statusContinue byte = 0xFB
	statusStop     byte = 0xFC
)

// ClockSyncListener feeds incoming MIDI realtime bytes from an input port
// into a timing.Clock's external-sync methods.
type ClockSyncListener struct {
	clock *timing.Clock
	stop  func()
}

// ListenClockSync opens the named input port and forwards clock/start/
// continue/stop bytes to clock for the duration the returned listener is
// open.
func ListenClockSync(name string, clock *timing.Clock) (*ClockSyncListener, error) {
	in, err := midi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("finding input port %q: %w", name, err)
	}

	stopFn, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		bytes := msg.Bytes()
		if len(bytes) == 0 {
			return
		}
		switch bytes[0] {
		case statusClock:
			clock.ExternalPulse()
		case statusStart:
			clock.ExternalStart()
		case statusContinue:
			clock.ExternalContinue()
		case statusStop:
			clock.ExternalStop()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("listening to input port %q: %w", name, err)
	}

	clock.SetExternalSlaved(true)
	return &ClockSyncListener{clock: clock, stop: stopFn}, nil
}

// Close ends the listener and un-slaves the clock.
func (l *ClockSyncListener) Close() {
	if l.stop != nil {
		l.stop()
	}
	l.clock.SetExternalSlaved(false)
}

// ListInputs names every input port gomidi can see.
func ListInputs() []string {
	var names []string
	for _, p := range midi.InPorts() {
		names = append(names, p.String())
	}
	return names
}
