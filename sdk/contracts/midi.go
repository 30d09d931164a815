package contracts

// MIDI represents a raw MIDI event with a timestamp, command, note, and velocity.
//
// For control-change events the Note field carries the controller number and
// the Velocity field carries the controller value (the sustain pedal, CC 64,
// arrives this way).
type MIDI struct {
	Timestamp uint64 // Timestamp indicates the time the event occurred (ns).
	Command   byte   // Command specifies the type of MIDI event (e.g., Note On, Note Off).
	Note      byte   // Note represents the MIDI note number (0-127), or the controller number.
	Velocity  byte   // Velocity indicates the strength of the note (0-127), or the controller value.
}

// IsNoteOn reports whether the event is a sounding Note On. Note On events
// with velocity zero are Note Offs in disguise and are excluded.
func (m MIDI) IsNoteOn() bool {
	return m.Command&0xF0 == byte(NoteOn) && m.Velocity > 0
}

// IsNoteOff reports whether the event releases a note, including the
// velocity-zero Note On form.
func (m MIDI) IsNoteOff() bool {
	return m.Command&0xF0 == byte(NoteOff) || (m.Command&0xF0 == byte(NoteOn) && m.Velocity == 0)
}

// IsSustainPedal reports whether the event is a sustain-pedal control change.
func (m MIDI) IsSustainPedal() bool {
	return m.Command&0xF0 == byte(ControlChange) && m.Note == SustainPedalController
}

// PedalDown interprets a sustain-pedal event's value; values of 64 and above
// mean the pedal is held.
func (m MIDI) PedalDown() bool {
	return m.Velocity >= 64
}

// NoteSender is the output half of a MIDI device: it pushes a single event to
// the instrument. Implemented by ClientMIDI; playback renderers depend only
// on this.
type NoteSender interface {
	Send(event MIDI) error // Sends a MIDI event to the selected output device.
}

// ClientMIDI defines an interface for MIDI device operations.
type ClientMIDI interface {
	Stop() error                         // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)  // Lists all available MIDI devices.
	SelectDevice(deviceID int) error     // Selects a MIDI device by its ID for communication.
	StartCapture(eventChannel chan MIDI) // Starts capturing MIDI events and sends them to the specified channel.
	NoteSender                           // Sends events to the device's output port.
}
