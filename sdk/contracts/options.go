package contracts

import "time"

// MIDICommand represents the types of MIDI commands for event filtering.
type MIDICommand byte

const (
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// ControlChange is the MIDI command for a controller event (0xB0).
	ControlChange MIDICommand = 0xB0
)

// SustainPedalController is the controller number of the sustain pedal (CC 64).
const SustainPedalController byte = 64

// MIDIEventFilter allows users to specify which MIDI commands to capture.
type MIDIEventFilter struct {
	Commands []MIDICommand // List of MIDI commands to filter.
}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// KeyboardConfig fixes the tonal frame of reference for the grammar: where
// degree 1 sounds, how far the playable window extends, and which anchor
// degree opens each color's phrases.
type KeyboardConfig struct {
	TonicPitch  Pitch  // MIDI note of degree 1 (e.g., 60 for C4).
	WindowLow   Pitch  // Lowest pitch accepted by pitch-to-degree conversion.
	WindowHigh  Pitch  // Highest pitch accepted by pitch-to-degree conversion.
	WhiteAnchor Degree // Anchor degree for White phrases (1 in the standard grammar).
	BlackAnchor Degree // Anchor degree for Black phrases (8 in the standard grammar).
}

// CaptureConfig tunes the phrase-boundary state machine.
type CaptureConfig struct {
	PhraseGap     time.Duration // Silence that closes a pedal-free phrase.
	PollTimeout   time.Duration // Queue poll timeout; must be strictly below PhraseGap.
	MinStructural int           // Event count required before a pedal release closes a phrase.
	GraceCutoff   time.Duration // Notes held shorter than this are ornamental.
	BufferSize    int           // Capacity of the device event channel.
}

// PlaybackConfig tunes how encoded phrases are rendered back to the device.
type PlaybackConfig struct {
	Channel    uint8         // MIDI channel for rendered notes.
	NoteLength time.Duration // Sounding length of each rendered note.
	NoteGap    time.Duration // Silence between rendered notes.
}

// ClientOptions defines the configuration options for the engine and its
// MIDI device client.
type ClientOptions struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	LogFilePath     string           // File path for logging if file logging is enabled.
	MIDIEventFilter *MIDIEventFilter // Optional filter for MIDI events to capture.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
	Keyboard        *KeyboardConfig  // Tonal frame for degree conversion.
	Capture         *CaptureConfig   // Phrase-boundary configuration.
	Playback        *PlaybackConfig  // Rendering configuration.
	DeviceClient    ClientMIDI       // Optional pre-built device client (used by tests and custom drivers).
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the client.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the client.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithMIDIEventFilter sets the MIDI event filter for the device client.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ClientOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the device client.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithKeyboardConfig sets the tonal frame of reference.
func WithKeyboardConfig(config KeyboardConfig) Option {
	return func(opts *ClientOptions) {
		opts.Keyboard = &config
	}
}

// WithCaptureConfig sets the phrase-boundary configuration.
func WithCaptureConfig(config CaptureConfig) Option {
	return func(opts *ClientOptions) {
		opts.Capture = &config
	}
}

// WithPlaybackConfig sets the rendering configuration.
func WithPlaybackConfig(config PlaybackConfig) Option {
	return func(opts *ClientOptions) {
		opts.Playback = &config
	}
}

// WithDeviceClient injects a pre-built MIDI device client, bypassing the
// per-OS driver factory.
func WithDeviceClient(client ClientMIDI) Option {
	return func(opts *ClientOptions) {
		opts.DeviceClient = client
	}
}
