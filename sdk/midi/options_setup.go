package midi

import (
	"fmt"
	"time"

	"github.com/melodychess/cantus/internal/logger"
	"github.com/melodychess/cantus/sdk/contracts"
)

// Default tonal frame: C4 tonic with a window of one octave below the tonic
// (the A-file signature dips to the leading tone) up to two octaves above
// (the octave anchor plus rank headroom).
const (
	defaultTonic      contracts.Pitch = 60
	defaultWindowSpan contracts.Pitch = 12
)

// ApplyDefaultOptions sets default values for ClientOptions if not explicitly
// provided and validates the combination.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized client options with defaults applied.
//   - error: An error if the resulting options are inconsistent.
func ApplyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}

	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "Cantus MIDI Client"}
	}

	if options.MIDIEventFilter == nil {
		// The grammar needs notes plus the sustain pedal.
		options.MIDIEventFilter = &contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff, contracts.ControlChange},
		}
	}

	if options.Keyboard == nil {
		options.Keyboard = &contracts.KeyboardConfig{
			TonicPitch:  defaultTonic,
			WindowLow:   defaultTonic - defaultWindowSpan,
			WindowHigh:  defaultTonic + 2*defaultWindowSpan,
			WhiteAnchor: 1,
			BlackAnchor: 8,
		}
	}
	if options.Keyboard.WhiteAnchor == 0 {
		options.Keyboard.WhiteAnchor = 1
	}
	if options.Keyboard.BlackAnchor == 0 {
		options.Keyboard.BlackAnchor = 8
	}

	if options.Capture == nil {
		options.Capture = &contracts.CaptureConfig{}
	}
	if options.Capture.PhraseGap == 0 {
		options.Capture.PhraseGap = 500 * time.Millisecond
	}
	if options.Capture.PollTimeout == 0 {
		options.Capture.PollTimeout = options.Capture.PhraseGap / 5
	}
	if options.Capture.MinStructural == 0 {
		options.Capture.MinStructural = 3
	}
	if options.Capture.GraceCutoff == 0 {
		options.Capture.GraceCutoff = 60 * time.Millisecond
	}
	if options.Capture.BufferSize == 0 {
		options.Capture.BufferSize = 100
	}
	if options.Capture.PollTimeout >= options.Capture.PhraseGap {
		return contracts.ClientOptions{}, fmt.Errorf(
			"poll timeout %v must be strictly below the phrase gap %v",
			options.Capture.PollTimeout, options.Capture.PhraseGap,
		)
	}

	if options.Playback == nil {
		options.Playback = &contracts.PlaybackConfig{}
	}
	if options.Playback.NoteLength == 0 {
		options.Playback.NoteLength = 220 * time.Millisecond
	}
	if options.Playback.NoteGap == 0 {
		options.Playback.NoteGap = 40 * time.Millisecond
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
