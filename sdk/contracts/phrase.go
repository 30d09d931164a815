package contracts

import (
	"fmt"
	"strings"
)

// Pitch is a MIDI note number (0-127).
type Pitch byte

// Degree is a scale degree in 1..8. Degree 8 is the octave anchor, the tonic
// pitch class sounded at least one octave above the tonic; it is distinct
// from degree 1 and reserved for the Black anchor and the H-file signature.
type Degree int

// Alteration is a chromatic inflection applied to a degree.
type Alteration int8

const (
	// Flat lowers the degree's diatonic pitch by a semitone.
	Flat Alteration = -1
	// Natural leaves the degree's diatonic pitch unchanged.
	Natural Alteration = 0
	// Sharp raises the degree's diatonic pitch by a semitone.
	Sharp Alteration = 1
)

func (a Alteration) String() string {
	switch a {
	case Flat:
		return "b"
	case Sharp:
		return "#"
	default:
		return ""
	}
}

// Direction is the melodic motion of a step relative to the previous one.
type Direction int8

const (
	// DirAnchor marks a phrase's first step; it has no preceding tone.
	DirAnchor Direction = iota
	// DirUp is ascending motion.
	DirUp
	// DirDown is descending motion.
	DirDown
	// DirRepeat restates the previous pitch.
	DirRepeat
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "+"
	case DirDown:
		return "-"
	case DirRepeat:
		return "="
	default:
		return ""
	}
}

// Step is one element of a canonical phrase: a degree with its alteration and
// the direction taken to reach it from the previous step.
type Step struct {
	Degree Degree
	Alt    Alteration
	Dir    Direction
}

func (s Step) String() string {
	return fmt.Sprintf("%s%s%d", s.Dir, s.Alt, s.Degree)
}

// Color identifies the side a phrase speaks for.
type Color int

const (
	// White phrases anchor on degree 1 and ascend to the file reference.
	White Color = iota
	// Black phrases anchor on degree 8 and descend to the file reference.
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// CloseReason records why a raw phrase was considered finished.
type CloseReason int

const (
	// ReasonPedalRelease closes a phrase on sustain-pedal release.
	ReasonPedalRelease CloseReason = iota
	// ReasonSilenceGap closes a phrase after silence exceeding the gap.
	ReasonSilenceGap
	// ReasonForced closes a phrase because the event stream ended.
	ReasonForced
)

func (r CloseReason) String() string {
	switch r {
	case ReasonSilenceGap:
		return "silence-timeout"
	case ReasonForced:
		return "forced-close"
	default:
		return "pedal-release"
	}
}

// PhraseEvent is a single captured note with its tonal reading and timing.
type PhraseEvent struct {
	Degree     Degree
	Alt        Alteration
	Pitch      Pitch
	OnsetMs    uint64 // Onset relative to the capture epoch.
	DurationMs uint32 // Sounding length; filled on release or phrase close.
	PedalDown  bool   // Sustain-pedal state at onset.
}

// RawPhrase is the ordered event run between two phrase boundaries. It exists
// only between capture and canonicalization.
type RawPhrase struct {
	Events []PhraseEvent
	Reason CloseReason
}

// CanonicalPhrase is the minimal, ornament-free step sequence a decoder
// consumes. It is never empty; its first step has direction DirAnchor.
type CanonicalPhrase struct {
	Color Color
	Steps []Step
}

func (p CanonicalPhrase) String() string {
	parts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
