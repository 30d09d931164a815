// Package key converts between MIDI pitches and scale degrees relative to a
// configured tonic.
//
// Degree mapping (semitones above the tonic's pitch class):
//
//	0      → 1   (tonic)    — 8 when sounded at least one octave above
//	1, 2   → 2
//	3, 4   → 3
//	5, 6   → 4
//	7      → 5
//	8, 9   → 6
//	10, 11 → 7
package key

import (
	"fmt"

	"github.com/melodychess/cantus/sdk/contracts"
)

// bucketMap assigns every semitone offset from the tonic's pitch class to a
// degree.
var bucketMap = [12]contracts.Degree{
	0:  1,
	1:  2,
	2:  2,
	3:  3,
	4:  3,
	5:  4,
	6:  4,
	7:  5,
	8:  6,
	9:  6,
	10: 7,
	11: 7,
}

// degreeOffsets holds the diatonic offset in semitones of each degree.
// Degree 8 is the octave anchor and always sits 12 semitones up.
var degreeOffsets = [9]int{1: 0, 2: 2, 3: 4, 4: 5, 5: 7, 6: 9, 7: 11, 8: 12}

// octaveAnchorThreshold is the distance above the tonic at which the tonic
// pitch class reads as degree 8 rather than degree 1.
const octaveAnchorThreshold = 12

// Context is the tonal frame of reference: tonic pitch plus the playable
// window. All methods are pure.
type Context struct {
	tonic contracts.Pitch
	low   contracts.Pitch
	high  contracts.Pitch
}

// NewContext validates the keyboard configuration and builds a Context.
func NewContext(cfg contracts.KeyboardConfig) (*Context, error) {
	if cfg.WindowLow > cfg.WindowHigh {
		return nil, fmt.Errorf("playable window is empty: low %d above high %d", cfg.WindowLow, cfg.WindowHigh)
	}
	if cfg.TonicPitch < cfg.WindowLow || cfg.TonicPitch > cfg.WindowHigh {
		return nil, fmt.Errorf("tonic %d outside playable window [%d, %d]", cfg.TonicPitch, cfg.WindowLow, cfg.WindowHigh)
	}
	return &Context{tonic: cfg.TonicPitch, low: cfg.WindowLow, high: cfg.WindowHigh}, nil
}

// Tonic returns the MIDI note of degree 1.
func (c *Context) Tonic() contracts.Pitch {
	return c.tonic
}

// PitchToDegree converts a MIDI note to (degree, alteration) relative to the
// tonic. Pitches outside the playable window fail with ErrOutOfRange.
//
// A tonic pitch class sounded an octave or more above the tonic reads as
// degree 8, the octave anchor. The alteration is -1, 0, or +1 relative to
// the diatonic offset of the chosen degree; chromatic pitches further away
// than a semitone from any diatonic degree resolve to their bucket degree
// with a natural alteration.
func (c *Context) PitchToDegree(p contracts.Pitch) (contracts.Degree, contracts.Alteration, error) {
	if p < c.low || p > c.high {
		return 0, 0, fmt.Errorf("%w: note %d not in [%d, %d]", contracts.ErrOutOfRange, p, c.low, c.high)
	}

	rel := int(p) - int(c.tonic)
	relPC := ((rel % 12) + 12) % 12
	degree := bucketMap[relPC]

	if relPC == 0 && rel >= octaveAnchorThreshold {
		return 8, contracts.Natural, nil
	}

	basePC := degreeOffsets[degree] % 12
	switch ((relPC - basePC) % 12 + 12) % 12 {
	case 0:
		return degree, contracts.Natural, nil
	case 1:
		return degree, contracts.Sharp, nil
	case 11:
		return degree, contracts.Flat, nil
	default:
		return degree, contracts.Natural, nil
	}
}

// StepPitch realizes one canonical step as a concrete pitch. Anchored steps
// take the base placement near the tonic; ascending and descending steps take
// the nearest pitch of the step's pitch class strictly in the stated
// direction, so a "down to 7" lands below the previous tone while an
// "up to 7" lands above it.
func (c *Context) StepPitch(prev contracts.Pitch, step contracts.Step) (contracts.Pitch, error) {
	if step.Degree < 1 || step.Degree > 8 {
		return 0, fmt.Errorf("degree %d not in 1..8", step.Degree)
	}

	switch step.Dir {
	case contracts.DirAnchor:
		return c.DegreeToPitch(step.Degree, step.Alt)
	case contracts.DirRepeat:
		return prev, nil
	}

	targetPC := ((int(c.tonic)+degreeOffsets[step.Degree]+int(step.Alt))%12 + 12) % 12
	if step.Degree == 8 {
		targetPC = int(c.tonic) % 12
	}

	note := int(prev)
	if step.Dir == contracts.DirUp {
		for note++; note%12 != targetPC; note++ {
		}
	} else {
		for note--; note >= 0 && note%12 != targetPC; note-- {
		}
	}
	if note < int(c.low) || note > int(c.high) {
		return 0, fmt.Errorf("%w: step %s from note %d lands on %d", contracts.ErrOutOfRange, step, prev, note)
	}
	return contracts.Pitch(note), nil
}

// DegreeToPitch converts a degree and alteration to the MIDI note nearest the
// tonic. Degree 8 always resolves to tonic+12 regardless of alteration.
func (c *Context) DegreeToPitch(d contracts.Degree, alt contracts.Alteration) (contracts.Pitch, error) {
	if d < 1 || d > 8 {
		return 0, fmt.Errorf("degree %d not in 1..8", d)
	}
	if d == 8 {
		return c.tonic + octaveAnchorThreshold, nil
	}
	note := int(c.tonic) + degreeOffsets[d] + int(alt)
	if note < 0 || note > 127 {
		return 0, fmt.Errorf("%w: degree %d%s maps outside MIDI range", contracts.ErrOutOfRange, d, alt)
	}
	return contracts.Pitch(note), nil
}
