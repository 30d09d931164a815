// Package grammar implements the deterministic parser/encoder pair between
// canonical phrases and chess-move fragments. Fixed-shape signature motifs
// (edge files, castling prelude, promotion tetrachord) are matched before the
// general two-step diagonal rule; matchers decline rather than error so the
// phrase falls through to the next rule.
package grammar

import (
	"fmt"

	"github.com/melodychess/cantus/sdk/contracts"
)

// fileFromDegree maps a diagonal-reference degree to its file on the a1-h8
// diagonal.
var fileFromDegree = [9]byte{1: 'a', 2: 'b', 3: 'c', 4: 'd', 5: 'e', 6: 'f', 7: 'g', 8: 'h'}

// degreeFromFile is the inverse table, used by the encoder.
func degreeFromFile(file byte) contracts.Degree {
	return contracts.Degree(file-'a') + 1
}

// Decoder parses canonical phrases into move fragments.
type Decoder struct {
	whiteAnchor contracts.Degree
	blackAnchor contracts.Degree
}

// NewDecoder validates the anchor assignment and builds a Decoder.
func NewDecoder(cfg contracts.KeyboardConfig) (*Decoder, error) {
	if cfg.WhiteAnchor < 1 || cfg.WhiteAnchor > 8 || cfg.BlackAnchor < 1 || cfg.BlackAnchor > 8 {
		return nil, fmt.Errorf("anchor degrees %d/%d not in 1..8", cfg.WhiteAnchor, cfg.BlackAnchor)
	}
	return &Decoder{whiteAnchor: cfg.WhiteAnchor, blackAnchor: cfg.BlackAnchor}, nil
}

// anchor returns the general-rule anchor degree for a color.
func (d *Decoder) anchor(c contracts.Color) contracts.Degree {
	if c == contracts.Black {
		return d.blackAnchor
	}
	return d.whiteAnchor
}

// DecodeSquare maps a canonical phrase to a board square. Matching order,
// first match wins: A-file signature, H-file signature, general diagonal
// rule. A phrase matching no rule fails with ErrMalformedPhrase; a phrase
// matching two signatures at once fails with ErrAmbiguousPhrase (well-formed
// input cannot reach that).
func (d *Decoder) DecodeSquare(p contracts.CanonicalPhrase) (contracts.Square, error) {
	aSq, aOK, aErr := d.matchAFile(p)
	hSq, hOK, hErr := d.matchHFile(p)
	if aOK && hOK {
		return contracts.Square{}, fmt.Errorf("%w: phrase %q matches both edge-file signatures", contracts.ErrAmbiguousPhrase, p.String())
	}
	if aOK {
		return aSq, aErr
	}
	if hOK {
		return hSq, hErr
	}
	return d.matchGeneral(p)
}

// matchAFile recognizes the A-file mordent signature: anchor on 1, step down
// to the leading tone 7, step back up to 1. The descent distinguishes it from
// a general g-file phrase, whose 7 is ascending.
func (d *Decoder) matchAFile(p contracts.CanonicalPhrase) (contracts.Square, bool, error) {
	s := p.Steps
	if len(s) < 3 {
		return contracts.Square{}, false, nil
	}
	if s[0] != (contracts.Step{Degree: 1, Alt: contracts.Natural, Dir: contracts.DirAnchor}) ||
		s[1] != (contracts.Step{Degree: 7, Alt: contracts.Natural, Dir: contracts.DirDown}) ||
		s[2] != (contracts.Step{Degree: 1, Alt: contracts.Natural, Dir: contracts.DirUp}) {
		return contracts.Square{}, false, nil
	}
	rank, err := rankFrom(s[3:], 1)
	if err != nil {
		return contracts.Square{}, true, err
	}
	return contracts.Square{File: 'a', Rank: rank}, true, nil
}

// matchHFile recognizes the H-file octave signature: anchor on 1, step up to
// the octave anchor 8.
func (d *Decoder) matchHFile(p contracts.CanonicalPhrase) (contracts.Square, bool, error) {
	s := p.Steps
	if len(s) < 2 {
		return contracts.Square{}, false, nil
	}
	if s[0] != (contracts.Step{Degree: 1, Alt: contracts.Natural, Dir: contracts.DirAnchor}) ||
		s[1] != (contracts.Step{Degree: 8, Alt: contracts.Natural, Dir: contracts.DirUp}) {
		return contracts.Square{}, false, nil
	}
	rank, err := rankFrom(s[2:], 8)
	if err != nil {
		return contracts.Square{}, true, err
	}
	return contracts.Square{File: 'h', Rank: rank}, true, nil
}

// matchGeneral applies the two-step diagonal rule: from the color's anchor,
// the first step lands on the file's diagonal-reference degree (White
// ascends from 1, Black descends from 8), and a second step gives the rank.
// Files a and h are reserved for their signatures.
func (d *Decoder) matchGeneral(p contracts.CanonicalPhrase) (contracts.Square, error) {
	s := p.Steps
	if len(s) < 2 {
		return contracts.Square{}, fmt.Errorf("%w: phrase %q too short for any rule", contracts.ErrMalformedPhrase, p.String())
	}

	anchor := d.anchor(p.Color)
	fileDir := contracts.DirUp
	if p.Color == contracts.Black {
		fileDir = contracts.DirDown
	}

	if s[0] != (contracts.Step{Degree: anchor, Alt: contracts.Natural, Dir: contracts.DirAnchor}) {
		return contracts.Square{}, fmt.Errorf("%w: %s phrase %q does not start on anchor %d", contracts.ErrMalformedPhrase, p.Color, p.String(), anchor)
	}
	if s[1].Dir != fileDir || s[1].Alt != contracts.Natural || s[1].Degree < 2 || s[1].Degree > 7 {
		return contracts.Square{}, fmt.Errorf("%w: phrase %q has no file reference step", contracts.ErrMalformedPhrase, p.String())
	}

	fileDeg := s[1].Degree
	rank, err := rankFrom(s[2:], fileDeg)
	if err != nil {
		return contracts.Square{}, err
	}
	return contracts.Square{File: fileFromDegree[fileDeg], Rank: rank}, nil
}

// rankFrom reads the rank from the steps remaining after the file has been
// fixed. The last step's degree is the rank; with no steps left the rank
// defaults to the file's diagonal degree (the landing short-form).
func rankFrom(rest []contracts.Step, fileDeg contracts.Degree) (int, error) {
	if len(rest) == 0 {
		return int(fileDeg), nil
	}
	for _, st := range rest {
		if st.Alt != contracts.Natural || st.Degree < 1 || st.Degree > 8 {
			return 0, fmt.Errorf("%w: step %s cannot carry a rank", contracts.ErrMalformedPhrase, st)
		}
	}
	return int(rest[len(rest)-1].Degree), nil
}
