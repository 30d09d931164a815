package grammar

import (
	"fmt"

	"github.com/melodychess/cantus/sdk/contracts"
)

// castlingPrelude is the fixed three-step motif that announces castling for
// either color: anchor on 1, up to the raised fourth, up to 5.
var castlingPrelude = [3]contracts.Step{
	{Degree: 1, Alt: contracts.Natural, Dir: contracts.DirAnchor},
	{Degree: 4, Alt: contracts.Sharp, Dir: contracts.DirUp},
	{Degree: 5, Alt: contracts.Natural, Dir: contracts.DirUp},
}

// DetectCastling recognizes the castling motif. A phrase without the exact
// prelude declines with ok == false and no error, routing the phrase to the
// square decoder. With the prelude matched, the side is the sign of the
// trailing improvisation's net degree displacement from 5: ascending means
// kingside, descending queenside. A net displacement of zero cannot name a
// side and fails with ErrMalformedPhrase.
func (d *Decoder) DetectCastling(p contracts.CanonicalPhrase) (contracts.CastleSide, bool, error) {
	s := p.Steps
	if len(s) < 3 || s[0] != castlingPrelude[0] || s[1] != castlingPrelude[1] || s[2] != castlingPrelude[2] {
		return 0, false, nil
	}

	net := netDisplacement(5, s[3:])
	switch {
	case net > 0:
		return contracts.Kingside, true, nil
	case net < 0:
		return contracts.Queenside, true, nil
	default:
		return 0, true, fmt.Errorf("%w: castling run %q has zero net displacement", contracts.ErrMalformedPhrase, p.String())
	}
}

// netDisplacement accumulates the signed degree distance travelled by a run,
// starting from the given degree. Steps wrap within the seven-degree scale,
// so an ascent from 7 to 1 counts +1, not -6.
func netDisplacement(from contracts.Degree, run []contracts.Step) int {
	net := 0
	cur := int(from)
	for _, st := range run {
		target := int(st.Degree)
		switch st.Dir {
		case contracts.DirUp:
			delta := target - cur
			if delta <= 0 {
				delta += 7
			}
			net += delta
		case contracts.DirDown:
			delta := cur - target
			if delta <= 0 {
				delta += 7
			}
			net -= delta
		}
		cur = target
	}
	return net
}
