package grammar

import (
	"fmt"

	"github.com/melodychess/cantus/sdk/contracts"
)

// promotionSignal is the two-step cue that announces a promotion: anchor on
// 1, then an ascending minor second to the flattened 2.
var promotionSignal = [2]contracts.Step{
	{Degree: 1, Alt: contracts.Natural, Dir: contracts.DirAnchor},
	{Degree: 2, Alt: contracts.Flat, Dir: contracts.DirUp},
}

// tetrachord is the promotion identification sequence; the position of the
// last step reached selects the piece: 1 rook, 2 knight, 3 bishop, 4 queen.
var tetrachord = [4]contracts.Step{
	{Degree: 1, Alt: contracts.Natural, Dir: contracts.DirAnchor},
	{Degree: 2, Alt: contracts.Flat, Dir: contracts.DirUp},
	{Degree: 3, Alt: contracts.Flat, Dir: contracts.DirUp},
	{Degree: 3, Alt: contracts.Natural, Dir: contracts.DirUp},
}

// MatchPromotionSignal reports whether a phrase is exactly the promotion cue.
// Any other shape means "no promotion", never an error.
func (d *Decoder) MatchPromotionSignal(p contracts.CanonicalPhrase) bool {
	return len(p.Steps) == 2 && p.Steps[0] == promotionSignal[0] && p.Steps[1] == promotionSignal[1]
}

// DecodePromotionPiece reads the identification phrase that follows the cue.
// The phrase must be a prefix of the tetrachord; anything else fails with
// ErrUnrecognizedPromotion.
func (d *Decoder) DecodePromotionPiece(p contracts.CanonicalPhrase) (contracts.PromotionPiece, error) {
	s := p.Steps
	if len(s) == 0 || len(s) > len(tetrachord) {
		return 0, fmt.Errorf("%w: phrase %q is not a tetrachord prefix", contracts.ErrUnrecognizedPromotion, p.String())
	}
	for i, st := range s {
		if st != tetrachord[i] {
			return 0, fmt.Errorf("%w: step %d of %q diverges from the tetrachord", contracts.ErrUnrecognizedPromotion, i+1, p.String())
		}
	}
	return contracts.PromotionPiece(len(s)), nil
}
