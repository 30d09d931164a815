package grammar

import (
	"fmt"

	"github.com/melodychess/cantus/sdk/contracts"
)

// Encoder is the inverse of the decoders: it renders move fragments as the
// canonical, non-ornamented degree paths the decoder accepts, using the same
// anchor and signature tables so decode(encode(x)) == x.
type Encoder struct {
	whiteAnchor contracts.Degree
	blackAnchor contracts.Degree
}

// NewEncoder validates the anchor assignment and builds an Encoder.
func NewEncoder(cfg contracts.KeyboardConfig) (*Encoder, error) {
	if cfg.WhiteAnchor < 1 || cfg.WhiteAnchor > 8 || cfg.BlackAnchor < 1 || cfg.BlackAnchor > 8 {
		return nil, fmt.Errorf("anchor degrees %d/%d not in 1..8", cfg.WhiteAnchor, cfg.BlackAnchor)
	}
	return &Encoder{whiteAnchor: cfg.WhiteAnchor, blackAnchor: cfg.BlackAnchor}, nil
}

// EncodeSquare produces the identifying phrase for one square. Edge files use
// their signatures for both colors; the rest use the general diagonal rule
// with the color's anchor. The rank step is always explicit.
func (e *Encoder) EncodeSquare(sq contracts.Square, color contracts.Color) (contracts.CanonicalPhrase, error) {
	if !sq.Valid() {
		return contracts.CanonicalPhrase{}, fmt.Errorf("square %q off the board", sq)
	}

	var steps []contracts.Step
	switch sq.File {
	case 'a':
		steps = []contracts.Step{
			{Degree: 1, Dir: contracts.DirAnchor},
			{Degree: 7, Dir: contracts.DirDown},
			{Degree: 1, Dir: contracts.DirUp},
			rankStep(1, sq.Rank),
		}
	case 'h':
		steps = []contracts.Step{
			{Degree: 1, Dir: contracts.DirAnchor},
			{Degree: 8, Dir: contracts.DirUp},
			rankStep(8, sq.Rank),
		}
	default:
		fileDeg := degreeFromFile(sq.File)
		anchor, fileDir := e.whiteAnchor, contracts.DirUp
		if color == contracts.Black {
			anchor, fileDir = e.blackAnchor, contracts.DirDown
		}
		steps = []contracts.Step{
			{Degree: anchor, Dir: contracts.DirAnchor},
			{Degree: fileDeg, Dir: fileDir},
			rankStep(fileDeg, sq.Rank),
		}
	}
	return contracts.CanonicalPhrase{Color: color, Steps: steps}, nil
}

// EncodeCastling produces the fixed prelude plus a minimal single-direction
// run naming the side: one step up for kingside, one step down for queenside.
func (e *Encoder) EncodeCastling(side contracts.CastleSide, color contracts.Color) contracts.CanonicalPhrase {
	steps := append([]contracts.Step{}, castlingPrelude[:]...)
	if side == contracts.Kingside {
		steps = append(steps, contracts.Step{Degree: 6, Dir: contracts.DirUp})
	} else {
		steps = append(steps, contracts.Step{Degree: 4, Dir: contracts.DirDown})
	}
	return contracts.CanonicalPhrase{Color: color, Steps: steps}
}

// EncodePromotion produces the two-phrase promotion sequence: the cue, then
// the tetrachord prefix whose length names the piece.
func (e *Encoder) EncodePromotion(piece contracts.PromotionPiece, color contracts.Color) ([]contracts.CanonicalPhrase, error) {
	if piece < contracts.Rook || piece > contracts.Queen {
		return nil, fmt.Errorf("promotion piece %d not in rook..queen", piece)
	}
	signal := contracts.CanonicalPhrase{Color: color, Steps: append([]contracts.Step{}, promotionSignal[:]...)}
	ident := contracts.CanonicalPhrase{Color: color, Steps: append([]contracts.Step{}, tetrachord[:int(piece)]...)}
	return []contracts.CanonicalPhrase{signal, ident}, nil
}

// EncodeMove renders a full move as its phrase sequence: a single castling
// phrase, or start and landing squares, with the promotion pair appended when
// the move promotes.
func (e *Encoder) EncodeMove(mv contracts.Move, color contracts.Color) ([]contracts.CanonicalPhrase, error) {
	switch mv.Kind {
	case contracts.MoveCastle:
		return []contracts.CanonicalPhrase{e.EncodeCastling(mv.Side, color)}, nil
	case contracts.MoveNormal:
		from, err := e.EncodeSquare(mv.From, color)
		if err != nil {
			return nil, err
		}
		to, err := e.EncodeSquare(mv.To, color)
		if err != nil {
			return nil, err
		}
		phrases := []contracts.CanonicalPhrase{from, to}
		if mv.Promoted {
			promo, err := e.EncodePromotion(mv.Promotion, color)
			if err != nil {
				return nil, err
			}
			phrases = append(phrases, promo...)
		}
		return phrases, nil
	default:
		return nil, fmt.Errorf("unknown move kind %d", mv.Kind)
	}
}

// rankStep builds the explicit rank step relative to the file's diagonal
// degree: ascending above it, descending below it, a repeat when equal.
func rankStep(fileDeg contracts.Degree, rank int) contracts.Step {
	st := contracts.Step{Degree: contracts.Degree(rank)}
	switch {
	case contracts.Degree(rank) > fileDeg:
		st.Dir = contracts.DirUp
	case contracts.Degree(rank) < fileDeg:
		st.Dir = contracts.DirDown
	default:
		st.Dir = contracts.DirRepeat
	}
	return st
}
