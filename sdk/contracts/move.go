package contracts

import "fmt"

// Square is a chess board coordinate: file a..h, rank 1..8.
type Square struct {
	File byte // 'a'..'h'
	Rank int  // 1..8
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.File >= 'a' && s.File <= 'h' && s.Rank >= 1 && s.Rank <= 8
}

func (s Square) String() string {
	return fmt.Sprintf("%c%d", s.File, s.Rank)
}

// CastleSide selects which rook the king castles with.
type CastleSide int

const (
	// Kingside castling (short).
	Kingside CastleSide = iota
	// Queenside castling (long).
	Queenside
)

func (c CastleSide) String() string {
	if c == Queenside {
		return "queenside"
	}
	return "kingside"
}

// PromotionPiece is the piece a pawn promotes to, ordered by tetrachord step.
type PromotionPiece int

const (
	// Rook is tetrachord step 1.
	Rook PromotionPiece = iota + 1
	// Knight is tetrachord step 2.
	Knight
	// Bishop is tetrachord step 3.
	Bishop
	// Queen is tetrachord step 4.
	Queen
)

func (p PromotionPiece) String() string {
	switch p {
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	default:
		return "unknown"
	}
}

// UCI returns the promotion suffix used in UCI move notation.
func (p PromotionPiece) UCI() string {
	switch p {
	case Rook:
		return "r"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Queen:
		return "q"
	default:
		return ""
	}
}

// FragmentKind discriminates the MoveFragment variant.
type FragmentKind int

const (
	// FragmentSquare is a decoded board square.
	FragmentSquare FragmentKind = iota
	// FragmentCastle is a decoded castling side.
	FragmentCastle
	// FragmentPromotion is a decoded promotion piece.
	FragmentPromotion
)

// MoveFragment is the closed variant a single phrase decodes to. Exactly one
// of the payload fields is meaningful, selected by Kind.
type MoveFragment struct {
	Kind   FragmentKind
	Square Square         // Kind == FragmentSquare
	Side   CastleSide     // Kind == FragmentCastle
	Piece  PromotionPiece // Kind == FragmentPromotion
}

func (f MoveFragment) String() string {
	switch f.Kind {
	case FragmentCastle:
		return "castle " + f.Side.String()
	case FragmentPromotion:
		return "promote " + f.Piece.String()
	default:
		return f.Square.String()
	}
}

// MoveKind discriminates the Move variant.
type MoveKind int

const (
	// MoveNormal is a from-square/to-square move, possibly with promotion.
	MoveNormal MoveKind = iota
	// MoveCastle is a castling move.
	MoveCastle
)

// Move is a full decoded move, assembled from fragments by the move session.
type Move struct {
	Kind      MoveKind
	From, To  Square         // Kind == MoveNormal
	Side      CastleSide     // Kind == MoveCastle
	Promotion PromotionPiece // Valid only when Promoted is set.
	Promoted  bool
}

func (m Move) String() string {
	if m.Kind == MoveCastle {
		return "castle " + m.Side.String()
	}
	s := m.From.String() + m.To.String()
	if m.Promoted {
		s += m.Promotion.UCI()
	}
	return s
}

// LegalityFlags qualify a legal move as judged by the rules collaborator.
type LegalityFlags struct {
	Capture            bool
	Check              bool
	CastleSide         *CastleSide
	PromotionAvailable bool
}

// Verdict is the rules collaborator's answer for a candidate move.
type Verdict struct {
	Legal bool
	Flags LegalityFlags
}

// IsLegalFunc asks the external rules collaborator about a candidate move.
// The grammar engine never enforces chess legality itself; it only consults
// the flags (promotion availability in particular) to sequence phrases.
type IsLegalFunc func(move Move) Verdict
