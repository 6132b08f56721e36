package model

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Piece is a single piece on the board. MoveCount drives the first-move
// rules: pawn double-steps and castling are only open to pieces that have
// never moved.
type Piece struct {
	Type      PieceType `json:"type"`
	Color     Color     `json:"color"`
	Position  Position  `json:"position"`
	MoveCount int       `json:"moveCount"`
}

var pieceValues = map[PieceType]int{
	Pawn:   100,
	Knight: 320,
	Bishop: 330,
	Rook:   500,
	Queen:  900,
	King:   10000,
}

// shapeAccepts reports whether the move's geometry fits the piece,
// ignoring obstruction and every board-dependent rule. Pawn shapes are
// color-oriented: white advances toward row 0, black toward row 7. The
// two-column king shape is the castling gesture; its preconditions live
// with the rest of the move validation.
func shapeAccepts(p *Piece, m Move) bool {
	dy := m.To.Y - m.From.Y
	dx := m.To.X - m.From.X
	ady, adx := abs(dy), abs(dx)
	if ady == 0 && adx == 0 {
		return false
	}
	switch p.Type {
	case Pawn:
		forward := -1
		if p.Color == Black {
			forward = 1
		}
		return (dx == 0 && dy == forward) ||
			(dx == 0 && dy == 2*forward) ||
			(adx == 1 && dy == forward)
	case Knight:
		return (ady == 2 && adx == 1) || (ady == 1 && adx == 2)
	case Bishop:
		return ady == adx
	case Rook:
		return dy == 0 || dx == 0
	case Queen:
		return ady == adx || dy == 0 || dx == 0
	case King:
		if ady <= 1 && adx <= 1 {
			return true
		}
		return dy == 0 && adx == 2
	}
	return false
}

func isPromotionType(pt PieceType) bool {
	switch pt {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}
