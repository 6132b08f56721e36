package model

// Board is the 8x8 grid. Squares[y][x] holds the piece on column x of row y,
// or nil. The Apply methods mutate the board without validating anything;
// legality lives in the rules layer.
type Board struct {
	Squares [][]*Piece `json:"squares"`
}

// EmptyBoard returns a board with no pieces on it.
func EmptyBoard() *Board {
	b := &Board{}
	for i := 0; i < 8; i++ {
		b.Squares = append(b.Squares, make([]*Piece, 8))
	}
	return b
}

// NewBoard returns the standard starting position. Black occupies rows 0-1,
// white rows 6-7.
func NewBoard() *Board {
	b := EmptyBoard()
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, pt := range backRank {
		b.Place(&Piece{Type: pt, Color: Black, Position: Position{X: x, Y: 0}})
		b.Place(&Piece{Type: pt, Color: White, Position: Position{X: x, Y: 7}})
	}
	for x := 0; x < 8; x++ {
		b.Place(&Piece{Type: Pawn, Color: Black, Position: Position{X: x, Y: 1}})
		b.Place(&Piece{Type: Pawn, Color: White, Position: Position{X: x, Y: 6}})
	}
	return b
}

// Place puts a piece on the square named by its own Position field.
func (b *Board) Place(p *Piece) {
	b.Squares[p.Position.Y][p.Position.X] = p
}

func (b *Board) PieceAt(pos Position) *Piece {
	return b.Squares[pos.Y][pos.X]
}

// ApplyPlain relocates the piece on the from-square, overwriting whatever
// sits on the to-square, and bumps its move count.
func (b *Board) ApplyPlain(m Move) {
	p := b.Squares[m.From.Y][m.From.X]
	b.Squares[m.To.Y][m.To.X] = p
	b.Squares[m.From.Y][m.From.X] = nil
	p.Position = m.To
	p.MoveCount++
}

// ApplyEnPassant relocates the capturing pawn and removes the passed pawn,
// which sits on the origin row in the destination column.
func (b *Board) ApplyEnPassant(m Move) {
	b.ApplyPlain(m)
	b.Squares[m.From.Y][m.To.X] = nil
}

// ApplyCastle relocates the king two columns and brings the corresponding
// rook from its home corner to the square the king crossed.
func (b *Board) ApplyCastle(m Move) {
	dir := sign(m.To.X - m.From.X)
	homeRow, rookCol := 0, 0
	if m.Color == White {
		homeRow = 7
	}
	if dir > 0 {
		rookCol = 7
	}
	b.ApplyPlain(m)
	b.ApplyPlain(Move{
		From:  Position{X: rookCol, Y: homeRow},
		To:    Position{X: m.From.X + dir, Y: homeRow},
		Color: m.Color,
	})
}

// ApplyPromotion swaps the piece on the move's destination for a fresh piece
// of the promoted type. The replacement inherits the pawn's move count so a
// promoted rook can never pass the unmoved-rook castling gate.
func (b *Board) ApplyPromotion(m Move, promoted PieceType) {
	p := b.Squares[m.To.Y][m.To.X]
	b.Squares[m.To.Y][m.To.X] = &Piece{
		Type:      promoted,
		Color:     p.Color,
		Position:  m.To,
		MoveCount: p.MoveCount,
	}
}

// Clone returns a deep copy: fresh rows, fresh piece values.
func (b *Board) Clone() *Board {
	nb := EmptyBoard()
	for y := range b.Squares {
		for x, p := range b.Squares[y] {
			if p != nil {
				cp := *p
				nb.Squares[y][x] = &cp
			}
		}
	}
	return nb
}

// KingSquare scans for the king of the given color. The second return is
// false when no such king is on the board.
func (b *Board) KingSquare(color Color) (Position, bool) {
	for y := range b.Squares {
		for x, p := range b.Squares[y] {
			if p != nil && p.Type == King && p.Color == color {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}
