package model

// isValidMove decides pseudo-legality for mover's move on the given board:
// shape, obstruction, capture targets, pawn specials and castling
// preconditions, in that order. Self-check exposure is deliberately not
// covered here; leavesKingSafe handles it so that check detection can use
// the raw pseudo-legal set.
//
// The board is a parameter rather than the game's own so the same rules run
// unchanged on simulation clones. En passant is the one history-dependent
// rule and always consults the live game's history, even mid-simulation.
func (g *Game) isValidMove(mover Color, m Move, b *Board) bool {
	if !withinBoard(m.From.Y, m.From.X) || !withinBoard(m.To.Y, m.To.X) {
		return false
	}
	piece := b.PieceAt(m.From)
	if piece == nil || piece.Color != mover || !shapeAccepts(piece, m) {
		return false
	}
	target := b.PieceAt(m.To)
	if target != nil && target.Color == piece.Color {
		return false
	}

	dy := abs(m.To.Y - m.From.Y)
	dx := abs(m.To.X - m.From.X)

	switch piece.Type {
	case Bishop, Rook, Queen, Pawn:
		stepY := sign(m.To.Y - m.From.Y)
		stepX := sign(m.To.X - m.From.X)
		for y, x := m.From.Y+stepY, m.From.X+stepX; y != m.To.Y || x != m.To.X; y, x = y+stepY, x+stepX {
			if b.Squares[y][x] != nil {
				return false
			}
		}
		// Pawns never capture straight ahead.
		if piece.Type == Pawn && dx == 0 && target != nil {
			return false
		}
	}

	if piece.Type == Pawn {
		if dy > 1 && piece.MoveCount > 0 {
			return false
		}
		if dx == 1 && target == nil {
			return g.enPassantAllowed(piece, m, b)
		}
	}

	if piece.Type == King && dx == 2 {
		return g.castleAllowed(piece, m, b)
	}

	return true
}

// enPassantAllowed checks the capture-in-passing precondition: an enemy pawn
// beside the mover, in the destination column, whose two-row advance was the
// game's most recent move.
func (g *Game) enPassantAllowed(piece *Piece, m Move, b *Board) bool {
	passedCol := m.From.X + sign(m.To.X-m.From.X)
	if !withinBoard(m.From.Y, passedCol) {
		return false
	}
	passed := b.Squares[m.From.Y][passedCol]
	if passed == nil || passed.Type != Pawn || passed.Color == piece.Color {
		return false
	}
	if len(g.history) == 0 {
		return false
	}
	last := g.history[len(g.history)-1]
	return last.To.Y == m.From.Y && last.To.X == passedCol && abs(last.To.Y-last.From.Y) == 2
}

// castleAllowed checks the static castling preconditions: an unmoved king,
// an unmoved own rook on the matching home corner, and nothing between them.
// The not-out-of, not-through and not-into-check conditions are simulated in
// leavesKingSafe.
func (g *Game) castleAllowed(king *Piece, m Move, b *Board) bool {
	if king.MoveCount > 0 {
		return false
	}
	dir := sign(m.To.X - m.From.X)
	homeRow, rookCol := 0, 0
	if king.Color == White {
		homeRow = 7
	}
	if dir > 0 {
		rookCol = 7
	}
	rook := b.Squares[homeRow][rookCol]
	if rook == nil || rook.Type != Rook || rook.Color != king.Color || rook.MoveCount > 0 {
		return false
	}
	for x := m.From.X + dir; x != rookCol; x += dir {
		if b.Squares[m.From.Y][x] != nil {
			return false
		}
	}
	return true
}
