package model

// pseudoLegalMoves enumerates every move of color's pieces that passes
// isValidMove, by walking all origin/destination pairs. Origin-major,
// row-then-column order, so the output is deterministic for a given
// position.
func (g *Game) pseudoLegalMoves(color Color, b *Board) []Move {
	var moves []Move
	for fromY := 0; fromY < 8; fromY++ {
		for fromX := 0; fromX < 8; fromX++ {
			if p := b.Squares[fromY][fromX]; p == nil || p.Color != color {
				continue
			}
			for toY := 0; toY < 8; toY++ {
				for toX := 0; toX < 8; toX++ {
					m := Move{
						From:  Position{X: fromX, Y: fromY},
						To:    Position{X: toX, Y: toY},
						Color: color,
					}
					if g.isValidMove(color, m, b) {
						moves = append(moves, m)
					}
				}
			}
		}
	}
	return moves
}

// LegalMoves returns the side to move's pseudo-legal moves minus those that
// would leave its own king in check.
func (g *Game) LegalMoves() []Move {
	return g.legalMovesFor(g.turn)
}

func (g *Game) legalMovesFor(color Color) []Move {
	var moves []Move
	for _, m := range g.pseudoLegalMoves(color, g.board) {
		if g.leavesKingSafe(m, g.board) {
			moves = append(moves, m)
		}
	}
	return moves
}

// leavesKingSafe simulates the move on a clone of b and reports whether the
// mover's king ends up out of check. Castling walks the king square by
// square, so a king that is in check, crosses an attacked square, or lands
// on one is refused. En passant is simulated with the passed pawn removed,
// since its disappearance can open a line to the king.
func (g *Game) leavesKingSafe(m Move, b *Board) bool {
	piece := b.PieceAt(m.From)
	if piece == nil {
		return false
	}
	sim := b.Clone()

	if piece.Type == King && abs(m.To.X-m.From.X) == 2 {
		if g.kingInCheck(piece.Color, sim) {
			return false
		}
		dir := sign(m.To.X - m.From.X)
		at := m.From
		for i := 0; i < 2; i++ {
			next := Position{X: at.X + dir, Y: at.Y}
			sim.ApplyPlain(Move{From: at, To: next, Color: m.Color})
			if g.kingInCheck(piece.Color, sim) {
				return false
			}
			at = next
		}
		return true
	}

	if piece.Type == Pawn && abs(m.To.X-m.From.X) == 1 && b.PieceAt(m.To) == nil {
		sim.ApplyEnPassant(m)
	} else {
		sim.ApplyPlain(m)
	}
	return !g.kingInCheck(piece.Color, sim)
}
