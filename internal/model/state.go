package model

// GameState names who is in trouble: StateCheckForWhite means white's king
// is attacked, StateCheckmateForWhite means white has been mated, and
// StateResignedWhite means white gave up.
type GameState string

const (
	StateOngoing           GameState = "ongoing"
	StateCheckForWhite     GameState = "checkForWhite"
	StateCheckForBlack     GameState = "checkForBlack"
	StateCheckmateForWhite GameState = "checkmateForWhite"
	StateCheckmateForBlack GameState = "checkmateForBlack"
	StateStalemate         GameState = "stalemate"
	StateResignedWhite     GameState = "resignedWhite"
	StateResignedBlack     GameState = "resignedBlack"
)

// Terminal reports whether the game is over. A bare check is not terminal;
// the checked side still has moves to find.
func (gs GameState) Terminal() bool {
	switch gs {
	case StateCheckmateForWhite, StateCheckmateForBlack,
		StateStalemate,
		StateResignedWhite, StateResignedBlack:
		return true
	}
	return false
}

func checkState(c Color) GameState {
	if c == White {
		return StateCheckForWhite
	}
	return StateCheckForBlack
}

func checkmateState(c Color) GameState {
	if c == White {
		return StateCheckmateForWhite
	}
	return StateCheckmateForBlack
}

func resignedState(c Color) GameState {
	if c == White {
		return StateResignedWhite
	}
	return StateResignedBlack
}

// KingInCheck reports whether color's king is attacked on the live board.
func (g *Game) KingInCheck(color Color) bool {
	return g.kingInCheck(color, g.board)
}

// kingInCheck reports whether color's king is attacked on b: some
// pseudo-legal opposing move lands on the king's square. Rather than
// enumerating all destinations it validates only moves aimed at the king,
// which selects exactly the same attacks.
func (g *Game) kingInCheck(color Color, b *Board) bool {
	kingSq, ok := b.KingSquare(color)
	if !ok {
		return false
	}
	attacker := color.Opponent()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := b.Squares[y][x]; p == nil || p.Color != attacker {
				continue
			}
			m := Move{From: Position{X: x, Y: y}, To: kingSq, Color: attacker}
			if g.isValidMove(attacker, m, b) {
				return true
			}
		}
	}
	return false
}

// computeState runs after moved's move has been committed. If the opponent's
// king is now attacked the state becomes check for that side, upgraded to
// checkmate when not a single one of its pseudo-legal moves leaves its king
// safe.
func (g *Game) computeState(moved Color) {
	other := moved.Opponent()
	if !g.kingInCheck(other, g.board) {
		return
	}
	g.state = checkState(other)
	for _, m := range g.pseudoLegalMoves(other, g.board) {
		if g.leavesKingSafe(m, g.board) {
			return
		}
	}
	g.state = checkmateState(other)
}

// ComputeStalemate marks the game drawn when the side to move has no legal
// move while not being in check. Called after every turn advance. States
// that already decided the game, and a standing check against the side to
// move, are left alone.
func (g *Game) ComputeStalemate() {
	if g.state.Terminal() {
		return
	}
	if g.state == checkState(g.turn) {
		return
	}
	if len(g.LegalMoves()) == 0 {
		g.state = StateStalemate
	}
}
