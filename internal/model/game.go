// Package model implements the chess core: board representation, move
// legality, legal-move generation, check/checkmate/stalemate evaluation and
// move execution. A Game is single-threaded by design; callers that share
// one across goroutines serialize access themselves, and the search layer
// works on clones.
package model

// Game holds one game's authoritative state: the board, the side to move,
// the evaluated game state, the move history and the captured pieces.
type Game struct {
	board    *Board
	turn     Color
	state    GameState
	history  []Move
	captured CapturedPieces
}

// CapturedPieces lists, per color, the pieces of that color taken off the
// board.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

func (cp *CapturedPieces) add(p Piece) {
	if p.Color == White {
		cp.White = append(cp.White, p)
	} else {
		cp.Black = append(cp.Black, p)
	}
}

func (cp CapturedPieces) clone() CapturedPieces {
	return CapturedPieces{
		White: append([]Piece(nil), cp.White...),
		Black: append([]Piece(nil), cp.Black...),
	}
}

// NewGame returns a game at the standard starting position, white to move.
func NewGame() *Game {
	return NewGameFromBoard(NewBoard(), White)
}

// NewGameFromBoard returns a game over an arbitrary position. The board is
// adopted, not copied.
func NewGameFromBoard(b *Board, turn Color) *Game {
	return &Game{
		board:    b,
		turn:     turn,
		state:    StateOngoing,
		history:  make([]Move, 0),
		captured: newCapturedPieces(),
	}
}

// StartGame resets the evaluated state and history for a fresh start on the
// current position.
func (g *Game) StartGame() {
	g.state = StateOngoing
	g.history = g.history[:0]
}

// Board returns the live board. Mutating it bypasses the rules; intended
// for position setup and read-only inspection.
func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) CurrentTurn() Color {
	return g.turn
}

func (g *Game) CurrentState() GameState {
	return g.state
}

// History returns a copy of the committed moves, oldest first.
func (g *Game) History() []Move {
	return append([]Move(nil), g.history...)
}

// AdvanceTurn hands the move to the other side. Kept separate from
// AttemptMove so the caller controls the move → advance → stalemate-check
// sequence.
func (g *Game) AdvanceTurn() {
	g.turn = g.turn.Opponent()
}

// Resign ends the game against the given color, whatever else is going on.
func (g *Game) Resign(color Color) {
	g.state = resignedState(color)
}

// AttemptMove validates, classifies and commits the move for the side to
// move, then re-evaluates the opponent's check state. On rejection it
// returns false and the game is untouched. The turn does not advance here.
func (g *Game) AttemptMove(m Move) bool {
	if !g.applyMove(m) {
		return false
	}
	g.computeState(g.turn)
	return true
}

// AttemptPromotionMove is AttemptMove plus a piece substitution on the
// destination square. The substitution only happens when the move really is
// a promotion and the requested type is one a pawn can become; otherwise
// the underlying move is committed as-is.
func (g *Game) AttemptPromotionMove(m Move, promoted PieceType) bool {
	promoting := g.IsPromotionCandidate(m) && isPromotionType(promoted)
	if !g.applyMove(m) {
		return false
	}
	if promoting {
		g.board.ApplyPromotion(m, promoted)
	}
	g.computeState(g.turn)
	return true
}

// applyMove runs the full legality gate, commits the move in its classified
// form, records captures and history, and clears a check the mover just
// escaped. Rejection leaves no trace.
func (g *Game) applyMove(m Move) bool {
	m.Color = g.turn
	if !g.isValidMove(g.turn, m, g.board) {
		return false
	}
	if !g.leavesKingSafe(m, g.board) {
		return false
	}
	piece := g.board.PieceAt(m.From)
	switch {
	case piece.Type == Pawn && abs(m.To.X-m.From.X) == 1 && g.board.PieceAt(m.To) == nil:
		passed := g.board.Squares[m.From.Y][m.To.X]
		g.captured.add(*passed)
		g.board.ApplyEnPassant(m)
	case piece.Type == King && abs(m.To.X-m.From.X) == 2:
		g.board.ApplyCastle(m)
	default:
		if target := g.board.PieceAt(m.To); target != nil {
			g.captured.add(*target)
		}
		g.board.ApplyPlain(m)
	}
	g.history = append(g.history, m)
	if g.state == checkState(g.turn) {
		g.state = StateOngoing
	}
	return true
}

// IsCapture reports whether the move's destination holds a piece right now.
func (g *Game) IsCapture(m Move) bool {
	return g.board.PieceAt(m.To) != nil
}

// IsCheck reports whether committing the move would leave the opponent's
// king attacked. Simulated with a plain relocation on a clone.
func (g *Game) IsCheck(m Move) bool {
	sim := g.board.Clone()
	sim.ApplyPlain(m)
	return g.kingInCheck(m.Color.Opponent(), sim)
}

// IsMoveSafe reports whether the moved piece would stand unattacked on its
// destination after the move.
func (g *Game) IsMoveSafe(m Move) bool {
	sim := g.board.Clone()
	sim.ApplyPlain(m)
	attacker := m.Color.Opponent()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := sim.Squares[y][x]; p == nil || p.Color != attacker {
				continue
			}
			reply := Move{From: Position{X: x, Y: y}, To: m.To, Color: attacker}
			if g.isValidMove(attacker, reply, sim) {
				return false
			}
		}
	}
	return true
}

// IsPromotionCandidate reports whether the move, taken by the side to move,
// would carry a pawn onto the far rank.
func (g *Game) IsPromotionCandidate(m Move) bool {
	if !withinBoard(m.From.Y, m.From.X) || !withinBoard(m.To.Y, m.To.X) {
		return false
	}
	p := g.board.PieceAt(m.From)
	if p == nil || p.Color != g.turn || !shapeAccepts(p, m) {
		return false
	}
	if target := g.board.PieceAt(m.To); target != nil && target.Color == p.Color {
		return false
	}
	return p.Type == Pawn && (m.To.Y == 0 || m.To.Y == 7)
}

// EvaluateBoard scores the position as material-for minus material-against,
// from color's point of view.
func (g *Game) EvaluateBoard(color Color) int {
	score := 0
	for y := range g.board.Squares {
		for _, p := range g.board.Squares[y] {
			if p == nil {
				continue
			}
			if p.Color == color {
				score += pieceValues[p.Type]
			} else {
				score -= pieceValues[p.Type]
			}
		}
	}
	return score
}

// Clone returns an independent copy of the whole game, board and history
// included. The search layer expands positions on clones.
func (g *Game) Clone() *Game {
	return &Game{
		board:    g.board.Clone(),
		turn:     g.turn,
		state:    g.state,
		history:  append([]Move(nil), g.history...),
		captured: g.captured.clone(),
	}
}

// Snapshot is the serializable view of a game handed to clients.
type Snapshot struct {
	Board          *Board         `json:"board"`
	ToMove         Color          `json:"toMove"`
	State          GameState      `json:"state"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	LastMove       *Move          `json:"lastMove"`
}

// Snapshot captures the current position and bookkeeping. Everything in it
// is copied, so marshaling later races with nothing.
func (g *Game) Snapshot() Snapshot {
	var last *Move
	if n := len(g.history); n > 0 {
		mv := g.history[n-1]
		last = &mv
	}
	return Snapshot{
		Board:          g.board.Clone(),
		ToMove:         g.turn,
		State:          g.state,
		MoveHistory:    append([]Move(nil), g.history...),
		CapturedPieces: g.captured.clone(),
		IsCheck:        g.KingInCheck(g.turn),
		LastMove:       last,
	}
}
