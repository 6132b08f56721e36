package ai

import (
	"github.com/rheo5/Chess/internal/model"
)

const scoreInfinity = 1000000

const defaultDepth = 3

// Minimax searches the game tree to a fixed depth with alpha-beta pruning,
// scoring leaves by material balance from the searcher's point of view.
// Ties at the root resolve to the first best move in generation order, so
// the same position always yields the same move. A Minimax value is not
// safe for concurrent PickMove calls.
type Minimax struct {
	depth int
	color model.Color
	best  model.Move
	found bool
}

func NewMinimax(depth int) *Minimax {
	if depth < 1 {
		depth = defaultDepth
	}
	return &Minimax{depth: depth}
}

func (p *Minimax) Name() string { return LevelMinimax }

func (p *Minimax) PickMove(g *model.Game) (model.Move, bool) {
	p.color = g.CurrentTurn()
	p.found = false
	p.search(g, p.depth, -scoreInfinity, scoreInfinity, true)
	return p.best, p.found
}

// search returns the position's value for the searching side. maximizing
// says whose move it is inside the tree: the searcher's own or the
// opponent's. Depth exhaustion, terminal states and positions without a
// legal move all come back as the static evaluation. At the top ply the
// best-scoring move is recorded for PickMove.
func (p *Minimax) search(g *model.Game, depth, alpha, beta int, maximizing bool) int {
	if depth == 0 || g.CurrentState().Terminal() {
		return g.EvaluateBoard(p.color)
	}
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return g.EvaluateBoard(p.color)
	}

	if maximizing {
		best := -scoreInfinity
		for _, m := range moves {
			score := p.search(expand(g, m), depth-1, alpha, beta, false)
			if score > best {
				best = score
				if depth == p.depth {
					p.best = m
					p.found = true
				}
			}
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := scoreInfinity
	for _, m := range moves {
		score := p.search(expand(g, m), depth-1, alpha, beta, true)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			break
		}
	}
	return best
}

// expand plays the move out on a clone: commit, hand the turn over, settle
// stalemate. Terminal children then stop the recursion at the next ply.
func expand(g *model.Game, m model.Move) *model.Game {
	child := g.Clone()
	child.AttemptMove(m)
	child.AdvanceTurn()
	child.ComputeStalemate()
	return child
}
