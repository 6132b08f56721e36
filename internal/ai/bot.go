// Package ai provides computer opponents over the chess core, from uniform
// random play up to a fixed-depth minimax search.
package ai

import (
	"fmt"
	"math/rand"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/rheo5/Chess/internal/model"
)

// MovePicker chooses a move for the side to move. The second return is
// false when the position offers no legal move, which the caller should
// treat as the game being over.
type MovePicker interface {
	Name() string
	PickMove(g *model.Game) (model.Move, bool)
}

// Difficulty names, as exposed to clients and the arena flags.
const (
	LevelRandom   = "random"
	LevelGreedy   = "greedy"
	LevelTactical = "tactical"
	LevelMinimax  = "minimax"
)

var levels = map[string]func(rng *rand.Rand, depth int) MovePicker{
	LevelRandom:   func(rng *rand.Rand, _ int) MovePicker { return NewRandom(rng) },
	LevelGreedy:   func(rng *rand.Rand, _ int) MovePicker { return NewGreedy(rng) },
	LevelTactical: func(rng *rand.Rand, _ int) MovePicker { return NewTactical(rng) },
	LevelMinimax:  func(_ *rand.Rand, depth int) MovePicker { return NewMinimax(depth) },
}

// Levels lists the known difficulty names in a stable order.
func Levels() []string {
	names := maps.Keys(levels)
	sort.Strings(names)
	return names
}

// New builds the picker for a difficulty name. Depth only matters to the
// minimax level; rng must be non-nil for the randomized levels.
func New(level string, depth int, rng *rand.Rand) (MovePicker, error) {
	build, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q", level)
	}
	return build(rng, depth), nil
}

// Random plays a uniformly random legal move.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (p *Random) Name() string { return LevelRandom }

func (p *Random) PickMove(g *model.Game) (model.Move, bool) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return model.Move{}, false
	}
	return moves[p.rng.Intn(len(moves))], true
}

// Greedy plays a random capturing or checking move when one exists, and a
// random move otherwise.
type Greedy struct {
	rng *rand.Rand
}

func NewGreedy(rng *rand.Rand) *Greedy {
	return &Greedy{rng: rng}
}

func (p *Greedy) Name() string { return LevelGreedy }

func (p *Greedy) PickMove(g *model.Game) (model.Move, bool) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return model.Move{}, false
	}
	var tactical []model.Move
	for _, m := range moves {
		if g.IsCapture(m) || g.IsCheck(m) {
			tactical = append(tactical, m)
		}
	}
	if len(tactical) > 0 {
		return tactical[p.rng.Intn(len(tactical))], true
	}
	return moves[p.rng.Intn(len(moves))], true
}

// Tactical buckets the legal moves into checks, captures and safe quiet
// moves, and plays a random move from the strongest non-empty bucket. Each
// move lands in one bucket at most, checks winning over captures.
type Tactical struct {
	rng *rand.Rand
}

func NewTactical(rng *rand.Rand) *Tactical {
	return &Tactical{rng: rng}
}

func (p *Tactical) Name() string { return LevelTactical }

func (p *Tactical) PickMove(g *model.Game) (model.Move, bool) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return model.Move{}, false
	}
	var checks, captures, safe []model.Move
	for _, m := range moves {
		switch {
		case g.IsCheck(m):
			checks = append(checks, m)
		case g.IsCapture(m):
			captures = append(captures, m)
		case g.IsMoveSafe(m):
			safe = append(safe, m)
		}
	}
	for _, bucket := range [][]model.Move{checks, captures, safe} {
		if len(bucket) > 0 {
			return bucket[p.rng.Intn(len(bucket))], true
		}
	}
	return moves[p.rng.Intn(len(moves))], true
}
