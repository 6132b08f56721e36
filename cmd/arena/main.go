// Command arena plays computer difficulties against each other and reports
// the score. Games run concurrently; each one is seeded deterministically
// from the base seed and its index, so a run can be reproduced.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rheo5/Chess/internal/ai"
	"github.com/rheo5/Chess/internal/model"
)

type matchConfig struct {
	white       string
	black       string
	depth       int
	games       int
	concurrency int
	seed        int64
	maxPlies    int
}

type gameResult struct {
	index      int
	state      model.GameState
	winner     string
	plies      int
	whiteThink time.Duration
	blackThink time.Duration
}

func main() {
	var cfg matchConfig
	flag.StringVar(&cfg.white, "white", ai.LevelMinimax, "difficulty playing white")
	flag.StringVar(&cfg.black, "black", ai.LevelTactical, "difficulty playing black")
	flag.IntVar(&cfg.depth, "depth", 2, "minimax search depth")
	flag.IntVar(&cfg.games, "games", 10, "number of games to play")
	flag.IntVar(&cfg.concurrency, "concurrency", 2, "games played in parallel")
	flag.Int64Var(&cfg.seed, "seed", 1, "base random seed")
	flag.IntVar(&cfg.maxPlies, "maxplies", 300, "adjudicate a draw after this many plies")
	flag.Parse()

	if err := run(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg matchConfig) error {
	for _, level := range []string{cfg.white, cfg.black} {
		if _, err := ai.New(level, cfg.depth, rand.New(rand.NewSource(cfg.seed))); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	games := make(chan int)
	results := make(chan gameResult)

	g.Go(func() error {
		defer close(games)
		for i := 0; i < cfg.games; i++ {
			select {
			case games <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for w := 0; w < cfg.concurrency; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for index := range games {
				res, err := playGame(cfg, index)
				if err != nil {
					return err
				}
				select {
				case results <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})
	g.Go(func() error {
		return showResults(cfg, results)
	})

	return g.Wait()
}

// playGame runs one full game between the configured difficulties,
// promoting every far-rank pawn to a queen, and times each side's thinking.
func playGame(cfg matchConfig, index int) (gameResult, error) {
	rng := rand.New(rand.NewSource(cfg.seed + int64(index)))
	whitePicker, err := ai.New(cfg.white, cfg.depth, rng)
	if err != nil {
		return gameResult{}, err
	}
	blackPicker, err := ai.New(cfg.black, cfg.depth, rng)
	if err != nil {
		return gameResult{}, err
	}
	pickers := map[model.Color]ai.MovePicker{
		model.White: whitePicker,
		model.Black: blackPicker,
	}
	watches := map[model.Color]*stopwatch{
		model.White: {},
		model.Black: {},
	}

	game := model.NewGame()
	plies := 0
	for plies < cfg.maxPlies && !game.CurrentState().Terminal() {
		color := game.CurrentTurn()
		watch := watches[color]
		watch.Start()
		mv, ok := pickers[color].PickMove(game)
		watch.Stop()
		if !ok {
			break
		}

		committed := false
		if game.IsPromotionCandidate(mv) {
			committed = game.AttemptPromotionMove(mv, model.Queen)
		} else {
			committed = game.AttemptMove(mv)
		}
		if !committed {
			return gameResult{}, fmt.Errorf("game %d: %s move %+v rejected", index+1, color, mv)
		}
		game.AdvanceTurn()
		game.ComputeStalemate()
		plies++
	}

	return gameResult{
		index:      index,
		state:      game.CurrentState(),
		winner:     winnerOf(game.CurrentState()),
		plies:      plies,
		whiteThink: watches[model.White].Elapsed(),
		blackThink: watches[model.Black].Elapsed(),
	}, nil
}

func winnerOf(state model.GameState) string {
	switch state {
	case model.StateCheckmateForWhite, model.StateResignedWhite:
		return "black"
	case model.StateCheckmateForBlack, model.StateResignedBlack:
		return "white"
	}
	return "draw"
}

func showResults(cfg matchConfig, results <-chan gameResult) error {
	var whiteWins, blackWins, draws int
	var whiteThink, blackThink time.Duration

	for res := range results {
		switch res.winner {
		case "white":
			whiteWins++
		case "black":
			blackWins++
		default:
			draws++
		}
		whiteThink += res.whiteThink
		blackThink += res.blackThink
		log.Printf("game %d: %s in %d plies (white %v, black %v)",
			res.index+1, res.state, res.plies,
			res.whiteThink.Round(time.Millisecond), res.blackThink.Round(time.Millisecond))
	}

	log.Printf("%s (white) %d - %d %s (black), %d drawn",
		cfg.white, whiteWins, blackWins, cfg.black, draws)
	log.Printf("total think time: white %v, black %v",
		whiteThink.Round(time.Millisecond), blackThink.Round(time.Millisecond))
	return nil
}
