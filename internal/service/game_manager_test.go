package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rheo5/Chess/internal/ai"
	"github.com/rheo5/Chess/internal/model"
)

func moveReq(fx, fy, tx, ty int) model.MoveRequest {
	return model.MoveRequest{
		From: model.Position{X: fx, Y: fy},
		To:   model.Position{X: tx, Y: ty},
	}
}

func TestCreateAndJoinGame(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{}))

	color, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	require.Equal(t, model.White, color)

	color, err = gm.AddPlayerToGame("g1", "bob")
	require.NoError(t, err)
	require.Equal(t, model.Black, color)

	_, err = gm.AddPlayerToGame("g1", "carol")
	require.EqualError(t, err, "game is full")

	// Rejoining returns the seat you already hold.
	color, err = gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	require.Equal(t, model.White, color)
}

func TestCreateGameValidation(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{}))
	require.Error(t, gm.CreateGame("g1", CreateGameOptions{}))
	require.Error(t, gm.CreateGame("g2", CreateGameOptions{Opponent: "grandmaster"}))
}

func TestUnknownGameID(t *testing.T) {
	gm := NewGameManager()

	_, err := gm.GetGameView("missing")
	require.ErrorIs(t, err, ErrGameNotFound)

	_, err = gm.AddPlayerToGame("missing", "alice")
	require.ErrorIs(t, err, ErrGameNotFound)

	require.ErrorIs(t, gm.MakeMove("missing", "alice", moveReq(4, 6, 4, 4)), ErrGameNotFound)
	require.ErrorIs(t, gm.Resign("missing", "alice"), ErrGameNotFound)

	_, err = gm.GetLegalMoves("missing")
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestMakeMoveGuards(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{}))
	_, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	_, err = gm.AddPlayerToGame("g1", "bob")
	require.NoError(t, err)

	require.EqualError(t, gm.MakeMove("g1", "carol", moveReq(4, 6, 4, 4)), "player is not seated in this game")
	require.EqualError(t, gm.MakeMove("g1", "bob", moveReq(4, 1, 4, 3)), "not your turn")
	require.EqualError(t, gm.MakeMove("g1", "alice", moveReq(4, 6, 4, 3)), "illegal move")

	// A rejected move must not consume the turn.
	view, err := gm.GetGameView("g1")
	require.NoError(t, err)
	require.Equal(t, model.White, view.ToMove)
	require.Empty(t, view.MoveHistory)
}

func TestMakeMoveAlternatesTurns(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{}))
	_, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	_, err = gm.AddPlayerToGame("g1", "bob")
	require.NoError(t, err)

	require.NoError(t, gm.MakeMove("g1", "alice", moveReq(4, 6, 4, 4)))

	view, err := gm.GetGameView("g1")
	require.NoError(t, err)
	require.Equal(t, model.Black, view.ToMove)
	require.Len(t, view.MoveHistory, 1)
	require.NotNil(t, view.LastMove)
	require.Equal(t, model.Position{X: 4, Y: 4}, view.LastMove.To)

	require.NoError(t, gm.MakeMove("g1", "bob", moveReq(4, 1, 4, 3)))

	view, err = gm.GetGameView("g1")
	require.NoError(t, err)
	require.Equal(t, model.White, view.ToMove)
	require.Len(t, view.MoveHistory, 2)
}

func TestResignEndsTheGame(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{}))
	_, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	_, err = gm.AddPlayerToGame("g1", "bob")
	require.NoError(t, err)

	require.EqualError(t, gm.Resign("g1", "carol"), "player is not seated in this game")
	require.NoError(t, gm.Resign("g1", "alice"))

	view, err := gm.GetGameView("g1")
	require.NoError(t, err)
	require.Equal(t, model.StateResignedWhite, view.State)
	require.True(t, view.State.Terminal())

	require.EqualError(t, gm.MakeMove("g1", "bob", moveReq(4, 1, 4, 3)), "game is over")
	require.EqualError(t, gm.Resign("g1", "bob"), "game is over")
}

func TestBotGame(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{Opponent: ai.LevelRandom}))

	color, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	require.Equal(t, model.White, color)

	view, err := gm.GetGameView("g1")
	require.NoError(t, err)
	require.Equal(t, seatHuman, view.Players.White.Kind)
	require.Equal(t, "alice", view.Players.White.ID)
	require.Equal(t, seatBot, view.Players.Black.Kind)
	require.Equal(t, ai.LevelRandom, view.Players.Black.Level)

	// The second seat belongs to the computer.
	_, err = gm.AddPlayerToGame("g1", "bob")
	require.EqualError(t, err, "game is full")

	require.NoError(t, gm.MakeMove("g1", "alice", moveReq(4, 6, 4, 4)))

	view, err = gm.GetGameView("g1")
	require.NoError(t, err)
	require.Len(t, view.MoveHistory, 2, "the bot should reply in the same call")
	require.Equal(t, model.White, view.ToMove)
}

func TestBotOpensWhenPlayingWhite(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{
		Opponent:   ai.LevelRandom,
		HumanColor: model.Black,
	}))

	color, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	require.Equal(t, model.Black, color)

	view, err := gm.GetGameView("g1")
	require.NoError(t, err)
	require.Equal(t, seatBot, view.Players.White.Kind)
	require.Len(t, view.MoveHistory, 1, "the bot should open on seating")
	require.Equal(t, model.Black, view.ToMove)
}

func TestMinimaxBotPlaysSensibly(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{
		Opponent: ai.LevelMinimax,
		Depth:    1,
	}))
	_, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)

	require.NoError(t, gm.MakeMove("g1", "alice", moveReq(4, 6, 4, 4)))

	view, err := gm.GetGameView("g1")
	require.NoError(t, err)
	require.Len(t, view.MoveHistory, 2)
	require.Equal(t, model.StateOngoing, view.State)
}

func TestOpenSeatsInView(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{}))

	view, err := gm.GetGameView("g1")
	require.NoError(t, err)
	require.Equal(t, seatOpen, view.Players.White.Kind)
	require.Equal(t, seatOpen, view.Players.Black.Kind)
}

func TestLegalMovesCount(t *testing.T) {
	gm := NewGameManager()
	require.NoError(t, gm.CreateGame("g1", CreateGameOptions{}))

	moves, err := gm.GetLegalMoves("g1")
	require.NoError(t, err)
	require.Len(t, moves, 20)
}

func TestMatchmakingPairsPlayers(t *testing.T) {
	gm := NewGameManager()

	ch1 := make(chan model.MatchFoundEvent, 1)
	ch2 := make(chan model.MatchFoundEvent, 1)
	gm.RegisterMatchmakingChannel("p1", ch1)
	gm.RegisterMatchmakingChannel("p2", ch2)

	require.NoError(t, gm.JoinMatchmaking("p1"))
	require.EqualError(t, gm.JoinMatchmaking("p1"), "player already in queue")
	require.NoError(t, gm.JoinMatchmaking("p2"))

	waitFor := func(ch chan model.MatchFoundEvent) model.MatchFoundEvent {
		select {
		case ev := <-ch:
			return ev
		case <-time.After(5 * time.Second):
			t.Fatal("no match event")
			return model.MatchFoundEvent{}
		}
	}
	ev1 := waitFor(ch1)
	ev2 := waitFor(ch2)

	require.Equal(t, ev1.GameID, ev2.GameID)
	require.Equal(t, model.White, ev1.Color)
	require.Equal(t, model.Black, ev2.Color)

	view, err := gm.GetGameView(ev1.GameID)
	require.NoError(t, err)
	require.Equal(t, "p1", view.Players.White.ID)
	require.Equal(t, "p2", view.Players.Black.ID)
}

func TestMatchmakingChannelReplacement(t *testing.T) {
	gm := NewGameManager()

	first := make(chan model.MatchFoundEvent, 1)
	second := make(chan model.MatchFoundEvent, 1)
	gm.RegisterMatchmakingChannel("p1", first)
	gm.RegisterMatchmakingChannel("p1", second)

	// The replaced channel is closed so its poller wakes up empty-handed.
	_, open := <-first
	require.False(t, open)

	gm.UnregisterMatchmakingChannel("p1")
}

func TestGameServiceFacade(t *testing.T) {
	gs := NewGameService(NewGameManager())

	id, err := gs.CreateGame(CreateGameOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = gs.CreateGame(CreateGameOptions{Opponent: "grandmaster"})
	require.ErrorContains(t, err, "failed to create game")

	color, err := gs.JoinGame(id, "alice")
	require.NoError(t, err)
	require.Equal(t, model.White, color)

	require.NoError(t, gs.HandleMove(id, "alice", moveReq(4, 6, 4, 4)))

	view, err := gs.GetGameView(id)
	require.NoError(t, err)
	require.Equal(t, id, view.ID)
	require.Len(t, view.MoveHistory, 1)

	moves, err := gs.GetLegalMoves(id)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
}
