package service

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/rheo5/Chess/internal/ai"
	"github.com/rheo5/Chess/internal/model"
)

// ErrGameNotFound is returned for any game ID the manager does not know.
var ErrGameNotFound = errors.New("game not found")

// CreateGameOptions selects the opponent for a new game. An empty Opponent
// leaves the second seat open for another human; otherwise it names a
// difficulty level and Depth tunes the minimax one. HumanColor is the side
// the creating player wants.
type CreateGameOptions struct {
	Opponent   string
	Depth      int
	HumanColor model.Color
}

// GameManager owns every live session, the matchmaking queue and the
// channels waiting on match events.
type GameManager struct {
	mu               sync.RWMutex
	games            map[string]*session
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
}

func NewGameManager() *GameManager {
	gm := &GameManager{
		games:            make(map[string]*session),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
	}

	go gm.processMatchmaking()

	return gm
}

func (gm *GameManager) CreateGame(gameID string, opts CreateGameOptions) error {
	var bot ai.MovePicker
	botColor := model.Black
	if opts.Opponent != "" {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		picker, err := ai.New(opts.Opponent, opts.Depth, rng)
		if err != nil {
			return err
		}
		bot = picker
		if opts.HumanColor == model.Black {
			botColor = model.White
		}
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return errors.New("game already exists")
	}
	gm.games[gameID] = newSession(gameID, bot, botColor)
	return nil
}

func (gm *GameManager) getSession(gameID string) (*session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return s, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	s, err := gm.getSession(gameID)
	if err != nil {
		return "", err
	}
	return s.AddPlayer(playerID)
}

func (gm *GameManager) GetGameView(gameID string) (GameView, error) {
	s, err := gm.getSession(gameID)
	if err != nil {
		return GameView{}, err
	}
	return s.View(), nil
}

func (gm *GameManager) GetLegalMoves(gameID string) ([]model.Move, error) {
	s, err := gm.getSession(gameID)
	if err != nil {
		return nil, err
	}
	return s.LegalMoves(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, req model.MoveRequest) error {
	s, err := gm.getSession(gameID)
	if err != nil {
		return err
	}
	return s.MakeMove(playerID, req)
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	s, err := gm.getSession(gameID)
	if err != nil {
		return err
	}
	return s.Resign(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	s, err := gm.getSession(gameID)
	if err != nil {
		return err
	}
	s.RegisterConnection(playerID, conn)
	return nil
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	s, err := gm.getSession(gameID)
	if err != nil {
		return
	}
	s.UnregisterConnection(playerID)
}

func (gm *GameManager) NotifyError(gameID string, playerID string, message string) {
	s, err := gm.getSession(gameID)
	if err != nil {
		return
	}
	s.NotifyError(playerID, message)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// RegisterMatchmakingChannel installs the channel a queued player waits on.
// A previous channel for the same player is closed and replaced, so a
// reconnecting poller never strands the matchmaker.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel drops the channel without closing it; the
// poller that created it may still be reading.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.matchingChannels, playerID)
}

// processMatchmaking pairs the two longest-waiting players once a second,
// creates their game and pushes a MatchFoundEvent to each one's channel.
func (gm *GameManager) processMatchmaking() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		first, second, ok := gm.queue.GetNextPair()
		if !ok {
			continue
		}

		gameID := uuid.New().String()
		if err := gm.CreateGame(gameID, CreateGameOptions{}); err != nil {
			log.Printf("matchmaking: create game: %v", err)
			continue
		}
		firstColor, err := gm.AddPlayerToGame(gameID, first.ID)
		if err != nil {
			log.Printf("matchmaking: seat %s: %v", first.ID, err)
			continue
		}
		secondColor, err := gm.AddPlayerToGame(gameID, second.ID)
		if err != nil {
			log.Printf("matchmaking: seat %s: %v", second.ID, err)
			continue
		}

		gm.notifyMatch(first.ID, model.MatchFoundEvent{GameID: gameID, Color: firstColor})
		gm.notifyMatch(second.ID, model.MatchFoundEvent{GameID: gameID, Color: secondColor})
	}
}

// notifyMatch delivers the event to the player's waiting channel and closes
// it. Delivery is best-effort; a player no longer polling misses the event
// and finds the game by rejoining.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	gm.mu.Lock()
	ch, ok := gm.matchingChannels[playerID]
	if ok {
		delete(gm.matchingChannels, playerID)
	}
	gm.mu.Unlock()

	if !ok {
		log.Printf("matchmaking: no event channel for player %s", playerID)
		return
	}
	select {
	case ch <- event:
	default:
		log.Printf("matchmaking: event channel for player %s is full", playerID)
	}
	close(ch)
}
