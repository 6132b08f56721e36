package service

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/rheo5/Chess/internal/ai"
	"github.com/rheo5/Chess/internal/model"
	"github.com/rheo5/Chess/internal/ws"
)

// GameView is the wire representation of a hosted game: the core snapshot
// plus seating.
type GameView struct {
	ID string `json:"id"`
	model.Snapshot
	Players PlayersView `json:"players"`
}

type PlayersView struct {
	White SeatView `json:"white"`
	Black SeatView `json:"black"`
}

// SeatView describes one side: a seated human, a bot with its difficulty,
// or an open seat waiting for a player.
type SeatView struct {
	Kind  string `json:"kind"`
	ID    string `json:"id,omitempty"`
	Level string `json:"level,omitempty"`
}

const (
	seatHuman = "human"
	seatBot   = "bot"
	seatOpen  = "open"
)

// session hosts a single game: the core state, who sits where, an optional
// computer opponent and the websocket connections watching it. All game
// mutations go through the session mutex, which keeps the single-threaded
// core honest.
type session struct {
	id       string
	mu       sync.Mutex
	game     *model.Game
	seats    map[model.Color]string
	bot      ai.MovePicker
	botColor model.Color
	conns    *gameConnections
}

func newSession(id string, bot ai.MovePicker, botColor model.Color) *session {
	return &session{
		id:       id,
		game:     model.NewGame(),
		seats:    make(map[model.Color]string),
		bot:      bot,
		botColor: botColor,
		conns:    newGameConnections(),
	}
}

// AddPlayer seats the player on the first open side, white first. Joining a
// game you already sit in returns your existing seat. When the seat
// arrangement puts the computer on white, its opening move is played here.
func (s *session) AddPlayer(playerID string) (model.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if color, ok := s.seatOf(playerID); ok {
		return color, nil
	}
	for _, color := range []model.Color{model.White, model.Black} {
		if s.bot != nil && color == s.botColor {
			continue
		}
		if _, taken := s.seats[color]; !taken {
			s.seats[color] = playerID
			s.driveBot()
			s.broadcastState()
			return color, nil
		}
	}
	return "", errors.New("game is full")
}

func (s *session) seatOf(playerID string) (model.Color, bool) {
	for color, id := range s.seats {
		if id == playerID {
			return color, true
		}
	}
	return "", false
}

// MakeMove commits the player's move and, in a bot game, the computer's
// reply, then pushes the new state to every connection.
func (s *session) MakeMove(playerID string, req model.MoveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.seatOf(playerID)
	if !ok {
		return errors.New("player is not seated in this game")
	}
	if s.game.CurrentState().Terminal() {
		return errors.New("game is over")
	}
	if s.game.CurrentTurn() != color {
		return errors.New("not your turn")
	}

	mv := model.Move{From: req.From, To: req.To, Color: color}
	var committed bool
	if req.Promotion != "" {
		committed = s.game.AttemptPromotionMove(mv, req.Promotion)
	} else {
		committed = s.game.AttemptMove(mv)
	}
	if !committed {
		return errors.New("illegal move")
	}
	s.game.AdvanceTurn()
	s.game.ComputeStalemate()

	s.driveBot()
	s.broadcastState()
	return nil
}

// driveBot plays the computer's move when it is on turn. Bot pawns reaching
// the far rank always become queens.
func (s *session) driveBot() {
	if s.bot == nil || s.game.CurrentState().Terminal() || s.game.CurrentTurn() != s.botColor {
		return
	}
	mv, ok := s.bot.PickMove(s.game)
	if !ok {
		return
	}
	var committed bool
	if s.game.IsPromotionCandidate(mv) {
		committed = s.game.AttemptPromotionMove(mv, model.Queen)
	} else {
		committed = s.game.AttemptMove(mv)
	}
	if !committed {
		log.Printf("game %s: %s picked a rejected move %+v", s.id, s.bot.Name(), mv)
		return
	}
	s.game.AdvanceTurn()
	s.game.ComputeStalemate()
}

// Resign ends the game against the resigning player's side.
func (s *session) Resign(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.seatOf(playerID)
	if !ok {
		return errors.New("player is not seated in this game")
	}
	if s.game.CurrentState().Terminal() {
		return errors.New("game is over")
	}
	s.game.Resign(color)
	s.broadcastState()
	return nil
}

// LegalMoves returns the side to move's legal moves.
func (s *session) LegalMoves() []model.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.LegalMoves()
}

// View returns the serializable state of the session.
func (s *session) View() GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// view builds the GameView; callers hold s.mu.
func (s *session) view() GameView {
	v := GameView{ID: s.id, Snapshot: s.game.Snapshot()}
	v.Players.White = s.seatView(model.White)
	v.Players.Black = s.seatView(model.Black)
	return v
}

func (s *session) seatView(color model.Color) SeatView {
	if s.bot != nil && color == s.botColor {
		return SeatView{Kind: seatBot, Level: s.bot.Name()}
	}
	if id, ok := s.seats[color]; ok {
		return SeatView{Kind: seatHuman, ID: id}
	}
	return SeatView{Kind: seatOpen}
}

// RegisterConnection attaches a websocket and sends the newcomer the
// current state right away.
func (s *session) RegisterConnection(playerID string, conn *websocket.Conn) {
	s.conns.register(playerID, conn)

	s.mu.Lock()
	view := s.view()
	s.mu.Unlock()

	payload, err := json.Marshal(view)
	if err != nil {
		log.Printf("game %s: marshal view: %v", s.id, err)
		return
	}
	s.conns.send(playerID, ws.Message{Type: ws.MessageTypeGameState, Payload: payload})
}

func (s *session) UnregisterConnection(playerID string) {
	s.conns.unregister(playerID)
}

// NotifyError tells one player their last action was rejected. Routed
// through the connection registry so it never interleaves with a broadcast
// on the same socket.
func (s *session) NotifyError(playerID string, message string) {
	payload, err := json.Marshal(ws.ErrorPayload{Message: message})
	if err != nil {
		return
	}
	s.conns.send(playerID, ws.Message{Type: ws.MessageTypeError, Payload: payload})
}

// broadcastState pushes the current view to every connection. Callers hold
// s.mu; the payload is fully built before the writes fan out, so slow
// sockets never hold up the game mutex.
func (s *session) broadcastState() {
	payload, err := json.Marshal(s.view())
	if err != nil {
		log.Printf("game %s: marshal view: %v", s.id, err)
		return
	}
	go s.conns.broadcast(ws.Message{Type: ws.MessageTypeGameState, Payload: payload})
}

// gameConnections tracks the websocket connections of a single game. Its
// mutex covers the writes too: a websocket connection cannot take two
// writers at once.
type gameConnections struct {
	mu          sync.Mutex
	connections map[string]*websocket.Conn
}

func newGameConnections() *gameConnections {
	return &gameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func (gc *gameConnections) register(playerID string, conn *websocket.Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.connections[playerID] = conn
}

func (gc *gameConnections) unregister(playerID string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	delete(gc.connections, playerID)
}

func (gc *gameConnections) send(playerID string, msg ws.Message) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	conn, ok := gc.connections[playerID]
	if !ok {
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("send to %s: %v", playerID, err)
	}
}

func (gc *gameConnections) broadcast(msg ws.Message) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	for playerID, conn := range gc.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("broadcast to %s: %v", playerID, err)
		}
	}
}
