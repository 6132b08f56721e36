package ws

import (
	"encoding/json"
)

// MessageType discriminates the websocket messages exchanged with clients.
// Clients send move and resign; the server sends gameState and error.
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeResign    MessageType = "resign"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope for every websocket frame. The payload is decoded
// according to Type: a move request, a game view, or an error.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload carries a human-readable rejection back to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}
