package model

// Position is a board coordinate: X is the column, Y is the row. Row 0 is
// black's home rank, row 7 is white's.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Move is a from/to pair stamped with the moving side. Promotions, castles
// and en passant captures are all expressed through the same pair; the
// executor classifies them from the board at commit time.
type Move struct {
	From  Position `json:"from"`
	To    Position `json:"to"`
	Color Color    `json:"color"`
}

// MoveRequest is the move as a client sends it, over the websocket or REST.
// Promotion is only honored when the move actually promotes.
type MoveRequest struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

func withinBoard(y, x int) bool {
	return y >= 0 && y < 8 && x >= 0 && x < 8
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
