package model

// Player identifies a human participant. Seat assignment and connections
// live with the session that hosts the game.
type Player struct {
	ID string
}

// MatchFoundEvent is pushed to a queued player once the matchmaker pairs
// them up.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Color  `json:"color"`
}
