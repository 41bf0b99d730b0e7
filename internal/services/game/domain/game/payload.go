package game

import "github.com/louisbranch/brinkmanship/internal/services/game/domain/world"

// CreatePayload opens a game for setup.
type CreatePayload struct {
	Name  string      `json:"name"`
	Rules world.Rules `json:"rules"`
}

// StartPayload closes setup. An empty order seats players by id.
type StartPayload struct {
	TurnOrder []string `json:"turn_order,omitempty"`
}

// StartedPayload records the seating and first actor.
type StartedPayload struct {
	TurnOrder []string `json:"turn_order"`
	Turn      int      `json:"turn"`
	ActorID   string   `json:"actor_id"`
}

// TurnAdvancedPayload records the hand-off to the next actor. Global is set
// when the order wrapped and a new global turn began.
type TurnAdvancedPayload struct {
	Turn       int    `json:"turn"`
	ActorIndex int    `json:"actor_index"`
	ActorID    string `json:"actor_id"`
	Global     bool   `json:"global"`
}

// WonPayload records the end of the game.
type WonPayload struct {
	WinnerID string `json:"winner_id"`
}
