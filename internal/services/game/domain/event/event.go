package event

import (
	"encoding/json"
	"time"
)

// Type identifies the event type string.
type Type string

// ActorType identifies the actor who caused the event.
type ActorType string

const (
	// ActorTypeSystem indicates a system-originated event.
	ActorTypeSystem ActorType = "system"
	// ActorTypePlayer indicates a player-originated event.
	ActorTypePlayer ActorType = "player"
)

// Event is the canonical journal record.
type Event struct {
	GameID      string          `json:"game_id"`
	Seq         uint64          `json:"seq"`
	Hash        string          `json:"hash,omitempty"`
	PrevHash    string          `json:"prev_hash,omitempty"`
	ChainHash   string          `json:"chain_hash,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Type        Type            `json:"type"`
	ActorType   ActorType       `json:"actor_type"`
	ActorID     string          `json:"actor_id,omitempty"`
	EntityType  string          `json:"entity_type,omitempty"`
	EntityID    string          `json:"entity_id,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
	PayloadJSON json.RawMessage `json:"payload"`
}
