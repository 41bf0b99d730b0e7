// Package game owns the match lifecycle: creation, setup, turn order and the
// global turn boundary that drives every periodic rule.
package game

import (
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

// Status is the lifecycle phase of a game.
type Status string

const (
	StatusNone     Status = ""
	StatusSetup    Status = "SETUP"
	StatusPlaying  Status = "PLAYING"
	StatusFinished Status = "FINISHED"
)

// State is the lifecycle state of one game.
type State struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Status     Status      `json:"status"`
	Rules      world.Rules `json:"rules"`
	TurnOrder  []string    `json:"turn_order,omitempty"`
	ActorIndex int         `json:"actor_index"`
	Turn       int         `json:"turn"`
	WinnerID   string      `json:"winner_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	StartedAt  *time.Time  `json:"started_at,omitempty"`
}

// Created reports whether game.created has been applied.
func (s State) Created() bool {
	return s.Status != StatusNone
}

// CurrentActor returns the player whose turn it is, or "" before start.
func (s State) CurrentActor() string {
	if s.Status != StatusPlaying || len(s.TurnOrder) == 0 {
		return ""
	}
	return s.TurnOrder[s.ActorIndex%len(s.TurnOrder)]
}

// Clone returns an independent copy.
func (s State) Clone() State {
	out := s
	out.TurnOrder = append([]string(nil), s.TurnOrder...)
	if s.StartedAt != nil {
		started := *s.StartedAt
		out.StartedAt = &started
	}
	return out
}
