// Package world defines the read-only view deciders evaluate commands against
// and the requirement-slot validator shared by strategic projects and silos.
package world

import (
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
)

// Rules are the tunable constants of one game.
type Rules struct {
	ConstructionTurns int `json:"construction_turns"`
	CooldownTurns     int `json:"cooldown_turns"`
	MinReadySilos     int `json:"min_ready_silos"`
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{ConstructionTurns: 3, CooldownTurns: 2, MinReadySilos: 1}
}

// Normalize fills zero values with defaults.
func (r Rules) Normalize() Rules {
	defaults := DefaultRules()
	if r.ConstructionTurns <= 0 {
		r.ConstructionTurns = defaults.ConstructionTurns
	}
	if r.CooldownTurns <= 0 {
		r.CooldownTurns = defaults.CooldownTurns
	}
	if r.MinReadySilos <= 0 {
		r.MinReadySilos = defaults.MinReadySilos
	}
	return r
}

// View is the read-only surface over authoritative game state.
type View interface {
	Graph() *territory.Graph
	Ownership() territory.Ownership
	HasRegion(id string) bool
	HasPlayer(id string) bool
	Player(id string) (player.State, bool)
	Players() []player.State
	Ledger() ledger.State
	RouteEffects(playerID string) []territory.Effect
	Reachable(origin, destination, playerID string) bool
	Available(playerID string) ledger.Resources
	ForbidsAttack(attacker, from, defender string) bool
	Rules() Rules
	Turn() int
	CurrentActor() string
}
