package aggregate

import (
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

var (
	_ world.View     = View{}
	_ game.View      = View{}
	_ territory.View = View{}
	_ ledger.View    = View{}
	_ player.View    = View{}
)

// View is the read-only surface every decider evaluates commands against.
type View struct {
	state State
}

// View returns a read-only view over s.
func (s State) View() View {
	if s.Graph == nil {
		s.Graph = territory.DefaultGraph()
	}
	return View{state: s}
}

func (v View) Graph() *territory.Graph {
	return v.state.Graph
}

func (v View) Ownership() territory.Ownership {
	return v.state.Ownership
}

func (v View) HasRegion(id string) bool {
	return v.state.Graph.HasRegion(id)
}

func (v View) HasPlayer(id string) bool {
	_, ok := v.state.Players[id]
	return ok
}

func (v View) Player(id string) (player.State, bool) {
	p, ok := v.state.Players[id]
	return p, ok
}

// Players returns every joined player sorted by id.
func (v View) Players() []player.State {
	return sortedPlayers(v.state.Players)
}

func (v View) Ledger() ledger.State {
	return v.state.Ledger
}

// RouteEffects returns the bridges and corridors granted by playerID's
// active projects.
func (v View) RouteEffects(playerID string) []territory.Effect {
	return v.state.Players[playerID].RouteEffects()
}

// Reachable is false for players who never joined.
func (v View) Reachable(origin, destination, playerID string) bool {
	if !v.HasPlayer(playerID) {
		return false
	}
	return territory.Reachable(v.state.Graph, v.state.Ownership, v.RouteEffects(playerID), origin, destination, playerID)
}

func (v View) Available(playerID string) ledger.Resources {
	return ledger.Available(v.state.Ledger, v.state.Ownership, playerID)
}

func (v View) ForbidsAttack(attacker, from, defender string) bool {
	return v.state.Treaties.ForbidsAttack(attacker, from, defender)
}

func (v View) Rules() world.Rules {
	return v.state.Game.Rules.Normalize()
}

func (v View) Turn() int {
	return v.state.Game.Turn
}

func (v View) CurrentActor() string {
	return v.state.Game.CurrentActor()
}

func (v View) Silos() escalation.State {
	return v.state.Silos
}

func (v View) Treaties() treaty.Treaties {
	return v.state.Treaties
}

// Game returns the lifecycle state.
func (v View) Game() game.State {
	return v.state.Game
}
