package aggregate

import (
	"fmt"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
)

// State captures the authoritative state of one game. The graph is static
// map data and is never snapshotted.
type State struct {
	Game      game.State              `json:"game"`
	Graph     *territory.Graph        `json:"-"`
	Ownership territory.Ownership     `json:"ownership"`
	Players   map[string]player.State `json:"players"`
	Ledger    ledger.State            `json:"ledger"`
	Treaties  treaty.Treaties         `json:"treaties"`
	Silos     escalation.State        `json:"silos"`
}

// NewState returns an empty state over graph, or the default world when
// graph is nil.
func NewState(graph *territory.Graph) State {
	if graph == nil {
		graph = territory.DefaultGraph()
	}
	return State{
		Graph:     graph,
		Ownership: territory.Ownership{},
		Players:   map[string]player.State{},
		Ledger:    ledger.NewState(),
		Treaties:  treaty.Treaties{},
		Silos:     escalation.State{},
	}
}

// Clone returns a deep copy. The graph is shared.
func (s State) Clone() State {
	out := State{
		Game:      s.Game.Clone(),
		Graph:     s.Graph,
		Ownership: make(territory.Ownership, len(s.Ownership)),
		Players:   make(map[string]player.State, len(s.Players)),
		Ledger:    s.Ledger.Clone(),
		Treaties:  s.Treaties.Clone(),
		Silos:     s.Silos.Clone(),
	}
	for region, owner := range s.Ownership {
		out.Ownership[region] = owner
	}
	for id, p := range s.Players {
		out.Players[id] = p.Clone()
	}
	if out.Graph == nil {
		out.Graph = territory.DefaultGraph()
	}
	return out
}

func (s State) ensure() State {
	if s.Graph == nil {
		s.Graph = territory.DefaultGraph()
	}
	if s.Ownership == nil {
		s.Ownership = territory.Ownership{}
	}
	if s.Players == nil {
		s.Players = map[string]player.State{}
	}
	if s.Ledger.Cards == nil || s.Ledger.Tokens == nil {
		s.Ledger = s.Ledger.Clone()
	}
	if s.Treaties == nil {
		s.Treaties = treaty.Treaties{}
	}
	if s.Silos == nil {
		s.Silos = escalation.State{}
	}
	return s
}

// AssertState coerces a value or pointer into T. A nil value yields the zero
// state.
func AssertState[T any](state any) (T, error) {
	var zero T
	switch typed := state.(type) {
	case nil:
		return zero, nil
	case T:
		return typed, nil
	case *T:
		if typed == nil {
			return zero, nil
		}
		return *typed, nil
	default:
		return zero, fmt.Errorf("expected %T, got %T", zero, state)
	}
}
