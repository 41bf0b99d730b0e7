package aggregate

import (
	"fmt"
	"sort"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
)

// foldEntry maps a set of event types to the fold that updates one slice of
// aggregate state.
type foldEntry struct {
	types func() []event.Type
	fold  func(state *State, evt event.Event) error
}

// foldEntries returns the dispatch table for every domain.
func foldEntries() []foldEntry {
	return []foldEntry{
		{
			types: game.EmittableEventTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := game.Fold(state.Game, evt)
				if err != nil {
					return err
				}
				state.Game = updated
				return nil
			},
		},
		{
			types: player.EmittableEventTypes,
			fold: func(state *State, evt event.Event) error {
				return foldEntityKeyed(&state.Players, evt, "player", player.Fold)
			},
		},
		{
			types: territory.EmittableEventTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := territory.Fold(state.Ownership, evt)
				if err != nil {
					return err
				}
				state.Ownership = updated
				return nil
			},
		},
		{
			types: ledger.EmittableEventTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := ledger.Fold(state.Ledger, evt)
				if err != nil {
					return err
				}
				state.Ledger = updated
				return nil
			},
		},
		{
			types: treaty.EmittableEventTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := treaty.Fold(state.Treaties, evt)
				if err != nil {
					return err
				}
				state.Treaties = updated
				return nil
			},
		},
		{
			types: escalation.EmittableEventTypes,
			fold: func(state *State, evt event.Event) error {
				updated, err := escalation.Fold(state.Silos, evt)
				if err != nil {
					return err
				}
				state.Silos = updated
				return nil
			},
		},
	}
}

// foldEntityKeyed folds evt into the map entry addressed by its entity id.
func foldEntityKeyed[S any](states *map[string]S, evt event.Event, name string, fold func(S, event.Event) (S, error)) error {
	if evt.EntityID == "" {
		return fmt.Errorf("%s fold requires EntityID but got empty for %s", name, evt.Type)
	}
	if *states == nil {
		*states = make(map[string]S)
	}
	updated, err := fold((*states)[evt.EntityID], evt)
	if err != nil {
		return err
	}
	(*states)[evt.EntityID] = updated
	return nil
}

func sortedPlayers(players map[string]player.State) []player.State {
	out := make([]player.State, 0, len(players))
	for _, p := range players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
