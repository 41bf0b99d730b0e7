package aggregate

import (
	"fmt"
	"sync"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// Folder folds events into aggregate state.
//
// Each event type updates exactly one slice of state and is replayed the same
// way during command handling and historical reconstruction.
type Folder struct {
	// Events, when set, rejects event types no domain registered.
	Events *event.Registry

	foldOnce  sync.Once
	foldIndex map[event.Type]func(*State, event.Event) error
}

func (a *Folder) initFoldIndex() {
	a.foldOnce.Do(func() {
		a.foldIndex = make(map[event.Type]func(*State, event.Event) error)
		for _, entry := range foldEntries() {
			for _, t := range entry.types() {
				a.foldIndex[t] = entry.fold
			}
		}
	})
}

// FoldDispatchedTypes returns every event type wired into the fold index.
func (a *Folder) FoldDispatchedTypes() []event.Type {
	a.initFoldIndex()
	types := make([]event.Type, 0, len(a.foldIndex))
	for t := range a.foldIndex {
		types = append(types, t)
	}
	return types
}

// Fold applies a single event to aggregate state held as a value or pointer.
func (a *Folder) Fold(state any, evt event.Event) (any, error) {
	current, err := AssertState[State](state)
	if err != nil {
		return State{}, err
	}
	return a.Apply(current, evt)
}

// Apply folds events in order. State is mutated in place through its maps,
// so callers that need the previous state must Clone first.
func (a *Folder) Apply(state State, events ...event.Event) (State, error) {
	a.initFoldIndex()
	state = state.ensure()
	for _, evt := range events {
		if a.Events != nil {
			if _, ok := a.Events.Definition(evt.Type); !ok {
				return state, fmt.Errorf("%w: %s", event.ErrTypeUnknown, evt.Type)
			}
		}
		fn, ok := a.foldIndex[evt.Type]
		if !ok {
			continue
		}
		if err := fn(&state, evt); err != nil {
			return state, err
		}
	}
	return state, nil
}
