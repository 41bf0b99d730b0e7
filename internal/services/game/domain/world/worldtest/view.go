// Package worldtest provides an in-memory world.View for decider tests.
package worldtest

import (
	"sort"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

// View is a mutable world.View. Zero values fall back to the default graph
// and rules.
type View struct {
	Map        *territory.Graph
	Owners     territory.Ownership
	Cards      ledger.State
	People     map[string]player.State
	GameRules  world.Rules
	TurnNumber int
	Actor      string
	Forbidden  func(attacker, from, defender string) bool
}

// New returns a view over the default world with the given players joined.
func New(playerIDs ...string) *View {
	v := &View{
		Map:        territory.DefaultGraph(),
		Owners:     territory.Ownership{},
		Cards:      ledger.NewState(),
		People:     map[string]player.State{},
		GameRules:  world.DefaultRules(),
		TurnNumber: 1,
	}
	for _, id := range playerIDs {
		v.People[id] = player.State{ID: id, DisplayName: id}
	}
	if len(playerIDs) > 0 {
		v.Actor = playerIDs[0]
	}
	return v
}

// Own assigns regions to playerID.
func (v *View) Own(playerID string, regions ...string) {
	for _, region := range regions {
		v.Owners[region] = playerID
	}
}

// AddCard mints a card bound to origin, or held by holder when set.
func (v *View) AddCard(id, cardType, origin, holder string) {
	class, _ := ledger.ClassOf(cardType)
	v.Cards.Cards[id] = ledger.Card{ID: id, Class: class, Type: cardType, OriginRegion: origin, Holder: holder}
}

// AddToken gives a token to owner.
func (v *View) AddToken(id string, class ledger.TokenClass, origin, owner string) {
	v.Cards.Tokens[id] = ledger.Token{ID: id, Class: class, OriginRegion: origin, Owner: owner}
}

func (v *View) Graph() *territory.Graph {
	return v.Map
}

func (v *View) Ownership() territory.Ownership {
	return v.Owners
}

func (v *View) HasRegion(id string) bool {
	return v.Map.HasRegion(id)
}

func (v *View) HasPlayer(id string) bool {
	_, ok := v.People[id]
	return ok
}

func (v *View) Player(id string) (player.State, bool) {
	p, ok := v.People[id]
	return p, ok
}

func (v *View) Players() []player.State {
	out := make([]player.State, 0, len(v.People))
	for _, p := range v.People {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (v *View) Ledger() ledger.State {
	return v.Cards
}

func (v *View) RouteEffects(playerID string) []territory.Effect {
	return v.People[playerID].RouteEffects()
}

func (v *View) Reachable(origin, destination, playerID string) bool {
	if !v.HasPlayer(playerID) {
		return false
	}
	return territory.Reachable(v.Map, v.Owners, v.RouteEffects(playerID), origin, destination, playerID)
}

func (v *View) Available(playerID string) ledger.Resources {
	return ledger.Available(v.Cards, v.Owners, playerID)
}

func (v *View) ForbidsAttack(attacker, from, defender string) bool {
	if v.Forbidden == nil {
		return false
	}
	return v.Forbidden(attacker, from, defender)
}

func (v *View) Rules() world.Rules {
	return v.GameRules.Normalize()
}

func (v *View) Turn() int {
	return v.TurnNumber
}

func (v *View) CurrentActor() string {
	return v.Actor
}
