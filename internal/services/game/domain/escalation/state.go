// Package escalation implements the silo lifecycle and the mutual assured
// destruction rule that blocks a launch while a rival is ready too.
package escalation

import (
	"sort"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

// Status is the lifecycle status of a silo.
type Status string

const (
	StatusConstruction Status = "CONSTRUCTION"
	StatusActive       Status = "ACTIVE"
	StatusCooldown     Status = "COOLDOWN"
)

// Silo is the weapons structure of one region.
type Silo struct {
	RegionID       string `json:"region_id"`
	OwnerID        string `json:"owner_id"`
	Status         Status `json:"status"`
	TurnsRemaining int    `json:"turns_remaining"`
	FuelCardID     string `json:"fuel_card_id,omitempty"`
	Armed          bool   `json:"armed"`
}

// State holds every silo keyed by region. A region holds at most one.
type State map[string]Silo

// Clone returns an independent copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for region, silo := range s {
		out[region] = silo
	}
	return out
}

// Of returns the silos owned by playerID, sorted by region.
func (s State) Of(playerID string) []Silo {
	var out []Silo
	for _, silo := range s {
		if silo.OwnerID == playerID {
			out = append(out, silo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegionID < out[j].RegionID })
	return out
}

// Sorted returns every silo sorted by region.
func (s State) Sorted() []Silo {
	out := make([]Silo, 0, len(s))
	for _, silo := range s {
		out = append(out, silo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegionID < out[j].RegionID })
	return out
}

// Qualifying returns the silos of playerID that could fire right now: active,
// armed, in a region the player still owns, with a fuel route that still
// reaches the silo.
func Qualifying(view world.View, silos State, playerID string) []Silo {
	var out []Silo
	ownership := view.Ownership()
	for _, silo := range silos.Of(playerID) {
		if silo.Status != StatusActive || !silo.Armed {
			continue
		}
		if ownership.Owner(silo.RegionID) != playerID {
			continue
		}
		card, ok := view.Ledger().Card(silo.FuelCardID)
		if !ok || !world.RouteValid(view, card, silo.RegionID, playerID) {
			continue
		}
		out = append(out, silo)
	}
	return out
}

// Ready reports whether playerID holds enough qualifying silos.
func Ready(view world.View, silos State, playerID string) bool {
	return len(Qualifying(view, silos, playerID)) >= view.Rules().MinReadySilos
}

// ReadyPlayers returns every ready player, sorted by id.
func ReadyPlayers(view world.View, silos State) []string {
	var out []string
	for _, p := range view.Players() {
		if Ready(view, silos, p.ID) {
			out = append(out, p.ID)
		}
	}
	sort.Strings(out)
	return out
}
