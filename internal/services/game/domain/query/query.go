// Package query answers read-only questions about a game for hosts and
// scenario assertions.
package query

import (
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/project"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

// View is the state queries read.
type View interface {
	world.View
	Silos() escalation.State
	Treaties() treaty.Treaties
}

// Reachable reports whether a resource at origin can supply destination for
// playerID over owned territory and active bonus links.
func Reachable(view View, origin, destination, playerID string) bool {
	return view.Reachable(origin, destination, playerID)
}

// AvailableResources lists the cards playerID can use this turn, spent or
// not, split by class.
func AvailableResources(view View, playerID string) ledger.Resources {
	return view.Available(playerID)
}

// Tokens lists the supply tokens playerID holds.
func Tokens(view View, playerID string) []ledger.Token {
	return view.Ledger().TokensOf(playerID)
}

// EligibleRegions returns the base regions where playerID could activate
// projectID right now. An unknown project has none.
func EligibleRegions(view View, playerID, projectID string) []string {
	descriptor, ok := project.Lookup(projectID)
	if !ok {
		return nil
	}
	return project.EligibleRegions(view, playerID, descriptor)
}

// Projects returns the catalog of strategic projects.
func Projects() []project.Descriptor {
	return project.Catalog()
}

// SilosOf returns playerID's silos sorted by region.
func SilosOf(view View, playerID string) []escalation.Silo {
	return view.Silos().Of(playerID)
}

// ReadyPlayers returns every player currently able to launch.
func ReadyPlayers(view View) []string {
	return escalation.ReadyPlayers(view, view.Silos())
}

// TreatiesInvolving returns the treaties where playerID is a party.
func TreatiesInvolving(view View, playerID string) []treaty.State {
	return view.Treaties().Involving(playerID)
}

// CurrentActor returns the player whose turn it is.
func CurrentActor(view View) string {
	return view.CurrentActor()
}

// ForbidsAttack reports whether an active non-aggression clause stops
// attacker from striking defender out of region from.
func ForbidsAttack(view View, attacker, from, defender string) bool {
	return view.ForbidsAttack(attacker, from, defender)
}
