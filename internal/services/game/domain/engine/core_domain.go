package engine

import (
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/project"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
)

// CoreDomain bundles the registration hooks every domain package exports.
// Adding a domain means appending it here and wiring its fold in the
// aggregate; the registry validators catch the rest.
type CoreDomain struct {
	name                string
	RegisterCommands    func(*command.Registry) error
	RegisterEvents      func(*event.Registry) error
	EmittableEventTypes func() []event.Type
}

// Name returns a label for error messages.
func (d CoreDomain) Name() string { return d.name }

// CoreDomains returns every domain registration. Projects decide through
// ledger and player events and register no events of their own.
func CoreDomains() []CoreDomain {
	return []CoreDomain{
		{
			name:                "game",
			RegisterCommands:    game.RegisterCommands,
			RegisterEvents:      game.RegisterEvents,
			EmittableEventTypes: game.EmittableEventTypes,
		},
		{
			name:                "player",
			RegisterCommands:    player.RegisterCommands,
			RegisterEvents:      player.RegisterEvents,
			EmittableEventTypes: player.EmittableEventTypes,
		},
		{
			name:                "territory",
			RegisterCommands:    territory.RegisterCommands,
			RegisterEvents:      territory.RegisterEvents,
			EmittableEventTypes: territory.EmittableEventTypes,
		},
		{
			name:                "ledger",
			RegisterCommands:    ledger.RegisterCommands,
			RegisterEvents:      ledger.RegisterEvents,
			EmittableEventTypes: ledger.EmittableEventTypes,
		},
		{
			name:             "project",
			RegisterCommands: project.RegisterCommands,
		},
		{
			name:                "treaty",
			RegisterCommands:    treaty.RegisterCommands,
			RegisterEvents:      treaty.RegisterEvents,
			EmittableEventTypes: treaty.EmittableEventTypes,
		},
		{
			name:                "escalation",
			RegisterCommands:    escalation.RegisterCommands,
			RegisterEvents:      escalation.RegisterEvents,
			EmittableEventTypes: escalation.EmittableEventTypes,
		},
	}
}
