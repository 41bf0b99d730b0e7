package engine

import (
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/project"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
)

func routable(owner command.Owner) bool {
	switch owner {
	case command.OwnerGame, command.OwnerPlayer, command.OwnerTerritory, command.OwnerLedger,
		command.OwnerProject, command.OwnerTreaty, command.OwnerEscalation:
		return true
	}
	return false
}

// decide routes cmd to the decider of its owning domain.
func decide(state aggregate.State, owner command.Owner, cmd command.Command, now func() time.Time) command.Decision {
	view := state.View()
	switch owner {
	case command.OwnerGame:
		return game.Decide(view, state.Game, cmd, now)
	case command.OwnerPlayer:
		return player.Decide(view, cmd, now)
	case command.OwnerTerritory:
		return territory.Decide(view, cmd, now)
	case command.OwnerLedger:
		return ledger.Decide(view, cmd, now)
	case command.OwnerProject:
		return project.Decide(view, cmd, now)
	case command.OwnerTreaty:
		return treaty.Decide(view, state.Treaties, cmd, now)
	case command.OwnerEscalation:
		return escalation.Decide(view, state.Silos, cmd, now)
	}
	return command.Reject(command.Rejection{
		Code:    "COMMAND_TYPE_UNSUPPORTED",
		Message: "no decider owns " + string(cmd.Type),
	})
}
