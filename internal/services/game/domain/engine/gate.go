package engine

import (
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
)

// DecisionGate enforces lifecycle and turn policy before deciders run.
type DecisionGate struct {
	// TurnGate rejects turn-bound player commands from anyone but the
	// current actor. Hosts that sequence turns themselves leave it off.
	TurnGate bool
}

// Check returns a rejection when the game phase or turn order blocks cmd.
func (g DecisionGate) Check(state game.State, definition command.Definition, cmd command.Command) command.Decision {
	if rejection := game.CheckPhase(state, cmd.Type, definition.Phase); rejection != nil {
		return command.Reject(*rejection)
	}
	if rejection := game.CheckActor(cmd, definition); rejection != nil {
		return command.Reject(*rejection)
	}
	if !g.TurnGate {
		return command.Decision{}
	}
	if rejection := game.CheckTurn(state, cmd, definition.Gate); rejection != nil {
		return command.Reject(*rejection)
	}
	return command.Decision{}
}
