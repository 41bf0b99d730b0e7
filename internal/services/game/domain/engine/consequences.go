package engine

import (
	"encoding/json"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/project"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
)

// consequences returns the events that follow from a decision under rules
// spanning more than one domain: silos and RevokeOnLoss projects fall with
// their regions, and an unopposed launch ends the game.
func consequences(state aggregate.State, cmd command.Command, events []event.Event, at time.Time) []event.Event {
	var out []event.Event
	if changes := territory.Changes(events); len(changes) > 0 {
		out = append(out, escalation.Destructions(state.Silos, cmd, changes, at)...)
		out = append(out, project.Revocations(state.View(), cmd, changes, at)...)
	}
	if state.Game.Status == game.StatusFinished {
		return out
	}
	for _, evt := range events {
		if evt.Type != escalation.EventTypeLaunched {
			continue
		}
		var payload escalation.LaunchedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		out = append(out, game.NewWonEvent(cmd, payload.PlayerID, at))
		break
	}
	return out
}
