package game

import (
	"encoding/json"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// Fold applies a lifecycle event.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case EventTypeCreated:
		if state.Created() {
			return state, apperrors.Invariant("game created twice", map[string]string{"game_id": evt.GameID})
		}
		var payload CreatePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.ID = evt.GameID
		state.Name = payload.Name
		state.Rules = payload.Rules.Normalize()
		state.Status = StatusSetup
		state.CreatedAt = evt.Timestamp
	case EventTypeStarted:
		if state.Status != StatusSetup {
			return state, apperrors.Invariant("game started outside setup", map[string]string{"game_id": evt.GameID})
		}
		var payload StartedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		started := evt.Timestamp
		state.Status = StatusPlaying
		state.TurnOrder = append([]string(nil), payload.TurnOrder...)
		state.ActorIndex = 0
		state.Turn = payload.Turn
		state.StartedAt = &started
	case EventTypeTurnAdvanced:
		var payload TurnAdvancedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if state.Status != StatusPlaying || payload.ActorIndex < 0 || payload.ActorIndex >= len(state.TurnOrder) {
			return state, apperrors.Invariant("turn advanced outside play", map[string]string{"game_id": evt.GameID})
		}
		state.ActorIndex = payload.ActorIndex
		state.Turn = payload.Turn
	case EventTypeWon:
		var payload WonPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if state.Status == StatusFinished {
			return state, apperrors.Invariant("game won twice", map[string]string{"game_id": evt.GameID})
		}
		state.Status = StatusFinished
		state.WinnerID = payload.WinnerID
	}
	return state, nil
}
