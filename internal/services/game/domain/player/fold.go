package player

import (
	"encoding/json"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// Fold applies a player event to one player's state.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case EventTypeJoined:
		var payload JoinPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.ID = payload.PlayerID
		state.DisplayName = payload.DisplayName
		state.Color = payload.Color
		state.SecretTarget = payload.SecretTarget
	case EventTypeEffectRecorded:
		var payload EffectRecordedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		for _, existing := range state.Effects {
			if existing.ID == payload.Effect.ID {
				return state, apperrors.Invariant("effect recorded twice", map[string]string{"id": existing.ID})
			}
		}
		state.Effects = append(state.Effects, payload.Effect)
	case EventTypeProjectRecorded:
		var payload ProjectRecordedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := state.Project(payload.Record.ID); exists {
			return state, apperrors.Invariant("project recorded twice", map[string]string{"id": payload.Record.ID})
		}
		if _, active := state.ActiveProject(payload.Record.ProjectID); active {
			return state, apperrors.Invariant("project already active", map[string]string{"project_id": payload.Record.ProjectID})
		}
		state.Projects = append(state.Projects, payload.Record)
	case EventTypeProjectRevoked:
		var payload ProjectRevokedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		for i, record := range state.Projects {
			if record.ID != payload.RecordID {
				continue
			}
			if !record.Active() {
				return state, apperrors.Invariant("project revoked twice", map[string]string{"id": record.ID})
			}
			revokedAt := payload.RevokedAt
			state.Projects[i].RevokedAt = &revokedAt
			return state, nil
		}
		return state, apperrors.Invariant("revoked project does not exist", map[string]string{"id": payload.RecordID})
	}
	return state, nil
}
