package player

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

const (
	CommandTypeJoin command.Type = "player.join"

	EventTypeJoined          event.Type = "player.joined"
	EventTypeEffectRecorded  event.Type = "player.effect_recorded"
	EventTypeProjectRecorded event.Type = "player.project_recorded"
	EventTypeProjectRevoked  event.Type = "player.project_revoked"

	RejectionCodeAlreadyJoined  = "PLAYER_ALREADY_JOINED"
	RejectionCodeNameRequired   = "PLAYER_NAME_REQUIRED"
	RejectionCodeTargetUnknown  = "PLAYER_SECRET_TARGET_UNKNOWN"
	RejectionCodeColorDuplicate = "PLAYER_COLOR_TAKEN"
)

// View is the read-only world surface player commands decide against.
type View interface {
	Player(id string) (State, bool)
	Players() []State
	HasRegion(id string) bool
}

// Decide returns the decision for a player command.
func Decide(view View, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	if cmd.Type != CommandTypeJoin {
		return command.Reject(command.Rejection{
			Code:    "COMMAND_TYPE_UNSUPPORTED",
			Message: "command type is not supported by player decider",
		})
	}
	var payload JoinPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	normalized := JoinPayload{
		PlayerID:     strings.TrimSpace(payload.PlayerID),
		DisplayName:  strings.TrimSpace(payload.DisplayName),
		Color:        strings.TrimSpace(payload.Color),
		SecretTarget: strings.TrimSpace(payload.SecretTarget),
	}
	if _, exists := view.Player(normalized.PlayerID); exists {
		return command.Reject(command.Rejection{Code: RejectionCodeAlreadyJoined, Message: "player already joined: " + normalized.PlayerID})
	}
	if normalized.DisplayName == "" {
		return command.Reject(command.Rejection{Code: RejectionCodeNameRequired, Message: "display name is required"})
	}
	if normalized.SecretTarget != "" && !view.HasRegion(normalized.SecretTarget) {
		return command.Reject(command.Rejection{Code: RejectionCodeTargetUnknown, Message: "secret target is not a region: " + normalized.SecretTarget})
	}
	if normalized.Color != "" {
		for _, other := range view.Players() {
			if strings.EqualFold(other.Color, normalized.Color) {
				return command.Reject(command.Rejection{Code: RejectionCodeColorDuplicate, Message: "color already taken: " + normalized.Color})
			}
		}
	}
	payloadJSON, _ := json.Marshal(normalized)
	return command.Accept(command.NewEvent(cmd, EventTypeJoined, "player", normalized.PlayerID, payloadJSON, now().UTC()))
}

// NewEffectRecordedEvent builds the event appending an effect record.
func NewEffectRecordedEvent(cmd command.Command, playerID string, effect EffectRecord) event.Event {
	payloadJSON, _ := json.Marshal(EffectRecordedPayload{PlayerID: playerID, Effect: effect})
	return command.NewEvent(cmd, EventTypeEffectRecorded, "player", playerID, payloadJSON, effect.CreatedAt)
}

// NewProjectRecordedEvent builds the event appending a project record.
func NewProjectRecordedEvent(cmd command.Command, playerID string, record ProjectRecord) event.Event {
	payloadJSON, _ := json.Marshal(ProjectRecordedPayload{PlayerID: playerID, Record: record})
	return command.NewEvent(cmd, EventTypeProjectRecorded, "player", playerID, payloadJSON, record.StartedAt)
}

// NewProjectRevokedEvent builds the event invalidating a project record.
func NewProjectRevokedEvent(cmd command.Command, playerID, recordID, regionID string, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(ProjectRevokedPayload{
		PlayerID:  playerID,
		RecordID:  recordID,
		RegionID:  regionID,
		RevokedAt: at,
	})
	return command.NewEvent(cmd, EventTypeProjectRevoked, "player", playerID, payloadJSON, at)
}
