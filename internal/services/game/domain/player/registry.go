package player

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// RegisterCommands registers player commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	return registry.Register(command.Definition{
		Type:            CommandTypeJoin,
		Owner:           command.OwnerPlayer,
		ValidatePayload: validateJoinPayload,
		Phase:           command.PhaseSetup,
	})
}

// EmittableEventTypes returns all event types player decisions can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{EventTypeJoined, EventTypeEffectRecorded, EventTypeProjectRecorded, EventTypeProjectRevoked}
}

// RegisterEvents registers player events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, eventType := range EmittableEventTypes() {
		if err := registry.Register(event.Definition{
			Type:       eventType,
			Owner:      string(command.OwnerPlayer),
			Addressing: event.AddressingPolicyEntityTarget,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateJoinPayload(raw json.RawMessage) error {
	var payload JoinPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.PlayerID) == "" {
		return errors.New("player_id is required")
	}
	return nil
}
