package territory

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// RegisterCommands registers territory commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	if err := registry.Register(command.Definition{
		Type:            CommandTypeClaim,
		Owner:           command.OwnerTerritory,
		ValidatePayload: validateClaimPayload,
		Phase:           command.PhaseSetup,
	}); err != nil {
		return err
	}
	return registry.Register(command.Definition{
		Type:            CommandTypeConquer,
		Owner:           command.OwnerTerritory,
		ValidatePayload: validateConquerPayload,
		Gate:            command.GateTurn,
		Phase:           command.PhasePlay,
	})
}

// EmittableEventTypes returns all event types territory decisions can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{EventTypeRegionClaimed, EventTypeRegionConquered, EventTypeRegionCeded}
}

// RegisterEvents registers territory events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, eventType := range EmittableEventTypes() {
		if err := registry.Register(event.Definition{
			Type:       eventType,
			Owner:      string(command.OwnerTerritory),
			Addressing: event.AddressingPolicyEntityTarget,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateClaimPayload(raw json.RawMessage) error {
	var payload ClaimPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.RegionID) == "" {
		return errors.New("region_id is required")
	}
	if strings.TrimSpace(payload.PlayerID) == "" {
		return errors.New("player_id is required")
	}
	return nil
}

func validateConquerPayload(raw json.RawMessage) error {
	var payload ConquerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.FromRegion) == "" {
		return errors.New("from_region is required")
	}
	if strings.TrimSpace(payload.RegionID) == "" {
		return errors.New("region_id is required")
	}
	return nil
}
