package escalation

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// RegisterCommands registers escalation commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeConstruct, Owner: command.OwnerEscalation, ValidatePayload: validateRegionPayload, Gate: command.GateTurn, Phase: command.PhasePlay},
		{Type: CommandTypeArm, Owner: command.OwnerEscalation, ValidatePayload: validateRegionPayload, Gate: command.GateTurn, Phase: command.PhasePlay},
		{Type: CommandTypeAdvance, Owner: command.OwnerEscalation, ValidatePayload: validateAdvancePayload, Phase: command.PhasePlay, Actors: command.ActorsSystem},
		{Type: CommandTypeLaunch, Owner: command.OwnerEscalation, Gate: command.GateTurn, Phase: command.PhasePlay},
	}
	for _, definition := range definitions {
		if err := registry.Register(definition); err != nil {
			return err
		}
	}
	return nil
}

// EmittableEventTypes returns all event types escalation decisions can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{
		EventTypeSiloConstructed,
		EventTypeSiloArmed,
		EventTypeSiloAdvanced,
		EventTypeSiloCooldown,
		EventTypeSiloDestroyed,
		EventTypeMADTriggered,
		EventTypeLaunched,
	}
}

// RegisterEvents registers escalation events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, eventType := range EmittableEventTypes() {
		if err := registry.Register(event.Definition{
			Type:       eventType,
			Owner:      string(command.OwnerEscalation),
			Addressing: event.AddressingPolicyEntityTarget,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateRegionPayload(raw json.RawMessage) error {
	var payload struct {
		RegionID string `json:"region_id"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.RegionID) == "" {
		return errors.New("region_id is required")
	}
	return nil
}

func validateAdvancePayload(raw json.RawMessage) error {
	var payload AdvancePayload
	return json.Unmarshal(raw, &payload)
}
