package game

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// RegisterCommands registers lifecycle commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeCreate, Owner: command.OwnerGame, ValidatePayload: validateCreatePayload},
		{Type: CommandTypeStart, Owner: command.OwnerGame, ValidatePayload: validateStartPayload, Phase: command.PhaseSetup},
		{Type: CommandTypeAdvanceTurn, Owner: command.OwnerGame, Gate: command.GateTurn, Phase: command.PhasePlay},
	}
	for _, definition := range definitions {
		if err := registry.Register(definition); err != nil {
			return err
		}
	}
	return nil
}

// EmittableEventTypes returns all event types lifecycle decisions can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{EventTypeCreated, EventTypeStarted, EventTypeTurnAdvanced, EventTypeWon}
}

// RegisterEvents registers lifecycle events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, eventType := range EmittableEventTypes() {
		if err := registry.Register(event.Definition{
			Type:       eventType,
			Owner:      string(command.OwnerGame),
			Addressing: event.AddressingPolicyEntityTarget,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateCreatePayload(raw json.RawMessage) error {
	_, err := command.DecodePayload[CreatePayload](raw)
	return err
}

func validateStartPayload(raw json.RawMessage) error {
	_, err := command.DecodePayload[StartPayload](raw)
	return err
}
