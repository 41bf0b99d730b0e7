package ledger

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// RegisterCommands registers ledger commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeMintCard, Owner: command.OwnerLedger, ValidatePayload: validateMintCardPayload, Phase: command.PhaseSetup, Actors: command.ActorsSystem},
		{Type: CommandTypeMintToken, Owner: command.OwnerLedger, ValidatePayload: validateMintTokenPayload, Phase: command.PhaseSetup, Actors: command.ActorsSystem},
		{
			Type:            CommandTypeSpendCard,
			Owner:           command.OwnerLedger,
			ValidatePayload: validateSpendCardPayload,
			Gate:            command.GateTurn,
			Phase:           command.PhasePlay,
		},
		{
			Type:            CommandTypeConsumeToken,
			Owner:           command.OwnerLedger,
			ValidatePayload: validateConsumeTokenPayload,
			Gate:            command.GateTurn,
			Phase:           command.PhasePlay,
		},
	}
	for _, definition := range definitions {
		if err := registry.Register(definition); err != nil {
			return err
		}
	}
	return nil
}

// EmittableEventTypes returns all event types ledger decisions can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{
		EventTypeCardMinted,
		EventTypeCardSpent,
		EventTypeTurnReset,
		EventTypeCardTransferred,
		EventTypeCardDuplicated,
		EventTypeCardRemoved,
		EventTypeTokenMinted,
		EventTypeTokenConsumed,
	}
}

// RegisterEvents registers ledger events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, eventType := range EmittableEventTypes() {
		if err := registry.Register(event.Definition{
			Type:       eventType,
			Owner:      string(command.OwnerLedger),
			Addressing: event.AddressingPolicyEntityTarget,
		}); err != nil {
			return err
		}
	}
	return nil
}

func requireField(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(name + " is required")
	}
	return nil
}

func validateMintCardPayload(raw json.RawMessage) error {
	var payload MintCardPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if err := requireField(payload.CardID, "card_id"); err != nil {
		return err
	}
	if err := requireField(payload.Type, "type"); err != nil {
		return err
	}
	return requireField(payload.OriginRegion, "origin_region")
}

func validateMintTokenPayload(raw json.RawMessage) error {
	var payload MintTokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if err := requireField(payload.TokenID, "token_id"); err != nil {
		return err
	}
	if err := requireField(payload.Owner, "owner"); err != nil {
		return err
	}
	return requireField(payload.OriginRegion, "origin_region")
}

func validateSpendCardPayload(raw json.RawMessage) error {
	var payload SpendCardPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return requireField(payload.CardID, "card_id")
}

func validateConsumeTokenPayload(raw json.RawMessage) error {
	var payload ConsumeTokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return requireField(payload.TokenID, "token_id")
}
