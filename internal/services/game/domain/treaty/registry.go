package treaty

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// RegisterCommands registers treaty commands with the shared registry.
// Negotiation is not bound to the current turn.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeCreate, Owner: command.OwnerTreaty, ValidatePayload: validateCreatePayload, Phase: command.PhasePlay},
		{Type: CommandTypeSetCounterparty, Owner: command.OwnerTreaty, ValidatePayload: validateSetCounterpartyPayload, Phase: command.PhasePlay},
		{Type: CommandTypeDraftClause, Owner: command.OwnerTreaty, ValidatePayload: validateDraftClausePayload, Phase: command.PhasePlay},
		{Type: CommandTypeRemoveClause, Owner: command.OwnerTreaty, ValidatePayload: validateRemoveClausePayload, Phase: command.PhasePlay},
		{Type: CommandTypeSend, Owner: command.OwnerTreaty, ValidatePayload: validateTreatyPayload, Phase: command.PhasePlay},
		{Type: CommandTypeAccept, Owner: command.OwnerTreaty, ValidatePayload: validateTreatyPayload, Phase: command.PhasePlay},
		{Type: CommandTypeReject, Owner: command.OwnerTreaty, ValidatePayload: validateTreatyPayload, Phase: command.PhasePlay},
		{Type: CommandTypeCancel, Owner: command.OwnerTreaty, ValidatePayload: validateTreatyPayload, Phase: command.PhasePlay},
	}
	for _, definition := range definitions {
		if err := registry.Register(definition); err != nil {
			return err
		}
	}
	return nil
}

// EmittableEventTypes returns all event types treaty decisions can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{
		EventTypeCreated,
		EventTypeCounterpartySet,
		EventTypeClauseDrafted,
		EventTypeClauseRemoved,
		EventTypeOffered,
		EventTypeAccepted,
		EventTypeRejected,
		EventTypeCancelled,
		EventTypeClausesTicked,
		EventTypeClauseExpired,
		EventTypeExpired,
	}
}

// RegisterEvents registers treaty events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, eventType := range EmittableEventTypes() {
		if err := registry.Register(event.Definition{
			Type:       eventType,
			Owner:      string(command.OwnerTreaty),
			Addressing: event.AddressingPolicyEntityTarget,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateCreatePayload(raw json.RawMessage) error {
	var payload CreatePayload
	return json.Unmarshal(raw, &payload)
}

func validateSetCounterpartyPayload(raw json.RawMessage) error {
	var payload SetCounterpartyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.TreatyID) == "" {
		return errors.New("treaty_id is required")
	}
	if strings.TrimSpace(payload.CounterpartyID) == "" {
		return errors.New("counterparty_id is required")
	}
	return nil
}

func validateDraftClausePayload(raw json.RawMessage) error {
	var payload DraftClausePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.TreatyID) == "" {
		return errors.New("treaty_id is required")
	}
	if !validClauseType(payload.Type) {
		return errors.New("clause type is invalid")
	}
	return nil
}

func validateRemoveClausePayload(raw json.RawMessage) error {
	var payload RemoveClausePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.TreatyID) == "" || strings.TrimSpace(payload.ClauseID) == "" {
		return errors.New("treaty_id and clause_id are required")
	}
	return nil
}

func validateTreatyPayload(raw json.RawMessage) error {
	var payload TreatyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.TreatyID) == "" {
		return errors.New("treaty_id is required")
	}
	return nil
}
