package project

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
)

// RegisterCommands registers project commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	return registry.Register(command.Definition{
		Type:            CommandTypeActivate,
		Owner:           command.OwnerProject,
		ValidatePayload: validateActivatePayload,
		Gate:            command.GateTurn,
		Phase:           command.PhasePlay,
	})
}

func validateActivatePayload(raw json.RawMessage) error {
	var payload ActivatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.ProjectID) == "" {
		return errors.New("project_id is required")
	}
	return nil
}
