package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// Registries bundles the command and event registries.
type Registries struct {
	Commands *command.Registry
	Events   *event.Registry
}

// BuildRegistries registers every domain and validates that the result is
// consistent: each emittable event is registered, entity addressed and
// folded, and each command has an owner the router knows.
func BuildRegistries() (Registries, error) {
	commandRegistry := command.NewRegistry()
	eventRegistry := event.NewRegistry()

	for _, domain := range CoreDomains() {
		if err := domain.RegisterCommands(commandRegistry); err != nil {
			return Registries{}, fmt.Errorf("register %s commands: %w", domain.Name(), err)
		}
		if domain.RegisterEvents == nil {
			continue
		}
		if err := domain.RegisterEvents(eventRegistry); err != nil {
			return Registries{}, fmt.Errorf("register %s events: %w", domain.Name(), err)
		}
	}

	if err := validateEmittableEventTypes(eventRegistry); err != nil {
		return Registries{}, err
	}
	if err := ValidateEntityKeyedAddressing(eventRegistry); err != nil {
		return Registries{}, err
	}
	if err := ValidateFoldCoverage(eventRegistry, &aggregate.Folder{}); err != nil {
		return Registries{}, err
	}
	if err := ValidateCommandOwners(commandRegistry); err != nil {
		return Registries{}, err
	}

	return Registries{
		Commands: commandRegistry,
		Events:   eventRegistry,
	}, nil
}

func validateEmittableEventTypes(registry *event.Registry) error {
	var missing []string
	for _, domain := range CoreDomains() {
		if domain.EmittableEventTypes == nil {
			continue
		}
		for _, eventType := range domain.EmittableEventTypes() {
			if _, ok := registry.Definition(eventType); !ok {
				missing = append(missing, domain.Name()+":"+string(eventType))
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("emittable event types not registered: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEntityKeyedAddressing ensures every event names the entity it
// changes, so journal filters and per-entity folds can address it.
func ValidateEntityKeyedAddressing(registry *event.Registry) error {
	for _, definition := range registry.ListDefinitions() {
		if definition.Addressing != event.AddressingPolicyEntityTarget {
			return fmt.Errorf("event %s must use entity target addressing", definition.Type)
		}
	}
	return nil
}

// ValidateFoldCoverage ensures every registered event reaches a fold.
func ValidateFoldCoverage(registry *event.Registry, folder *aggregate.Folder) error {
	folded := make(map[event.Type]struct{})
	for _, eventType := range folder.FoldDispatchedTypes() {
		folded[eventType] = struct{}{}
	}
	var missing []string
	for _, definition := range registry.ListDefinitions() {
		if _, ok := folded[definition.Type]; !ok {
			missing = append(missing, string(definition.Type))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("events without fold handlers: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateCommandOwners ensures every command routes to a decider.
func ValidateCommandOwners(registry *command.Registry) error {
	for _, definition := range registry.ListDefinitions() {
		if !routable(definition.Owner) {
			return fmt.Errorf("command %s has no decider for owner %s", definition.Type, definition.Owner)
		}
	}
	return nil
}
