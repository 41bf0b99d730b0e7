package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	coreencoding "github.com/louisbranch/brinkmanship/internal/services/game/domain/core/encoding"
)

var (
	// ErrGameIDRequired indicates a missing game id.
	ErrGameIDRequired = errors.New("game id is required")
	// ErrTypeRequired indicates a missing command type.
	ErrTypeRequired = errors.New("command type is required")
	// ErrTypeUnknown indicates an unregistered command type.
	ErrTypeUnknown = errors.New("command type is not registered")
	// ErrActorTypeInvalid indicates an unknown actor type.
	ErrActorTypeInvalid = errors.New("actor type is invalid")
	// ErrActorIDRequired indicates a missing actor id for players.
	ErrActorIDRequired = errors.New("actor id is required for players")
	// ErrPayloadInvalid indicates malformed payload JSON.
	ErrPayloadInvalid = errors.New("payload json must be valid")
)

// Type identifies the command type string.
type Type string

// Owner identifies which domain package decides a command type.
type Owner string

const (
	OwnerGame       Owner = "game"
	OwnerPlayer     Owner = "player"
	OwnerTerritory  Owner = "territory"
	OwnerLedger     Owner = "ledger"
	OwnerProject    Owner = "project"
	OwnerTreaty     Owner = "treaty"
	OwnerEscalation Owner = "escalation"
)

// Gate declares whether a command is bound to turn order.
type Gate string

const (
	// GateNone indicates the command may be issued at any time.
	GateNone Gate = "none"
	// GateTurn indicates only the current actor may issue the command once
	// the game has started.
	GateTurn Gate = "turn"
)

// Phase declares which game lifecycle phase accepts a command.
type Phase string

const (
	// PhaseAny accepts the command in every phase.
	PhaseAny Phase = "any"
	// PhaseSetup accepts the command only before the game starts.
	PhaseSetup Phase = "setup"
	// PhasePlay accepts the command only while the game is running.
	PhasePlay Phase = "play"
)

// ActorPolicy declares which actor types may issue a command.
type ActorPolicy string

const (
	// ActorsAny accepts players and the system.
	ActorsAny ActorPolicy = "any"
	// ActorsSystem accepts only system-originated commands.
	ActorsSystem ActorPolicy = "system"
)

// ActorType identifies the actor who initiated the command.
type ActorType string

const (
	// ActorTypeSystem indicates a system-originated command (setup, ticks).
	ActorTypeSystem ActorType = "system"
	// ActorTypePlayer indicates a player-originated command.
	ActorTypePlayer ActorType = "player"
)

// Command captures the canonical command envelope.
type Command struct {
	GameID      string
	Type        Type
	ActorType   ActorType
	ActorID     string
	RequestID   string
	EntityType  string
	EntityID    string
	PayloadJSON []byte
}

// Definition registers metadata for a command type.
type Definition struct {
	Type            Type
	Owner           Owner
	ValidatePayload PayloadValidator
	Gate            Gate
	Phase           Phase
	Actors          ActorPolicy
}

// Allows reports whether actorType may issue the command.
func (d Definition) Allows(actorType ActorType) bool {
	return d.Actors != ActorsSystem || actorType == ActorTypeSystem
}

// PayloadValidator validates a payload JSON document.
type PayloadValidator func(json.RawMessage) error

// Registry stores command definitions and validates commands.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a new command type definition to the registry.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	if strings.TrimSpace(string(def.Owner)) == "" {
		return fmt.Errorf("owner is required for %s", def.Type)
	}
	switch def.Gate {
	case "":
		def.Gate = GateNone
	case GateNone, GateTurn:
	default:
		return fmt.Errorf("gate %q is invalid for %s", def.Gate, def.Type)
	}
	switch def.Phase {
	case "":
		def.Phase = PhaseAny
	case PhaseAny, PhaseSetup, PhasePlay:
	default:
		return fmt.Errorf("phase %q is invalid for %s", def.Phase, def.Type)
	}
	switch def.Actors {
	case "":
		def.Actors = ActorsAny
	case ActorsAny, ActorsSystem:
	default:
		return fmt.Errorf("actor policy %q is invalid for %s", def.Actors, def.Type)
	}
	if r.definitions == nil {
		r.definitions = make(map[Type]Definition)
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("command type already registered: %s", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// ValidateForDecision validates and normalizes a command before decision handling.
func (r *Registry) ValidateForDecision(cmd Command) (Command, error) {
	cmd.GameID = strings.TrimSpace(cmd.GameID)
	if cmd.GameID == "" {
		return Command{}, ErrGameIDRequired
	}
	cmd.Type = Type(strings.TrimSpace(string(cmd.Type)))
	if cmd.Type == "" {
		return Command{}, ErrTypeRequired
	}
	def, ok := r.Definition(cmd.Type)
	if !ok {
		return Command{}, ErrTypeUnknown
	}

	cmd.ActorType = ActorType(strings.TrimSpace(string(cmd.ActorType)))
	if cmd.ActorType == "" {
		cmd.ActorType = ActorTypeSystem
	}
	switch cmd.ActorType {
	case ActorTypeSystem, ActorTypePlayer:
	default:
		return Command{}, ErrActorTypeInvalid
	}
	cmd.ActorID = strings.TrimSpace(cmd.ActorID)
	if cmd.ActorType == ActorTypePlayer && cmd.ActorID == "" {
		return Command{}, ErrActorIDRequired
	}
	cmd.RequestID = strings.TrimSpace(cmd.RequestID)

	if len(cmd.PayloadJSON) == 0 {
		cmd.PayloadJSON = []byte("{}")
	}
	if !json.Valid(cmd.PayloadJSON) {
		return Command{}, ErrPayloadInvalid
	}
	canonical, err := coreencoding.CanonicalJSON(json.RawMessage(cmd.PayloadJSON))
	if err != nil {
		return Command{}, fmt.Errorf("canonical payload json: %w", err)
	}
	cmd.PayloadJSON = canonical
	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(json.RawMessage(cmd.PayloadJSON)); err != nil {
			return Command{}, fmt.Errorf("payload invalid: %w", err)
		}
	}
	return cmd, nil
}

// Definition returns the command definition for a given type.
func (r *Registry) Definition(cmdType Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	cmdType = Type(strings.TrimSpace(string(cmdType)))
	if cmdType == "" {
		return Definition{}, false
	}
	def, ok := r.definitions[cmdType]
	return def, ok
}

// ListDefinitions returns a stable, sorted snapshot of registered definitions.
func (r *Registry) ListDefinitions() []Definition {
	if r == nil || len(r.definitions) == 0 {
		return nil
	}
	definitions := make([]Definition, 0, len(r.definitions))
	for _, definition := range r.definitions {
		definitions = append(definitions, definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return string(definitions[i].Type) < string(definitions[j].Type)
	})
	return definitions
}

// DecodePayload unmarshals a command payload into target. It is shared by
// registry payload validators that only need structural checks.
func DecodePayload[T any](raw json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
