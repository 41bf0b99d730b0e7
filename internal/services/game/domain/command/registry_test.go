package command

import (
	"encoding/json"
	"errors"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type:  Type("territory.conquer"),
		Owner: OwnerTerritory,
		Gate:  GateTurn,
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}
	return registry
}

func TestRegistryValidateForDecision_MissingGameID(t *testing.T) {
	registry := newTestRegistry(t)
	_, err := registry.ValidateForDecision(Command{Type: "territory.conquer"})
	if !errors.Is(err, ErrGameIDRequired) {
		t.Fatalf("expected ErrGameIDRequired, got %v", err)
	}
}

func TestRegistryValidateForDecision_UnknownType(t *testing.T) {
	registry := newTestRegistry(t)
	_, err := registry.ValidateForDecision(Command{GameID: "g1", Type: "unknown.command"})
	if !errors.Is(err, ErrTypeUnknown) {
		t.Fatalf("expected ErrTypeUnknown, got %v", err)
	}
}

func TestRegistryValidateForDecision_MissingType(t *testing.T) {
	registry := newTestRegistry(t)
	_, err := registry.ValidateForDecision(Command{GameID: "g1", Type: "  "})
	if !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("expected ErrTypeRequired, got %v", err)
	}
}

func TestRegistryValidateForDecision_ActorRules(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.ValidateForDecision(Command{GameID: "g1", Type: "territory.conquer", ActorType: "gm"})
	if !errors.Is(err, ErrActorTypeInvalid) {
		t.Fatalf("expected ErrActorTypeInvalid, got %v", err)
	}
	_, err = registry.ValidateForDecision(Command{GameID: "g1", Type: "territory.conquer", ActorType: ActorTypePlayer})
	if !errors.Is(err, ErrActorIDRequired) {
		t.Fatalf("expected ErrActorIDRequired, got %v", err)
	}
	cmd, err := registry.ValidateForDecision(Command{GameID: "g1", Type: "territory.conquer"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cmd.ActorType != ActorTypeSystem {
		t.Fatalf("actor type = %s, want %s", cmd.ActorType, ActorTypeSystem)
	}
}

func TestRegistryValidateForDecision_NormalizesEnvelope(t *testing.T) {
	registry := newTestRegistry(t)
	cmd, err := registry.ValidateForDecision(Command{
		GameID:      " g1 ",
		Type:        " territory.conquer ",
		ActorType:   ActorTypePlayer,
		ActorID:     " ana ",
		RequestID:   " req-1 ",
		PayloadJSON: []byte(`{ "region_id": "chile", "from_region": "argentina" }`),
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cmd.GameID != "g1" || cmd.ActorID != "ana" || cmd.RequestID != "req-1" {
		t.Fatalf("envelope not trimmed: %+v", cmd)
	}
	if string(cmd.PayloadJSON) != `{"from_region":"argentina","region_id":"chile"}` {
		t.Fatalf("payload = %s", cmd.PayloadJSON)
	}
}

func TestRegistryValidateForDecision_EmptyPayloadDefaultsToObject(t *testing.T) {
	registry := newTestRegistry(t)
	cmd, err := registry.ValidateForDecision(Command{GameID: "g1", Type: "territory.conquer"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if string(cmd.PayloadJSON) != "{}" {
		t.Fatalf("payload = %s, want {}", cmd.PayloadJSON)
	}
}

func TestRegistryValidateForDecision_InvalidPayload(t *testing.T) {
	registry := newTestRegistry(t)
	_, err := registry.ValidateForDecision(Command{GameID: "g1", Type: "territory.conquer", PayloadJSON: []byte("{")})
	if !errors.Is(err, ErrPayloadInvalid) {
		t.Fatalf("expected ErrPayloadInvalid, got %v", err)
	}
}

func TestRegistryValidateForDecision_PayloadValidator(t *testing.T) {
	registry := NewRegistry()
	sentinel := errors.New("region required")
	if err := registry.Register(Definition{
		Type:  "territory.claim",
		Owner: OwnerTerritory,
		ValidatePayload: func(raw json.RawMessage) error {
			payload, err := DecodePayload[struct {
				RegionID string `json:"region_id"`
			}](raw)
			if err != nil {
				return err
			}
			if payload.RegionID == "" {
				return sentinel
			}
			return nil
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := registry.ValidateForDecision(Command{GameID: "g1", Type: "territory.claim"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected validator error, got %v", err)
	}
}

func TestRegistryRegister_Rules(t *testing.T) {
	registry := newTestRegistry(t)
	if err := registry.Register(Definition{Type: "territory.conquer", Owner: OwnerTerritory}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if err := registry.Register(Definition{Type: "", Owner: OwnerTerritory}); !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("expected ErrTypeRequired, got %v", err)
	}
	if err := registry.Register(Definition{Type: "x.y"}); err == nil {
		t.Fatal("expected owner error")
	}
	if err := registry.Register(Definition{Type: "x.z", Owner: OwnerGame, Gate: "session"}); err == nil {
		t.Fatal("expected gate error")
	}
	if err := registry.Register(Definition{Type: "x.w", Owner: OwnerGame}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(Definition{Type: "x.v", Owner: OwnerGame, Phase: "lobby"}); err == nil {
		t.Fatal("expected phase error")
	}
	def, ok := registry.Definition("x.w")
	if !ok || def.Gate != GateNone {
		t.Fatalf("gate = %q, want %q", def.Gate, GateNone)
	}
	if def.Phase != PhaseAny {
		t.Fatalf("phase = %q, want %q", def.Phase, PhaseAny)
	}
	if def.Actors != ActorsAny {
		t.Fatalf("actors = %q, want %q", def.Actors, ActorsAny)
	}
	if err := registry.Register(Definition{Type: "x.u", Owner: OwnerGame, Actors: "admin"}); err == nil {
		t.Fatal("expected actor policy error")
	}
}

func TestDefinitionAllows(t *testing.T) {
	tests := []struct {
		name   string
		actors ActorPolicy
		actor  ActorType
		want   bool
	}{
		{name: "any player", actors: ActorsAny, actor: ActorTypePlayer, want: true},
		{name: "any system", actors: ActorsAny, actor: ActorTypeSystem, want: true},
		{name: "system only player", actors: ActorsSystem, actor: ActorTypePlayer, want: false},
		{name: "system only system", actors: ActorsSystem, actor: ActorTypeSystem, want: true},
	}
	for _, tt := range tests {
		if got := (Definition{Actors: tt.actors}).Allows(tt.actor); got != tt.want {
			t.Fatalf("%s: allows = %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestRegistryListDefinitionsSorted(t *testing.T) {
	registry := NewRegistry()
	for _, typ := range []Type{"b.cmd", "a.cmd", "c.cmd"} {
		if err := registry.Register(Definition{Type: typ, Owner: OwnerGame}); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	defs := registry.ListDefinitions()
	if len(defs) != 3 || defs[0].Type != "a.cmd" || defs[2].Type != "c.cmd" {
		t.Fatalf("definitions = %+v", defs)
	}
}
