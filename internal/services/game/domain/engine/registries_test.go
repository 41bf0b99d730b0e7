package engine

import (
	"strings"
	"testing"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/project"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
)

func TestBuildRegistriesCoversEveryDomain(t *testing.T) {
	registries, err := BuildRegistries()
	if err != nil {
		t.Fatalf("build registries: %v", err)
	}
	for _, cmdType := range []command.Type{
		game.CommandTypeCreate,
		project.CommandTypeActivate,
		treaty.CommandTypeAccept,
		escalation.CommandTypeLaunch,
	} {
		if _, ok := registries.Commands.Definition(cmdType); !ok {
			t.Fatalf("command %s not registered", cmdType)
		}
	}
	for _, eventType := range []event.Type{
		game.EventTypeWon,
		treaty.EventTypeExpired,
		escalation.EventTypeMADTriggered,
	} {
		if _, ok := registries.Events.Definition(eventType); !ok {
			t.Fatalf("event %s not registered", eventType)
		}
	}
}

func TestCoreDomainNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, domain := range CoreDomains() {
		if domain.Name() == "" {
			t.Fatal("core domain without a name")
		}
		if seen[domain.Name()] {
			t.Fatalf("duplicate core domain %s", domain.Name())
		}
		seen[domain.Name()] = true
		if domain.RegisterCommands == nil {
			t.Fatalf("domain %s registers no commands", domain.Name())
		}
	}
}

func TestValidateEntityKeyedAddressingRejectsUnaddressedEvents(t *testing.T) {
	registry := event.NewRegistry()
	if err := registry.Register(event.Definition{Type: "game.bare", Owner: "game"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := ValidateEntityKeyedAddressing(registry)
	if err == nil || !strings.Contains(err.Error(), "game.bare") {
		t.Fatalf("err = %v, want game.bare addressing error", err)
	}
}

func TestValidateFoldCoverageReportsMissingFolds(t *testing.T) {
	registry := event.NewRegistry()
	if err := registry.Register(event.Definition{
		Type:       "silo.painted",
		Owner:      "escalation",
		Addressing: event.AddressingPolicyEntityTarget,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := ValidateFoldCoverage(registry, &aggregate.Folder{})
	if err == nil || !strings.Contains(err.Error(), "silo.painted") {
		t.Fatalf("err = %v, want silo.painted fold error", err)
	}
}

func TestValidateCommandOwnersRejectsUnknownOwner(t *testing.T) {
	registry := command.NewRegistry()
	if err := registry.Register(command.Definition{Type: "weather.change", Owner: "weather"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := ValidateCommandOwners(registry); err == nil {
		t.Fatal("expected unknown owner error")
	}
}

func TestDecisionGate(t *testing.T) {
	playing := game.State{
		ID:        "game-1",
		Status:    game.StatusPlaying,
		TurnOrder: []string{"ana", "bruno"},
		Turn:      1,
	}
	turnBound := command.Definition{Type: escalation.CommandTypeLaunch, Gate: command.GateTurn, Phase: command.PhasePlay}
	free := command.Definition{Type: treaty.CommandTypeCreate, Phase: command.PhasePlay}
	systemOnly := command.Definition{Type: escalation.CommandTypeAdvance, Phase: command.PhasePlay, Actors: command.ActorsSystem}
	fromBruno := command.Command{ActorType: command.ActorTypePlayer, ActorID: "bruno"}

	tests := []struct {
		name       string
		gate       DecisionGate
		state      game.State
		definition command.Definition
		want       string
	}{
		{name: "turn gate off", gate: DecisionGate{}, state: playing, definition: turnBound},
		{name: "turn gate on", gate: DecisionGate{TurnGate: true}, state: playing, definition: turnBound, want: game.RejectionCodeTurnNotYours},
		{name: "not turn bound", gate: DecisionGate{TurnGate: true}, state: playing, definition: free},
		{name: "system only", gate: DecisionGate{}, state: playing, definition: systemOnly, want: game.RejectionCodeSystemOnly},
		{name: "setup phase", gate: DecisionGate{}, state: game.State{ID: "game-1", Status: game.StatusSetup}, definition: free, want: game.RejectionCodeNotStarted},
	}
	for _, tt := range tests {
		decision := tt.gate.Check(tt.state, tt.definition, fromBruno)
		if tt.want == "" {
			if decision.Rejected() {
				t.Fatalf("%s: rejections = %+v, want none", tt.name, decision.Rejections)
			}
			continue
		}
		if !decision.Rejected() || decision.Rejections[0].Code != tt.want {
			t.Fatalf("%s: decision = %+v, want %s", tt.name, decision, tt.want)
		}
	}
}
