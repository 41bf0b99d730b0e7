package query

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
)

var fixedTime = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func testEvent(eventType event.Type, entityType, entityID string, payload any) event.Event {
	raw, _ := json.Marshal(payload)
	return event.Event{
		GameID:      "game-1",
		Type:        eventType,
		Timestamp:   fixedTime,
		ActorType:   event.ActorTypeSystem,
		EntityType:  entityType,
		EntityID:    entityID,
		PayloadJSON: raw,
	}
}

func card(id string, class ledger.Class, cardType, origin string) event.Event {
	return testEvent(ledger.EventTypeCardMinted, "card", id, ledger.CardMintedPayload{Card: ledger.Card{
		ID: id, Class: class, Type: cardType, OriginRegion: origin,
	}})
}

func claim(region, playerID string) event.Event {
	return testEvent(territory.EventTypeRegionClaimed, "region", region, territory.ClaimPayload{RegionID: region, PlayerID: playerID})
}

func newView(t *testing.T) aggregate.View {
	t.Helper()
	events := []event.Event{
		testEvent(game.EventTypeCreated, "game", "game-1", game.CreatePayload{Name: "Crisis"}),
		testEvent(player.EventTypeJoined, "player", "ana", player.JoinPayload{PlayerID: "ana", DisplayName: "Ana"}),
		testEvent(player.EventTypeJoined, "player", "bruno", player.JoinPayload{PlayerID: "bruno", DisplayName: "Bruno"}),
		claim("grecia", "ana"),
		claim("turquia", "ana"),
		claim("egipto", "bruno"),
		card("heavy-gr", ledger.ClassTechnology, ledger.TechHeavyIndustry, "grecia"),
		card("alu-gr", ledger.ClassRawMaterial, ledger.RawAluminum, "grecia"),
		card("iron-tr", ledger.ClassRawMaterial, ledger.RawIron, "turquia"),
		testEvent(ledger.EventTypeTokenMinted, "token", "tok-1", ledger.TokenMintedPayload{Token: ledger.Token{
			ID: "tok-1", Class: ledger.TokenFood, OriginRegion: "grecia", Owner: "ana",
		}}),
		testEvent(game.EventTypeStarted, "game", "game-1", game.StartedPayload{TurnOrder: []string{"ana", "bruno"}, Turn: 1, ActorID: "ana"}),
		testEvent(escalation.EventTypeSiloConstructed, "silo", "turquia", escalation.SiloConstructedPayload{Silo: escalation.Silo{
			RegionID: "turquia", OwnerID: "ana", Status: escalation.StatusActive, Armed: true, FuelCardID: "iron-tr",
		}}),
		testEvent(treaty.EventTypeCreated, "treaty", "t1", treaty.CreatedPayload{TreatyID: "t1", CreatorID: "bruno", CounterpartyID: "ana"}),
	}
	state, err := (&aggregate.Folder{}).Apply(aggregate.NewState(nil), events...)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return state.View()
}

func TestReachableFollowsOwnedTerritory(t *testing.T) {
	view := newView(t)
	if !Reachable(view, "turquia", "grecia", "ana") {
		t.Fatal("expected turquia to supply grecia for ana")
	}
	if Reachable(view, "turquia", "egipto", "ana") {
		t.Fatal("egipto is bruno's and must not be reachable for ana")
	}
	if !Reachable(view, "grecia", "grecia", "ana") {
		t.Fatal("grecia must reach itself for ana")
	}
	if Reachable(view, "grecia", "grecia", "ghost") {
		t.Fatal("unknown player must not reach anything")
	}
}

func TestAvailableResourcesAndTokens(t *testing.T) {
	view := newView(t)
	resources := AvailableResources(view, "ana")
	if len(resources.Technologies) != 1 || len(resources.RawMaterials) != 2 {
		t.Fatalf("resources = %+v, want 1 technology and 2 raw materials", resources)
	}
	if got := AvailableResources(view, "bruno"); len(got.IDs()) != 0 {
		t.Fatalf("bruno resources = %v, want none", got.IDs())
	}
	tokens := Tokens(view, "ana")
	if len(tokens) != 1 || tokens[0].ID != "tok-1" {
		t.Fatalf("tokens = %+v, want tok-1", tokens)
	}
}

func TestEligibleRegions(t *testing.T) {
	view := newView(t)
	regions := EligibleRegions(view, "ana", "bosphorus_bridge")
	var grecia bool
	for _, region := range regions {
		if region == "grecia" {
			grecia = true
		}
	}
	if !grecia {
		t.Fatalf("eligible = %v, want grecia", regions)
	}
	if got := EligibleRegions(view, "bruno", "bosphorus_bridge"); len(got) != 0 {
		t.Fatalf("bruno eligible = %v, want none", got)
	}
	if got := EligibleRegions(view, "ana", "moon_base"); got != nil {
		t.Fatalf("unknown project eligible = %v, want nil", got)
	}
}

func TestProjectsCatalog(t *testing.T) {
	projects := Projects()
	if len(projects) == 0 {
		t.Fatal("expected project catalog")
	}
	seen := map[string]bool{}
	for _, descriptor := range projects {
		if seen[descriptor.ID] {
			t.Fatalf("duplicate project %s", descriptor.ID)
		}
		seen[descriptor.ID] = true
	}
}

func TestSilosAndReadiness(t *testing.T) {
	view := newView(t)
	silos := SilosOf(view, "ana")
	if len(silos) != 1 || silos[0].RegionID != "turquia" {
		t.Fatalf("silos = %+v, want turquia", silos)
	}
	ready := ReadyPlayers(view)
	if len(ready) != 1 || ready[0] != "ana" {
		t.Fatalf("ready = %v, want [ana]", ready)
	}
}

func TestTurnAndTreaties(t *testing.T) {
	view := newView(t)
	if got := CurrentActor(view); got != "ana" {
		t.Fatalf("current actor = %q, want ana", got)
	}
	treaties := TreatiesInvolving(view, "ana")
	if len(treaties) != 1 || treaties[0].ID != "t1" {
		t.Fatalf("treaties = %+v, want t1", treaties)
	}
	if ForbidsAttack(view, "bruno", "egipto", "ana") {
		t.Fatal("a draft treaty must not forbid attacks")
	}
}
