package aggregate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
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

func setupEvents() []event.Event {
	return []event.Event{
		testEvent(game.EventTypeCreated, "game", "game-1", game.CreatePayload{Name: "g"}),
		testEvent(player.EventTypeJoined, "player", "ana", player.JoinPayload{PlayerID: "ana", DisplayName: "Ana", SecretTarget: "turquia"}),
		testEvent(player.EventTypeJoined, "player", "bruno", player.JoinPayload{PlayerID: "bruno", DisplayName: "Bruno"}),
		testEvent(territory.EventTypeRegionClaimed, "region", "grecia", territory.ClaimPayload{RegionID: "grecia", PlayerID: "ana"}),
		testEvent(territory.EventTypeRegionClaimed, "region", "turquia", territory.ClaimPayload{RegionID: "turquia", PlayerID: "ana"}),
		testEvent(ledger.EventTypeCardMinted, "card", "iron-tr", ledger.CardMintedPayload{Card: ledger.Card{
			ID: "iron-tr", Class: ledger.ClassRawMaterial, Type: ledger.RawIron, OriginRegion: "turquia",
		}}),
	}
}

func TestApplyRoutesEventsToDomains(t *testing.T) {
	folder := &Folder{}
	state, err := folder.Apply(NewState(nil), setupEvents()...)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if state.Game.Status != game.StatusSetup {
		t.Fatalf("game status = %s, want %s", state.Game.Status, game.StatusSetup)
	}
	if len(state.Players) != 2 || state.Players["ana"].SecretTarget != "turquia" {
		t.Fatalf("players = %+v, want ana and bruno", state.Players)
	}
	if state.Ownership["grecia"] != "ana" || state.Ownership["turquia"] != "ana" {
		t.Fatalf("ownership = %v, want grecia and turquia for ana", state.Ownership)
	}
	if _, ok := state.Ledger.Card("iron-tr"); !ok {
		t.Fatal("expected iron-tr in ledger")
	}
}

func TestViewReadsState(t *testing.T) {
	folder := &Folder{}
	state, err := folder.Apply(NewState(nil), setupEvents()...)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	view := state.View()
	if !view.HasPlayer("ana") || view.HasPlayer("zoe") {
		t.Fatal("HasPlayer disagrees with joined players")
	}
	if !view.HasRegion("grecia") || view.HasRegion("atlantis") {
		t.Fatal("HasRegion disagrees with the world map")
	}
	players := view.Players()
	if len(players) != 2 || players[0].ID != "ana" || players[1].ID != "bruno" {
		t.Fatalf("players = %+v, want ana then bruno", players)
	}
	if !view.Reachable("turquia", "grecia", "ana") {
		t.Fatal("expected turquia to reach grecia over ana's territory")
	}
	if view.Reachable("turquia", "grecia", "bruno") {
		t.Fatal("bruno owns no route between turquia and grecia")
	}
	if got := len(view.Available("ana").RawMaterials); got != 1 {
		t.Fatalf("ana raw materials = %d, want 1", got)
	}
	if got := view.Rules(); got.ConstructionTurns != 3 {
		t.Fatalf("rules = %+v, want defaults", got)
	}
}

func TestApplyRejectsUnregisteredEvents(t *testing.T) {
	folder := &Folder{Events: event.NewRegistry()}
	if _, err := folder.Apply(NewState(nil), setupEvents()[0]); err == nil {
		t.Fatal("expected error for unregistered event type")
	}
}

func TestApplyReturnsInvariantErrors(t *testing.T) {
	folder := &Folder{}
	events := append(setupEvents(), testEvent(territory.EventTypeRegionClaimed, "region", "grecia", territory.ClaimPayload{RegionID: "grecia", PlayerID: "bruno"}))
	if _, err := folder.Apply(NewState(nil), events...); err == nil {
		t.Fatal("expected double ownership error")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	folder := &Folder{}
	state, err := folder.Apply(NewState(nil), setupEvents()...)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	clone := state.Clone()
	if _, err := folder.Apply(clone, testEvent(territory.EventTypeRegionClaimed, "region", "italia", territory.ClaimPayload{RegionID: "italia", PlayerID: "bruno"})); err != nil {
		t.Fatalf("apply to clone: %v", err)
	}
	if _, owned := state.Ownership["italia"]; owned {
		t.Fatal("folding into a clone changed the original ownership")
	}
}

func TestFoldAcceptsPointerState(t *testing.T) {
	folder := &Folder{}
	state := NewState(nil)
	next, err := folder.Fold(&state, setupEvents()[0])
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if got := next.(State).Game.Status; got != game.StatusSetup {
		t.Fatalf("status = %s, want %s", got, game.StatusSetup)
	}
}

func TestFoldDispatchedTypesCoversDomains(t *testing.T) {
	folder := &Folder{}
	types := map[event.Type]bool{}
	for _, t := range folder.FoldDispatchedTypes() {
		types[t] = true
	}
	for _, want := range []event.Type{game.EventTypeWon, player.EventTypeProjectRevoked, territory.EventTypeRegionCeded, ledger.EventTypeTokenConsumed} {
		if !types[want] {
			t.Fatalf("fold index missing %s", want)
		}
	}
}
