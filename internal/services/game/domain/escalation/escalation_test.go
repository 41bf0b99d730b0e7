package escalation

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world/worldtest"
)

var fixedTime = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time {
	return fixedTime
}

type harness struct {
	t     *testing.T
	view  *worldtest.View
	silos State
	seq   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	view := worldtest.New("xavi", "yara")
	view.Own("xavi", "chile", "argentina")
	view.Own("yara", "egipto", "libia")
	return &harness{t: t, view: view, silos: State{}}
}

func (h *harness) run(actor string, cmdType command.Type, payload any) command.Decision {
	h.t.Helper()
	h.seq++
	raw, _ := json.Marshal(payload)
	actorType := command.ActorTypePlayer
	if actor == "" {
		actorType = command.ActorTypeSystem
	}
	cmd := command.Command{
		GameID:      "game-1",
		Type:        cmdType,
		ActorType:   actorType,
		ActorID:     actor,
		RequestID:   fmt.Sprintf("req-%d", h.seq),
		PayloadJSON: raw,
	}
	decision := Decide(h.view, h.silos, cmd, fixedNow)
	h.apply(decision.Events)
	return decision
}

func (h *harness) apply(events []event.Event) {
	h.t.Helper()
	for _, evt := range events {
		var err error
		h.silos, err = Fold(h.silos, evt)
		if err != nil {
			h.t.Fatalf("fold silos %s: %v", evt.Type, err)
		}
		h.view.Cards, err = ledger.Fold(h.view.Cards, evt)
		if err != nil {
			h.t.Fatalf("fold ledger %s: %v", evt.Type, err)
		}
	}
}

func (h *harness) constructionCards() []string {
	h.view.AddCard("light-cl", ledger.TechLightIndustry, "chile", "")
	h.view.AddCard("heavy-cl", ledger.TechHeavyIndustry, "chile", "")
	h.view.AddCard("elec-cl", ledger.TechElectronics, "chile", "")
	h.view.AddCard("iron-ar", ledger.RawIron, "argentina", "")
	h.view.AddCard("alu-ar", ledger.RawAluminum, "argentina", "")
	h.view.AddCard("semi-ar", ledger.RawSemiconductors, "argentina", "")
	return []string{"light-cl", "heavy-cl", "elec-cl", "iron-ar", "alu-ar", "semi-ar"}
}

// readySilos installs one active silo per player: xavi's unarmed at chile
// and yara's armed at egipto with fuel from libia.
func (h *harness) readySilos() {
	h.view.AddCard("elec-x", ledger.TechElectronics, "chile", "")
	h.view.AddCard("semi-x", ledger.RawSemiconductors, "argentina", "")
	h.view.AddCard("semi-li", ledger.RawSemiconductors, "libia", "")
	h.silos["chile"] = Silo{RegionID: "chile", OwnerID: "xavi", Status: StatusActive}
	h.silos["egipto"] = Silo{RegionID: "egipto", OwnerID: "yara", Status: StatusActive, Armed: true, FuelCardID: "semi-li"}
}

func TestConstructSpendsSixCards(t *testing.T) {
	h := newHarness(t)
	cards := h.constructionCards()

	decision := h.run("xavi", CommandTypeConstruct, ConstructPayload{RegionID: "chile", CardIDs: cards})
	if decision.Rejected() {
		t.Fatalf("unexpected rejections: %+v", decision.Rejections)
	}
	spent := 0
	for _, evt := range decision.Events {
		if evt.Type == ledger.EventTypeCardSpent {
			spent++
		}
	}
	if spent != 6 {
		t.Fatalf("spent = %d, want 6", spent)
	}
	if ids := h.view.Available("xavi").Unspent().IDs(); len(ids) != 0 {
		t.Fatalf("unspent after construction = %v, want none", ids)
	}
	silo := h.silos["chile"]
	if silo.Status != StatusConstruction || silo.TurnsRemaining != world.DefaultRules().ConstructionTurns {
		t.Fatalf("silo = %+v", silo)
	}

	h.view.Cards.ResetTurn()
	if ids := h.view.Available("xavi").Unspent().IDs(); len(ids) != 6 {
		t.Fatalf("unspent after reset = %v, want 6 cards", ids)
	}
}

func TestConstructRejections(t *testing.T) {
	tests := []struct {
		name   string
		region string
		cards  func(*harness) []string
		mutate func(*harness)
		want   string
	}{
		{name: "unknown region", region: "atlantis", want: RejectionCodeRegionUnknown},
		{name: "not owned", region: "egipto", want: RejectionCodeRegionNotOwned},
		{
			name:   "exists",
			region: "chile",
			mutate: func(h *harness) { h.silos["chile"] = Silo{RegionID: "chile", OwnerID: "xavi", Status: StatusActive} },
			want:   RejectionCodeSiloExists,
		},
		{
			name:   "route severed",
			region: "chile",
			cards:  (*harness).constructionCards,
			mutate: func(h *harness) { h.view.Map = territory.DefaultGraph().WithoutEdge("chile", "argentina") },
			want:   world.RejectionCodeRouteInvalid,
		},
		{
			name:   "missing slot",
			region: "chile",
			cards:  func(h *harness) []string { return h.constructionCards()[:5] },
			want:   world.RejectionCodeSlotMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			var cards []string
			if tt.cards != nil {
				cards = tt.cards(h)
			}
			if tt.mutate != nil {
				tt.mutate(h)
			}
			decision := h.run("xavi", CommandTypeConstruct, ConstructPayload{RegionID: tt.region, CardIDs: cards})
			if !decision.Rejected() || decision.Rejections[0].Code != tt.want {
				t.Fatalf("decision = %+v, want %s", decision, tt.want)
			}
			if len(decision.Events) != 0 {
				t.Fatalf("events = %d, want 0", len(decision.Events))
			}
		})
	}
}

func TestAdvanceActivatesAfterConstruction(t *testing.T) {
	h := newHarness(t)
	h.run("xavi", CommandTypeConstruct, ConstructPayload{RegionID: "chile", CardIDs: h.constructionCards()})

	for i := 0; i < 2; i++ {
		h.run("", CommandTypeAdvance, AdvancePayload{})
		if got := h.silos["chile"].Status; got != StatusConstruction {
			t.Fatalf("advance %d status = %s, want %s", i+1, got, StatusConstruction)
		}
	}
	h.run("", CommandTypeAdvance, AdvancePayload{})
	if silo := h.silos["chile"]; silo.Status != StatusActive || silo.TurnsRemaining != 0 {
		t.Fatalf("silo = %+v, want active", silo)
	}
	if decision := h.run("", CommandTypeAdvance, AdvancePayload{}); len(decision.Events) != 0 {
		t.Fatalf("active silo advanced: %d events", len(decision.Events))
	}
}

func TestArmWithoutRivalDoesNotCollide(t *testing.T) {
	h := newHarness(t)
	h.readySilos()
	h.silos["egipto"] = Silo{RegionID: "egipto", OwnerID: "yara", Status: StatusActive}

	decision := h.run("xavi", CommandTypeArm, ArmPayload{RegionID: "chile", CardIDs: []string{"elec-x", "semi-x"}})
	if decision.Rejected() {
		t.Fatalf("unexpected rejections: %+v", decision.Rejections)
	}
	if silo := h.silos["chile"]; !silo.Armed || silo.FuelCardID != "semi-x" {
		t.Fatalf("silo = %+v", silo)
	}
	if !Ready(h.view, h.silos, "xavi") {
		t.Fatal("xavi must be ready")
	}
	h.mustReject(t, "xavi", CommandTypeArm, ArmPayload{RegionID: "chile", CardIDs: []string{"elec-x", "semi-x"}}, RejectionCodeSiloArmed)
	h.mustReject(t, "yara", CommandTypeArm, ArmPayload{RegionID: "chile"}, RejectionCodeSiloNotOwner)
	h.mustReject(t, "yara", CommandTypeArm, ArmPayload{RegionID: "libia"}, RejectionCodeSiloUnknown)
}

func (h *harness) mustReject(t *testing.T, actor string, cmdType command.Type, payload any, code string) {
	t.Helper()
	decision := h.run(actor, cmdType, payload)
	if !decision.Rejected() || decision.Rejections[0].Code != code {
		t.Fatalf("%s decision = %+v, want %s", cmdType, decision, code)
	}
}

func TestMADSymmetry(t *testing.T) {
	h := newHarness(t)
	h.readySilos()

	decision := h.run("xavi", CommandTypeArm, ArmPayload{RegionID: "chile", CardIDs: []string{"elec-x", "semi-x"}})
	if decision.Rejected() {
		t.Fatalf("unexpected rejections: %+v", decision.Rejections)
	}
	var mad MADTriggeredPayload
	for _, evt := range decision.Events {
		if evt.Type == EventTypeMADTriggered {
			_ = json.Unmarshal(evt.PayloadJSON, &mad)
		}
	}
	if len(mad.Players) != 2 || mad.Players[0] != "xavi" || mad.Players[1] != "yara" {
		t.Fatalf("mad players = %v, want [xavi yara]", mad.Players)
	}
	cooldown := world.DefaultRules().CooldownTurns
	for _, region := range []string{"chile", "egipto"} {
		silo := h.silos[region]
		if silo.Status != StatusCooldown || silo.TurnsRemaining != cooldown || silo.Armed {
			t.Fatalf("silo %s = %+v, want cooldown %d", region, silo, cooldown)
		}
	}
	for _, cardID := range []string{"elec-x", "semi-x"} {
		if card, _ := h.view.Cards.Card(cardID); !card.SpentThisTurn {
			t.Fatalf("arming card %s was un-spent", cardID)
		}
	}

	for i := 0; i < cooldown; i++ {
		h.run("", CommandTypeAdvance, AdvancePayload{})
	}
	for _, region := range []string{"chile", "egipto"} {
		if silo := h.silos[region]; silo.Status != StatusActive || silo.Armed {
			t.Fatalf("silo %s after cooldown = %+v, want active unarmed", region, silo)
		}
	}
}

func TestLaunch(t *testing.T) {
	h := newHarness(t)
	h.readySilos()

	h.mustReject(t, "xavi", CommandTypeLaunch, LaunchPayload{}, RejectionCodeNotReady)
	decision := h.run("yara", CommandTypeLaunch, LaunchPayload{})
	if decision.Rejected() || len(decision.Events) != 1 || decision.Events[0].Type != EventTypeLaunched {
		t.Fatalf("decision = %+v, want launch", decision)
	}
	var launched LaunchedPayload
	_ = json.Unmarshal(decision.Events[0].PayloadJSON, &launched)
	if launched.PlayerID != "yara" || len(launched.Silos) != 1 || launched.Silos[0] != "egipto" {
		t.Fatalf("launched = %+v", launched)
	}
}

func TestLaunchCollidesWhenRivalReady(t *testing.T) {
	h := newHarness(t)
	h.readySilos()
	chile := h.silos["chile"]
	chile.Armed, chile.FuelCardID = true, "semi-x"
	h.silos["chile"] = chile

	decision := h.run("yara", CommandTypeLaunch, LaunchPayload{})
	if len(decision.Events) == 0 || decision.Events[0].Type != EventTypeMADTriggered {
		t.Fatalf("decision = %+v, want MAD", decision)
	}
	for _, evt := range decision.Events {
		if evt.Type == EventTypeLaunched {
			t.Fatal("launch must not proceed during a collision")
		}
	}
}

func TestSeveredFuelRouteBreaksDeterrence(t *testing.T) {
	h := newHarness(t)
	h.readySilos()
	chile := h.silos["chile"]
	chile.Armed, chile.FuelCardID = true, "semi-x"
	h.silos["chile"] = chile

	h.view.Owners["libia"] = "xavi"
	if Ready(h.view, h.silos, "yara") {
		t.Fatal("yara's fuel route is severed")
	}
	decision := h.run("xavi", CommandTypeLaunch, LaunchPayload{})
	if decision.Rejected() || decision.Events[0].Type != EventTypeLaunched {
		t.Fatalf("decision = %+v, want launch", decision)
	}
}

func TestDestructions(t *testing.T) {
	silos := State{
		"chile":  {RegionID: "chile", OwnerID: "xavi", Status: StatusActive},
		"egipto": {RegionID: "egipto", OwnerID: "yara", Status: StatusActive},
	}
	cmd := command.Command{GameID: "game-1", ActorType: command.ActorTypePlayer, ActorID: "yara", RequestID: "req-1"}
	changes := []territory.Change{
		{RegionID: "chile", PreviousOwner: "xavi", NewOwner: "yara"},
		{RegionID: "chile", PreviousOwner: "xavi", NewOwner: "yara"},
		{RegionID: "argentina", PreviousOwner: "xavi", NewOwner: "yara"},
	}
	events := Destructions(silos, cmd, changes, fixedTime)
	if len(events) != 1 || events[0].EntityID != "chile" {
		t.Fatalf("events = %+v, want one destruction at chile", events)
	}
	silos, err := Fold(silos, events[0])
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if _, ok := silos["chile"]; ok {
		t.Fatal("silo must be removed")
	}
	if _, err := Fold(silos, events[0]); err == nil {
		t.Fatal("expected invariant error on double destruction")
	}
}
