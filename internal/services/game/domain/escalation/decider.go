package escalation

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

const (
	CommandTypeConstruct command.Type = "silo.construct"
	CommandTypeArm       command.Type = "silo.arm"
	CommandTypeAdvance   command.Type = "silo.advance"
	CommandTypeLaunch    command.Type = "silo.launch"

	EventTypeSiloConstructed event.Type = "escalation.silo_constructed"
	EventTypeSiloArmed       event.Type = "escalation.silo_armed"
	EventTypeSiloAdvanced    event.Type = "escalation.silo_advanced"
	EventTypeSiloCooldown    event.Type = "escalation.silo_cooldown"
	EventTypeSiloDestroyed   event.Type = "escalation.silo_destroyed"
	EventTypeMADTriggered    event.Type = "escalation.mad_triggered"
	EventTypeLaunched        event.Type = "escalation.launched"

	RejectionCodePlayerUnknown  = "ESCALATION_PLAYER_UNKNOWN"
	RejectionCodeRegionUnknown  = "ESCALATION_REGION_UNKNOWN"
	RejectionCodeRegionNotOwned = "ESCALATION_REGION_NOT_OWNED"
	RejectionCodeSiloExists     = "ESCALATION_SILO_EXISTS"
	RejectionCodeSiloUnknown    = "ESCALATION_SILO_UNKNOWN"
	RejectionCodeSiloNotOwner   = "ESCALATION_SILO_NOT_OWNER"
	RejectionCodeSiloNotActive  = "ESCALATION_SILO_NOT_ACTIVE"
	RejectionCodeSiloArmed      = "ESCALATION_SILO_ARMED"
	RejectionCodeNotReady       = "ESCALATION_NOT_READY"
)

// ConstructionRequirement is the fixed cost of a silo. Technologies need no
// route; raw materials must reach the silo region.
var ConstructionRequirement = world.Requirement{
	Technologies: []string{ledger.TechLightIndustry, ledger.TechHeavyIndustry, ledger.TechElectronics},
	RawMaterials: []string{ledger.RawIron, ledger.RawAluminum, ledger.RawSemiconductors},
}

// ArmingRequirement is the cost of arming an active silo.
var ArmingRequirement = world.Requirement{
	Technologies: []string{ledger.TechElectronics},
	RawMaterials: []string{ledger.RawSemiconductors},
}

// Decide returns the decision for an escalation command.
func Decide(view world.View, silos State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	at := now().UTC()
	switch cmd.Type {
	case CommandTypeConstruct:
		return decideConstruct(view, silos, cmd, at)
	case CommandTypeArm:
		return decideArm(view, silos, cmd, at)
	case CommandTypeAdvance:
		var payload AdvancePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		region := strings.TrimSpace(payload.RegionID)
		if region != "" {
			if _, ok := silos[region]; !ok {
				return command.Reject(command.Rejection{Code: RejectionCodeSiloUnknown, Message: "no silo at " + region})
			}
			return command.Accept(Advances(view.Rules(), State{region: silos[region]}, cmd, at)...)
		}
		return command.Accept(Advances(view.Rules(), silos, cmd, at)...)
	case CommandTypeLaunch:
		return decideLaunch(view, silos, cmd, at)
	default:
		return command.Reject(command.Rejection{
			Code:    "COMMAND_TYPE_UNSUPPORTED",
			Message: "command type is not supported by escalation decider",
		})
	}
}

func newSiloEvent(cmd command.Command, eventType event.Type, regionID string, payload any, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(payload)
	return command.NewEvent(cmd, eventType, "silo", regionID, payloadJSON, at)
}

func decideConstruct(view world.View, silos State, cmd command.Command, at time.Time) command.Decision {
	var payload ConstructPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	region := strings.TrimSpace(payload.RegionID)
	playerID := cmd.ActorID

	if !view.HasPlayer(playerID) {
		return command.Reject(command.Rejection{Code: RejectionCodePlayerUnknown, Message: "player is unknown: " + playerID})
	}
	if !view.HasRegion(region) {
		return command.Reject(command.Rejection{Code: RejectionCodeRegionUnknown, Message: "region is unknown: " + region})
	}
	if view.Ownership().Owner(region) != playerID {
		return command.Reject(command.Rejection{Code: RejectionCodeRegionNotOwned, Message: "region is not owned: " + region})
	}
	if _, exists := silos[region]; exists {
		return command.Reject(command.Rejection{Code: RejectionCodeSiloExists, Message: "a silo already stands at " + region})
	}
	selection, rejection := world.FillSlots(view, playerID, region, ConstructionRequirement, payload.CardIDs, nil)
	if rejection != nil {
		return command.Reject(*rejection)
	}

	events := make([]event.Event, 0, len(selection.Cards)+1)
	for _, card := range selection.Cards {
		events = append(events, ledger.NewCardSpentEvent(cmd, card.ID, "silo:"+region, at))
	}
	events = append(events, newSiloEvent(cmd, EventTypeSiloConstructed, region, SiloConstructedPayload{Silo: Silo{
		RegionID:       region,
		OwnerID:        playerID,
		Status:         StatusConstruction,
		TurnsRemaining: view.Rules().ConstructionTurns,
	}}, at))
	return command.Accept(events...)
}

func decideArm(view world.View, silos State, cmd command.Command, at time.Time) command.Decision {
	var payload ArmPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	region := strings.TrimSpace(payload.RegionID)
	playerID := cmd.ActorID

	silo, ok := silos[region]
	if !ok {
		return command.Reject(command.Rejection{Code: RejectionCodeSiloUnknown, Message: "no silo at " + region})
	}
	if silo.OwnerID != playerID {
		return command.Reject(command.Rejection{Code: RejectionCodeSiloNotOwner, Message: "silo belongs to " + silo.OwnerID})
	}
	if view.Ownership().Owner(region) != playerID {
		return command.Reject(command.Rejection{Code: RejectionCodeRegionNotOwned, Message: "region is not owned: " + region})
	}
	if silo.Status != StatusActive {
		return command.Reject(command.Rejection{Code: RejectionCodeSiloNotActive, Message: "silo is " + string(silo.Status)})
	}
	if silo.Armed {
		return command.Reject(command.Rejection{Code: RejectionCodeSiloArmed, Message: "silo is already armed"})
	}
	selection, rejection := world.FillSlots(view, playerID, region, ArmingRequirement, payload.CardIDs, nil)
	if rejection != nil {
		return command.Reject(*rejection)
	}

	var fuel string
	events := make([]event.Event, 0, len(selection.Cards)+1)
	for _, card := range selection.Cards {
		if card.Class == ledger.ClassRawMaterial {
			fuel = card.ID
		}
		events = append(events, ledger.NewCardSpentEvent(cmd, card.ID, "arm:"+region, at))
	}
	events = append(events, newSiloEvent(cmd, EventTypeSiloArmed, region, SiloArmedPayload{
		RegionID:   region,
		OwnerID:    playerID,
		FuelCardID: fuel,
	}, at))

	armed := silos.Clone()
	silo.Armed = true
	silo.FuelCardID = fuel
	armed[region] = silo
	if Ready(view, armed, playerID) {
		events = append(events, Deterrence(view, armed, cmd, playerID, at)...)
	}
	return command.Accept(events...)
}

func decideLaunch(view world.View, silos State, cmd command.Command, at time.Time) command.Decision {
	playerID := cmd.ActorID
	if !view.HasPlayer(playerID) {
		return command.Reject(command.Rejection{Code: RejectionCodePlayerUnknown, Message: "player is unknown: " + playerID})
	}
	qualifying := Qualifying(view, silos, playerID)
	if len(qualifying) < view.Rules().MinReadySilos {
		return command.Reject(command.Rejection{Code: RejectionCodeNotReady, Message: playerID + " has no qualifying silos"})
	}
	if events := Deterrence(view, silos, cmd, playerID, at); len(events) > 0 {
		return command.Accept(events...)
	}
	regions := make([]string, 0, len(qualifying))
	for _, silo := range qualifying {
		regions = append(regions, silo.RegionID)
	}
	payloadJSON, _ := json.Marshal(LaunchedPayload{PlayerID: playerID, Silos: regions})
	return command.Accept(command.NewEvent(cmd, EventTypeLaunched, "player", playerID, payloadJSON, at))
}

// Deterrence evaluates every ready player against every other. When two or
// more are ready at once, all of them collide: each armed silo of each
// colliding player goes into cooldown. Nothing is returned when fewer than
// two players are ready.
func Deterrence(view world.View, silos State, cmd command.Command, triggeredBy string, at time.Time) []event.Event {
	ready := ReadyPlayers(view, silos)
	if len(ready) < 2 {
		return nil
	}
	cooldown := view.Rules().CooldownTurns
	payloadJSON, _ := json.Marshal(MADTriggeredPayload{Players: ready, TriggeredBy: triggeredBy, CooldownTurns: cooldown})
	events := []event.Event{command.NewEvent(cmd, EventTypeMADTriggered, "game", cmd.GameID, payloadJSON, at)}
	for _, playerID := range ready {
		for _, silo := range silos.Of(playerID) {
			if !silo.Armed {
				continue
			}
			events = append(events, newSiloEvent(cmd, EventTypeSiloCooldown, silo.RegionID, SiloCooldownPayload{
				RegionID:       silo.RegionID,
				OwnerID:        silo.OwnerID,
				TurnsRemaining: cooldown,
			}, at))
		}
	}
	return events
}

// Advances ticks every silo under construction or in cooldown. A silo whose
// counter reaches zero becomes active; leaving cooldown it is unarmed.
func Advances(rules world.Rules, silos State, cmd command.Command, at time.Time) []event.Event {
	var events []event.Event
	for _, silo := range silos.Sorted() {
		if silo.Status != StatusConstruction && silo.Status != StatusCooldown {
			continue
		}
		next := SiloAdvancedPayload{
			RegionID:       silo.RegionID,
			OwnerID:        silo.OwnerID,
			Status:         silo.Status,
			TurnsRemaining: silo.TurnsRemaining - 1,
		}
		if next.TurnsRemaining <= 0 {
			next.TurnsRemaining = 0
			next.Status = StatusActive
		}
		events = append(events, newSiloEvent(cmd, EventTypeSiloAdvanced, silo.RegionID, next, at))
	}
	return events
}

// Destructions returns silo_destroyed for every silo standing in a region that
// changed owner.
func Destructions(silos State, cmd command.Command, changes []territory.Change, at time.Time) []event.Event {
	var events []event.Event
	seen := map[string]bool{}
	for _, change := range changes {
		silo, ok := silos[change.RegionID]
		if !ok || seen[change.RegionID] || silo.OwnerID == change.NewOwner {
			continue
		}
		seen[change.RegionID] = true
		events = append(events, newSiloEvent(cmd, EventTypeSiloDestroyed, silo.RegionID, SiloDestroyedPayload{
			RegionID: silo.RegionID,
			OwnerID:  silo.OwnerID,
		}, at))
	}
	return events
}
