package territory

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

const (
	CommandTypeClaim   command.Type = "territory.claim"
	CommandTypeConquer command.Type = "territory.conquer"

	EventTypeRegionClaimed   event.Type = "territory.region_claimed"
	EventTypeRegionConquered event.Type = "territory.region_conquered"
	EventTypeRegionCeded     event.Type = "territory.region_ceded"

	RejectionCodeRegionUnknown   = "TERRITORY_REGION_UNKNOWN"
	RejectionCodePlayerUnknown   = "TERRITORY_PLAYER_UNKNOWN"
	RejectionCodeRegionClaimed   = "TERRITORY_REGION_CLAIMED"
	RejectionCodeFromNotOwned    = "TERRITORY_FROM_NOT_OWNED"
	RejectionCodeAlreadyOwned    = "TERRITORY_ALREADY_OWNED"
	RejectionCodeNotAdjacent     = "TERRITORY_NOT_ADJACENT"
	RejectionCodeAttackForbidden = "TERRITORY_ATTACK_FORBIDDEN"
)

// View is the read-only world surface territory commands decide against.
type View interface {
	Graph() *Graph
	Ownership() Ownership
	HasPlayer(id string) bool
	RouteEffects(player string) []Effect
	ForbidsAttack(attacker, from, defender string) bool
}

// Decide returns the decision for a territory command.
func Decide(view View, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	switch cmd.Type {
	case CommandTypeClaim:
		return decideClaim(view, cmd, now)
	case CommandTypeConquer:
		return decideConquer(view, cmd, now)
	default:
		return command.Reject(command.Rejection{
			Code:    "COMMAND_TYPE_UNSUPPORTED",
			Message: "command type is not supported by territory decider",
		})
	}
}

func decideClaim(view View, cmd command.Command, now func() time.Time) command.Decision {
	var payload ClaimPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	regionID := strings.TrimSpace(payload.RegionID)
	playerID := strings.TrimSpace(payload.PlayerID)

	if !view.Graph().HasRegion(regionID) {
		return command.Reject(command.Rejection{Code: RejectionCodeRegionUnknown, Message: "region is unknown: " + regionID})
	}
	if !view.HasPlayer(playerID) {
		return command.Reject(command.Rejection{Code: RejectionCodePlayerUnknown, Message: "player is unknown: " + playerID})
	}
	if owner := view.Ownership().Owner(regionID); owner != "" {
		return command.Reject(command.Rejection{Code: RejectionCodeRegionClaimed, Message: "region already owned by " + owner})
	}
	payloadJSON, _ := json.Marshal(ClaimPayload{RegionID: regionID, PlayerID: playerID})
	return command.Accept(command.NewEvent(cmd, EventTypeRegionClaimed, "region", regionID, payloadJSON, now().UTC()))
}

func decideConquer(view View, cmd command.Command, now func() time.Time) command.Decision {
	var payload ConquerPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	attacker := cmd.ActorID
	from := strings.TrimSpace(payload.FromRegion)
	target := strings.TrimSpace(payload.RegionID)
	graph := view.Graph()
	ownership := view.Ownership()

	if !view.HasPlayer(attacker) {
		return command.Reject(command.Rejection{Code: RejectionCodePlayerUnknown, Message: "player is unknown: " + attacker})
	}
	if !graph.HasRegion(from) || !graph.HasRegion(target) {
		return command.Reject(command.Rejection{Code: RejectionCodeRegionUnknown, Message: "region is unknown"})
	}
	if ownership.Owner(from) != attacker {
		return command.Reject(command.Rejection{Code: RejectionCodeFromNotOwned, Message: "attacking region is not owned: " + from})
	}
	defender := ownership.Owner(target)
	if defender == attacker {
		return command.Reject(command.Rejection{Code: RejectionCodeAlreadyOwned, Message: "region already owned: " + target})
	}
	if !Adjacent(graph, view.RouteEffects(attacker), from, target) {
		return command.Reject(command.Rejection{Code: RejectionCodeNotAdjacent, Message: from + " is not adjacent to " + target})
	}
	if defender != "" && view.ForbidsAttack(attacker, from, defender) {
		return command.Reject(command.Rejection{Code: RejectionCodeAttackForbidden, Message: "a non-aggression clause forbids attacks from " + from})
	}

	payloadJSON, _ := json.Marshal(ConqueredPayload{
		RegionID:      target,
		FromRegion:    from,
		PlayerID:      attacker,
		PreviousOwner: defender,
	})
	return command.Accept(command.NewEvent(cmd, EventTypeRegionConquered, "region", target, payloadJSON, now().UTC()))
}

// NewRegionCededEvent builds the event moving a region between players by
// treaty.
func NewRegionCededEvent(cmd command.Command, payload CededPayload, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(payload)
	return command.NewEvent(cmd, EventTypeRegionCeded, "region", payload.RegionID, payloadJSON, at)
}
