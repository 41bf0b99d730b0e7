package territory

import (
	"encoding/json"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// Fold applies a territory event to ownership. A recorded previous owner that
// disagrees with the live owner means two players would hold the region.
func Fold(ownership Ownership, evt event.Event) (Ownership, error) {
	if ownership == nil {
		ownership = Ownership{}
	}
	switch evt.Type {
	case EventTypeRegionClaimed:
		var payload ClaimPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if owner := ownership[payload.RegionID]; owner != "" && owner != payload.PlayerID {
			return ownership, doubleOwnership(payload.RegionID, owner, payload.PlayerID)
		}
		ownership[payload.RegionID] = payload.PlayerID
	case EventTypeRegionConquered:
		var payload ConqueredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if owner := ownership[payload.RegionID]; owner != payload.PreviousOwner {
			return ownership, doubleOwnership(payload.RegionID, owner, payload.PlayerID)
		}
		ownership[payload.RegionID] = payload.PlayerID
	case EventTypeRegionCeded:
		var payload CededPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if owner := ownership[payload.RegionID]; owner != payload.FromPlayerID {
			return ownership, doubleOwnership(payload.RegionID, owner, payload.ToPlayerID)
		}
		ownership[payload.RegionID] = payload.ToPlayerID
	}
	return ownership, nil
}

func doubleOwnership(region, owner, claimant string) error {
	return apperrors.Invariant("region ownership mismatch", map[string]string{
		"region_id": region,
		"owner":     owner,
		"claimant":  claimant,
	})
}

// ChangedRegion extracts the region and new owner from an ownership event.
func ChangedRegion(evt event.Event) (region, previousOwner, newOwner string, ok bool) {
	switch evt.Type {
	case EventTypeRegionConquered:
		var payload ConqueredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return payload.RegionID, payload.PreviousOwner, payload.PlayerID, true
	case EventTypeRegionCeded:
		var payload CededPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return payload.RegionID, payload.FromPlayerID, payload.ToPlayerID, true
	}
	return "", "", "", false
}

// Change is one ownership transition.
type Change struct {
	RegionID      string
	PreviousOwner string
	NewOwner      string
}

// Changes collects the ownership transitions carried by events, in order.
func Changes(events []event.Event) []Change {
	var out []Change
	for _, evt := range events {
		if region, previous, next, ok := ChangedRegion(evt); ok && previous != next {
			out = append(out, Change{RegionID: region, PreviousOwner: previous, NewOwner: next})
		}
	}
	return out
}
