package escalation

import (
	"encoding/json"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// Fold applies an escalation event to the silo set.
func Fold(silos State, evt event.Event) (State, error) {
	if silos == nil {
		silos = State{}
	}
	switch evt.Type {
	case EventTypeSiloConstructed:
		var payload SiloConstructedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := silos[payload.Silo.RegionID]; exists {
			return silos, invariant("region already holds a silo", payload.Silo.RegionID)
		}
		silos[payload.Silo.RegionID] = payload.Silo
	case EventTypeSiloArmed:
		var payload SiloArmedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		silo, exists := silos[payload.RegionID]
		if !exists || silo.Status != StatusActive || silo.Armed {
			return silos, invariant("armed silo is not active and unarmed", payload.RegionID)
		}
		silo.Armed = true
		silo.FuelCardID = payload.FuelCardID
		silos[payload.RegionID] = silo
	case EventTypeSiloAdvanced:
		var payload SiloAdvancedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		silo, exists := silos[payload.RegionID]
		if !exists {
			return silos, invariant("advanced silo does not exist", payload.RegionID)
		}
		if silo.Status == StatusCooldown && payload.Status == StatusActive {
			silo.Armed = false
			silo.FuelCardID = ""
		}
		silo.Status = payload.Status
		silo.TurnsRemaining = payload.TurnsRemaining
		silos[payload.RegionID] = silo
	case EventTypeSiloCooldown:
		var payload SiloCooldownPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		silo, exists := silos[payload.RegionID]
		if !exists {
			return silos, invariant("cooled silo does not exist", payload.RegionID)
		}
		silo.Status = StatusCooldown
		silo.TurnsRemaining = payload.TurnsRemaining
		silo.Armed = false
		silo.FuelCardID = ""
		silos[payload.RegionID] = silo
	case EventTypeSiloDestroyed:
		var payload SiloDestroyedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := silos[payload.RegionID]; !exists {
			return silos, invariant("destroyed silo does not exist", payload.RegionID)
		}
		delete(silos, payload.RegionID)
	}
	return silos, nil
}

func invariant(message, regionID string) error {
	return apperrors.Invariant(message, map[string]string{"region_id": regionID})
}
