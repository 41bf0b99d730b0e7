package treaty

import (
	"encoding/json"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// Fold applies a treaty event. Terminal treaties never change again.
func Fold(treaties Treaties, evt event.Event) (Treaties, error) {
	if treaties == nil {
		treaties = Treaties{}
	}
	if !handled(evt.Type) {
		return treaties, nil
	}
	if evt.Type == EventTypeCreated {
		var payload CreatedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := treaties[payload.TreatyID]; exists {
			return treaties, invariant("treaty created twice", payload.TreatyID)
		}
		treaties[payload.TreatyID] = State{
			ID:             payload.TreatyID,
			CreatorID:      payload.CreatorID,
			CounterpartyID: payload.CounterpartyID,
			Status:         StatusDraft,
			CreatedAt:      evt.Timestamp,
		}
		return treaties, nil
	}

	var ref TreatyPayload
	_ = json.Unmarshal(evt.PayloadJSON, &ref)
	treaty, exists := treaties[ref.TreatyID]
	if !exists {
		return treaties, invariant("treaty does not exist", ref.TreatyID)
	}
	if treaty.Status.Terminal() {
		return treaties, invariant("terminal treaty modified", ref.TreatyID)
	}
	entry := func(actor, action string) {
		treaty.History = append(treaty.History, HistoryEntry{ActorID: actor, Action: action, At: evt.Timestamp})
	}

	switch evt.Type {
	case EventTypeCounterpartySet:
		var payload SetCounterpartyPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		treaty.CounterpartyID = payload.CounterpartyID
	case EventTypeClauseDrafted:
		var payload ClauseDraftedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := treaty.Clause(payload.Clause.ID); exists {
			return treaties, invariant("clause drafted twice", payload.Clause.ID)
		}
		treaty.Clauses = append(treaty.Clauses, payload.Clause)
	case EventTypeClauseRemoved:
		var payload RemoveClausePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		kept := treaty.Clauses[:0:0]
		for _, clause := range treaty.Clauses {
			if clause.ID != payload.ClauseID {
				kept = append(kept, clause)
			}
		}
		if len(kept) == len(treaty.Clauses) {
			return treaties, invariant("removed clause does not exist", payload.ClauseID)
		}
		treaty.Clauses = kept
	case EventTypeOffered:
		var payload OfferedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		treaty.Status = StatusPendingApproval
		treaty.AwaitingPlayerID = payload.AwaitingPlayerID
		entry(payload.ActorID, payload.Action)
	case EventTypeAccepted:
		var payload AcceptedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if treaty.Status != StatusPendingApproval {
			return treaties, invariant("accepted treaty was not pending", treaty.ID)
		}
		treaty.Status = StatusActive
		treaty.AwaitingPlayerID = ""
		treaty.Clauses = payload.Clauses
		entry(payload.ActorID, ActionAccepted)
	case EventTypeRejected:
		var payload ClosedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		treaty.Status = StatusRejected
		treaty.AwaitingPlayerID = ""
		entry(payload.ActorID, ActionRejected)
	case EventTypeCancelled:
		var payload ClosedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		treaty.Status = StatusCancelled
		treaty.AwaitingPlayerID = ""
		entry(payload.ActorID, ActionCancelled)
	case EventTypeClausesTicked:
		for i, clause := range treaty.Clauses {
			if clause.Finite() && !clause.Expired && clause.RemainingTurns > 0 {
				treaty.Clauses[i].RemainingTurns--
			}
		}
	case EventTypeClauseExpired:
		var payload ClauseExpiredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		found := false
		for i, clause := range treaty.Clauses {
			if clause.ID != payload.ClauseID {
				continue
			}
			if clause.Expired {
				return treaties, invariant("clause expired twice", payload.ClauseID)
			}
			treaty.Clauses[i].Expired = true
			treaty.Clauses[i].RemainingTurns = 0
			found = true
		}
		if !found {
			return treaties, invariant("expired clause does not exist", payload.ClauseID)
		}
	case EventTypeExpired:
		treaty.Status = StatusExpired
		entry("", ActionExpired)
	default:
		return treaties, nil
	}
	treaties[treaty.ID] = treaty
	return treaties, nil
}

func invariant(message, treatyID string) error {
	return apperrors.Invariant(message, map[string]string{"treaty_id": treatyID})
}

func handled(eventType event.Type) bool {
	for _, t := range EmittableEventTypes() {
		if t == eventType {
			return true
		}
	}
	return false
}
