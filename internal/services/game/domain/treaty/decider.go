package treaty

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
	CommandTypeCreate          command.Type = "treaty.create"
	CommandTypeSetCounterparty command.Type = "treaty.set_counterparty"
	CommandTypeDraftClause     command.Type = "treaty.draft_clause"
	CommandTypeRemoveClause    command.Type = "treaty.remove_clause"
	CommandTypeSend            command.Type = "treaty.send"
	CommandTypeAccept          command.Type = "treaty.accept"
	CommandTypeReject          command.Type = "treaty.reject"
	CommandTypeCancel          command.Type = "treaty.cancel"

	EventTypeCreated         event.Type = "treaty.created"
	EventTypeCounterpartySet event.Type = "treaty.counterparty_set"
	EventTypeClauseDrafted   event.Type = "treaty.clause_drafted"
	EventTypeClauseRemoved   event.Type = "treaty.clause_removed"
	EventTypeOffered         event.Type = "treaty.offered"
	EventTypeAccepted        event.Type = "treaty.accepted"
	EventTypeRejected        event.Type = "treaty.rejected"
	EventTypeCancelled       event.Type = "treaty.cancelled"
	EventTypeClausesTicked   event.Type = "treaty.clauses_ticked"
	EventTypeClauseExpired   event.Type = "treaty.clause_expired"
	EventTypeExpired         event.Type = "treaty.expired"

	RejectionCodeExists              = "TREATY_EXISTS"
	RejectionCodeUnknown             = "TREATY_UNKNOWN"
	RejectionCodePlayerUnknown       = "TREATY_PLAYER_UNKNOWN"
	RejectionCodeCounterpartyInvalid = "TREATY_COUNTERPARTY_INVALID"
	RejectionCodeCounterpartyMissing = "TREATY_COUNTERPARTY_MISSING"
	RejectionCodeNotCreator          = "TREATY_NOT_CREATOR"
	RejectionCodeNotParty            = "TREATY_NOT_PARTY"
	RejectionCodeNotAwaiting         = "TREATY_NOT_AWAITING"
	RejectionCodeStatusInvalid       = "TREATY_STATUS_INVALID"
	RejectionCodeClausesPresent      = "TREATY_CLAUSES_PRESENT"
	RejectionCodeClausesEmpty        = "TREATY_CLAUSES_EMPTY"
	RejectionCodeClauseUnknown       = "TREATY_CLAUSE_UNKNOWN"
	RejectionCodeClauseExists        = "TREATY_CLAUSE_EXISTS"
	RejectionCodeClauseInvalid       = "TREATY_CLAUSE_INVALID"
	RejectionCodeClauseConflict      = "TREATY_CLAUSE_CONFLICT"
	RejectionCodeDurationInvalid     = "TREATY_DURATION_INVALID"
	RejectionCodeCardOnLoan          = "TREATY_CARD_ON_LOAN"
)

// Decide returns the decision for a treaty command.
func Decide(view world.View, treaties Treaties, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	at := now().UTC()
	switch cmd.Type {
	case CommandTypeCreate:
		return decideCreate(view, treaties, cmd, at)
	case CommandTypeSetCounterparty:
		return decideSetCounterparty(view, treaties, cmd, at)
	case CommandTypeDraftClause:
		return decideDraftClause(view, treaties, cmd, at)
	case CommandTypeRemoveClause:
		return decideRemoveClause(treaties, cmd, at)
	case CommandTypeSend:
		return decideSend(view, treaties, cmd, at)
	case CommandTypeAccept:
		return decideAccept(view, treaties, cmd, at)
	case CommandTypeReject:
		return decideReject(treaties, cmd, at)
	case CommandTypeCancel:
		return decideCancel(treaties, cmd, at)
	default:
		return command.Reject(command.Rejection{
			Code:    "COMMAND_TYPE_UNSUPPORTED",
			Message: "command type is not supported by treaty decider",
		})
	}
}

func rejection(code, message string) command.Decision {
	return command.Reject(command.Rejection{Code: code, Message: message})
}

func newTreatyEvent(cmd command.Command, eventType event.Type, treatyID string, payload any, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(payload)
	return command.NewEvent(cmd, eventType, "treaty", treatyID, payloadJSON, at)
}

func decideCreate(view world.View, treaties Treaties, cmd command.Command, at time.Time) command.Decision {
	var payload CreatePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	treatyID := strings.TrimSpace(payload.TreatyID)
	if treatyID == "" {
		treatyID = cmd.RequestID
	}
	counterparty := strings.TrimSpace(payload.CounterpartyID)
	if _, exists := treaties[treatyID]; exists {
		return rejection(RejectionCodeExists, "treaty already exists: "+treatyID)
	}
	if !view.HasPlayer(cmd.ActorID) {
		return rejection(RejectionCodePlayerUnknown, "player is unknown: "+cmd.ActorID)
	}
	if counterparty != "" && (counterparty == cmd.ActorID || !view.HasPlayer(counterparty)) {
		return rejection(RejectionCodeCounterpartyInvalid, "counterparty is invalid: "+counterparty)
	}
	return command.Accept(newTreatyEvent(cmd, EventTypeCreated, treatyID, CreatedPayload{
		TreatyID:       treatyID,
		CreatorID:      cmd.ActorID,
		CounterpartyID: counterparty,
	}, at))
}

func lookup(treaties Treaties, treatyID string) (State, *command.Decision) {
	treaty, ok := treaties[strings.TrimSpace(treatyID)]
	if !ok {
		decision := rejection(RejectionCodeUnknown, "treaty is unknown: "+treatyID)
		return State{}, &decision
	}
	if treaty.Status.Terminal() {
		decision := rejection(RejectionCodeStatusInvalid, "treaty is "+string(treaty.Status))
		return State{}, &decision
	}
	return treaty, nil
}

func decideSetCounterparty(view world.View, treaties Treaties, cmd command.Command, at time.Time) command.Decision {
	var payload SetCounterpartyPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	treaty, rejected := lookup(treaties, payload.TreatyID)
	if rejected != nil {
		return *rejected
	}
	if treaty.Status != StatusDraft {
		return rejection(RejectionCodeStatusInvalid, "counterparty can only change while drafting")
	}
	if treaty.CreatorID != cmd.ActorID {
		return rejection(RejectionCodeNotCreator, "only the creator edits a draft")
	}
	if len(treaty.Clauses) > 0 {
		return rejection(RejectionCodeClausesPresent, "remove clauses before changing the counterparty")
	}
	counterparty := strings.TrimSpace(payload.CounterpartyID)
	if counterparty == "" || counterparty == cmd.ActorID || !view.HasPlayer(counterparty) {
		return rejection(RejectionCodeCounterpartyInvalid, "counterparty is invalid: "+counterparty)
	}
	return command.Accept(newTreatyEvent(cmd, EventTypeCounterpartySet, treaty.ID, SetCounterpartyPayload{
		TreatyID:       treaty.ID,
		CounterpartyID: counterparty,
	}, at))
}

// editor reports whether actorID may change the clause list: the creator
// while drafting, or the awaiting party preparing a counter-offer.
func editor(treaty State, actorID string) *command.Decision {
	switch treaty.Status {
	case StatusDraft:
		if treaty.CreatorID != actorID {
			decision := rejection(RejectionCodeNotCreator, "only the creator edits a draft")
			return &decision
		}
	case StatusPendingApproval:
		if treaty.AwaitingPlayerID != actorID {
			decision := rejection(RejectionCodeNotAwaiting, "only the awaiting party may counter")
			return &decision
		}
	default:
		decision := rejection(RejectionCodeStatusInvalid, "clauses cannot change while "+string(treaty.Status))
		return &decision
	}
	return nil
}

func decideDraftClause(view world.View, treaties Treaties, cmd command.Command, at time.Time) command.Decision {
	var payload DraftClausePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	treaty, rejected := lookup(treaties, payload.TreatyID)
	if rejected != nil {
		return *rejected
	}
	if rejected := editor(treaty, cmd.ActorID); rejected != nil {
		return *rejected
	}
	other := treaty.Other(cmd.ActorID)
	if other == "" {
		return rejection(RejectionCodeCounterpartyMissing, "choose a counterparty before drafting clauses")
	}
	clauseID := strings.TrimSpace(payload.ClauseID)
	if clauseID == "" {
		clauseID = cmd.RequestID
	}
	if _, exists := treaty.Clause(clauseID); exists {
		return rejection(RejectionCodeClauseExists, "clause already exists: "+clauseID)
	}

	clause := Clause{
		ID:       clauseID,
		Type:     payload.Type,
		Duration: payload.Duration,
		CardID:   strings.TrimSpace(payload.CardID),
		RegionID: strings.TrimSpace(payload.RegionID),
	}
	for _, region := range payload.Regions {
		if region = strings.TrimSpace(region); region != "" {
			clause.Regions = append(clause.Regions, region)
		}
	}
	if clause.Duration == 0 {
		clause.Duration = Indefinite
	}
	switch payload.Direction {
	case DirectionGive:
		clause.SourcePlayerID, clause.TargetPlayerID = cmd.ActorID, other
	case DirectionReceive:
		clause.SourcePlayerID, clause.TargetPlayerID = other, cmd.ActorID
	default:
		return rejection(RejectionCodeClauseInvalid, "direction must be GIVE or RECEIVE")
	}
	if rejected := validateClause(view, treaties, clause); rejected != nil {
		return command.Reject(*rejected)
	}
	if rejected := conflicts(append(append([]Clause(nil), treaty.Clauses...), clause)); rejected != nil {
		return command.Reject(*rejected)
	}
	return command.Accept(newTreatyEvent(cmd, EventTypeClauseDrafted, treaty.ID, ClauseDraftedPayload{
		TreatyID: treaty.ID,
		Clause:   clause,
	}, at))
}

func decideRemoveClause(treaties Treaties, cmd command.Command, at time.Time) command.Decision {
	var payload RemoveClausePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	treaty, rejected := lookup(treaties, payload.TreatyID)
	if rejected != nil {
		return *rejected
	}
	if rejected := editor(treaty, cmd.ActorID); rejected != nil {
		return *rejected
	}
	clauseID := strings.TrimSpace(payload.ClauseID)
	if _, exists := treaty.Clause(clauseID); !exists {
		return rejection(RejectionCodeClauseUnknown, "clause is unknown: "+clauseID)
	}
	return command.Accept(newTreatyEvent(cmd, EventTypeClauseRemoved, treaty.ID, RemoveClausePayload{
		TreatyID: treaty.ID,
		ClauseID: clauseID,
	}, at))
}

func decideSend(view world.View, treaties Treaties, cmd command.Command, at time.Time) command.Decision {
	var payload TreatyPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	treaty, rejected := lookup(treaties, payload.TreatyID)
	if rejected != nil {
		return *rejected
	}
	action := ActionCreated
	switch treaty.Status {
	case StatusDraft:
		if treaty.CreatorID != cmd.ActorID {
			return rejection(RejectionCodeNotCreator, "only the creator sends a draft")
		}
	case StatusPendingApproval:
		if treaty.AwaitingPlayerID != cmd.ActorID {
			return rejection(RejectionCodeNotAwaiting, "only the awaiting party may counter")
		}
		action = ActionModified
	default:
		return rejection(RejectionCodeStatusInvalid, "treaty cannot be sent while "+string(treaty.Status))
	}
	if treaty.CounterpartyID == "" {
		return rejection(RejectionCodeCounterpartyMissing, "treaty has no counterparty")
	}
	if rejected := validateAll(view, treaties, treaty); rejected != nil {
		return command.Reject(*rejected)
	}
	return command.Accept(newTreatyEvent(cmd, EventTypeOffered, treaty.ID, OfferedPayload{
		TreatyID:         treaty.ID,
		ActorID:          cmd.ActorID,
		Action:           action,
		AwaitingPlayerID: treaty.Other(cmd.ActorID),
	}, at))
}

func decideAccept(view world.View, treaties Treaties, cmd command.Command, at time.Time) command.Decision {
	var payload TreatyPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	treaty, rejected := lookup(treaties, payload.TreatyID)
	if rejected != nil {
		return *rejected
	}
	if treaty.Status != StatusPendingApproval {
		return rejection(RejectionCodeStatusInvalid, "treaty is not awaiting approval")
	}
	if treaty.AwaitingPlayerID != cmd.ActorID {
		return rejection(RejectionCodeNotAwaiting, "only the awaiting party may accept")
	}
	if rejected := validateAll(view, treaties, treaty); rejected != nil {
		return command.Reject(*rejected)
	}

	state := view.Ledger()
	clauses := make([]Clause, 0, len(treaty.Clauses))
	var effects []event.Event
	for _, clause := range treaty.Clauses {
		clause = clause.Clone()
		if clause.Finite() {
			clause.RemainingTurns = clause.Duration
		}
		switch clause.Type {
		case ClauseRegionCession:
			effects = append(effects, territory.NewRegionCededEvent(cmd, territory.CededPayload{
				RegionID:     clause.RegionID,
				FromPlayerID: clause.SourcePlayerID,
				ToPlayerID:   clause.TargetPlayerID,
				TreatyID:     treaty.ID,
				ClauseID:     clause.ID,
			}, at))
		case ClauseRawMaterialCession, ClauseTechLoan:
			card, _ := state.Card(clause.CardID)
			clause.OriginalHolder = card.Holder
			effects = append(effects, ledger.NewCardTransferredEvent(cmd, ledger.CardTransferredPayload{
				CardID:     card.ID,
				FromHolder: card.Holder,
				ToHolder:   clause.TargetPlayerID,
				TreatyID:   treaty.ID,
				ClauseID:   clause.ID,
			}, at))
		case ClauseTechDuplicate:
			clause.DuplicateCardID = clause.CardID + ":dup:" + clause.ID
			if _, exists := state.Card(clause.DuplicateCardID); exists {
				return rejection(RejectionCodeClauseConflict, "duplicate card already exists: "+clause.DuplicateCardID)
			}
			effects = append(effects, ledger.NewCardDuplicatedEvent(cmd, ledger.CardDuplicatedPayload{
				CardID:       clause.DuplicateCardID,
				SourceCardID: clause.CardID,
				Holder:       clause.TargetPlayerID,
				TreatyID:     treaty.ID,
				ClauseID:     clause.ID,
			}, at))
		}
		clauses = append(clauses, clause)
	}
	events := make([]event.Event, 0, len(effects)+1)
	events = append(events, newTreatyEvent(cmd, EventTypeAccepted, treaty.ID, AcceptedPayload{
		TreatyID: treaty.ID,
		ActorID:  cmd.ActorID,
		Clauses:  clauses,
	}, at))
	events = append(events, effects...)
	return command.Accept(events...)
}

func decideReject(treaties Treaties, cmd command.Command, at time.Time) command.Decision {
	var payload TreatyPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	treaty, rejected := lookup(treaties, payload.TreatyID)
	if rejected != nil {
		return *rejected
	}
	if treaty.Status != StatusPendingApproval {
		return rejection(RejectionCodeStatusInvalid, "treaty is not awaiting approval")
	}
	if treaty.AwaitingPlayerID != cmd.ActorID {
		return rejection(RejectionCodeNotAwaiting, "only the awaiting party may reject")
	}
	return command.Accept(newTreatyEvent(cmd, EventTypeRejected, treaty.ID, ClosedPayload{TreatyID: treaty.ID, ActorID: cmd.ActorID}, at))
}

func decideCancel(treaties Treaties, cmd command.Command, at time.Time) command.Decision {
	var payload TreatyPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	treaty, rejected := lookup(treaties, payload.TreatyID)
	if rejected != nil {
		return *rejected
	}
	switch treaty.Status {
	case StatusDraft:
		if treaty.CreatorID != cmd.ActorID {
			return rejection(RejectionCodeNotCreator, "only the creator cancels a draft")
		}
	case StatusPendingApproval:
		if !treaty.Involves(cmd.ActorID) {
			return rejection(RejectionCodeNotParty, "only a party may cancel")
		}
	default:
		return rejection(RejectionCodeStatusInvalid, "treaty cannot be cancelled while "+string(treaty.Status))
	}
	return command.Accept(newTreatyEvent(cmd, EventTypeCancelled, treaty.ID, ClosedPayload{TreatyID: treaty.ID, ActorID: cmd.ActorID}, at))
}
