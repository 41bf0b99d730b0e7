package ledger

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
)

const (
	CommandTypeMintCard     command.Type = "ledger.mint_card"
	CommandTypeMintToken    command.Type = "ledger.mint_token"
	CommandTypeSpendCard    command.Type = "ledger.spend_card"
	CommandTypeConsumeToken command.Type = "ledger.consume_token"

	EventTypeCardMinted      event.Type = "ledger.card_minted"
	EventTypeCardSpent       event.Type = "ledger.card_spent"
	EventTypeTurnReset       event.Type = "ledger.turn_reset"
	EventTypeCardTransferred event.Type = "ledger.card_transferred"
	EventTypeCardDuplicated  event.Type = "ledger.card_duplicated"
	EventTypeCardRemoved     event.Type = "ledger.card_removed"
	EventTypeTokenMinted     event.Type = "ledger.token_minted"
	EventTypeTokenConsumed   event.Type = "ledger.token_consumed"

	RejectionCodeCardExists       = "LEDGER_CARD_EXISTS"
	RejectionCodeCardTypeUnknown  = "LEDGER_CARD_TYPE_UNKNOWN"
	RejectionCodeCardUnknown      = "LEDGER_CARD_UNKNOWN"
	RejectionCodeCardNotAvailable = "LEDGER_CARD_NOT_AVAILABLE"
	RejectionCodeRegionUnknown    = "LEDGER_REGION_UNKNOWN"
	RejectionCodePlayerUnknown    = "LEDGER_PLAYER_UNKNOWN"
	RejectionCodeTokenExists      = "LEDGER_TOKEN_EXISTS"
	RejectionCodeTokenClass       = "LEDGER_TOKEN_CLASS_INVALID"
	RejectionCodeTokenNotOwned    = "LEDGER_TOKEN_NOT_OWNED"
)

// View is the read-only world surface ledger commands decide against.
type View interface {
	Ledger() State
	Ownership() territory.Ownership
	HasRegion(id string) bool
	HasPlayer(id string) bool
}

// Decide returns the decision for a ledger command.
func Decide(view View, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	switch cmd.Type {
	case CommandTypeMintCard:
		return decideMintCard(view, cmd, now)
	case CommandTypeMintToken:
		return decideMintToken(view, cmd, now)
	case CommandTypeSpendCard:
		return decideSpendCard(view, cmd, now)
	case CommandTypeConsumeToken:
		return decideConsumeToken(view, cmd, now)
	default:
		return command.Reject(command.Rejection{
			Code:    "COMMAND_TYPE_UNSUPPORTED",
			Message: "command type is not supported by ledger decider",
		})
	}
}

func decideMintCard(view View, cmd command.Command, now func() time.Time) command.Decision {
	var payload MintCardPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	cardID := strings.TrimSpace(payload.CardID)
	cardType := strings.TrimSpace(payload.Type)
	origin := strings.TrimSpace(payload.OriginRegion)

	if _, exists := view.Ledger().Card(cardID); exists {
		return command.Reject(command.Rejection{Code: RejectionCodeCardExists, Message: "card already exists: " + cardID})
	}
	class, ok := ClassOf(cardType)
	if !ok {
		return command.Reject(command.Rejection{Code: RejectionCodeCardTypeUnknown, Message: "card type is unknown: " + cardType})
	}
	if !view.HasRegion(origin) {
		return command.Reject(command.Rejection{Code: RejectionCodeRegionUnknown, Message: "region is unknown: " + origin})
	}
	payloadJSON, _ := json.Marshal(CardMintedPayload{Card: Card{
		ID:           cardID,
		Class:        class,
		Type:         cardType,
		OriginRegion: origin,
	}})
	return command.Accept(command.NewEvent(cmd, EventTypeCardMinted, "card", cardID, payloadJSON, now().UTC()))
}

func decideMintToken(view View, cmd command.Command, now func() time.Time) command.Decision {
	var payload MintTokenPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	token := Token{
		ID:           strings.TrimSpace(payload.TokenID),
		Class:        TokenClass(strings.TrimSpace(string(payload.Class))),
		OriginRegion: strings.TrimSpace(payload.OriginRegion),
		Owner:        strings.TrimSpace(payload.Owner),
	}
	if _, exists := view.Ledger().Token(token.ID); exists {
		return command.Reject(command.Rejection{Code: RejectionCodeTokenExists, Message: "token already exists: " + token.ID})
	}
	if !ValidTokenClass(token.Class) {
		return command.Reject(command.Rejection{Code: RejectionCodeTokenClass, Message: "token class is invalid: " + string(token.Class)})
	}
	if !view.HasRegion(token.OriginRegion) {
		return command.Reject(command.Rejection{Code: RejectionCodeRegionUnknown, Message: "region is unknown: " + token.OriginRegion})
	}
	if !view.HasPlayer(token.Owner) {
		return command.Reject(command.Rejection{Code: RejectionCodePlayerUnknown, Message: "player is unknown: " + token.Owner})
	}
	return command.Accept(NewTokenMintedEvent(cmd, token, "", now().UTC()))
}

func decideSpendCard(view View, cmd command.Command, now func() time.Time) command.Decision {
	var payload SpendCardPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	card, ok := view.Ledger().Card(strings.TrimSpace(payload.CardID))
	if !ok {
		return command.Reject(command.Rejection{Code: RejectionCodeCardUnknown, Message: "card is unknown: " + payload.CardID})
	}
	if !AvailableTo(card, view.Ownership(), cmd.ActorID) {
		return command.Reject(command.Rejection{Code: RejectionCodeCardNotAvailable, Message: "card is not available to " + cmd.ActorID})
	}
	if card.SpentThisTurn {
		return command.Accept()
	}
	return command.Accept(NewCardSpentEvent(cmd, card.ID, "spend", now().UTC()))
}

func decideConsumeToken(view View, cmd command.Command, now func() time.Time) command.Decision {
	var payload ConsumeTokenPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	token, ok := view.Ledger().Token(strings.TrimSpace(payload.TokenID))
	if !ok || token.Owner != cmd.ActorID {
		return command.Reject(command.Rejection{Code: RejectionCodeTokenNotOwned, Message: "token is not owned by " + cmd.ActorID})
	}
	return command.Accept(NewTokenConsumedEvent(cmd, token, now().UTC()))
}

// NewCardSpentEvent builds the event other deciders emit when they consume a card.
func NewCardSpentEvent(cmd command.Command, cardID, reason string, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(CardSpentPayload{CardID: cardID, Reason: reason})
	return command.NewEvent(cmd, EventTypeCardSpent, "card", cardID, payloadJSON, at)
}

// NewTokenConsumedEvent builds a token consumption event.
func NewTokenConsumedEvent(cmd command.Command, token Token, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(TokenConsumedPayload{TokenID: token.ID, Owner: token.Owner})
	return command.NewEvent(cmd, EventTypeTokenConsumed, "token", token.ID, payloadJSON, at)
}

// NewTokenMintedEvent builds a token creation event, optionally tied to the
// project record that produced it.
func NewTokenMintedEvent(cmd command.Command, token Token, projectRecordID string, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(TokenMintedPayload{Token: token, ProjectRecordID: projectRecordID})
	return command.NewEvent(cmd, EventTypeTokenMinted, "token", token.ID, payloadJSON, at)
}

// NewTurnResetEvent builds the global turn reset event.
func NewTurnResetEvent(cmd command.Command, turn int, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(TurnResetPayload{Turn: turn})
	return command.NewEvent(cmd, EventTypeTurnReset, "game", cmd.GameID, payloadJSON, at)
}

// NewCardTransferredEvent builds a binding move.
func NewCardTransferredEvent(cmd command.Command, payload CardTransferredPayload, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(payload)
	return command.NewEvent(cmd, EventTypeCardTransferred, "card", payload.CardID, payloadJSON, at)
}

// NewCardDuplicatedEvent builds a card copy event.
func NewCardDuplicatedEvent(cmd command.Command, payload CardDuplicatedPayload, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(payload)
	return command.NewEvent(cmd, EventTypeCardDuplicated, "card", payload.CardID, payloadJSON, at)
}

// NewCardRemovedEvent builds a card removal event.
func NewCardRemovedEvent(cmd command.Command, cardID, reason string, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(CardRemovedPayload{CardID: cardID, Reason: reason})
	return command.NewEvent(cmd, EventTypeCardRemoved, "card", cardID, payloadJSON, at)
}
