package ledger

import (
	"encoding/json"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// Fold applies a ledger event. Errors are invariant violations: the decision
// that produced the event disagrees with the ledger it was decided against.
func Fold(state State, evt event.Event) (State, error) {
	if state.Cards == nil || state.Tokens == nil {
		fresh := NewState()
		for id, card := range state.Cards {
			fresh.Cards[id] = card
		}
		for id, token := range state.Tokens {
			fresh.Tokens[id] = token
		}
		state = fresh
	}
	switch evt.Type {
	case EventTypeCardMinted:
		var payload CardMintedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := state.Cards[payload.Card.ID]; exists {
			return state, invariant("card minted twice", payload.Card.ID)
		}
		state.Cards[payload.Card.ID] = payload.Card
	case EventTypeCardSpent:
		var payload CardSpentPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := state.Cards[payload.CardID]; !exists {
			return state, invariant("spent card does not exist", payload.CardID)
		}
		if !state.MarkSpent(payload.CardID) {
			return state, invariant("card spent twice in one turn", payload.CardID)
		}
	case EventTypeTurnReset:
		state.ResetTurn()
	case EventTypeCardTransferred:
		var payload CardTransferredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		card, exists := state.Cards[payload.CardID]
		if !exists {
			return state, invariant("transferred card does not exist", payload.CardID)
		}
		if card.Holder != payload.FromHolder {
			return state, invariant("card binding does not match transfer source", payload.CardID)
		}
		card.Holder = payload.ToHolder
		state.Cards[payload.CardID] = card
	case EventTypeCardDuplicated:
		var payload CardDuplicatedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		source, exists := state.Cards[payload.SourceCardID]
		if !exists {
			return state, invariant("duplicated card source does not exist", payload.SourceCardID)
		}
		if _, exists := state.Cards[payload.CardID]; exists {
			return state, invariant("duplicate card id already in use", payload.CardID)
		}
		state.Cards[payload.CardID] = Card{
			ID:           payload.CardID,
			Class:        source.Class,
			Type:         source.Type,
			OriginRegion: source.OriginRegion,
			Holder:       payload.Holder,
			DuplicateOf:  source.ID,
		}
	case EventTypeCardRemoved:
		var payload CardRemovedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := state.Cards[payload.CardID]; !exists {
			return state, invariant("removed card does not exist", payload.CardID)
		}
		delete(state.Cards, payload.CardID)
	case EventTypeTokenMinted:
		var payload TokenMintedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if _, exists := state.Tokens[payload.Token.ID]; exists {
			return state, invariant("token minted twice", payload.Token.ID)
		}
		state.Tokens[payload.Token.ID] = payload.Token
	case EventTypeTokenConsumed:
		var payload TokenConsumedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if !state.ConsumeToken(payload.Owner, payload.TokenID) {
			return state, invariant("consumed token is not owned", payload.TokenID)
		}
	}
	return state, nil
}

func invariant(message, id string) error {
	return apperrors.Invariant(message, map[string]string{"id": id})
}
