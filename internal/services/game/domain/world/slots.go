package world

import (
	"sort"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
)

const (
	RejectionCodeCardUnknown      = "REQUIREMENT_CARD_UNKNOWN"
	RejectionCodeCardDuplicate    = "REQUIREMENT_CARD_DUPLICATE"
	RejectionCodeCardNotAvailable = "REQUIREMENT_CARD_NOT_AVAILABLE"
	RejectionCodeCardSpent        = "REQUIREMENT_CARD_SPENT"
	RejectionCodeCardUnexpected   = "REQUIREMENT_CARD_UNEXPECTED"
	RejectionCodeRouteInvalid     = "REQUIREMENT_ROUTE_INVALID"
	RejectionCodeSlotMissing      = "REQUIREMENT_SLOT_MISSING"
	RejectionCodeTokenNotOwned    = "REQUIREMENT_TOKEN_NOT_OWNED"
	RejectionCodeTokenDuplicate   = "REQUIREMENT_TOKEN_DUPLICATE"
	RejectionCodeTokenUnexpected  = "REQUIREMENT_TOKEN_UNEXPECTED"
	RejectionCodeTokenMissing     = "REQUIREMENT_TOKEN_MISSING"
)

// Requirement is a multiset of card types and token classes. Raw materials
// must additionally reach the destination region over an owned route.
type Requirement struct {
	Technologies []string            `json:"technologies,omitempty"`
	RawMaterials []string            `json:"raw_materials,omitempty"`
	Tokens       []ledger.TokenClass `json:"tokens,omitempty"`
}

// Selection is a validated set of cards and tokens filling a requirement.
type Selection struct {
	Cards  []ledger.Card
	Tokens []ledger.Token
}

// CardIDs returns the selected card ids in selection order.
func (s Selection) CardIDs() []string {
	out := make([]string, 0, len(s.Cards))
	for _, card := range s.Cards {
		out = append(out, card.ID)
	}
	return out
}

func openSlots(types []string) map[string]int {
	slots := make(map[string]int, len(types))
	for _, t := range types {
		slots[t]++
	}
	return slots
}

func reject(code, message string) *command.Rejection {
	return &command.Rejection{Code: code, Message: message}
}

// RouteValid reports whether card can serve playerID at destination.
// Inventory cards travel with their holder and need no route.
func RouteValid(view View, card ledger.Card, destination, playerID string) bool {
	if !card.RegionBound() {
		return card.Holder == playerID
	}
	return view.Reachable(card.OriginRegion, destination, playerID)
}

// FillSlots validates that cardIDs and tokenIDs exactly fill requirement for
// playerID at destination. The first problem found is returned as a rejection.
func FillSlots(view View, playerID, destination string, requirement Requirement, cardIDs, tokenIDs []string) (Selection, *command.Rejection) {
	state := view.Ledger()
	ownership := view.Ownership()
	techSlots := openSlots(requirement.Technologies)
	rawSlots := openSlots(requirement.RawMaterials)

	var selection Selection
	seen := map[string]bool{}
	for _, raw := range cardIDs {
		cardID := strings.TrimSpace(raw)
		if seen[cardID] {
			return Selection{}, reject(RejectionCodeCardDuplicate, "card chosen twice: "+cardID)
		}
		seen[cardID] = true
		card, ok := state.Card(cardID)
		if !ok {
			return Selection{}, reject(RejectionCodeCardUnknown, "card is unknown: "+cardID)
		}
		if !ledger.AvailableTo(card, ownership, playerID) {
			return Selection{}, reject(RejectionCodeCardNotAvailable, "card is not available: "+cardID)
		}
		if card.SpentThisTurn {
			return Selection{}, reject(RejectionCodeCardSpent, "card already spent this turn: "+cardID)
		}
		slots := techSlots
		if card.Class == ledger.ClassRawMaterial {
			slots = rawSlots
		}
		if slots[card.Type] == 0 {
			return Selection{}, reject(RejectionCodeCardUnexpected, "no open slot for "+card.Type+": "+cardID)
		}
		if card.Class == ledger.ClassRawMaterial && !RouteValid(view, card, destination, playerID) {
			return Selection{}, reject(RejectionCodeRouteInvalid, "no supply route from "+card.OriginRegion+" to "+destination)
		}
		slots[card.Type]--
		selection.Cards = append(selection.Cards, card)
	}
	if missing := firstOpen(techSlots); missing != "" {
		return Selection{}, reject(RejectionCodeSlotMissing, "missing technology: "+missing)
	}
	if missing := firstOpen(rawSlots); missing != "" {
		return Selection{}, reject(RejectionCodeSlotMissing, "missing raw material: "+missing)
	}

	tokenSlots := map[ledger.TokenClass]int{}
	for _, class := range requirement.Tokens {
		tokenSlots[class]++
	}
	seenTokens := map[string]bool{}
	for _, raw := range tokenIDs {
		tokenID := strings.TrimSpace(raw)
		if seenTokens[tokenID] {
			return Selection{}, reject(RejectionCodeTokenDuplicate, "token chosen twice: "+tokenID)
		}
		seenTokens[tokenID] = true
		token, ok := state.Token(tokenID)
		if !ok || token.Owner != playerID {
			return Selection{}, reject(RejectionCodeTokenNotOwned, "token is not owned: "+tokenID)
		}
		if tokenSlots[token.Class] == 0 {
			return Selection{}, reject(RejectionCodeTokenUnexpected, "no open slot for "+string(token.Class)+" token")
		}
		tokenSlots[token.Class]--
		selection.Tokens = append(selection.Tokens, token)
	}
	for _, class := range requirement.Tokens {
		if tokenSlots[class] > 0 {
			return Selection{}, reject(RejectionCodeTokenMissing, "missing "+string(class)+" token")
		}
	}
	return selection, nil
}

func firstOpen(slots map[string]int) string {
	var open []string
	for t, n := range slots {
		if n > 0 {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return ""
	}
	sort.Strings(open)
	return open[0]
}

// AutoFill greedily picks unspent cards and owned tokens that satisfy
// requirement at destination, lowest ids first. It reports false when some
// slot cannot be filled.
func AutoFill(view View, playerID, destination string, requirement Requirement) (cardIDs, tokenIDs []string, ok bool) {
	available := view.Available(playerID).Unspent()
	used := map[string]bool{}
	pick := func(pool []ledger.Card, cardType string, needsRoute bool) bool {
		for _, card := range pool {
			if used[card.ID] || card.Type != cardType {
				continue
			}
			if needsRoute && !RouteValid(view, card, destination, playerID) {
				continue
			}
			used[card.ID] = true
			cardIDs = append(cardIDs, card.ID)
			return true
		}
		return false
	}
	for _, cardType := range requirement.Technologies {
		if !pick(available.Technologies, cardType, false) {
			return nil, nil, false
		}
	}
	for _, cardType := range requirement.RawMaterials {
		if !pick(available.RawMaterials, cardType, true) {
			return nil, nil, false
		}
	}

	tokens := view.Ledger().TokensOf(playerID)
	usedTokens := map[string]bool{}
	for _, class := range requirement.Tokens {
		found := false
		for _, token := range tokens {
			if usedTokens[token.ID] || token.Class != class {
				continue
			}
			usedTokens[token.ID] = true
			tokenIDs = append(tokenIDs, token.ID)
			found = true
			break
		}
		if !found {
			return nil, nil, false
		}
	}
	return cardIDs, tokenIDs, true
}
