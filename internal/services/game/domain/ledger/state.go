package ledger

import (
	"sort"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
)

// Class separates technology cards from raw-material cards.
type Class string

const (
	ClassTechnology  Class = "technology"
	ClassRawMaterial Class = "raw_material"
)

// Technology card types.
const (
	TechLightIndustry = "light_industry"
	TechHeavyIndustry = "heavy_industry"
	TechElectronics   = "electronics"
	TechBiotechnology = "biotechnology"
	TechAerospace     = "aerospace"
	TechNuclear       = "nuclear"
)

// Raw-material card types.
const (
	RawIron           = "iron"
	RawAluminum       = "aluminum"
	RawSemiconductors = "semiconductors"
	RawOil            = "oil"
	RawUranium        = "uranium"
	RawCopper         = "copper"
	RawRareEarths     = "rare_earths"
)

var cardClasses = map[string]Class{
	TechLightIndustry: ClassTechnology,
	TechHeavyIndustry: ClassTechnology,
	TechElectronics:   ClassTechnology,
	TechBiotechnology: ClassTechnology,
	TechAerospace:     ClassTechnology,
	TechNuclear:       ClassTechnology,
	RawIron:           ClassRawMaterial,
	RawAluminum:       ClassRawMaterial,
	RawSemiconductors: ClassRawMaterial,
	RawOil:            ClassRawMaterial,
	RawUranium:        ClassRawMaterial,
	RawCopper:         ClassRawMaterial,
	RawRareEarths:     ClassRawMaterial,
}

// ClassOf returns the class of a card type.
func ClassOf(cardType string) (Class, bool) {
	class, ok := cardClasses[cardType]
	return class, ok
}

// TokenClass is the resource class of a supply token.
type TokenClass string

const (
	TokenFood        TokenClass = "food"
	TokenManufacture TokenClass = "manufacture"
	TokenEnergy      TokenClass = "energy"
)

// ValidTokenClass reports whether class is a known token class.
func ValidTokenClass(class TokenClass) bool {
	switch class {
	case TokenFood, TokenManufacture, TokenEnergy:
		return true
	}
	return false
}

// Card is a technology or raw-material unit.
type Card struct {
	ID            string `json:"id"`
	Class         Class  `json:"class"`
	Type          string `json:"type"`
	OriginRegion  string `json:"origin_region"`
	Holder        string `json:"holder,omitempty"`
	DuplicateOf   string `json:"duplicate_of,omitempty"`
	SpentThisTurn bool   `json:"spent_this_turn"`
}

// RegionBound reports whether the card is still bound to its origin region.
func (c Card) RegionBound() bool {
	return c.Holder == ""
}

// Token is a one-shot supply unit.
type Token struct {
	ID           string     `json:"id"`
	Class        TokenClass `json:"class"`
	OriginRegion string     `json:"origin_region"`
	Owner        string     `json:"owner"`
}

// State is the ledger for one game.
type State struct {
	Cards  map[string]Card  `json:"cards"`
	Tokens map[string]Token `json:"tokens"`
}

// NewState returns an empty ledger.
func NewState() State {
	return State{Cards: map[string]Card{}, Tokens: map[string]Token{}}
}

// Clone returns an independent copy.
func (s State) Clone() State {
	out := NewState()
	for id, card := range s.Cards {
		out.Cards[id] = card
	}
	for id, token := range s.Tokens {
		out.Tokens[id] = token
	}
	return out
}

// Card returns the card with id.
func (s State) Card(id string) (Card, bool) {
	card, ok := s.Cards[id]
	return card, ok
}

// Token returns the token with id.
func (s State) Token(id string) (Token, bool) {
	token, ok := s.Tokens[id]
	return token, ok
}

// MarkSpent flags a card as spent. It reports whether the flag changed;
// marking an already spent or unknown card is a no-op.
func (s State) MarkSpent(id string) bool {
	card, ok := s.Cards[id]
	if !ok || card.SpentThisTurn {
		return false
	}
	card.SpentThisTurn = true
	s.Cards[id] = card
	return true
}

// ResetTurn clears the spent flag on every card.
func (s State) ResetTurn() {
	for id, card := range s.Cards {
		if card.SpentThisTurn {
			card.SpentThisTurn = false
			s.Cards[id] = card
		}
	}
}

// ConsumeToken removes a token owned by player. It returns false when the
// token is unknown or belongs to someone else.
func (s State) ConsumeToken(player, id string) bool {
	token, ok := s.Tokens[id]
	if !ok || token.Owner != player {
		return false
	}
	delete(s.Tokens, id)
	return true
}

// TokensOf returns the tokens owned by player, sorted by id.
func (s State) TokensOf(player string) []Token {
	var out []Token
	for _, token := range s.Tokens {
		if token.Owner == player {
			out = append(out, token)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AvailableTo reports whether player may use the card: either it sits in the
// player's inventory or it is bound to a region the player owns.
func AvailableTo(card Card, ownership territory.Ownership, player string) bool {
	if player == "" {
		return false
	}
	if card.Holder != "" {
		return card.Holder == player
	}
	return ownership.Owner(card.OriginRegion) == player
}

// Resources lists the cards a player can use, split by class.
type Resources struct {
	Technologies []Card `json:"technologies"`
	RawMaterials []Card `json:"raw_materials"`
}

// Unspent filters out cards spent this turn.
func (r Resources) Unspent() Resources {
	return Resources{
		Technologies: unspent(r.Technologies),
		RawMaterials: unspent(r.RawMaterials),
	}
}

// IDs returns every card id in the listing.
func (r Resources) IDs() []string {
	out := make([]string, 0, len(r.Technologies)+len(r.RawMaterials))
	for _, card := range r.Technologies {
		out = append(out, card.ID)
	}
	for _, card := range r.RawMaterials {
		out = append(out, card.ID)
	}
	sort.Strings(out)
	return out
}

func unspent(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, card := range cards {
		if !card.SpentThisTurn {
			out = append(out, card)
		}
	}
	return out
}

// Available returns every card usable by player, spent or not, sorted by id.
func Available(state State, ownership territory.Ownership, player string) Resources {
	var out Resources
	for _, card := range state.Cards {
		if !AvailableTo(card, ownership, player) {
			continue
		}
		switch card.Class {
		case ClassTechnology:
			out.Technologies = append(out.Technologies, card)
		case ClassRawMaterial:
			out.RawMaterials = append(out.RawMaterials, card)
		}
	}
	sort.Slice(out.Technologies, func(i, j int) bool { return out.Technologies[i].ID < out.Technologies[j].ID })
	sort.Slice(out.RawMaterials, func(i, j int) bool { return out.RawMaterials[i].ID < out.RawMaterials[j].ID })
	return out
}
