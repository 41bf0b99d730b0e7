package ledger

// MintCardPayload creates a card bound to its origin region.
type MintCardPayload struct {
	CardID       string `json:"card_id"`
	Type         string `json:"type"`
	OriginRegion string `json:"origin_region"`
}

// CardMintedPayload records a new card.
type CardMintedPayload struct {
	Card Card `json:"card"`
}

// MintTokenPayload creates a supply token for a player.
type MintTokenPayload struct {
	TokenID      string     `json:"token_id"`
	Class        TokenClass `json:"class"`
	OriginRegion string     `json:"origin_region"`
	Owner        string     `json:"owner"`
}

// TokenMintedPayload records a new token.
type TokenMintedPayload struct {
	Token           Token  `json:"token"`
	ProjectRecordID string `json:"project_record_id,omitempty"`
}

// SpendCardPayload is the command payload for spending a card directly.
type SpendCardPayload struct {
	CardID string `json:"card_id"`
}

// CardSpentPayload records a card being spent this turn.
type CardSpentPayload struct {
	CardID string `json:"card_id"`
	Reason string `json:"reason,omitempty"`
}

// ConsumeTokenPayload is the command payload for consuming a token.
type ConsumeTokenPayload struct {
	TokenID string `json:"token_id"`
}

// TokenConsumedPayload records a token leaving play.
type TokenConsumedPayload struct {
	TokenID string `json:"token_id"`
	Owner   string `json:"owner"`
}

// TurnResetPayload records the start of a global turn.
type TurnResetPayload struct {
	Turn int `json:"turn"`
}

// CardTransferredPayload moves a card binding. An empty holder means bound to
// the origin region.
type CardTransferredPayload struct {
	CardID     string `json:"card_id"`
	FromHolder string `json:"from_holder,omitempty"`
	ToHolder   string `json:"to_holder,omitempty"`
	TreatyID   string `json:"treaty_id,omitempty"`
	ClauseID   string `json:"clause_id,omitempty"`
}

// CardDuplicatedPayload records a copy of a technology card.
type CardDuplicatedPayload struct {
	CardID       string `json:"card_id"`
	SourceCardID string `json:"source_card_id"`
	Holder       string `json:"holder"`
	TreatyID     string `json:"treaty_id,omitempty"`
	ClauseID     string `json:"clause_id,omitempty"`
}

// CardRemovedPayload records a card leaving play.
type CardRemovedPayload struct {
	CardID string `json:"card_id"`
	Reason string `json:"reason,omitempty"`
}
