package treaty

// CreatePayload opens a new draft. CounterpartyID may be set later.
type CreatePayload struct {
	TreatyID       string `json:"treaty_id,omitempty"`
	CounterpartyID string `json:"counterparty_id,omitempty"`
}

// CreatedPayload records a new draft.
type CreatedPayload struct {
	TreatyID       string `json:"treaty_id"`
	CreatorID      string `json:"creator_id"`
	CounterpartyID string `json:"counterparty_id,omitempty"`
}

// SetCounterpartyPayload chooses the other party of a draft.
type SetCounterpartyPayload struct {
	TreatyID       string `json:"treaty_id"`
	CounterpartyID string `json:"counterparty_id"`
}

// DraftClausePayload adds a clause relative to the drafting party.
type DraftClausePayload struct {
	TreatyID  string     `json:"treaty_id"`
	ClauseID  string     `json:"clause_id,omitempty"`
	Type      ClauseType `json:"type"`
	Direction Direction  `json:"direction"`
	CardID    string     `json:"card_id,omitempty"`
	RegionID  string     `json:"region_id,omitempty"`
	Regions   []string   `json:"regions,omitempty"`
	Duration  int        `json:"duration,omitempty"`
}

// ClauseDraftedPayload records a resolved clause.
type ClauseDraftedPayload struct {
	TreatyID string `json:"treaty_id"`
	Clause   Clause `json:"clause"`
}

// RemoveClausePayload drops a clause from a non-active treaty.
type RemoveClausePayload struct {
	TreatyID string `json:"treaty_id"`
	ClauseID string `json:"clause_id"`
}

// TreatyPayload addresses a treaty for send, accept, reject and cancel.
type TreatyPayload struct {
	TreatyID string `json:"treaty_id"`
}

// OfferedPayload records a send or a counter-offer.
type OfferedPayload struct {
	TreatyID         string `json:"treaty_id"`
	ActorID          string `json:"actor_id"`
	Action           string `json:"action"`
	AwaitingPlayerID string `json:"awaiting_player_id"`
}

// AcceptedPayload records acceptance with the clause bookkeeping needed for
// later expiry.
type AcceptedPayload struct {
	TreatyID string   `json:"treaty_id"`
	ActorID  string   `json:"actor_id"`
	Clauses  []Clause `json:"clauses"`
}

// ClosedPayload records a rejection, cancellation or expiry.
type ClosedPayload struct {
	TreatyID string `json:"treaty_id"`
	ActorID  string `json:"actor_id,omitempty"`
}

// ClausesTickedPayload records one global turn passing for finite clauses.
type ClausesTickedPayload struct {
	TreatyID string `json:"treaty_id"`
	Turn     int    `json:"turn"`
}

// ClauseExpiredPayload records a finite clause running out.
type ClauseExpiredPayload struct {
	TreatyID string `json:"treaty_id"`
	ClauseID string `json:"clause_id"`
}
