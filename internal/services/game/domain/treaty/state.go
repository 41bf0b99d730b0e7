// Package treaty implements bilateral offer and negotiation between players.
// Clause directions are resolved to source and target players when drafted,
// and accepted clauses execute through the ledger and territory events.
package treaty

import (
	"sort"
	"time"
)

// Status is the lifecycle status of a treaty.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusActive          Status = "ACTIVE"
	StatusRejected        Status = "REJECTED"
	StatusCancelled       Status = "CANCELLED"
	StatusExpired         Status = "EXPIRED"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusExpired
}

// ClauseType enumerates the supported commitments.
type ClauseType string

const (
	ClauseRegionCession      ClauseType = "REGION_CESSION"
	ClauseRawMaterialCession ClauseType = "RAW_MATERIAL_CESSION"
	ClauseTechLoan           ClauseType = "TECH_LOAN"
	ClauseTechDuplicate      ClauseType = "TECH_DUPLICATE"
	ClauseNonAggression      ClauseType = "NON_AGGRESSION"
)

func validClauseType(t ClauseType) bool {
	switch t {
	case ClauseRegionCession, ClauseRawMaterialCession, ClauseTechLoan, ClauseTechDuplicate, ClauseNonAggression:
		return true
	}
	return false
}

// Direction is relative to the drafting party.
type Direction string

const (
	DirectionGive    Direction = "GIVE"
	DirectionReceive Direction = "RECEIVE"
)

// Indefinite marks a clause without expiry.
const Indefinite = -1

// Clause is one bilateral commitment. Source and target are resolved when the
// clause is drafted and never re-derived.
type Clause struct {
	ID              string     `json:"id"`
	Type            ClauseType `json:"type"`
	SourcePlayerID  string     `json:"source_player_id"`
	TargetPlayerID  string     `json:"target_player_id"`
	Duration        int        `json:"duration"`
	CardID          string     `json:"card_id,omitempty"`
	RegionID        string     `json:"region_id,omitempty"`
	Regions         []string   `json:"regions,omitempty"`
	RemainingTurns  int        `json:"remaining_turns,omitempty"`
	OriginalHolder  string     `json:"original_holder,omitempty"`
	DuplicateCardID string     `json:"duplicate_card_id,omitempty"`
	Expired         bool       `json:"expired,omitempty"`
}

// Finite reports whether the clause expires.
func (c Clause) Finite() bool {
	return c.Duration > 0
}

// Settled reports whether the clause has nothing left to do once active.
// Indefinite non-aggression stays in force until the treaty ends.
func (c Clause) Settled() bool {
	if c.Finite() {
		return c.Expired
	}
	return c.Type != ClauseNonAggression
}

// Clone returns an independent copy.
func (c Clause) Clone() Clause {
	c.Regions = append([]string(nil), c.Regions...)
	return c
}

// History actions.
const (
	ActionCreated   = "CREATED"
	ActionModified  = "MODIFIED"
	ActionAccepted  = "ACCEPTED"
	ActionRejected  = "REJECTED"
	ActionCancelled = "CANCELLED"
	ActionExpired   = "EXPIRED"
)

// HistoryEntry is one append-only log line.
type HistoryEntry struct {
	ActorID string    `json:"actor_id"`
	Action  string    `json:"action"`
	At      time.Time `json:"at"`
}

// State is one treaty.
type State struct {
	ID               string         `json:"id"`
	CreatorID        string         `json:"creator_id"`
	CounterpartyID   string         `json:"counterparty_id,omitempty"`
	Status           Status         `json:"status"`
	Clauses          []Clause       `json:"clauses,omitempty"`
	History          []HistoryEntry `json:"history,omitempty"`
	AwaitingPlayerID string         `json:"awaiting_player_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Involves reports whether playerID is a party.
func (s State) Involves(playerID string) bool {
	return playerID != "" && (s.CreatorID == playerID || s.CounterpartyID == playerID)
}

// Other returns the other party, or "" when playerID is not a party.
func (s State) Other(playerID string) string {
	switch playerID {
	case s.CreatorID:
		return s.CounterpartyID
	case s.CounterpartyID:
		return s.CreatorID
	}
	return ""
}

// Clause returns the clause with id.
func (s State) Clause(id string) (Clause, bool) {
	for _, clause := range s.Clauses {
		if clause.ID == id {
			return clause, true
		}
	}
	return Clause{}, false
}

// Clone returns an independent copy.
func (s State) Clone() State {
	out := s
	out.Clauses = make([]Clause, len(s.Clauses))
	for i, clause := range s.Clauses {
		out.Clauses[i] = clause.Clone()
	}
	out.History = append([]HistoryEntry(nil), s.History...)
	return out
}

// Treaties indexes every treaty of a game by id.
type Treaties map[string]State

// Clone returns an independent copy.
func (t Treaties) Clone() Treaties {
	out := make(Treaties, len(t))
	for id, treaty := range t {
		out[id] = treaty.Clone()
	}
	return out
}

// Involving returns the treaties where playerID is a party, sorted by id.
func (t Treaties) Involving(playerID string) []State {
	var out []State
	for _, treaty := range t {
		if treaty.Involves(playerID) {
			out = append(out, treaty)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sorted returns every treaty sorted by id.
func (t Treaties) Sorted() []State {
	out := make([]State, 0, len(t))
	for _, treaty := range t {
		out = append(out, treaty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OnLoan reports whether cardID is the subject of an unexpired loan in an
// active treaty.
func (t Treaties) OnLoan(cardID string) bool {
	for _, treaty := range t {
		if treaty.Status != StatusActive {
			continue
		}
		for _, clause := range treaty.Clauses {
			if clause.Type == ClauseTechLoan && clause.CardID == cardID && !clause.Expired {
				return true
			}
		}
	}
	return false
}

// ForbidsAttack reports whether an active non-aggression clause binds
// attacker against defender from the given region.
func (t Treaties) ForbidsAttack(attacker, from, defender string) bool {
	for _, treaty := range t {
		if treaty.Status != StatusActive {
			continue
		}
		for _, clause := range treaty.Clauses {
			if clause.Type != ClauseNonAggression || clause.Expired {
				continue
			}
			if clause.SourcePlayerID != attacker || clause.TargetPlayerID != defender {
				continue
			}
			for _, region := range clause.Regions {
				if region == from {
					return true
				}
			}
		}
	}
	return false
}
