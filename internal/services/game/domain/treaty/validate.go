package treaty

import (
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

func invalid(code, message string) *command.Rejection {
	return &command.Rejection{Code: code, Message: message}
}

// validateClause checks a clause against the live world: the referenced
// region or card must currently be available to the source player, and a
// card out on loan cannot be traded until it returns.
func validateClause(view world.View, treaties Treaties, clause Clause) *command.Rejection {
	if !validClauseType(clause.Type) {
		return invalid(RejectionCodeClauseInvalid, "clause type is unknown: "+string(clause.Type))
	}
	if clause.Duration != Indefinite && clause.Duration <= 0 {
		return invalid(RejectionCodeDurationInvalid, "duration must be positive or indefinite")
	}
	if !view.HasPlayer(clause.SourcePlayerID) || !view.HasPlayer(clause.TargetPlayerID) {
		return invalid(RejectionCodePlayerUnknown, "clause parties are unknown")
	}
	ownership := view.Ownership()
	switch clause.Type {
	case ClauseRegionCession:
		if !view.HasRegion(clause.RegionID) {
			return invalid(RejectionCodeClauseInvalid, "region is unknown: "+clause.RegionID)
		}
		if ownership.Owner(clause.RegionID) != clause.SourcePlayerID {
			return invalid(RejectionCodeClauseInvalid, clause.SourcePlayerID+" does not own "+clause.RegionID)
		}
	case ClauseRawMaterialCession, ClauseTechLoan, ClauseTechDuplicate:
		if clause.Type == ClauseTechLoan && !clause.Finite() {
			return invalid(RejectionCodeDurationInvalid, "a technology loan needs a finite duration")
		}
		card, ok := view.Ledger().Card(clause.CardID)
		if !ok {
			return invalid(RejectionCodeClauseInvalid, "card is unknown: "+clause.CardID)
		}
		wantClass := ledger.ClassTechnology
		if clause.Type == ClauseRawMaterialCession {
			wantClass = ledger.ClassRawMaterial
		}
		if card.Class != wantClass {
			return invalid(RejectionCodeClauseInvalid, "card "+card.ID+" is not "+string(wantClass))
		}
		if !ledger.AvailableTo(card, ownership, clause.SourcePlayerID) {
			return invalid(RejectionCodeClauseInvalid, clause.SourcePlayerID+" does not hold "+card.ID)
		}
		if treaties.OnLoan(card.ID) {
			return invalid(RejectionCodeCardOnLoan, "card is out on loan: "+card.ID)
		}
		if clause.Type != ClauseTechDuplicate && card.SpentThisTurn {
			return invalid(RejectionCodeClauseInvalid, "card already spent this turn: "+card.ID)
		}
	case ClauseNonAggression:
		if len(clause.Regions) == 0 {
			return invalid(RejectionCodeClauseInvalid, "non-aggression needs at least one region")
		}
		for _, region := range clause.Regions {
			if !view.HasRegion(region) {
				return invalid(RejectionCodeClauseInvalid, "region is unknown: "+region)
			}
			if ownership.Owner(region) != clause.SourcePlayerID {
				return invalid(RejectionCodeClauseInvalid, clause.SourcePlayerID+" does not own "+region)
			}
		}
	}
	return nil
}

// conflicts rejects clause lists that cede one region twice or move one card
// twice.
func conflicts(clauses []Clause) *command.Rejection {
	regions := map[string]bool{}
	cards := map[string]bool{}
	for _, clause := range clauses {
		switch clause.Type {
		case ClauseRegionCession:
			if regions[clause.RegionID] {
				return invalid(RejectionCodeClauseConflict, "region ceded twice: "+clause.RegionID)
			}
			regions[clause.RegionID] = true
		case ClauseRawMaterialCession, ClauseTechLoan:
			if cards[clause.CardID] {
				return invalid(RejectionCodeClauseConflict, "card moved twice: "+clause.CardID)
			}
			cards[clause.CardID] = true
		}
	}
	return nil
}

func validateAll(view world.View, treaties Treaties, treaty State) *command.Rejection {
	if len(treaty.Clauses) == 0 {
		return invalid(RejectionCodeClausesEmpty, "treaty has no clauses")
	}
	for _, clause := range treaty.Clauses {
		if !treaty.Involves(clause.SourcePlayerID) || !treaty.Involves(clause.TargetPlayerID) {
			return invalid(RejectionCodeClauseInvalid, "clause "+clause.ID+" names a non-party")
		}
		if rejected := validateClause(view, treaties, clause); rejected != nil {
			return rejected
		}
	}
	return conflicts(treaty.Clauses)
}
