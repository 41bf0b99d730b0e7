package treaty

import (
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
)

// Expirations advances finite clauses of every active treaty by one global
// turn. Clauses reaching zero expire; loans go back to their original
// binding and duplicates leave play. A treaty whose clauses are all settled
// after at least one finite clause expired becomes EXPIRED.
func Expirations(state ledger.State, treaties Treaties, cmd command.Command, turn int, at time.Time) []event.Event {
	var events []event.Event
	for _, treaty := range treaties.Sorted() {
		if treaty.Status != StatusActive {
			continue
		}
		ticking := false
		for _, clause := range treaty.Clauses {
			if clause.Finite() && !clause.Expired {
				ticking = true
				break
			}
		}
		if !ticking {
			continue
		}
		events = append(events, newTreatyEvent(cmd, EventTypeClausesTicked, treaty.ID, ClausesTickedPayload{
			TreatyID: treaty.ID,
			Turn:     turn,
		}, at))

		settled := true
		for _, clause := range treaty.Clauses {
			expiring := clause.Finite() && !clause.Expired && clause.RemainingTurns <= 1
			if expiring {
				events = append(events, newTreatyEvent(cmd, EventTypeClauseExpired, treaty.ID, ClauseExpiredPayload{
					TreatyID: treaty.ID,
					ClauseID: clause.ID,
				}, at))
				events = append(events, reversal(state, treaty, clause, cmd, at)...)
				continue
			}
			if !clause.Settled() {
				settled = false
			}
		}
		if settled {
			events = append(events, newTreatyEvent(cmd, EventTypeExpired, treaty.ID, ClosedPayload{TreatyID: treaty.ID}, at))
		}
	}
	return events
}

func reversal(state ledger.State, treaty State, clause Clause, cmd command.Command, at time.Time) []event.Event {
	switch clause.Type {
	case ClauseTechLoan:
		card, ok := state.Card(clause.CardID)
		if !ok || card.Holder != clause.TargetPlayerID {
			return nil
		}
		return []event.Event{ledger.NewCardTransferredEvent(cmd, ledger.CardTransferredPayload{
			CardID:     card.ID,
			FromHolder: card.Holder,
			ToHolder:   clause.OriginalHolder,
			TreatyID:   treaty.ID,
			ClauseID:   clause.ID,
		}, at)}
	case ClauseTechDuplicate:
		if _, ok := state.Card(clause.DuplicateCardID); !ok {
			return nil
		}
		return []event.Event{ledger.NewCardRemovedEvent(cmd, clause.DuplicateCardID, "treaty:"+treaty.ID, at)}
	}
	return nil
}
