package sqlite

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/core/filter"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage/integrity"
)

const eventColumns = `game_id, seq, event_hash, prev_event_hash, chain_hash, signature_key_id,
event_signature, timestamp, event_type, request_id, actor_type, actor_id, entity_type, entity_id, payload_json`

const insertEventSQL = `INSERT INTO events (` + eventColumns + `) VALUES (
:game_id, :seq, :event_hash, :prev_event_hash, :chain_hash, :signature_key_id,
:event_signature, :timestamp, :event_type, :request_id, :actor_type, :actor_id, :entity_type, :entity_id, :payload_json)`

type eventRow struct {
	GameID         string `db:"game_id"`
	Seq            int64  `db:"seq"`
	EventHash      string `db:"event_hash"`
	PrevEventHash  string `db:"prev_event_hash"`
	ChainHash      string `db:"chain_hash"`
	SignatureKeyID string `db:"signature_key_id"`
	EventSignature string `db:"event_signature"`
	Timestamp      int64  `db:"timestamp"`
	EventType      string `db:"event_type"`
	RequestID      string `db:"request_id"`
	ActorType      string `db:"actor_type"`
	ActorID        string `db:"actor_id"`
	EntityType     string `db:"entity_type"`
	EntityID       string `db:"entity_id"`
	PayloadJSON    []byte `db:"payload_json"`
}

func (r eventRow) event() event.Event {
	return event.Event{
		GameID:      r.GameID,
		Seq:         uint64(r.Seq),
		Hash:        r.EventHash,
		PrevHash:    r.PrevEventHash,
		ChainHash:   r.ChainHash,
		Timestamp:   fromMillis(r.Timestamp),
		Type:        event.Type(r.EventType),
		ActorType:   event.ActorType(r.ActorType),
		ActorID:     r.ActorID,
		EntityType:  r.EntityType,
		EntityID:    r.EntityID,
		RequestID:   r.RequestID,
		PayloadJSON: r.PayloadJSON,
	}
}

// AppendEvents atomically appends one decision's events and returns them with
// sequence numbers, hashes and chain links set.
//
// All events must belong to the same game. The first event links to the last
// previously stored one.
func (s *Store) AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	validated := make([]event.Event, len(events))
	for i, evt := range events {
		v, err := s.eventRegistry.ValidateForAppend(evt)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if v.Timestamp.IsZero() {
			v.Timestamp = s.now()
		}
		v.Timestamp = fromMillis(toMillis(v.Timestamp))
		validated[i] = v
	}
	gameID := validated[0].GameID
	for i, evt := range validated {
		if evt.GameID != gameID {
			return nil, fmt.Errorf("event %d: game id %s does not match %s", i, evt.GameID, gameID)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var last struct {
		Seq       int64  `db:"seq"`
		ChainHash string `db:"chain_hash"`
	}
	err = tx.GetContext(ctx, &last,
		"SELECT seq, chain_hash FROM events WHERE game_id = ? ORDER BY seq DESC LIMIT 1", gameID)
	if err != nil && !isNoRows(err) {
		return nil, fmt.Errorf("load previous event: %w", err)
	}

	prevChainHash := last.ChainHash
	stored := make([]event.Event, len(validated))
	for i, evt := range validated {
		evt.Seq = uint64(last.Seq) + uint64(i) + 1

		hash, err := event.EventHash(evt)
		if err != nil {
			return nil, fmt.Errorf("event %d hash: %w", i, err)
		}
		evt.Hash = hash
		chainHash, err := event.ChainHash(evt, prevChainHash)
		if err != nil {
			return nil, fmt.Errorf("event %d chain hash: %w", i, err)
		}
		signature, err := s.keyring.Sign(gameID, chainHash)
		if err != nil {
			return nil, fmt.Errorf("event %d sign: %w", i, err)
		}
		evt.PrevHash = prevChainHash
		evt.ChainHash = chainHash

		if _, err := tx.NamedExecContext(ctx, insertEventSQL, eventRow{
			GameID:         evt.GameID,
			Seq:            int64(evt.Seq),
			EventHash:      evt.Hash,
			PrevEventHash:  evt.PrevHash,
			ChainHash:      evt.ChainHash,
			SignatureKeyID: signature.KeyID,
			EventSignature: signature.MAC,
			Timestamp:      toMillis(evt.Timestamp),
			EventType:      string(evt.Type),
			RequestID:      evt.RequestID,
			ActorType:      string(evt.ActorType),
			ActorID:        evt.ActorID,
			EntityType:     evt.EntityType,
			EntityID:       evt.EntityID,
			PayloadJSON:    evt.PayloadJSON,
		}); err != nil {
			if isConstraintError(err) {
				return nil, apperrors.WithMetadata(apperrors.CodeStorageSeqGap, "sequence already taken", map[string]string{
					"game_id": gameID,
					"seq":     fmt.Sprint(evt.Seq),
				})
			}
			return nil, fmt.Errorf("append event %d: %w", i, err)
		}

		prevChainHash = chainHash
		stored[i] = evt
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// ListEvents returns up to limit events with a sequence above afterSeq, in
// order. A non-positive limit returns every remaining event.
func (s *Store) ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error) {
	return s.QueryEvents(ctx, storage.EventQuery{GameID: gameID, AfterSeq: afterSeq, Limit: limit})
}

// QueryEvents lists events matching query.Filter.
func (s *Store) QueryEvents(ctx context.Context, query storage.EventQuery) ([]event.Event, error) {
	rows, err := s.queryRows(ctx, query)
	if err != nil {
		return nil, err
	}
	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.event())
	}
	return events, nil
}

func (s *Store) queryRows(ctx context.Context, query storage.EventQuery) ([]eventRow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query.GameID) == "" {
		return nil, fmt.Errorf("game id is required")
	}
	condition, err := filter.ParseEventFilter(query.Filter)
	if err != nil {
		return nil, err
	}
	plan := buildListEventsSQLPlan(query, condition)

	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT "+eventColumns+" FROM events WHERE "+plan.whereClause+" ORDER BY seq ASC"+plan.limitClause,
		plan.params...,
	); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return rows, nil
}

// VerifyEventIntegrity walks a game's journal and checks that sequences are
// contiguous and every hash, chain link and signature recomputes.
func (s *Store) VerifyEventIntegrity(ctx context.Context, gameID string) error {
	var lastSeq uint64
	prevChainHash := ""
	for {
		rows, err := s.queryRows(ctx, storage.EventQuery{GameID: gameID, AfterSeq: lastSeq, Limit: 200})
		if err != nil {
			return fmt.Errorf("list events game_id=%s: %w", gameID, err)
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			evt := row.event()
			if evt.Seq != lastSeq+1 {
				return apperrors.WithMetadata(apperrors.CodeStorageSeqGap, "event sequence gap", map[string]string{
					"game_id":  gameID,
					"expected": fmt.Sprint(lastSeq + 1),
					"got":      fmt.Sprint(evt.Seq),
				})
			}
			if evt.PrevHash != prevChainHash {
				return corrupted(gameID, evt.Seq, "prev hash mismatch")
			}
			hash, err := event.EventHash(evt)
			if err != nil {
				return fmt.Errorf("compute event hash game_id=%s seq=%d: %w", gameID, evt.Seq, err)
			}
			if hash != evt.Hash {
				return corrupted(gameID, evt.Seq, "event hash mismatch")
			}
			chainHash, err := event.ChainHash(evt, prevChainHash)
			if err != nil {
				return fmt.Errorf("compute chain hash game_id=%s seq=%d: %w", gameID, evt.Seq, err)
			}
			if chainHash != evt.ChainHash {
				return corrupted(gameID, evt.Seq, "chain hash mismatch")
			}
			if err := s.keyring.Verify(gameID, chainHash, integrity.Signature{KeyID: row.SignatureKeyID, MAC: row.EventSignature}); err != nil {
				return corrupted(gameID, evt.Seq, err.Error())
			}
			prevChainHash = evt.ChainHash
			lastSeq = evt.Seq
		}
	}
}

func corrupted(gameID string, seq uint64, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeStorageCorrupted, reason, map[string]string{
		"game_id": gameID,
		"seq":     fmt.Sprint(seq),
	})
}
