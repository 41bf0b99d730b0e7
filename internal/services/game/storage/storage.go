package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrSnapshotCorrupted indicates a snapshot whose bytes no longer match the
// checksum written with them.
var ErrSnapshotCorrupted = apperrors.New(apperrors.CodeStorageCorrupted, "snapshot checksum mismatch")

// EventStore is the append-only journal. AppendEvents stores one decision's
// events in a single transaction, assigning contiguous sequence numbers.
type EventStore interface {
	AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error)
	ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// EventQuery narrows a journal listing.
type EventQuery struct {
	GameID   string
	AfterSeq uint64
	Limit    int
	// Filter is an AIP-160 expression over type, actor_type, actor_id,
	// request_id, seq, entity_type, entity_id and ts.
	Filter string
}

// EventQueryStore lists journal events matching a filter.
type EventQueryStore interface {
	QueryEvents(ctx context.Context, query EventQuery) ([]event.Event, error)
}

// Snapshot is a serialized game state at a journal position.
type Snapshot struct {
	GameID    string
	LastSeq   uint64
	StateJSON []byte
	CreatedAt time.Time
}

// SnapshotStore persists the latest snapshot of each game.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, snapshot Snapshot) error
	GetSnapshot(ctx context.Context, gameID string) (Snapshot, error)
}
