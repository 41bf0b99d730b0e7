// Package replay rebuilds game state by folding the journal in sequence order.
package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

const defaultPageSize = 200

var (
	// ErrJournalRequired indicates a missing event journal.
	ErrJournalRequired = errors.New("event journal is required")
	// ErrCheckpointStoreRequired indicates a missing checkpoint store.
	ErrCheckpointStoreRequired = errors.New("checkpoint store is required")
	// ErrFolderRequired indicates a missing folder.
	ErrFolderRequired = errors.New("folder is required")
	// ErrGameIDRequired indicates a missing game id.
	ErrGameIDRequired = errors.New("game id is required")
	// ErrCheckpointNotFound indicates no checkpoint exists yet.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

// Journal pages the events of one game in sequence order.
type Journal interface {
	ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// CheckpointStore remembers how far a game has been folded.
type CheckpointStore interface {
	Get(ctx context.Context, gameID string) (Checkpoint, error)
	Save(ctx context.Context, checkpoint Checkpoint) error
}

// Checkpoint is the last folded sequence of a game.
type Checkpoint struct {
	GameID    string
	LastSeq   uint64
	UpdatedAt time.Time
}

// Options bounds one replay.
type Options struct {
	// AfterSeq is the sequence already reflected in the starting state,
	// usually a snapshot head.
	AfterSeq uint64
	// UntilSeq stops after this sequence when non-zero.
	UntilSeq uint64
}

// Result is the rebuilt state and how far it reaches.
type Result struct {
	State   aggregate.State
	LastSeq uint64
	Applied int
}

// Replayer folds journal pages onto a starting state.
type Replayer struct {
	Journal     Journal
	Checkpoints CheckpointStore
	Folder      *aggregate.Folder
	PageSize    int
}

// Replay folds every event after max(checkpoint, AfterSeq) onto state. Each
// page is checked for sequence gaps before it is folded, and the checkpoint
// moves once per folded page.
func (r Replayer) Replay(ctx context.Context, gameID string, state aggregate.State, options Options) (Result, error) {
	switch {
	case r.Journal == nil:
		return Result{}, ErrJournalRequired
	case r.Checkpoints == nil:
		return Result{}, ErrCheckpointStoreRequired
	case r.Folder == nil:
		return Result{}, ErrFolderRequired
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return Result{}, ErrGameIDRequired
	}
	start, err := r.resumeFrom(ctx, gameID, options.AfterSeq)
	if err != nil {
		return Result{}, err
	}
	pageSize := r.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	result := Result{State: state, LastSeq: start}
	for {
		page, err := r.Journal.ListEvents(ctx, gameID, result.LastSeq, pageSize)
		if err != nil {
			return result, fmt.Errorf("list events after %d: %w", result.LastSeq, err)
		}
		if len(page) == 0 {
			return result, nil
		}
		page, last := until(page, options.UntilSeq)
		if err := contiguous(gameID, result.LastSeq, page); err != nil {
			return result, err
		}
		if len(page) > 0 {
			next, err := r.Folder.Apply(result.State, page...)
			if err != nil {
				return result, fmt.Errorf("fold seq %d-%d: %w", page[0].Seq, page[len(page)-1].Seq, err)
			}
			head := page[len(page)-1]
			result.State = next
			result.LastSeq = head.Seq
			result.Applied += len(page)
			if err := r.Checkpoints.Save(ctx, Checkpoint{GameID: gameID, LastSeq: head.Seq, UpdatedAt: head.Timestamp}); err != nil {
				return result, err
			}
		}
		if last {
			return result, nil
		}
	}
}

func (r Replayer) resumeFrom(ctx context.Context, gameID string, afterSeq uint64) (uint64, error) {
	checkpoint, err := r.Checkpoints.Get(ctx, gameID)
	if errors.Is(err, ErrCheckpointNotFound) {
		return afterSeq, nil
	}
	if err != nil {
		return 0, err
	}
	return max(checkpoint.LastSeq, afterSeq), nil
}

// until trims page to events at or before untilSeq and reports whether the
// bound was reached.
func until(page []event.Event, untilSeq uint64) ([]event.Event, bool) {
	if untilSeq == 0 {
		return page, false
	}
	for i, evt := range page {
		if evt.Seq > untilSeq {
			return page[:i], true
		}
	}
	return page, page[len(page)-1].Seq == untilSeq
}

func contiguous(gameID string, lastSeq uint64, page []event.Event) error {
	for _, evt := range page {
		if evt.Seq != lastSeq+1 {
			return apperrors.WithMetadata(apperrors.CodeStorageSeqGap,
				fmt.Sprintf("event sequence gap: expected %d got %d", lastSeq+1, evt.Seq),
				map[string]string{"game_id": gameID})
		}
		lastSeq = evt.Seq
	}
	return nil
}
