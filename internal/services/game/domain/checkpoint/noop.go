package checkpoint

import (
	"context"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/replay"
)

// Noop never holds a checkpoint, so every replay starts from the first
// journaled event.
type Noop struct{}

// NewNoop returns a checkpoint store that forces full replays.
func NewNoop() *Noop {
	return &Noop{}
}

// Get reports replay.ErrCheckpointNotFound unless ctx is done.
func (*Noop) Get(ctx context.Context, _ string) (replay.Checkpoint, error) {
	if err := contextErr(ctx); err != nil {
		return replay.Checkpoint{}, err
	}
	return replay.Checkpoint{}, replay.ErrCheckpointNotFound
}

// Save discards the checkpoint.
func (*Noop) Save(ctx context.Context, _ replay.Checkpoint) error {
	return contextErr(ctx)
}

func contextErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
