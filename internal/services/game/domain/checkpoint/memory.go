// Package checkpoint holds replay checkpoint stores that live outside the
// journal database.
package checkpoint

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/replay"
)

// ErrGameIDRequired indicates a missing game id.
var ErrGameIDRequired = errors.New("game id is required")

// Memory keeps the latest checkpoint per game for the life of the process.
type Memory struct {
	mu          sync.Mutex
	checkpoints map[string]replay.Checkpoint
}

// NewMemory returns an empty in-memory checkpoint store.
func NewMemory() *Memory {
	return &Memory{checkpoints: make(map[string]replay.Checkpoint)}
}

// Get returns the checkpoint for gameID or replay.ErrCheckpointNotFound.
func (m *Memory) Get(ctx context.Context, gameID string) (replay.Checkpoint, error) {
	gameID, err := m.check(ctx, gameID)
	if err != nil {
		return replay.Checkpoint{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	checkpoint, ok := m.checkpoints[gameID]
	if !ok {
		return replay.Checkpoint{}, replay.ErrCheckpointNotFound
	}
	return checkpoint, nil
}

// Save replaces the checkpoint for its game. A checkpoint never moves
// backwards; saving an older sequence keeps the newer one.
func (m *Memory) Save(ctx context.Context, checkpoint replay.Checkpoint) error {
	gameID, err := m.check(ctx, checkpoint.GameID)
	if err != nil {
		return err
	}
	checkpoint.GameID = gameID

	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.checkpoints[gameID]; ok && current.LastSeq > checkpoint.LastSeq {
		return nil
	}
	m.checkpoints[gameID] = checkpoint
	return nil
}

func (m *Memory) check(ctx context.Context, gameID string) (string, error) {
	if err := contextErr(ctx); err != nil {
		return "", err
	}
	if m == nil {
		return "", errors.New("checkpoint store is required")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return "", ErrGameIDRequired
	}
	return gameID, nil
}
