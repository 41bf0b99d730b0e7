package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/replay"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage"
)

type snapshotRow struct {
	GameID    string `db:"game_id"`
	LastSeq   int64  `db:"last_seq"`
	StateLZ4  []byte `db:"state_lz4"`
	StateSize int64  `db:"state_size"`
	Checksum  string `db:"checksum"`
	CreatedAt int64  `db:"created_at"`
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// checksum covers the uncompressed state so a corrupt frame and a corrupt
// payload are both caught.
func checksum(state []byte) string {
	sum := blake3.Sum256(state)
	return hex.EncodeToString(sum[:])
}

func compress(state []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(state); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(blob []byte) ([]byte, error) {
	state, err := io.ReadAll(lz4.NewReader(bytes.NewReader(blob)))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	return state, nil
}

// PutSnapshot replaces the stored snapshot of a game.
func (s *Store) PutSnapshot(ctx context.Context, snapshot storage.Snapshot) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(snapshot.GameID) == "" {
		return fmt.Errorf("game id is required")
	}
	if len(snapshot.StateJSON) == 0 {
		return fmt.Errorf("snapshot state is required")
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = s.now()
	}

	blob, err := compress(snapshot.StateJSON)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO snapshots (game_id, last_seq, state_lz4, state_size, checksum, created_at)
VALUES (:game_id, :last_seq, :state_lz4, :state_size, :checksum, :created_at)
ON CONFLICT(game_id) DO UPDATE SET
    last_seq = excluded.last_seq,
    state_lz4 = excluded.state_lz4,
    state_size = excluded.state_size,
    checksum = excluded.checksum,
    created_at = excluded.created_at`, snapshotRow{
		GameID:    snapshot.GameID,
		LastSeq:   int64(snapshot.LastSeq),
		StateLZ4:  blob,
		StateSize: int64(len(snapshot.StateJSON)),
		Checksum:  checksum(snapshot.StateJSON),
		CreatedAt: toMillis(snapshot.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the stored snapshot of a game, ErrNotFound when there is
// none, or ErrSnapshotCorrupted when it fails its checksum.
func (s *Store) GetSnapshot(ctx context.Context, gameID string) (storage.Snapshot, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Snapshot{}, err
	}
	if strings.TrimSpace(gameID) == "" {
		return storage.Snapshot{}, fmt.Errorf("game id is required")
	}

	var row snapshotRow
	if err := s.db.GetContext(ctx, &row,
		"SELECT game_id, last_seq, state_lz4, state_size, checksum, created_at FROM snapshots WHERE game_id = ?", gameID,
	); err != nil {
		if isNoRows(err) {
			return storage.Snapshot{}, storage.ErrNotFound
		}
		return storage.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	state, err := decompress(row.StateLZ4)
	if err != nil || int64(len(state)) != row.StateSize || checksum(state) != row.Checksum {
		return storage.Snapshot{}, storage.ErrSnapshotCorrupted
	}
	return storage.Snapshot{
		GameID:    row.GameID,
		LastSeq:   uint64(row.LastSeq),
		StateJSON: state,
		CreatedAt: fromMillis(row.CreatedAt),
	}, nil
}

// Get returns the replay checkpoint of a game.
func (s *Store) Get(ctx context.Context, gameID string) (replay.Checkpoint, error) {
	if err := s.ready(ctx); err != nil {
		return replay.Checkpoint{}, err
	}
	var row struct {
		GameID    string `db:"game_id"`
		LastSeq   int64  `db:"last_seq"`
		UpdatedAt int64  `db:"updated_at"`
	}
	if err := s.db.GetContext(ctx, &row,
		"SELECT game_id, last_seq, updated_at FROM checkpoints WHERE game_id = ?", gameID,
	); err != nil {
		if isNoRows(err) {
			return replay.Checkpoint{}, replay.ErrCheckpointNotFound
		}
		return replay.Checkpoint{}, fmt.Errorf("get checkpoint: %w", err)
	}
	return replay.Checkpoint{
		GameID:    row.GameID,
		LastSeq:   uint64(row.LastSeq),
		UpdatedAt: fromMillis(row.UpdatedAt),
	}, nil
}

// Save stores the replay checkpoint of a game.
func (s *Store) Save(ctx context.Context, checkpoint replay.Checkpoint) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(checkpoint.GameID) == "" {
		return fmt.Errorf("game id is required")
	}
	if checkpoint.UpdatedAt.IsZero() {
		checkpoint.UpdatedAt = s.now()
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO checkpoints (game_id, last_seq, updated_at) VALUES (?, ?, ?)
ON CONFLICT(game_id) DO UPDATE SET last_seq = excluded.last_seq, updated_at = excluded.updated_at`,
		checkpoint.GameID, int64(checkpoint.LastSeq), toMillis(checkpoint.UpdatedAt),
	); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}
