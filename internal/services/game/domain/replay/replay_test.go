package replay_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/checkpoint"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/journal"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/replay"
)

type staticJournal struct {
	events []event.Event
}

func (s staticJournal) ListEvents(_ context.Context, _ string, afterSeq uint64, _ int) ([]event.Event, error) {
	var out []event.Event
	for _, evt := range s.events {
		if evt.Seq > afterSeq {
			out = append(out, evt)
		}
	}
	return out, nil
}

func joinEvent(t *testing.T, id string) event.Event {
	t.Helper()
	payload, err := json.Marshal(player.JoinPayload{PlayerID: id, DisplayName: id})
	if err != nil {
		t.Fatalf("encode join: %v", err)
	}
	return event.Event{GameID: "game-1", Type: player.EventTypeJoined, EntityType: "player", EntityID: id, PayloadJSON: payload}
}

// seatPlayers journals n joins for p1..pn.
func seatPlayers(t *testing.T, n int) *journal.Memory {
	t.Helper()
	store := journal.NewMemory(nil)
	for i := 1; i <= n; i++ {
		if _, err := store.Append(context.Background(), joinEvent(t, fmt.Sprintf("p%d", i))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return store
}

func newReplayer(store replay.Journal, checkpoints replay.CheckpointStore) replay.Replayer {
	return replay.Replayer{Journal: store, Checkpoints: checkpoints, Folder: &aggregate.Folder{}, PageSize: 2}
}

func TestReplayFoldsEveryPage(t *testing.T) {
	checkpoints := checkpoint.NewMemory()
	result, err := newReplayer(seatPlayers(t, 5), checkpoints).Replay(context.Background(), "game-1", aggregate.NewState(nil), replay.Options{})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(result.State.Players) != 5 || result.LastSeq != 5 || result.Applied != 5 {
		t.Fatalf("result = %d players seq %d applied %d, want 5 of each", len(result.State.Players), result.LastSeq, result.Applied)
	}
	saved, err := checkpoints.Get(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("get checkpoint: %v", err)
	}
	if saved.LastSeq != 5 {
		t.Fatalf("checkpoint seq = %d, want 5", saved.LastSeq)
	}
}

func TestReplayStopsAtUntilSeq(t *testing.T) {
	result, err := newReplayer(seatPlayers(t, 4), checkpoint.NewNoop()).Replay(context.Background(), "game-1", aggregate.NewState(nil), replay.Options{UntilSeq: 3})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.LastSeq != 3 || len(result.State.Players) != 3 {
		t.Fatalf("result seq %d with %d players, want to stop at seq 3", result.LastSeq, len(result.State.Players))
	}
	if _, ok := result.State.Players["p4"]; ok {
		t.Fatal("p4 folded past the bound")
	}
}

func TestReplayResumesAfterSeq(t *testing.T) {
	start := aggregate.NewState(nil)
	start.Players["snap"] = player.State{ID: "snap"}

	result, err := newReplayer(seatPlayers(t, 4), checkpoint.NewNoop()).Replay(context.Background(), "game-1", start, replay.Options{AfterSeq: 3})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Applied != 1 || len(result.State.Players) != 2 {
		t.Fatalf("applied %d players %d, want p4 folded onto the snapshot", result.Applied, len(result.State.Players))
	}
	if _, ok := result.State.Players["p1"]; ok {
		t.Fatal("p1 refolded below AfterSeq")
	}
}

func TestReplayResumesFromCheckpoint(t *testing.T) {
	ctx := context.Background()
	checkpoints := checkpoint.NewMemory()
	if err := checkpoints.Save(ctx, replay.Checkpoint{GameID: "game-1", LastSeq: 2}); err != nil {
		t.Fatalf("save: %v", err)
	}
	result, err := newReplayer(seatPlayers(t, 3), checkpoints).Replay(ctx, "game-1", aggregate.NewState(nil), replay.Options{})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Applied != 1 || result.LastSeq != 3 {
		t.Fatalf("result applied %d seq %d, want only seq 3", result.Applied, result.LastSeq)
	}
}

func TestReplayDetectsSequenceGap(t *testing.T) {
	first, third := joinEvent(t, "p1"), joinEvent(t, "p3")
	first.Seq, third.Seq = 1, 3
	store := staticJournal{events: []event.Event{first, third}}

	result, err := newReplayer(store, checkpoint.NewNoop()).Replay(context.Background(), "game-1", aggregate.NewState(nil), replay.Options{})
	if !apperrors.IsCode(err, apperrors.CodeStorageSeqGap) {
		t.Fatalf("error = %v, want %s", err, apperrors.CodeStorageSeqGap)
	}
	if result.Applied != 0 {
		t.Fatalf("applied = %d, want nothing folded from a broken page", result.Applied)
	}
}

func TestReplayRequiresDependencies(t *testing.T) {
	store := journal.NewMemory(nil)
	state := aggregate.NewState(nil)
	tests := []struct {
		name     string
		replayer replay.Replayer
		gameID   string
		want     error
	}{
		{name: "journal", replayer: replay.Replayer{Checkpoints: checkpoint.NewNoop(), Folder: &aggregate.Folder{}}, gameID: "game-1", want: replay.ErrJournalRequired},
		{name: "checkpoints", replayer: replay.Replayer{Journal: store, Folder: &aggregate.Folder{}}, gameID: "game-1", want: replay.ErrCheckpointStoreRequired},
		{name: "folder", replayer: replay.Replayer{Journal: store, Checkpoints: checkpoint.NewNoop()}, gameID: "game-1", want: replay.ErrFolderRequired},
		{name: "game id", replayer: newReplayer(store, checkpoint.NewNoop()), gameID: " ", want: replay.ErrGameIDRequired},
	}
	for _, tt := range tests {
		if _, err := tt.replayer.Replay(context.Background(), tt.gameID, state, replay.Options{}); !errors.Is(err, tt.want) {
			t.Fatalf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
}
