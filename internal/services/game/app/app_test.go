package app

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage/integrity"
)

var fixedTime = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T, dbPath string) Config {
	t.Helper()
	keyring, err := integrity.NewKeyring(map[string][]byte{"v1": []byte("secret")}, "v1")
	if err != nil {
		t.Fatalf("keyring: %v", err)
	}
	return Config{
		GameID:  "game-1",
		DBPath:  dbPath,
		Keyring: keyring,
		Verify:  true,
		Now:     func() time.Time { return fixedTime },
	}
}

func mustExecute(t *testing.T, g *Game, cmdType command.Type, payload any) {
	t.Helper()
	raw := []byte("{}")
	if payload != nil {
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	result, err := g.Execute(context.Background(), command.Command{
		Type:        cmdType,
		ActorType:   command.ActorTypeSystem,
		PayloadJSON: raw,
	})
	if err != nil {
		t.Fatalf("execute %s: %v", cmdType, err)
	}
	if result.Decision.Rejected() {
		t.Fatalf("execute %s: rejected %+v", cmdType, result.Decision.Rejections)
	}
}

func seed(t *testing.T, g *Game) {
	t.Helper()
	mustExecute(t, g, game.CommandTypeCreate, game.CreatePayload{Name: "Crisis"})
	mustExecute(t, g, player.CommandTypeJoin, player.JoinPayload{PlayerID: "ana", DisplayName: "Ana", Color: "#aa0000", SecretTarget: "chile"})
	mustExecute(t, g, player.CommandTypeJoin, player.JoinPayload{PlayerID: "bruno", DisplayName: "Bruno", Color: "#0000bb", SecretTarget: "arabia"})
	mustExecute(t, g, territory.CommandTypeClaim, territory.ClaimPayload{RegionID: "grecia", PlayerID: "ana"})
	mustExecute(t, g, territory.CommandTypeClaim, territory.ClaimPayload{RegionID: "egipto", PlayerID: "bruno"})
	mustExecute(t, g, game.CommandTypeStart, game.StartPayload{TurnOrder: []string{"ana", "bruno"}})
}

func TestOpenRequiresGameID(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "game.db"))
	cfg.GameID = " "
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("expected game id error")
	}
}

func TestOpenRejectsMissingMap(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "game.db"))
	cfg.MapPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("expected map error")
	}
}

func TestReopenReplaysJournal(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "game.db"))
	cfg.SnapshotInterval = -1

	g, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	seed(t, g)
	want := g.State()
	if g.LastSeq() == 0 {
		t.Fatal("expected journaled events")
	}
	lastSeq := g.LastSeq()
	if err := g.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got := reopened.State()
	if got.Game.Status != game.StatusPlaying || got.Game.Status != want.Game.Status {
		t.Fatalf("status = %s, want %s", got.Game.Status, want.Game.Status)
	}
	if got.Ownership["grecia"] != "ana" || got.Ownership["egipto"] != "bruno" {
		t.Fatalf("ownership = %v, want grecia=ana egipto=bruno", got.Ownership)
	}
	if reopened.LastSeq() != lastSeq {
		t.Fatalf("last seq = %d, want %d", reopened.LastSeq(), lastSeq)
	}
	if _, err := reopened.Store().GetSnapshot(context.Background(), "game-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("snapshot err = %v, want ErrNotFound with snapshots disabled", err)
	}
	checkpoint, err := reopened.Store().Get(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if checkpoint.LastSeq != lastSeq {
		t.Fatalf("checkpoint seq = %d, want %d", checkpoint.LastSeq, lastSeq)
	}
}

func TestSnapshotShortensReplay(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "game.db"))
	cfg.SnapshotInterval = 3

	g, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	seed(t, g)
	if err := g.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snapshot, err := g.Store().GetSnapshot(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snapshot.LastSeq != g.LastSeq() {
		t.Fatalf("snapshot seq = %d, want %d", snapshot.LastSeq, g.LastSeq())
	}
	mustExecute(t, g, game.CommandTypeAdvanceTurn, nil)
	if err := g.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	state := reopened.State()
	if state.Game.ActorIndex != 1 {
		t.Fatalf("actor index = %d, want 1 from post-snapshot replay", state.Game.ActorIndex)
	}
	if state.Ownership["grecia"] != "ana" {
		t.Fatalf("grecia owner = %q, want ana from snapshot", state.Ownership["grecia"])
	}
	if state.Graph == nil || !state.Graph.HasRegion("grecia") {
		t.Fatal("snapshot state must be rebound to the map graph")
	}
	if p, ok := state.Players["ana"]; !ok || p.DisplayName != "Ana" {
		t.Fatalf("players = %+v, want ana from snapshot", state.Players)
	}
}

func TestCorruptSnapshotFallsBackToJournal(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "game.db"))
	cfg.SnapshotInterval = -1

	g, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	seed(t, g)
	if err := g.Store().PutSnapshot(context.Background(), storage.Snapshot{
		GameID:    "game-1",
		LastSeq:   g.LastSeq(),
		StateJSON: []byte(`{"game":"not an object"}`),
	}); err != nil {
		t.Fatalf("put snapshot: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if got := reopened.State().Game.Status; got != game.StatusPlaying {
		t.Fatalf("status = %s, want %s", got, game.StatusPlaying)
	}
}

func TestExecuteRejectsOtherGames(t *testing.T) {
	g, err := Open(context.Background(), testConfig(t, filepath.Join(t.TempDir(), "game.db")))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer g.Close()
	if _, err := g.Execute(context.Background(), command.Command{GameID: "game-2", Type: game.CommandTypeCreate}); err == nil {
		t.Fatal("expected game mismatch error")
	}
}
