package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/brinkmanship/internal/platform/i18n/catalog"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/checkpoint"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/engine"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/notification"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/replay"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage/integrity"
	storagesqlite "github.com/louisbranch/brinkmanship/internal/services/game/storage/sqlite"
)

// DefaultSnapshotInterval is the number of journaled events between state
// snapshots.
const DefaultSnapshotInterval = 50

// Config describes one game backed by a SQLite journal.
type Config struct {
	GameID string
	DBPath string
	// MapPath loads a region graph from YAML instead of the embedded world.
	MapPath string
	Locale  string
	// TurnGate rejects turn-bound commands issued out of turn.
	TurnGate bool
	// SnapshotInterval overrides DefaultSnapshotInterval. A negative value
	// disables snapshots.
	SnapshotInterval int
	// Verify walks the journal integrity chain before replay.
	Verify bool
	// Keyring signs journal events. It defaults to the keys in the
	// environment.
	Keyring *integrity.Keyring
	Now     func() time.Time
}

// Game is an open game: the engine handler over the journal it replays from.
type Game struct {
	id       string
	store    *storagesqlite.Store
	handler  *engine.Handler
	interval int

	mu            sync.Mutex
	snapshotSeq   uint64
	lastSeq       uint64
	sinceSnapshot int
}

// Open replays the game journal at cfg.DBPath and returns a game ready to
// execute commands.
func Open(ctx context.Context, cfg Config) (game *Game, err error) {
	cfg.GameID = strings.TrimSpace(cfg.GameID)
	if cfg.GameID == "" {
		return nil, errors.New("game id is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	keyring := cfg.Keyring
	if keyring == nil {
		keyring, err = integrity.KeyringFromEnv()
		if err != nil {
			return nil, fmt.Errorf("load event keyring: %w", err)
		}
	}
	graph, err := loadGraph(cfg.MapPath)
	if err != nil {
		return nil, err
	}

	registries, err := engine.BuildRegistries()
	if err != nil {
		return nil, fmt.Errorf("build registries: %w", err)
	}
	store, err := storagesqlite.Open(ctx, cfg.DBPath, keyring, registries.Events, storagesqlite.WithClock(cfg.Now))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close journal: %v", closeErr)
		}
	}()

	if cfg.Verify {
		if err := store.VerifyEventIntegrity(ctx, cfg.GameID); err != nil {
			return nil, fmt.Errorf("verify journal: %w", err)
		}
	}

	state, snapshotSeq, err := loadSnapshot(ctx, store, cfg.GameID, graph)
	if err != nil {
		return nil, err
	}
	replayer := replay.Replayer{
		Journal:     store,
		Checkpoints: checkpoint.NewMemory(),
		Folder:      &aggregate.Folder{Events: registries.Events},
	}
	result, err := replayer.Replay(ctx, cfg.GameID, state, replay.Options{AfterSeq: snapshotSeq})
	if err != nil {
		return nil, fmt.Errorf("replay game %s: %w", cfg.GameID, err)
	}
	state = result.State
	if err := store.Save(ctx, replay.Checkpoint{GameID: cfg.GameID, LastSeq: result.LastSeq}); err != nil {
		return nil, fmt.Errorf("save checkpoint: %w", err)
	}

	handler, err := engine.NewHandler(registries, state)
	if err != nil {
		return nil, err
	}
	handler.Journal = store
	handler.Gate = engine.DecisionGate{TurnGate: cfg.TurnGate}
	handler.Notifications = notification.Builder{Bundle: catalog.Default(), Locale: cfg.Locale}
	handler.Now = cfg.Now

	interval := cfg.SnapshotInterval
	if interval == 0 {
		interval = DefaultSnapshotInterval
	}
	return &Game{
		id:            cfg.GameID,
		store:         store,
		handler:       handler,
		interval:      interval,
		snapshotSeq:   snapshotSeq,
		lastSeq:       result.LastSeq,
		sinceSnapshot: result.Applied,
	}, nil
}

func loadGraph(path string) (*territory.Graph, error) {
	if strings.TrimSpace(path) == "" {
		return territory.DefaultGraph(), nil
	}
	graph, err := territory.LoadGraphFile(path)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", path, err)
	}
	return graph, nil
}

// loadSnapshot returns the snapshotted state and its sequence, or an empty
// state when there is no usable snapshot. A corrupt snapshot is ignored and
// the journal is replayed from the start.
func loadSnapshot(ctx context.Context, store storage.SnapshotStore, gameID string, graph *territory.Graph) (aggregate.State, uint64, error) {
	empty := aggregate.NewState(graph)
	snapshot, err := store.GetSnapshot(ctx, gameID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return empty, 0, nil
	case errors.Is(err, storage.ErrSnapshotCorrupted):
		log.Printf("snapshot for game %s is corrupted, replaying journal", gameID)
		return empty, 0, nil
	case err != nil:
		return aggregate.State{}, 0, fmt.Errorf("load snapshot: %w", err)
	}

	state := aggregate.NewState(graph)
	if err := json.Unmarshal(snapshot.StateJSON, &state); err != nil {
		log.Printf("snapshot for game %s does not decode, replaying journal: %v", gameID, err)
		return empty, 0, nil
	}
	state.Graph = graph
	return state, snapshot.LastSeq, nil
}

// ID returns the game id.
func (g *Game) ID() string {
	return g.id
}

// Store returns the journal the game appends to.
func (g *Game) Store() *storagesqlite.Store {
	return g.store
}

// State returns a copy of the current authoritative state.
func (g *Game) State() aggregate.State {
	return g.handler.State()
}

// LastSeq returns the sequence of the last journaled event.
func (g *Game) LastSeq() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastSeq
}

// Execute runs cmd against the game, filling in its game id, and snapshots
// state once enough events have accumulated.
func (g *Game) Execute(ctx context.Context, cmd command.Command) (engine.Result, error) {
	if strings.TrimSpace(cmd.GameID) == "" {
		cmd.GameID = g.id
	}
	if cmd.GameID != g.id {
		return engine.Result{}, fmt.Errorf("command for game %s sent to game %s", cmd.GameID, g.id)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	result, err := g.handler.Execute(ctx, cmd)
	if err != nil {
		return engine.Result{}, err
	}
	events := result.Decision.Events
	if len(events) == 0 {
		return result, nil
	}
	g.lastSeq = events[len(events)-1].Seq
	g.sinceSnapshot += len(events)
	if g.interval > 0 && g.sinceSnapshot >= g.interval {
		if err := g.snapshotLocked(ctx); err != nil {
			log.Printf("snapshot game %s: %v", g.id, err)
		}
	}
	return result, nil
}

// Snapshot stores the current state so the next Open replays only newer
// events.
func (g *Game) Snapshot(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(ctx)
}

func (g *Game) snapshotLocked(ctx context.Context) error {
	if g.lastSeq == 0 || g.lastSeq == g.snapshotSeq {
		return nil
	}
	data, err := json.Marshal(g.handler.State())
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := g.store.PutSnapshot(ctx, storage.Snapshot{GameID: g.id, LastSeq: g.lastSeq, StateJSON: data}); err != nil {
		return err
	}
	if err := g.store.Save(ctx, replay.Checkpoint{GameID: g.id, LastSeq: g.lastSeq}); err != nil {
		return err
	}
	g.snapshotSeq = g.lastSeq
	g.sinceSnapshot = 0
	return nil
}

// Close closes the journal.
func (g *Game) Close() error {
	if g == nil {
		return nil
	}
	return g.store.Close()
}
