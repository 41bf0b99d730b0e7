// Package game parses game command flags and drives one journaled game.
package game

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	entrypoint "github.com/louisbranch/brinkmanship/internal/platform/cmd"
	"github.com/louisbranch/brinkmanship/internal/services/game/app"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage"
)

// Config holds game command configuration.
type Config struct {
	DBPath   string `env:"BRINKMANSHIP_GAME_DB_PATH"  envDefault:"brinkmanship.db"`
	GameID   string `env:"BRINKMANSHIP_GAME_ID"       envDefault:"local"`
	MapPath  string `env:"BRINKMANSHIP_MAP_PATH"`
	Locale   string `env:"BRINKMANSHIP_LOCALE"        envDefault:"en-US"`
	TurnGate bool   `env:"BRINKMANSHIP_TURN_GATE"     envDefault:"true"`
	Verify   bool   `env:"BRINKMANSHIP_GAME_VERIFY"   envDefault:"true"`

	// Command, when set, is executed before the journal is printed.
	Command string
	Actor   string
	Payload string

	Filter   string
	AfterSeq uint64
	Limit    int
	State    bool
	Snapshot bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite journal path")
	fs.StringVar(&cfg.GameID, "game", cfg.GameID, "game id")
	fs.StringVar(&cfg.MapPath, "map", cfg.MapPath, "region graph YAML (embedded world when empty)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "notification locale")
	fs.BoolVar(&cfg.TurnGate, "turn-gate", cfg.TurnGate, "reject turn-bound commands issued out of turn")
	fs.BoolVar(&cfg.Verify, "verify", cfg.Verify, "verify the journal integrity chain before replay")
	fs.StringVar(&cfg.Command, "command", "", "command type to execute, e.g. silo.arm")
	fs.StringVar(&cfg.Actor, "actor", "", "acting player id (system when empty)")
	fs.StringVar(&cfg.Payload, "payload", "{}", "command payload JSON")
	fs.StringVar(&cfg.Filter, "filter", "", "AIP-160 filter over journal events")
	fs.Uint64Var(&cfg.AfterSeq, "after", 0, "list events after this sequence")
	fs.IntVar(&cfg.Limit, "limit", 0, "maximum events to list (all when zero)")
	fs.BoolVar(&cfg.State, "state", false, "print the replayed state as JSON")
	fs.BoolVar(&cfg.Snapshot, "snapshot", false, "write a state snapshot before exiting")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the game, executes the optional command and prints the journal.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		g, err := app.Open(ctx, app.Config{
			GameID:   cfg.GameID,
			DBPath:   cfg.DBPath,
			MapPath:  cfg.MapPath,
			Locale:   cfg.Locale,
			TurnGate: cfg.TurnGate,
			Verify:   cfg.Verify,
		})
		if err != nil {
			return err
		}
		defer g.Close()

		if strings.TrimSpace(cfg.Command) != "" {
			if err := execute(ctx, g, cfg, out); err != nil {
				return err
			}
		}
		if err := printEvents(ctx, g, cfg, out); err != nil {
			return err
		}
		if cfg.State {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(g.State()); err != nil {
				return fmt.Errorf("encode state: %w", err)
			}
		}
		if cfg.Snapshot {
			return g.Snapshot(ctx)
		}
		return nil
	})
}

func execute(ctx context.Context, g *app.Game, cfg Config, out io.Writer) error {
	payload := strings.TrimSpace(cfg.Payload)
	if payload == "" {
		payload = "{}"
	}
	if !json.Valid([]byte(payload)) {
		return errors.New("payload must be valid JSON")
	}
	actorType := command.ActorTypeSystem
	if strings.TrimSpace(cfg.Actor) != "" {
		actorType = command.ActorTypePlayer
	}
	result, err := g.Execute(ctx, command.Command{
		Type:        command.Type(strings.TrimSpace(cfg.Command)),
		ActorType:   actorType,
		ActorID:     strings.TrimSpace(cfg.Actor),
		PayloadJSON: []byte(payload),
	})
	if err != nil {
		return err
	}
	for _, rejection := range result.Decision.Rejections {
		fmt.Fprintf(out, "rejected %s: %s\n", rejection.Code, rejection.Message)
	}
	for _, n := range result.Notifications {
		fmt.Fprintf(out, "notify %s: %s. %s\n", strings.Join(n.Recipients, ","), n.Title, n.Body)
	}
	return nil
}

func printEvents(ctx context.Context, g *app.Game, cfg Config, out io.Writer) error {
	events, err := g.Store().QueryEvents(ctx, storage.EventQuery{
		GameID:   g.ID(),
		AfterSeq: cfg.AfterSeq,
		Limit:    cfg.Limit,
		Filter:   cfg.Filter,
	})
	if err != nil {
		return err
	}
	for _, evt := range events {
		actor := string(evt.ActorType)
		if evt.ActorID != "" {
			actor += ":" + evt.ActorID
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%s/%s\n", evt.Seq, evt.Type, actor, evt.EntityType, evt.EntityID)
	}
	return nil
}
