package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/brinkmanship/internal/platform/i18n/catalog"
	"github.com/louisbranch/brinkmanship/internal/platform/timeouts"
	"github.com/louisbranch/brinkmanship/internal/services/game/app"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/aggregate"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/engine"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/journal"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/notification"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage/integrity"
)

const defaultGameID = "scenario"

// Config controls scenario execution.
type Config struct {
	// DBPath journals the run to SQLite. Empty runs against an in-memory
	// journal.
	DBPath string
	// Keyring signs SQLite journal events. It defaults to the environment.
	Keyring    *integrity.Keyring
	GameID     string
	Locale     string
	TurnGate   bool
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	Now        func() time.Time
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		GameID:     defaultGameID,
		TurnGate:   true,
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
	}
}

// executor runs commands against one game.
type executor interface {
	Execute(ctx context.Context, cmd command.Command) (engine.Result, error)
	State() aggregate.State
}

// Runner executes Lua scenarios in-process against the engine.
type Runner struct {
	exec       executor
	gameID     string
	closer     func() error
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner prepares a scenario runner over a fresh or journaled game.
func NewRunner(ctx context.Context, cfg Config) (*Runner, error) {
	gameID := strings.TrimSpace(cfg.GameID)
	if gameID == "" {
		gameID = defaultGameID
	}
	if strings.TrimSpace(cfg.DBPath) != "" {
		g, err := app.Open(ctx, app.Config{
			GameID:   gameID,
			DBPath:   cfg.DBPath,
			Locale:   cfg.Locale,
			TurnGate: cfg.TurnGate,
			Keyring:  cfg.Keyring,
			Now:      cfg.Now,
		})
		if err != nil {
			return nil, err
		}
		return newRunnerWithExecutor(cfg, gameID, g, g.Close), nil
	}

	registries, err := engine.BuildRegistries()
	if err != nil {
		return nil, fmt.Errorf("build registries: %w", err)
	}
	handler, err := engine.NewHandler(registries, aggregate.NewState(nil))
	if err != nil {
		return nil, err
	}
	handler.Journal = journal.NewMemory(registries.Events)
	handler.Gate = engine.DecisionGate{TurnGate: cfg.TurnGate}
	handler.Notifications = notification.Builder{Bundle: catalog.Default(), Locale: cfg.Locale}
	handler.Now = cfg.Now
	return newRunnerWithExecutor(cfg, gameID, handler, nil), nil
}

// newRunnerWithExecutor applies config defaults (logger, timeout) around exec.
func newRunnerWithExecutor(cfg Config, gameID string, exec executor, closer func() error) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}
	return &Runner{
		exec:       exec,
		gameID:     gameID,
		closer:     closer,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}

// State returns the state of the game the runner drives.
func (r *Runner) State() aggregate.State {
	return r.exec.State()
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	runner, err := NewRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), describeStep(step))
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, describeStep(step), err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func describeStep(step Step) string {
	if step.Kind == StepCommand {
		if cmdType, ok := step.Args[argType].(string); ok {
			return cmdType
		}
	}
	return step.Kind
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}
