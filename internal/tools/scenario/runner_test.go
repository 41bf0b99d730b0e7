package scenario

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage/integrity"
)

var fixedTime = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func testRunnerConfig() Config {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return fixedTime }
	cfg.Logger = log.New(&bytes.Buffer{}, "", 0)
	return cfg
}

func TestRunFileScenarios(t *testing.T) {
	for _, name := range []string{"bosphorus", "launch", "cession"} {
		path := filepath.Join("testdata", name+".lua")
		if err := RunFile(context.Background(), testRunnerConfig(), path); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestRunScenarioLeavesState(t *testing.T) {
	scenario, err := LoadScenarioFromFile(filepath.Join("testdata", "launch.lua"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	runner, err := NewRunner(context.Background(), testRunnerConfig())
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	defer runner.Close()
	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run: %v", err)
	}
	state := runner.State()
	if state.Game.Status != game.StatusFinished || state.Game.WinnerID != "ana" {
		t.Fatalf("game = %+v, want ana winner", state.Game)
	}
	if silo := state.Silos["chile"]; silo.Status != escalation.StatusActive {
		t.Fatalf("silo = %+v, want active", silo)
	}
}

func TestStrictAssertionFails(t *testing.T) {
	path := writeScenarioFixture(t, `
local scene = Scenario.new("strict")
scene:game({name = "Crisis"})
scene:expect_status("PLAYING")
return scene
`)
	err := RunFile(context.Background(), testRunnerConfig(), path)
	if !apperrors.IsCode(err, apperrors.CodeScenarioAssertion) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeScenarioAssertion)
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Fatalf("err = %v, want step number", err)
	}
}

func TestLogOnlyAssertionContinues(t *testing.T) {
	path := writeScenarioFixture(t, `
local scene = Scenario.new("log-only")
scene:game({name = "Crisis"})
scene:expect_status("PLAYING")
scene:expect_winner("ana")
return scene
`)
	var buf bytes.Buffer
	cfg := testRunnerConfig()
	cfg.Assertions = AssertionLogOnly
	cfg.Logger = log.New(&buf, "", 0)
	if err := RunFile(context.Background(), cfg, path); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(buf.String(), "expectation failed"); got != 2 {
		t.Fatalf("logged failures = %d, want 2:\n%s", got, buf.String())
	}
}

func TestUnexpectedRejectionFails(t *testing.T) {
	path := writeScenarioFixture(t, `
local scene = Scenario.new("rejected")
scene:game({name = "Crisis"})
scene:end_turn("ana")
return scene
`)
	err := RunFile(context.Background(), testRunnerConfig(), path)
	if err == nil || !strings.Contains(err.Error(), game.RejectionCodeNotStarted) {
		t.Fatalf("err = %v, want %s rejection", err, game.RejectionCodeNotStarted)
	}
}

func TestExpectErrorMatchesCode(t *testing.T) {
	path := writeScenarioFixture(t, `
local scene = Scenario.new("errors")
scene:command({type = "game.unknown", expect_error = "COMMAND_INVALID"})
scene:game({name = "Crisis"})
scene:expect_status("SETUP")
return scene
`)
	if err := RunFile(context.Background(), testRunnerConfig(), path); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestUnknownRegionIsScenarioError(t *testing.T) {
	path := writeScenarioFixture(t, `
local scene = Scenario.new("bad-region")
scene:expect_owner("atlantis", "ana")
return scene
`)
	cfg := testRunnerConfig()
	cfg.Assertions = AssertionLogOnly
	err := RunFile(context.Background(), cfg, path)
	if !apperrors.IsCode(err, apperrors.CodeScenarioInvalid) {
		t.Fatalf("err = %v, want %s in every mode", err, apperrors.CodeScenarioInvalid)
	}
}

func TestRunFileJournalsToSQLite(t *testing.T) {
	keyring, err := integrity.NewKeyring(map[string][]byte{"v1": []byte("secret")}, "v1")
	if err != nil {
		t.Fatalf("keyring: %v", err)
	}
	cfg := testRunnerConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "scenario.db")
	cfg.Keyring = keyring

	if err := RunFile(context.Background(), cfg, filepath.Join("testdata", "cession.lua")); err != nil {
		t.Fatalf("run: %v", err)
	}
	runner, err := NewRunner(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer runner.Close()
	if owner := runner.State().Ownership.Owner("chile"); owner != "bruno" {
		t.Fatalf("chile owner = %q, want bruno after replay", owner)
	}
}
