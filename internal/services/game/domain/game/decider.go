package game

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/project"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

const (
	CommandTypeCreate      command.Type = "game.create"
	CommandTypeStart       command.Type = "game.start"
	CommandTypeAdvanceTurn command.Type = "turn.advance"

	EventTypeCreated      event.Type = "game.created"
	EventTypeStarted      event.Type = "game.started"
	EventTypeTurnAdvanced event.Type = "turn.advanced"
	EventTypeWon          event.Type = "game.won"

	RejectionCodeAlreadyCreated   = "GAME_ALREADY_CREATED"
	RejectionCodeNotCreated       = "GAME_NOT_CREATED"
	RejectionCodeSetupClosed      = "GAME_SETUP_CLOSED"
	RejectionCodeNotStarted       = "GAME_NOT_STARTED"
	RejectionCodeFinished         = "GAME_FINISHED"
	RejectionCodePlayersMissing   = "GAME_PLAYERS_MISSING"
	RejectionCodeTurnOrderInvalid = "GAME_TURN_ORDER_INVALID"
	RejectionCodeTurnNotYours     = "TURN_NOT_YOURS"
	RejectionCodeSystemOnly       = "COMMAND_SYSTEM_ONLY"
)

// MinPlayers is the smallest table that can start.
const MinPlayers = 2

// View is the world plus the silo and treaty sets read at the turn boundary.
type View interface {
	world.View
	Silos() escalation.State
	Treaties() treaty.Treaties
}

// Decide returns the decision for a lifecycle command.
func Decide(view View, state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	at := now().UTC()
	switch cmd.Type {
	case CommandTypeCreate:
		return decideCreate(state, cmd, at)
	case CommandTypeStart:
		return decideStart(view, state, cmd, at)
	case CommandTypeAdvanceTurn:
		return decideAdvance(view, state, cmd, at)
	default:
		return command.Reject(command.Rejection{
			Code:    "COMMAND_TYPE_UNSUPPORTED",
			Message: "command type is not supported by game decider",
		})
	}
}

func newGameEvent(cmd command.Command, eventType event.Type, payload any, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(payload)
	return command.NewEvent(cmd, eventType, "game", cmd.GameID, payloadJSON, at)
}

func decideCreate(state State, cmd command.Command, at time.Time) command.Decision {
	if state.Created() {
		return command.Reject(command.Rejection{Code: RejectionCodeAlreadyCreated, Message: "game already exists"})
	}
	var payload CreatePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	return command.Accept(newGameEvent(cmd, EventTypeCreated, CreatePayload{
		Name:  strings.TrimSpace(payload.Name),
		Rules: payload.Rules.Normalize(),
	}, at))
}

func decideStart(view View, state State, cmd command.Command, at time.Time) command.Decision {
	players := view.Players()
	if len(players) < MinPlayers {
		return command.Reject(command.Rejection{Code: RejectionCodePlayersMissing, Message: "at least two players must join"})
	}
	var payload StartPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	order := make([]string, 0, len(payload.TurnOrder))
	for _, id := range payload.TurnOrder {
		order = append(order, strings.TrimSpace(id))
	}
	if len(order) == 0 {
		for _, p := range players {
			order = append(order, p.ID)
		}
		sort.Strings(order)
	}
	if len(order) != len(players) {
		return command.Reject(command.Rejection{Code: RejectionCodeTurnOrderInvalid, Message: "turn order must seat every player once"})
	}
	seated := map[string]bool{}
	for _, id := range order {
		if seated[id] || !view.HasPlayer(id) {
			return command.Reject(command.Rejection{Code: RejectionCodeTurnOrderInvalid, Message: "turn order must seat every player once"})
		}
		seated[id] = true
	}
	return command.Accept(newGameEvent(cmd, EventTypeStarted, StartedPayload{
		TurnOrder: order,
		Turn:      1,
		ActorID:   order[0],
	}, at))
}

func decideAdvance(view View, state State, cmd command.Command, at time.Time) command.Decision {
	current := state.CurrentActor()
	if current == "" {
		return command.Reject(command.Rejection{Code: RejectionCodeNotStarted, Message: "game has not started"})
	}
	if cmd.ActorType == command.ActorTypePlayer && cmd.ActorID != current {
		return command.Reject(command.Rejection{Code: RejectionCodeTurnNotYours, Message: "it is " + current + "'s turn"})
	}
	next := (state.ActorIndex + 1) % len(state.TurnOrder)
	global := next == 0
	turn := state.Turn
	if global {
		turn++
	}
	events := []event.Event{newGameEvent(cmd, EventTypeTurnAdvanced, TurnAdvancedPayload{
		Turn:       turn,
		ActorIndex: next,
		ActorID:    state.TurnOrder[next],
		Global:     global,
	}, at)}
	if global {
		events = append(events, TurnBoundary(view, cmd, turn, at)...)
	}
	return command.Accept(events...)
}

// TurnBoundary returns the periodic consequences of a new global turn: card
// reset, silo ticks, treaty clause expiry and recurring project supply.
func TurnBoundary(view View, cmd command.Command, turn int, at time.Time) []event.Event {
	events := []event.Event{ledger.NewTurnResetEvent(cmd, turn, at)}
	events = append(events, escalation.Advances(view.Rules(), view.Silos(), cmd, at)...)
	events = append(events, treaty.Expirations(view.Ledger(), view.Treaties(), cmd, turn, at)...)
	events = append(events, project.RecurringSupply(view, cmd, at)...)
	return events
}

// NewWonEvent builds the event ending the game in favor of winnerID.
func NewWonEvent(cmd command.Command, winnerID string, at time.Time) event.Event {
	return newGameEvent(cmd, EventTypeWon, WonPayload{WinnerID: winnerID}, at)
}

// CheckPhase rejects a command issued outside the lifecycle phase it
// declares. Only game.create is accepted before the game exists.
func CheckPhase(state State, cmdType command.Type, phase command.Phase) *command.Rejection {
	if !state.Created() {
		if cmdType == CommandTypeCreate {
			return nil
		}
		return &command.Rejection{Code: RejectionCodeNotCreated, Message: "game has not been created"}
	}
	switch phase {
	case command.PhaseSetup:
		if state.Status != StatusSetup {
			return &command.Rejection{Code: RejectionCodeSetupClosed, Message: "setup is closed"}
		}
	case command.PhasePlay:
		switch state.Status {
		case StatusSetup:
			return &command.Rejection{Code: RejectionCodeNotStarted, Message: "game has not started"}
		case StatusFinished:
			return &command.Rejection{Code: RejectionCodeFinished, Message: "game is over, " + state.WinnerID + " won"}
		}
	}
	return nil
}

// CheckActor rejects a player command whose definition only admits the
// system.
func CheckActor(cmd command.Command, definition command.Definition) *command.Rejection {
	if definition.Allows(cmd.ActorType) {
		return nil
	}
	return &command.Rejection{Code: RejectionCodeSystemOnly, Message: string(cmd.Type) + " is issued by the system"}
}

// CheckTurn rejects a turn-bound player command from anyone but the current
// actor.
func CheckTurn(state State, cmd command.Command, gate command.Gate) *command.Rejection {
	if gate != command.GateTurn || cmd.ActorType != command.ActorTypePlayer || state.Status != StatusPlaying {
		return nil
	}
	if current := state.CurrentActor(); cmd.ActorID != current {
		return &command.Rejection{Code: RejectionCodeTurnNotYours, Message: "it is " + current + "'s turn"}
	}
	return nil
}
