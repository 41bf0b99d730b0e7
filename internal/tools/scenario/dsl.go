package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/game"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/project"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
)

const scenarioTypeName = "scenario"

// Step kinds beyond plain commands.
const (
	StepCommand            = "command"
	StepExpectOwner        = "expect_owner"
	StepExpectSilo         = "expect_silo"
	StepExpectStatus       = "expect_status"
	StepExpectWinner       = "expect_winner"
	StepExpectSpent        = "expect_spent"
	StepExpectTreaty       = "expect_treaty"
	StepExpectNotification = "expect_notification"
)

// Keys a command table may carry besides its payload fields.
const (
	argType            = "type"
	argActor           = "actor"
	argPayload         = "payload"
	argExpectRejection = "expect_rejection"
	argExpectEvents    = "expect_events"
	argExpectError     = "expect_error"
)

// Scenario is a named list of steps loaded from a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action or expectation.
type Step struct {
	Kind string
	Args map[string]any
}

// commandMethod binds a Lua scenario method to an engine command. Player
// methods take the acting player as their first argument.
type commandMethod struct {
	name   string
	cmd    command.Type
	player bool
}

var commandMethods = []commandMethod{
	{name: "game", cmd: game.CommandTypeCreate},
	{name: "join", cmd: player.CommandTypeJoin},
	{name: "claim", cmd: territory.CommandTypeClaim},
	{name: "mint_card", cmd: ledger.CommandTypeMintCard},
	{name: "mint_token", cmd: ledger.CommandTypeMintToken},
	{name: "start", cmd: game.CommandTypeStart},
	{name: "advance_silos", cmd: escalation.CommandTypeAdvance},
	{name: "end_turn", cmd: game.CommandTypeAdvanceTurn, player: true},
	{name: "conquer", cmd: territory.CommandTypeConquer, player: true},
	{name: "spend_card", cmd: ledger.CommandTypeSpendCard, player: true},
	{name: "consume_token", cmd: ledger.CommandTypeConsumeToken, player: true},
	{name: "activate", cmd: project.CommandTypeActivate, player: true},
	{name: "create_treaty", cmd: treaty.CommandTypeCreate, player: true},
	{name: "set_counterparty", cmd: treaty.CommandTypeSetCounterparty, player: true},
	{name: "draft_clause", cmd: treaty.CommandTypeDraftClause, player: true},
	{name: "remove_clause", cmd: treaty.CommandTypeRemoveClause, player: true},
	{name: "send_treaty", cmd: treaty.CommandTypeSend, player: true},
	{name: "accept_treaty", cmd: treaty.CommandTypeAccept, player: true},
	{name: "reject_treaty", cmd: treaty.CommandTypeReject, player: true},
	{name: "cancel_treaty", cmd: treaty.CommandTypeCancel, player: true},
	{name: "construct", cmd: escalation.CommandTypeConstruct, player: true},
	{name: "arm", cmd: escalation.CommandTypeArm, player: true},
	{name: "launch", cmd: escalation.CommandTypeLaunch, player: true},
}

// LoadScenarioFromFile runs a Lua script and returns the scenario it builds.
// The script must return the value created by Scenario.new. SCENARIO_DIR
// holds the script's directory so shared setup can be required.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)
	state.PushString(filepath.Dir(path))
	state.SetGlobal("SCENARIO_DIR")

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods(), 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
}

func scenarioMethods() []lua.RegistryFunction {
	methods := []lua.RegistryFunction{
		{Name: "command", Function: scenarioCommand},
		{Name: "expect_owner", Function: scenarioExpectOwner},
		{Name: "expect_silo", Function: scenarioExpectSilo},
		{Name: "expect_status", Function: scenarioExpectStatus},
		{Name: "expect_winner", Function: scenarioExpectWinner},
		{Name: "expect_spent", Function: scenarioExpectSpent},
		{Name: "expect_treaty", Function: scenarioExpectTreaty},
		{Name: "expect_notification", Function: scenarioExpectNotification},
	}
	for _, method := range commandMethods {
		methods = append(methods, lua.RegistryFunction{Name: method.name, Function: commandFunction(method)})
	}
	return methods
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

// commandFunction returns the Lua method for a bound command:
// scene:join({...}) for system commands, scene:arm("ana", {...}) for player
// commands.
func commandFunction(method commandMethod) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		tableIndex := 2
		actor := ""
		if method.player {
			actor = lua.CheckString(state, 2)
			tableIndex = 3
		}
		appendStep(scenario, StepCommand, commandArgs(string(method.cmd), actor, optionalTable(state, tableIndex)))
		return 0
	}
}

// scenarioCommand issues any registered command:
// scene:command({type = "...", actor = "...", payload = {...}}).
func scenarioCommand(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	cmdType, _ := data[argType].(string)
	if strings.TrimSpace(cmdType) == "" {
		lua.Errorf(state, "command type is required")
		return 0
	}
	actor, _ := data[argActor].(string)
	payload, _ := data[argPayload].(map[string]any)
	args := commandArgs(cmdType, actor, payload)
	for _, key := range []string{argExpectRejection, argExpectEvents, argExpectError} {
		if value, ok := data[key]; ok {
			args[key] = value
		}
	}
	appendStep(scenario, StepCommand, args)
	return 0
}

// commandArgs splits expectation keys out of a command table; the rest is the
// payload.
func commandArgs(cmdType, actor string, table map[string]any) map[string]any {
	args := map[string]any{argType: cmdType, argActor: actor}
	payload := map[string]any{}
	for key, value := range table {
		switch key {
		case argExpectRejection, argExpectEvents, argExpectError:
			args[key] = value
		default:
			payload[key] = value
		}
	}
	args[argPayload] = payload
	return args
}

func scenarioExpectOwner(state *lua.State) int {
	scenario := checkScenario(state)
	region := lua.CheckString(state, 2)
	owner := lua.OptString(state, 3, "")
	appendStep(scenario, StepExpectOwner, map[string]any{"region": region, "owner": owner})
	return 0
}

func scenarioExpectSilo(state *lua.State) int {
	scenario := checkScenario(state)
	region := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["region"] = region
	appendStep(scenario, StepExpectSilo, data)
	return 0
}

func scenarioExpectStatus(state *lua.State) int {
	scenario := checkScenario(state)
	status := lua.CheckString(state, 2)
	appendStep(scenario, StepExpectStatus, map[string]any{"status": status})
	return 0
}

func scenarioExpectWinner(state *lua.State) int {
	scenario := checkScenario(state)
	winner := lua.CheckString(state, 2)
	appendStep(scenario, StepExpectWinner, map[string]any{"winner": winner})
	return 0
}

func scenarioExpectSpent(state *lua.State) int {
	scenario := checkScenario(state)
	card := lua.CheckString(state, 2)
	spent := true
	if !state.IsNoneOrNil(3) {
		spent = state.ToBoolean(3)
	}
	appendStep(scenario, StepExpectSpent, map[string]any{"card": card, "spent": spent})
	return 0
}

func scenarioExpectTreaty(state *lua.State) int {
	scenario := checkScenario(state)
	id := lua.CheckString(state, 2)
	status := lua.CheckString(state, 3)
	appendStep(scenario, StepExpectTreaty, map[string]any{"treaty": id, "status": status})
	return 0
}

func scenarioExpectNotification(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	if _, ok := data["event_type"].(string); !ok {
		lua.Errorf(state, "notification event_type is required")
		return 0
	}
	appendStep(scenario, StepExpectNotification, data)
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a slice for sequence tables and a map otherwise. An
// empty table is an empty slice.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
