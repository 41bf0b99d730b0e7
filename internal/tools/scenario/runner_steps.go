package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/engine"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// scenarioState carries what later expectations read from earlier steps.
type scenarioState struct {
	last     engine.Result
	commands int
}

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case StepCommand:
		return r.runCommandStep(ctx, state, step)
	case StepExpectOwner:
		return r.runExpectOwnerStep(step)
	case StepExpectSilo:
		return r.runExpectSiloStep(step)
	case StepExpectStatus:
		return r.runExpectStatusStep(step)
	case StepExpectWinner:
		return r.runExpectWinnerStep(step)
	case StepExpectSpent:
		return r.runExpectSpentStep(step)
	case StepExpectTreaty:
		return r.runExpectTreatyStep(step)
	case StepExpectNotification:
		return r.runExpectNotificationStep(state, step)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runCommandStep(ctx context.Context, state *scenarioState, step Step) error {
	cmdType := stringArg(step.Args, argType)
	if cmdType == "" {
		return r.failf("command type is required")
	}
	payload := step.Args[argPayload]
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return r.failf("encode %s payload: %v", cmdType, err)
	}
	actor := stringArg(step.Args, argActor)
	actorType := command.ActorTypeSystem
	if actor != "" {
		actorType = command.ActorTypePlayer
	}
	state.commands++

	result, err := r.exec.Execute(ctx, command.Command{
		GameID:      r.gameID,
		Type:        command.Type(cmdType),
		ActorType:   actorType,
		ActorID:     actor,
		RequestID:   fmt.Sprintf("%s-%d", r.gameID, state.commands),
		PayloadJSON: raw,
	})
	if wantErr := stringArg(step.Args, argExpectError); wantErr != "" {
		if err == nil {
			return r.assertf("%s: expected error %s", cmdType, wantErr)
		}
		if got := apperrors.GetCode(err); string(got) != wantErr {
			return r.assertf("%s: error code = %s, want %s (%v)", cmdType, got, wantErr, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	state.last = result

	decision := result.Decision
	wantRejection := stringArg(step.Args, argExpectRejection)
	switch {
	case decision.Rejected() && wantRejection == "":
		rejection := decision.Rejections[0]
		return r.assertf("%s rejected: %s %s", cmdType, rejection.Code, rejection.Message)
	case decision.Rejected() && decision.Rejections[0].Code != wantRejection:
		return r.assertf("%s rejection = %s, want %s", cmdType, decision.Rejections[0].Code, wantRejection)
	case !decision.Rejected() && wantRejection != "":
		return r.assertf("%s accepted, want rejection %s", cmdType, wantRejection)
	}

	if want, ok := step.Args[argExpectEvents]; ok {
		wantTypes := stringList(want)
		gotTypes := eventTypes(decision.Events)
		if strings.Join(gotTypes, ",") != strings.Join(wantTypes, ",") {
			return r.assertf("%s events = %v, want %v", cmdType, gotTypes, wantTypes)
		}
	}
	for _, evt := range decision.Events {
		r.logf("  event %d %s %s/%s", evt.Seq, evt.Type, evt.EntityType, evt.EntityID)
	}
	return nil
}

func (r *Runner) runExpectOwnerStep(step Step) error {
	region := stringArg(step.Args, "region")
	want := stringArg(step.Args, "owner")
	state := r.exec.State()
	if !state.Graph.HasRegion(region) {
		return r.failf("unknown region %q", region)
	}
	if got := state.Ownership.Owner(region); got != want {
		return r.assertf("owner of %s = %q, want %q", region, got, want)
	}
	return nil
}

func (r *Runner) runExpectSiloStep(step Step) error {
	region := stringArg(step.Args, "region")
	silo, ok := r.exec.State().Silos[region]
	if absent, _ := step.Args["absent"].(bool); absent {
		if ok {
			return r.assertf("silo at %s = %+v, want none", region, silo)
		}
		return nil
	}
	if !ok {
		return r.assertf("no silo at %s", region)
	}
	if want := stringArg(step.Args, "status"); want != "" && string(silo.Status) != want {
		return r.assertf("silo %s status = %s, want %s", region, silo.Status, want)
	}
	if want, ok := step.Args["armed"].(bool); ok && silo.Armed != want {
		return r.assertf("silo %s armed = %t, want %t", region, silo.Armed, want)
	}
	if want := stringArg(step.Args, "owner"); want != "" && silo.OwnerID != want {
		return r.assertf("silo %s owner = %s, want %s", region, silo.OwnerID, want)
	}
	return nil
}

func (r *Runner) runExpectStatusStep(step Step) error {
	want := stringArg(step.Args, "status")
	if got := r.exec.State().Game.Status; string(got) != want {
		return r.assertf("game status = %s, want %s", got, want)
	}
	return nil
}

func (r *Runner) runExpectWinnerStep(step Step) error {
	want := stringArg(step.Args, "winner")
	if got := r.exec.State().Game.WinnerID; got != want {
		return r.assertf("winner = %q, want %q", got, want)
	}
	return nil
}

func (r *Runner) runExpectSpentStep(step Step) error {
	cardID := stringArg(step.Args, "card")
	want, _ := step.Args["spent"].(bool)
	card, ok := r.exec.State().Ledger.Card(cardID)
	if !ok {
		return r.failf("unknown card %q", cardID)
	}
	if card.SpentThisTurn != want {
		return r.assertf("card %s spent = %t, want %t", cardID, card.SpentThisTurn, want)
	}
	return nil
}

func (r *Runner) runExpectTreatyStep(step Step) error {
	id := stringArg(step.Args, "treaty")
	want := stringArg(step.Args, "status")
	t, ok := r.exec.State().Treaties[id]
	if !ok {
		return r.assertf("no treaty %s", id)
	}
	if string(t.Status) != want {
		return r.assertf("treaty %s status = %s, want %s", id, t.Status, want)
	}
	return nil
}

// runExpectNotificationStep checks the notifications of the last command.
func (r *Runner) runExpectNotificationStep(state *scenarioState, step Step) error {
	eventType := stringArg(step.Args, "event_type")
	recipients := stringList(step.Args["recipients"])
	for _, payload := range state.last.Notifications {
		if string(payload.EventType) != eventType {
			continue
		}
		if len(recipients) == 0 || sameSet(payload.Recipients, recipients) {
			return nil
		}
	}
	return r.assertf("no %s notification for %v in %+v", eventType, recipients, state.last.Notifications)
}

func eventTypes(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, evt := range events {
		out = append(out, string(evt.Type))
	}
	return out
}

func stringArg(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return strings.TrimSpace(value)
}

func stringList(value any) []string {
	items, _ := value.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}
