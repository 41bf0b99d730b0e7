package player

import (
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
)

type fakeView struct {
	players map[string]State
}

func (f fakeView) Player(id string) (State, bool) {
	p, ok := f.players[id]
	return p, ok
}

func (f fakeView) Players() []State {
	out := make([]State, 0, len(f.players))
	for _, p := range f.players {
		out = append(out, p)
	}
	return out
}

func (f fakeView) HasRegion(id string) bool { return territory.DefaultGraph().HasRegion(id) }

var testNow = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func joinCmd(payload JoinPayload) command.Command {
	data, _ := json.Marshal(payload)
	return command.Command{GameID: "g1", Type: CommandTypeJoin, ActorType: command.ActorTypeSystem, PayloadJSON: data}
}

func TestDecideJoin(t *testing.T) {
	view := fakeView{players: map[string]State{"bruno": {ID: "bruno", Color: "#ff0000"}}}
	decision := Decide(view, joinCmd(JoinPayload{PlayerID: "ana", DisplayName: " Ana ", Color: "#0000ff", SecretTarget: "chile"}), func() time.Time { return testNow })
	if len(decision.Events) != 1 {
		t.Fatalf("decision = %+v", decision)
	}
	state, err := Fold(State{}, decision.Events[0])
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if state.ID != "ana" || state.DisplayName != "Ana" || state.SecretTarget != "chile" {
		t.Fatalf("state = %+v", state)
	}

	tests := []struct {
		name    string
		payload JoinPayload
		want    string
	}{
		{name: "already joined", payload: JoinPayload{PlayerID: "bruno", DisplayName: "B"}, want: RejectionCodeAlreadyJoined},
		{name: "no name", payload: JoinPayload{PlayerID: "carla"}, want: RejectionCodeNameRequired},
		{name: "bad target", payload: JoinPayload{PlayerID: "carla", DisplayName: "C", SecretTarget: "atlantida"}, want: RejectionCodeTargetUnknown},
		{name: "color taken", payload: JoinPayload{PlayerID: "carla", DisplayName: "C", Color: "#FF0000"}, want: RejectionCodeColorDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(view, joinCmd(tt.payload), func() time.Time { return testNow })
			if len(decision.Rejections) != 1 || decision.Rejections[0].Code != tt.want {
				t.Fatalf("rejections = %+v, want %s", decision.Rejections, tt.want)
			}
		})
	}
}

func TestRevokedProjectDisablesRouteEffect(t *testing.T) {
	cmd := command.Command{GameID: "g1", ActorType: command.ActorTypePlayer, ActorID: "ana"}
	state := State{ID: "ana"}
	effect := EffectRecord{ID: "r1:effect", Type: territory.EffectLandBridge, Regions: []string{"alaska", "siberia"}, ProjectRecordID: "r1:project", CreatedAt: testNow}
	record := ProjectRecord{ID: "r1:project", ProjectID: "bering_bridge", EffectID: effect.ID, StartedAt: testNow}

	state, err := Fold(state, NewEffectRecordedEvent(cmd, "ana", effect))
	if err != nil {
		t.Fatalf("fold effect: %v", err)
	}
	state, err = Fold(state, NewProjectRecordedEvent(cmd, "ana", record))
	if err != nil {
		t.Fatalf("fold project: %v", err)
	}
	if effects := state.RouteEffects(); len(effects) != 1 || effects[0].Revoked {
		t.Fatalf("effects = %+v", effects)
	}

	state, err = Fold(state, NewProjectRevokedEvent(cmd, "ana", record.ID, "siberia", testNow))
	if err != nil {
		t.Fatalf("fold revoke: %v", err)
	}
	if effects := state.RouteEffects(); len(effects) != 1 || !effects[0].Revoked {
		t.Fatalf("effects = %+v, want revoked", effects)
	}
	if _, active := state.ActiveProject("bering_bridge"); active {
		t.Fatal("project still active after revocation")
	}
	if len(state.Effects) != 1 {
		t.Fatal("effect records are append-only")
	}

	if _, err := Fold(state, NewProjectRevokedEvent(cmd, "ana", record.ID, "siberia", testNow)); !apperrors.IsCode(err, apperrors.CodeInvariantViolation) {
		t.Fatalf("error = %v, want invariant violation", err)
	}
}

func TestCloneCopiesRecords(t *testing.T) {
	revokedAt := testNow
	state := State{
		ID:       "ana",
		Effects:  []EffectRecord{{ID: "e1", Regions: []string{"a", "b"}}},
		Projects: []ProjectRecord{{ID: "p1", RevokedAt: &revokedAt}},
	}
	clone := state.Clone()
	clone.Effects[0].Regions[0] = "z"
	*clone.Projects[0].RevokedAt = testNow.Add(time.Hour)
	if state.Effects[0].Regions[0] != "a" {
		t.Fatal("clone shares effect regions")
	}
	if !state.Projects[0].RevokedAt.Equal(testNow) {
		t.Fatal("clone shares revoked timestamp")
	}
}
