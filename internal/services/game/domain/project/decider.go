package project

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/command"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

const (
	CommandTypeActivate command.Type = "project.activate"

	RejectionCodeUnknown             = "PROJECT_UNKNOWN"
	RejectionCodePlayerUnknown       = "PROJECT_PLAYER_UNKNOWN"
	RejectionCodeAlreadyActive       = "PROJECT_ALREADY_ACTIVE"
	RejectionCodePrerequisiteMissing = "PROJECT_PREREQUISITE_MISSING"
	RejectionCodeLabelRequired       = "PROJECT_LABEL_REQUIRED"
	RejectionCodeControlMissing      = "PROJECT_CONTROL_MISSING"
	RejectionCodeBaseNotOwned        = "PROJECT_BASE_NOT_OWNED"
	RejectionCodeBaseNotAllowed      = "PROJECT_BASE_NOT_ALLOWED"
)

// Decide returns the decision for a project command.
func Decide(view world.View, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	if cmd.Type != CommandTypeActivate {
		return command.Reject(command.Rejection{
			Code:    "COMMAND_TYPE_UNSUPPORTED",
			Message: "command type is not supported by project decider",
		})
	}
	var payload ActivatePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	return Activate(view, cmd, payload, now().UTC())
}

// Activate runs the generic activation template. Every check happens before
// any event is built, so a rejection leaves the world untouched.
func Activate(view world.View, cmd command.Command, payload ActivatePayload, at time.Time) command.Decision {
	descriptor, ok := Lookup(strings.TrimSpace(payload.ProjectID))
	if !ok {
		return command.Reject(command.Rejection{Code: RejectionCodeUnknown, Message: "project is unknown: " + payload.ProjectID})
	}
	return activate(view, cmd, descriptor, payload, at)
}

func activate(view world.View, cmd command.Command, descriptor Descriptor, payload ActivatePayload, at time.Time) command.Decision {
	playerID := cmd.ActorID
	actor, ok := view.Player(playerID)
	if !ok {
		return command.Reject(command.Rejection{Code: RejectionCodePlayerUnknown, Message: "player is unknown: " + playerID})
	}
	if _, active := actor.ActiveProject(descriptor.ID); active {
		return command.Reject(command.Rejection{Code: RejectionCodeAlreadyActive, Message: descriptor.Name + " is already active"})
	}
	for _, prerequisite := range descriptor.Prerequisites {
		if _, active := actor.ActiveProject(prerequisite); !active {
			return command.Reject(command.Rejection{Code: RejectionCodePrerequisiteMissing, Message: "requires active project " + prerequisite})
		}
	}
	label := strings.TrimSpace(payload.Label)
	if descriptor.RequiresLabel && label == "" {
		return command.Reject(command.Rejection{Code: RejectionCodeLabelRequired, Message: descriptor.Name + " requires a label"})
	}

	base, rejection := resolveBase(view, actor, descriptor, strings.TrimSpace(payload.BaseRegion))
	if rejection != nil {
		return command.Reject(*rejection)
	}
	selection, rejection := world.FillSlots(view, playerID, base, descriptor.Requirement, payload.CardIDs, payload.TokenIDs)
	if rejection != nil {
		return command.Reject(*rejection)
	}

	reason := "project:" + descriptor.ID
	events := make([]event.Event, 0, len(selection.Cards)+len(selection.Tokens)+3)
	for _, card := range selection.Cards {
		events = append(events, ledger.NewCardSpentEvent(cmd, card.ID, reason, at))
	}
	for _, token := range selection.Tokens {
		events = append(events, ledger.NewTokenConsumedEvent(cmd, token, at))
	}

	recordID := cmd.RequestID + ":project"
	effect := player.EffectRecord{
		ID:              cmd.RequestID + ":effect",
		Type:            descriptor.Effect.Type,
		BaseRegion:      base,
		Regions:         effectRegions(descriptor, base),
		Description:     descriptor.Effect.Description,
		Label:           label,
		ProjectRecordID: recordID,
		CreatedAt:       at,
	}
	record := player.ProjectRecord{
		ID:         recordID,
		ProjectID:  descriptor.ID,
		BaseRegion: base,
		Footprint:  footprint(descriptor, base),
		EffectID:   effect.ID,
		StartedAt:  at,
	}
	events = append(events,
		player.NewEffectRecordedEvent(cmd, playerID, effect),
		player.NewProjectRecordedEvent(cmd, playerID, record),
	)
	if descriptor.MintsToken != "" {
		events = append(events, ledger.NewTokenMintedEvent(cmd, ledger.Token{
			ID:           cmd.RequestID + ":token",
			Class:        descriptor.MintsToken,
			OriginRegion: base,
			Owner:        playerID,
		}, recordID, at))
	}
	return command.Accept(events...)
}

func resolveBase(view world.View, actor player.State, descriptor Descriptor, requested string) (string, *command.Rejection) {
	ownership := view.Ownership()
	if !ownership.Owns(actor.ID, descriptor.Footprint...) {
		return "", &command.Rejection{Code: RejectionCodeControlMissing, Message: descriptor.Name + " requires control of every footprint region"}
	}
	base := requested
	switch descriptor.BaseMode {
	case BaseFootprint:
		if base == "" && len(descriptor.Footprint) > 0 {
			base = descriptor.Footprint[0]
		}
		if !contains(descriptor.Footprint, base) {
			return "", &command.Rejection{Code: RejectionCodeBaseNotAllowed, Message: base + " is not part of the footprint"}
		}
	case BaseListed:
		if !contains(descriptor.BaseRegions, base) {
			return "", &command.Rejection{Code: RejectionCodeBaseNotAllowed, Message: base + " cannot host " + descriptor.Name}
		}
	case BaseSecretTarget:
		if base == "" {
			base = actor.SecretTarget
		}
		if base == "" || base != actor.SecretTarget {
			return "", &command.Rejection{Code: RejectionCodeBaseNotAllowed, Message: descriptor.Name + " must be based at the secret target"}
		}
	}
	if !view.HasRegion(base) || ownership.Owner(base) != actor.ID {
		return "", &command.Rejection{Code: RejectionCodeBaseNotOwned, Message: "base region is not owned: " + base}
	}
	return base, nil
}

func effectRegions(descriptor Descriptor, base string) []string {
	if len(descriptor.Effect.Regions) > 0 {
		return append([]string(nil), descriptor.Effect.Regions...)
	}
	return []string{base}
}

func footprint(descriptor Descriptor, base string) []string {
	out := append([]string(nil), descriptor.Footprint...)
	if !contains(out, base) {
		out = append(out, base)
	}
	return out
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// Revocations returns the project_revoked events triggered by ownership
// changes. A record is revoked when its descriptor revokes on loss and the
// losing player held it over a region that changed hands.
func Revocations(view world.View, cmd command.Command, changes []territory.Change, at time.Time) []event.Event {
	var events []event.Event
	revoked := map[string]bool{}
	for _, change := range changes {
		if change.PreviousOwner == "" {
			continue
		}
		loser, ok := view.Player(change.PreviousOwner)
		if !ok {
			continue
		}
		for _, record := range loser.ActiveProjects() {
			descriptor, ok := Lookup(record.ProjectID)
			if !ok || !descriptor.RevokeOnLoss || revoked[record.ID] || !contains(record.Footprint, change.RegionID) {
				continue
			}
			revoked[record.ID] = true
			events = append(events, player.NewProjectRevokedEvent(cmd, loser.ID, record.ID, change.RegionID, at))
		}
	}
	return events
}

// RecurringSupply mints one token per active recurring project record.
// Token ids derive from the request id so replays stay deterministic.
func RecurringSupply(view world.View, cmd command.Command, at time.Time) []event.Event {
	var events []event.Event
	for _, p := range view.Players() {
		for _, record := range p.ActiveProjects() {
			descriptor, ok := Lookup(record.ProjectID)
			if !ok || !descriptor.Recurring || descriptor.MintsToken == "" {
				continue
			}
			events = append(events, ledger.NewTokenMintedEvent(cmd, ledger.Token{
				ID:           cmd.RequestID + ":supply:" + record.ID,
				Class:        descriptor.MintsToken,
				OriginRegion: record.BaseRegion,
				Owner:        p.ID,
			}, record.ID, at))
		}
	}
	return events
}

// EligibleRegions returns the regions where playerID could activate the
// project right now with cards chosen automatically.
func EligibleRegions(view world.View, playerID string, descriptor Descriptor) []string {
	actor, ok := view.Player(playerID)
	if !ok {
		return nil
	}
	if _, active := actor.ActiveProject(descriptor.ID); active {
		return nil
	}
	for _, prerequisite := range descriptor.Prerequisites {
		if _, active := actor.ActiveProject(prerequisite); !active {
			return nil
		}
	}
	var candidates []string
	switch descriptor.BaseMode {
	case BaseFootprint:
		candidates = descriptor.Footprint
	case BaseListed:
		candidates = descriptor.BaseRegions
	case BaseSecretTarget:
		candidates = []string{actor.SecretTarget}
	default:
		candidates = view.Ownership().RegionsOf(playerID)
	}
	var out []string
	for _, candidate := range candidates {
		if _, rejection := resolveBase(view, actor, descriptor, candidate); rejection != nil {
			continue
		}
		if _, _, ok := world.AutoFill(view, playerID, candidate, descriptor.Requirement); ok {
			out = append(out, candidate)
		}
	}
	return out
}
