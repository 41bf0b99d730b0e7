// Package notification derives player-facing messages from accepted events.
// Payloads are pure data; delivery belongs to the host.
package notification

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/louisbranch/brinkmanship/internal/platform/i18n/catalog"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/escalation"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/player"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/project"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/treaty"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

// Payload is one message for a set of players.
type Payload struct {
	Recipients []string   `json:"recipients"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Color      string     `json:"color,omitempty"`
	EventType  event.Type `json:"event_type"`
}

// View is the state read when naming players, regions and treaties.
type View interface {
	world.View
	Treaties() treaty.Treaties
}

// Builder renders payloads in one locale.
type Builder struct {
	Bundle *catalog.Bundle
	Locale string
}

// Build returns the payloads for events, read against the state after they
// were applied. Events without a message are skipped.
func (b Builder) Build(view View, events []event.Event) []Payload {
	bundle := b.Bundle
	if bundle == nil {
		bundle = catalog.Default()
	}
	r := renderer{bundle: bundle, locale: b.Locale, view: view}
	var out []Payload
	for _, evt := range events {
		if payload, ok := r.render(evt); ok {
			out = append(out, payload)
		}
	}
	return out
}

type renderer struct {
	bundle *catalog.Bundle
	locale string
	view   View
}

func (r renderer) everyone() []string {
	players := r.view.Players()
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func (r renderer) playerName(id string) string {
	if p, ok := r.view.Player(id); ok && p.DisplayName != "" {
		return p.DisplayName
	}
	return id
}

func (r renderer) playerColor(id string) string {
	p, _ := r.view.Player(id)
	return p.Color
}

func (r renderer) regionName(id string) string {
	if region, ok := r.view.Graph().Region(id); ok && region.Name != "" {
		return region.Name
	}
	return id
}

func (r renderer) projectName(id string) (string, string) {
	if descriptor, ok := project.Lookup(id); ok {
		return descriptor.Name, descriptor.Color
	}
	return id, ""
}

func (r renderer) render(evt event.Event) (Payload, bool) {
	switch evt.Type {
	case player.EventTypeProjectRecorded:
		var payload player.ProjectRecordedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		name, color := r.projectName(payload.Record.ProjectID)
		return r.payload(evt, "project.activated", r.everyone(), color,
			[]any{name},
			[]any{r.playerName(payload.PlayerID), name, r.regionName(payload.Record.BaseRegion)}), true
	case player.EventTypeProjectRevoked:
		var payload player.ProjectRevokedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		p, _ := r.view.Player(payload.PlayerID)
		record, _ := p.Project(payload.RecordID)
		name, color := r.projectName(record.ProjectID)
		return r.payload(evt, "project.revoked", r.everyone(), color,
			[]any{name},
			[]any{r.playerName(payload.PlayerID), r.regionName(payload.RegionID)}), true
	case ledger.EventTypeTokenMinted:
		var payload ledger.TokenMintedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		owner := payload.Token.Owner
		return r.payload(evt, "token.minted", []string{owner}, r.playerColor(owner),
			nil,
			[]any{r.playerName(owner), string(payload.Token.Class), r.regionName(payload.Token.OriginRegion)}), true
	case territory.EventTypeRegionConquered:
		var payload territory.ConqueredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.payload(evt, "region.conquered", r.everyone(), r.playerColor(payload.PlayerID),
			nil,
			[]any{r.playerName(payload.PlayerID), r.regionName(payload.RegionID), r.playerName(payload.PreviousOwner)}), true
	case territory.EventTypeRegionCeded:
		var payload territory.CededPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.payload(evt, "region.ceded", r.everyone(), r.playerColor(payload.ToPlayerID),
			nil,
			[]any{r.playerName(payload.FromPlayerID), r.regionName(payload.RegionID), r.playerName(payload.ToPlayerID)}), true
	case treaty.EventTypeOffered:
		var payload treaty.OfferedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		key := "treaty.offered"
		if payload.Action == treaty.ActionModified {
			key = "treaty.countered"
		}
		clauses := len(r.view.Treaties()[payload.TreatyID].Clauses)
		return r.payload(evt, key, []string{payload.AwaitingPlayerID}, r.playerColor(payload.ActorID),
			nil,
			[]any{r.playerName(payload.ActorID), clauses}), true
	case treaty.EventTypeAccepted:
		var payload treaty.AcceptedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.treatyClosed(evt, "treaty.accepted", payload.TreatyID, payload.ActorID), true
	case treaty.EventTypeRejected:
		var payload treaty.ClosedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.treatyClosed(evt, "treaty.rejected", payload.TreatyID, payload.ActorID), true
	case treaty.EventTypeCancelled:
		var payload treaty.ClosedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.treatyClosed(evt, "treaty.cancelled", payload.TreatyID, payload.ActorID), true
	case treaty.EventTypeExpired:
		var payload treaty.ClosedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.payload(evt, "treaty.expired", r.parties(payload.TreatyID), "", nil, nil), true
	case escalation.EventTypeSiloConstructed:
		var payload escalation.SiloConstructedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		silo := payload.Silo
		return r.payload(evt, "silo.constructed", r.everyone(), r.playerColor(silo.OwnerID),
			nil,
			[]any{r.playerName(silo.OwnerID), r.regionName(silo.RegionID), silo.TurnsRemaining}), true
	case escalation.EventTypeSiloAdvanced:
		var payload escalation.SiloAdvancedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if payload.Status != escalation.StatusActive {
			return Payload{}, false
		}
		return r.payload(evt, "silo.active", []string{payload.OwnerID}, r.playerColor(payload.OwnerID),
			nil,
			[]any{r.regionName(payload.RegionID)}), true
	case escalation.EventTypeSiloArmed:
		var payload escalation.SiloArmedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.payload(evt, "silo.armed", r.everyone(), r.playerColor(payload.OwnerID),
			nil,
			[]any{r.playerName(payload.OwnerID), r.regionName(payload.RegionID)}), true
	case escalation.EventTypeSiloDestroyed:
		var payload escalation.SiloDestroyedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.payload(evt, "silo.destroyed", r.everyone(), r.playerColor(payload.OwnerID),
			nil,
			[]any{r.regionName(payload.RegionID)}), true
	case escalation.EventTypeMADTriggered:
		var payload escalation.MADTriggeredPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		names := make([]string, 0, len(payload.Players))
		for _, id := range payload.Players {
			names = append(names, r.playerName(id))
		}
		sort.Strings(names)
		return r.payload(evt, "mad.triggered", r.everyone(), "",
			nil,
			[]any{strings.Join(names, ", "), payload.CooldownTurns}), true
	case escalation.EventTypeLaunched:
		var payload escalation.LaunchedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		return r.payload(evt, "launch", r.everyone(), r.playerColor(payload.PlayerID),
			nil,
			[]any{r.playerName(payload.PlayerID)}), true
	}
	return Payload{}, false
}

func (r renderer) parties(treatyID string) []string {
	state := r.view.Treaties()[treatyID]
	var out []string
	for _, id := range []string{state.CreatorID, state.CounterpartyID} {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (r renderer) treatyClosed(evt event.Event, key, treatyID, actorID string) Payload {
	return r.payload(evt, key, r.parties(treatyID), r.playerColor(actorID), nil, []any{r.playerName(actorID)})
}

// payload formats title and body with their own argument lists.
func (r renderer) payload(evt event.Event, key string, recipients []string, color string, titleArgs, bodyArgs []any) Payload {
	return Payload{
		Recipients: recipients,
		Title:      r.bundle.Sprintf(r.locale, "notification."+key+".title", titleArgs...),
		Body:       r.bundle.Sprintf(r.locale, "notification."+key+".body", bodyArgs...),
		Color:      color,
		EventType:  evt.Type,
	}
}
