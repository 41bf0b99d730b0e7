// Package player holds per-player identity, the append-only effect records
// earned by strategic projects, and the project records that back them.
package player

import (
	"time"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
)

// EffectRecord is permanent evidence that a strategic project succeeded.
type EffectRecord struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	BaseRegion      string    `json:"base_region"`
	Regions         []string  `json:"regions,omitempty"`
	Description     string    `json:"description"`
	Label           string    `json:"label,omitempty"`
	ProjectRecordID string    `json:"project_record_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProjectRecord tracks one completed project. A revoked record stays in the
// list with RevokedAt set.
type ProjectRecord struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	BaseRegion string     `json:"base_region"`
	Footprint  []string   `json:"footprint,omitempty"`
	EffectID   string     `json:"effect_id"`
	StartedAt  time.Time  `json:"started_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// Active reports whether the record still applies.
func (r ProjectRecord) Active() bool {
	return r.RevokedAt == nil
}

// State is one player.
type State struct {
	ID           string          `json:"id"`
	DisplayName  string          `json:"display_name"`
	Color        string          `json:"color"`
	SecretTarget string          `json:"secret_target"`
	Effects      []EffectRecord  `json:"effects,omitempty"`
	Projects     []ProjectRecord `json:"projects,omitempty"`
}

// Clone returns an independent copy.
func (s State) Clone() State {
	out := s
	out.Effects = make([]EffectRecord, len(s.Effects))
	for i, effect := range s.Effects {
		effect.Regions = append([]string(nil), effect.Regions...)
		out.Effects[i] = effect
	}
	out.Projects = make([]ProjectRecord, len(s.Projects))
	for i, record := range s.Projects {
		record.Footprint = append([]string(nil), record.Footprint...)
		if record.RevokedAt != nil {
			revokedAt := *record.RevokedAt
			record.RevokedAt = &revokedAt
		}
		out.Projects[i] = record
	}
	return out
}

// Project returns the record with id.
func (s State) Project(recordID string) (ProjectRecord, bool) {
	for _, record := range s.Projects {
		if record.ID == recordID {
			return record, true
		}
	}
	return ProjectRecord{}, false
}

// ActiveProject returns the active record for a project descriptor id.
func (s State) ActiveProject(projectID string) (ProjectRecord, bool) {
	for _, record := range s.Projects {
		if record.ProjectID == projectID && record.Active() {
			return record, true
		}
	}
	return ProjectRecord{}, false
}

// ActiveProjects returns every record that has not been revoked.
func (s State) ActiveProjects() []ProjectRecord {
	var out []ProjectRecord
	for _, record := range s.Projects {
		if record.Active() {
			out = append(out, record)
		}
	}
	return out
}

// RouteEffects maps effect records to the route resolver's view. Effects
// whose project record was revoked are flagged so they grant nothing.
func (s State) RouteEffects() []territory.Effect {
	out := make([]territory.Effect, 0, len(s.Effects))
	for _, effect := range s.Effects {
		revoked := false
		if record, ok := s.Project(effect.ProjectRecordID); ok {
			revoked = !record.Active()
		}
		out = append(out, territory.Effect{
			Type:    effect.Type,
			Regions: append([]string(nil), effect.Regions...),
			Revoked: revoked,
		})
	}
	return out
}
