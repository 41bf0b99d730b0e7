package player

import "time"

// JoinPayload seats a player before the game starts.
type JoinPayload struct {
	PlayerID     string `json:"player_id"`
	DisplayName  string `json:"display_name"`
	Color        string `json:"color"`
	SecretTarget string `json:"secret_target"`
}

// EffectRecordedPayload appends an effect record.
type EffectRecordedPayload struct {
	PlayerID string       `json:"player_id"`
	Effect   EffectRecord `json:"effect"`
}

// ProjectRecordedPayload appends a project record.
type ProjectRecordedPayload struct {
	PlayerID string        `json:"player_id"`
	Record   ProjectRecord `json:"record"`
}

// ProjectRevokedPayload invalidates a project record.
type ProjectRevokedPayload struct {
	PlayerID  string    `json:"player_id"`
	RecordID  string    `json:"record_id"`
	RegionID  string    `json:"region_id"`
	RevokedAt time.Time `json:"revoked_at"`
}
