package territory

// ClaimPayload assigns an unowned region during setup.
type ClaimPayload struct {
	RegionID string `json:"region_id"`
	PlayerID string `json:"player_id"`
}

// ConquerPayload is the command payload for an externally resolved conquest.
type ConquerPayload struct {
	FromRegion string `json:"from_region"`
	RegionID   string `json:"region_id"`
}

// ConqueredPayload records an ownership change by conquest.
type ConqueredPayload struct {
	RegionID      string `json:"region_id"`
	FromRegion    string `json:"from_region"`
	PlayerID      string `json:"player_id"`
	PreviousOwner string `json:"previous_owner,omitempty"`
}

// CededPayload records an ownership change through a treaty clause.
type CededPayload struct {
	RegionID     string `json:"region_id"`
	FromPlayerID string `json:"from_player_id"`
	ToPlayerID   string `json:"to_player_id"`
	TreatyID     string `json:"treaty_id"`
	ClauseID     string `json:"clause_id"`
}
