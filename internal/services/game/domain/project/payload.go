package project

// ActivatePayload is the command payload for activating a project.
type ActivatePayload struct {
	ProjectID  string   `json:"project_id"`
	BaseRegion string   `json:"base_region,omitempty"`
	CardIDs    []string `json:"card_ids,omitempty"`
	TokenIDs   []string `json:"token_ids,omitempty"`
	Label      string   `json:"label,omitempty"`
}
