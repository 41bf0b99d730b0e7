package escalation

// ConstructPayload starts a silo at a region.
type ConstructPayload struct {
	RegionID string   `json:"region_id"`
	CardIDs  []string `json:"card_ids"`
}

// ArmPayload arms an active silo.
type ArmPayload struct {
	RegionID string   `json:"region_id"`
	CardIDs  []string `json:"card_ids"`
}

// AdvancePayload is the administrative tick. Empty RegionID ticks every silo.
type AdvancePayload struct {
	RegionID string `json:"region_id,omitempty"`
}

// LaunchPayload attempts to fire.
type LaunchPayload struct{}

// SiloConstructedPayload records a new silo.
type SiloConstructedPayload struct {
	Silo Silo `json:"silo"`
}

// SiloArmedPayload records arming with the card whose route keeps the silo
// qualifying.
type SiloArmedPayload struct {
	RegionID   string `json:"region_id"`
	OwnerID    string `json:"owner_id"`
	FuelCardID string `json:"fuel_card_id"`
}

// SiloAdvancedPayload records one tick and the resulting status.
type SiloAdvancedPayload struct {
	RegionID       string `json:"region_id"`
	OwnerID        string `json:"owner_id"`
	Status         Status `json:"status"`
	TurnsRemaining int    `json:"turns_remaining"`
}

// SiloCooldownPayload records a silo forced into cooldown.
type SiloCooldownPayload struct {
	RegionID       string `json:"region_id"`
	OwnerID        string `json:"owner_id"`
	TurnsRemaining int    `json:"turns_remaining"`
}

// SiloDestroyedPayload records a silo lost with its region.
type SiloDestroyedPayload struct {
	RegionID string `json:"region_id"`
	OwnerID  string `json:"owner_id"`
}

// MADTriggeredPayload names the colliding commanders.
type MADTriggeredPayload struct {
	Players       []string `json:"players"`
	TriggeredBy   string   `json:"triggered_by"`
	CooldownTurns int      `json:"cooldown_turns"`
}

// LaunchedPayload records a successful launch.
type LaunchedPayload struct {
	PlayerID string   `json:"player_id"`
	Silos    []string `json:"silos"`
}
