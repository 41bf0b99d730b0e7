package event

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	coreencoding "github.com/louisbranch/brinkmanship/internal/services/game/domain/core/encoding"
)

// envelope lists the fields covered by the content hash. Seq and the hash
// fields themselves are excluded so a hash can be computed before append.
func envelope(evt Event) map[string]any {
	payload := json.RawMessage(evt.PayloadJSON)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return map[string]any{
		"game_id":     evt.GameID,
		"timestamp":   evt.Timestamp.UTC().Format(time.RFC3339Nano),
		"event_type":  string(evt.Type),
		"actor_type":  string(evt.ActorType),
		"actor_id":    evt.ActorID,
		"entity_type": evt.EntityType,
		"entity_id":   evt.EntityID,
		"request_id":  evt.RequestID,
		"payload":     payload,
	}
}

// EventHash computes the content hash for a single event.
func EventHash(evt Event) (string, error) {
	return coreencoding.ContentHash(envelope(evt))
}

// ChainHash computes the SHA-256 hash that links an event to its predecessor.
func ChainHash(evt Event, prevHash string) (string, error) {
	hash, err := EventHash(evt)
	if err != nil {
		return "", err
	}
	canonical, err := coreencoding.CanonicalJSON(map[string]any{
		"seq":       evt.Seq,
		"hash":      hash,
		"prev_hash": prevHash,
	})
	if err != nil {
		return "", fmt.Errorf("canonical chain json: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
