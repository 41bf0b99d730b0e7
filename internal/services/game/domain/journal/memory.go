// Package journal provides an in-memory event journal with the same sequence
// and hash-chain guarantees as the SQLite store.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/event"
)

// ErrGameIDRequired indicates a missing game id.
var ErrGameIDRequired = errors.New("game id is required")

// Memory stores events per game in append order.
type Memory struct {
	mu       sync.Mutex
	registry *event.Registry
	events   map[string][]event.Event
}

// NewMemory creates an in-memory journal. When registry is nil events are
// appended without validation.
func NewMemory(registry *event.Registry) *Memory {
	return &Memory{registry: registry, events: make(map[string][]event.Event)}
}

// Append assigns the next sequence number and hashes, then stores evt.
func (m *Memory) Append(ctx context.Context, evt event.Event) (event.Event, error) {
	stored, err := m.AppendEvents(ctx, []event.Event{evt})
	if err != nil {
		return event.Event{}, err
	}
	return stored[0], nil
}

// AppendEvents stores events in order. Either every event is stored or none.
func (m *Memory) AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vetted := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if m.registry != nil {
			validated, err := m.registry.ValidateForAppend(evt)
			if err != nil {
				return nil, err
			}
			evt = validated
		}
		evt.GameID = strings.TrimSpace(evt.GameID)
		if evt.GameID == "" {
			return nil, ErrGameIDRequired
		}
		vetted = append(vetted, evt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[string][]event.Event)
	out := make([]event.Event, 0, len(vetted))
	for _, evt := range vetted {
		stream, ok := staged[evt.GameID]
		if !ok {
			stream = append([]event.Event(nil), m.events[evt.GameID]...)
		}
		evt.Seq = uint64(len(stream)) + 1
		evt.PrevHash = ""
		if len(stream) > 0 {
			evt.PrevHash = stream[len(stream)-1].ChainHash
		}
		hash, err := event.EventHash(evt)
		if err != nil {
			return nil, fmt.Errorf("hash event: %w", err)
		}
		evt.Hash = hash
		chain, err := event.ChainHash(evt, evt.PrevHash)
		if err != nil {
			return nil, fmt.Errorf("chain event: %w", err)
		}
		evt.ChainHash = chain
		staged[evt.GameID] = append(stream, evt)
		out = append(out, evt)
	}
	for gameID, stream := range staged {
		m.events[gameID] = stream
	}
	return out, nil
}

// ListEvents returns up to limit events with a sequence above afterSeq.
func (m *Memory) ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, ErrGameIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stream := m.events[gameID]
	if afterSeq >= uint64(len(stream)) {
		return nil, nil
	}
	page := stream[afterSeq:]
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	return append([]event.Event(nil), page...), nil
}
