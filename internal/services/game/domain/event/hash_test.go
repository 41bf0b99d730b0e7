package event

import (
	"testing"
	"time"
)

func TestEventHashDeterministic(t *testing.T) {
	evt := Event{
		GameID:      "g1",
		Timestamp:   time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC),
		Type:        "game.created",
		ActorType:   ActorTypeSystem,
		PayloadJSON: []byte(`{"name":"demo"}`),
	}
	first, err := EventHash(evt)
	if err != nil {
		t.Fatalf("event hash: %v", err)
	}
	second, err := EventHash(evt)
	if err != nil {
		t.Fatalf("event hash: %v", err)
	}
	if first != second {
		t.Fatalf("expected deterministic hash, got %s and %s", first, second)
	}

	evt.RequestID = "req-1"
	changed, err := EventHash(evt)
	if err != nil {
		t.Fatalf("event hash: %v", err)
	}
	if changed == first {
		t.Fatal("expected hash to change with request id")
	}
}

func TestEventHashIgnoresSequence(t *testing.T) {
	evt := Event{GameID: "g1", Type: "game.created", PayloadJSON: []byte(`{}`)}
	first, _ := EventHash(evt)
	evt.Seq = 9
	second, _ := EventHash(evt)
	if first != second {
		t.Fatal("sequence must not affect content hash")
	}
}

func TestChainHashLinksPredecessor(t *testing.T) {
	evt := Event{GameID: "g1", Seq: 2, Type: "game.started", PayloadJSON: []byte(`{}`)}
	a, err := ChainHash(evt, "aaaa")
	if err != nil {
		t.Fatalf("chain hash: %v", err)
	}
	b, err := ChainHash(evt, "bbbb")
	if err != nil {
		t.Fatalf("chain hash: %v", err)
	}
	if a == b {
		t.Fatal("expected chain hash to depend on previous hash")
	}
	if len(a) != 64 {
		t.Fatalf("chain hash length = %d, want 64", len(a))
	}
}
