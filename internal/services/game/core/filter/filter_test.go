package filter

import (
	"testing"
	"time"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
)

func TestParseEventFilter(t *testing.T) {
	at := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		filter string
		clause string
		params []any
	}{
		{name: "empty", filter: "  "},
		{name: "type", filter: `type = "ledger.card_spent"`, clause: "event_type = ?", params: []any{"ledger.card_spent"}},
		{
			name:   "and",
			filter: `entity_type = "silo" AND actor_id = "ana"`,
			clause: "(entity_type = ? AND actor_id = ?)",
			params: []any{"silo", "ana"},
		},
		{
			name:   "or",
			filter: `entity_id = "chile" OR entity_id = "egipto"`,
			clause: "(entity_id = ? OR entity_id = ?)",
			params: []any{"chile", "egipto"},
		},
		{name: "seq", filter: "seq > 5", clause: "seq > ?", params: []any{int64(5)}},
		{
			name:   "timestamp",
			filter: `ts >= timestamp("2026-02-14T12:00:00Z")`,
			clause: "timestamp >= ?",
			params: []any{at.UnixMilli()},
		},
	}
	for _, tt := range tests {
		got, err := ParseEventFilter(tt.filter)
		if err != nil {
			t.Fatalf("%s: parse: %v", tt.name, err)
		}
		if got.Clause != tt.clause {
			t.Fatalf("%s: clause = %q, want %q", tt.name, got.Clause, tt.clause)
		}
		if len(got.Params) != len(tt.params) {
			t.Fatalf("%s: params = %v, want %v", tt.name, got.Params, tt.params)
		}
		for i := range tt.params {
			if got.Params[i] != tt.params[i] {
				t.Fatalf("%s: param[%d] = %#v, want %#v", tt.name, i, got.Params[i], tt.params[i])
			}
		}
	}
}

func TestParseEventFilterRejectsUnknownFields(t *testing.T) {
	for _, filter := range []string{`session_id = "s1"`, `type = `} {
		if _, err := ParseEventFilter(filter); !apperrors.IsCode(err, apperrors.CodeFilterInvalid) {
			t.Fatalf("%q: err = %v, want %s", filter, err, apperrors.CodeFilterInvalid)
		}
	}
}
