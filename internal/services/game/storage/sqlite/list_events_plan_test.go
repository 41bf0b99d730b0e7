package sqlite

import (
	"testing"

	"github.com/louisbranch/brinkmanship/internal/services/game/core/filter"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage"
)

func TestBuildListEventsSQLPlan(t *testing.T) {
	plan := buildListEventsSQLPlan(storage.EventQuery{GameID: "game-1", AfterSeq: 4, Limit: 10}, filter.SQLCondition{
		Clause: "entity_type = ?",
		Params: []any{"silo"},
	})
	if plan.whereClause != "game_id = ? AND seq > ? AND entity_type = ?" {
		t.Fatalf("where = %q", plan.whereClause)
	}
	if len(plan.params) != 3 || plan.params[0] != "game-1" || plan.params[1] != int64(4) || plan.params[2] != "silo" {
		t.Fatalf("params = %v", plan.params)
	}
	if plan.limitClause != " LIMIT 10" {
		t.Fatalf("limit = %q", plan.limitClause)
	}

	plan = buildListEventsSQLPlan(storage.EventQuery{GameID: "game-1"}, filter.SQLCondition{})
	if plan.whereClause != "game_id = ?" || plan.limitClause != "" {
		t.Fatalf("plan = %+v, want bare game filter", plan)
	}
}
