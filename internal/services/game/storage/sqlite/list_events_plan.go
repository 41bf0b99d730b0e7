package sqlite

import (
	"fmt"

	"github.com/louisbranch/brinkmanship/internal/services/game/core/filter"
	"github.com/louisbranch/brinkmanship/internal/services/game/storage"
)

type listEventsSQLPlan struct {
	whereClause string
	params      []any
	limitClause string
}

func buildListEventsSQLPlan(query storage.EventQuery, condition filter.SQLCondition) listEventsSQLPlan {
	whereClause := "game_id = ?"
	params := []any{query.GameID}
	if query.AfterSeq > 0 {
		whereClause += " AND seq > ?"
		params = append(params, int64(query.AfterSeq))
	}
	if condition.Clause != "" {
		whereClause += " AND " + condition.Clause
		params = append(params, condition.Params...)
	}

	limitClause := ""
	if query.Limit > 0 {
		limitClause = fmt.Sprintf(" LIMIT %d", query.Limit)
	}
	return listEventsSQLPlan{
		whereClause: whereClause,
		params:      params,
		limitClause: limitClause,
	}
}
