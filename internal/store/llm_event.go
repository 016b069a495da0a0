package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, tableLLMRequest,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) (LLMUsage, error) {
	q, args := entsql.Dialect(r.dialect).
		Select(
			entsql.Count("*"),
			"SUM(CASE WHEN success THEN 0 ELSE 1 END)",
			entsql.Sum("input_tokens"),
			entsql.Sum("output_tokens"),
		).
		From(entsql.Table(tableLLMRequest)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return LLMUsage{}, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var u LLMUsage
	if rows.Next() {
		var failures, in, out sql.NullInt64
		if err := rows.Scan(&u.Requests, &failures, &in, &out); err != nil {
			return LLMUsage{}, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.Failures = int(failures.Int64)
		u.InputTokens = int(in.Int64)
		u.OutputTokens = int(out.Int64)
	}
	return u, rows.Err()
}
