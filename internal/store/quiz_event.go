package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on top of the ent SQL builder and the
// global sequence counter.
type eventRepo struct {
	drv     *entsql.Driver
	dialect string
	seq     *sequenceCounter
}

// insert appends one event row, assigning sequence and timestamp.
func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := entsql.Dialect(r.dialect).
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, vals...)...).
		Query()
	return r.drv.Exec(ctx, q, args, nil)
}

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	err := r.insert(ctx, tableQuiz,
		[]string{"session_id", "student_id", "action", "mode", "selector", "bank",
			"total", "answered", "correct", "percent", "basis", "duration_secs"},
		[]any{data.SessionID, data.StudentID, data.Action, data.Mode, data.Selector, data.Bank,
			data.Total, data.Answered, data.Correct, data.Percent, data.Basis, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, tableAnswer,
		[]string{"session_id", "student_id", "record_id", "topic", "category",
			"chosen", "correct_text", "outcome", "correct"},
		[]any{data.SessionID, data.StudentID, data.RecordID, data.Topic, data.Category,
			data.Chosen, data.CorrectText, data.Outcome, data.Correct},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentQuizzes(ctx context.Context, studentID string, limit int) ([]QuizEvent, error) {
	sel := entsql.Dialect(r.dialect).
		Select("sequence", "timestamp", "session_id", "student_id", "action", "mode", "selector", "bank",
			"total", "answered", "correct", "percent", "basis", "duration_secs").
		From(entsql.Table(tableQuiz))

	pred := entsql.EQ("action", ActionEnd)
	if studentID != "" {
		pred = entsql.And(pred, entsql.EQ("student_id", studentID))
	}
	sel.Where(pred).OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}

	q, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return nil, fmt.Errorf("query recent quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizEvent
	for rows.Next() {
		var e QuizEvent
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.StudentID, &e.Action,
			&e.Mode, &e.Selector, &e.Bank, &e.Total, &e.Answered, &e.Correct, &e.Percent,
			&e.Basis, &e.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan quiz event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query recent quizzes: %w", err)
	}
	return out, nil
}

func (r *eventRepo) CategoryAccuracy(ctx context.Context, studentID string) ([]CategoryStat, error) {
	sel := entsql.Dialect(r.dialect).
		Select("category", entsql.Count("*"), "SUM(CASE WHEN correct THEN 1 ELSE 0 END)").
		From(entsql.Table(tableAnswer))

	pred := entsql.NEQ("outcome", "unanswered")
	if studentID != "" {
		pred = entsql.And(pred, entsql.EQ("student_id", studentID))
	}
	sel.Where(pred).GroupBy("category").OrderBy("category")

	q, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return nil, fmt.Errorf("query category accuracy: %w", err)
	}
	defer rows.Close()

	var out []CategoryStat
	for rows.Next() {
		var (
			st      CategoryStat
			correct int64
		)
		if err := rows.Scan(&st.Category, &st.Attempts, &correct); err != nil {
			return nil, fmt.Errorf("scan category accuracy: %w", err)
		}
		st.Correct = int(correct)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query category accuracy: %w", err)
	}
	return out, nil
}
