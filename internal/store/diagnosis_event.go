package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendDiagnosisEvent(ctx context.Context, data DiagnosisEventData) error {
	err := r.insert(ctx, tableDiagnosis,
		[]string{"session_id", "student_id", "record_id", "category", "source", "explanation"},
		[]any{data.SessionID, data.StudentID, data.RecordID, data.Category, data.Source, data.Explanation},
	)
	if err != nil {
		return fmt.Errorf("save diagnosis event: %w", err)
	}
	return nil
}
