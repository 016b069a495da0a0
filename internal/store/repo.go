package store

import (
	"context"
	"time"
)

// Quiz event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
	ActionReset = "reset"
)

// QuizEventData captures a lifecycle event of one quiz attempt.
type QuizEventData struct {
	SessionID    string
	StudentID    string
	Action       string // ActionStart, ActionEnd or ActionReset
	Mode         string
	Selector     string
	Bank         string
	Total        int
	Answered     int
	Correct      int
	Percent      int
	Basis        string
	DurationSecs int
}

// QuizEvent is a stored QuizEventData.
type QuizEvent struct {
	Sequence  int64
	Timestamp time.Time
	QuizEventData
}

// AnswerEventData captures one graded question.
type AnswerEventData struct {
	SessionID   string
	StudentID   string
	RecordID    string
	Topic       string
	Category    string
	Chosen      string
	CorrectText string
	Outcome     string
	Correct     bool
}

// DiagnosisEventData captures a diagnosis shown for a wrong answer.
type DiagnosisEventData struct {
	SessionID   string
	StudentID   string
	RecordID    string
	Category    string
	Source      string // "rule" or "llm"
	Explanation string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// CategoryStat is the answer accuracy for one error category.
type CategoryStat struct {
	Category string
	Attempts int
	Correct  int
}

// Accuracy is Correct/Attempts, or 0 with no attempts.
func (c CategoryStat) Accuracy() float64 {
	if c.Attempts == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Attempts)
}

// LLMUsage totals LLM requests.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendQuizEvent(ctx context.Context, data QuizEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendDiagnosisEvent(ctx context.Context, data DiagnosisEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentQuizzes returns finished attempts for a student, newest first.
	// An empty studentID matches every student.
	RecentQuizzes(ctx context.Context, studentID string, limit int) ([]QuizEvent, error)

	// CategoryAccuracy returns graded-answer accuracy per category, sorted
	// by category. Unanswered questions are excluded.
	CategoryAccuracy(ctx context.Context, studentID string) ([]CategoryStat, error)

	// LLMUsage totals every recorded LLM request.
	LLMUsage(ctx context.Context) (LLMUsage, error)
}

// ProgressData is the resumable state of an unfinished quiz.
type ProgressData struct {
	Version  int               `json:"version"`
	Selector string            `json:"selector"`
	Index    int               `json:"index"`
	Answers  map[string]string `json:"answers"`
}

// Snapshot is a point-in-time capture of a student's progress on a bank.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	StudentID string
	Bank      string
	Data      ProgressData
}

// SnapshotRepo manages progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for a student and bank, or
	// nil if none exist.
	Latest(ctx context.Context, studentID, bank string) (*Snapshot, error)

	// Prune deletes all but the keep most recent snapshots of a student.
	Prune(ctx context.Context, studentID string, keep int) error

	// Clear deletes every snapshot of a student for a bank.
	Clear(ctx context.Context, studentID, bank string) error
}
