// Package progress records quiz attempts for one student: lifecycle and
// answer events for history, and snapshots that let an unfinished quiz be
// resumed.
package progress

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/session"
	"github.com/abhisek/studyzone/internal/store"
)

// SnapshotVersion is written into every saved ProgressData.
const SnapshotVersion = 1

// DefaultKeep is how many snapshots per student survive a prune.
const DefaultKeep = 5

// Recorder persists one student's attempts. Either repo may be nil, which
// turns the matching calls into no-ops. Persistence failures are logged
// and never returned to the caller; the quiz keeps working without them.
type Recorder struct {
	events    store.EventRepo
	snapshots store.SnapshotRepo
	log       *zap.Logger
	studentID string
	keep      int
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Recorder) { r.log = l }
}

// WithKeep sets how many snapshots are kept per student.
func WithKeep(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.keep = n
		}
	}
}

// NewRecorder creates a Recorder for studentID.
func NewRecorder(events store.EventRepo, snapshots store.SnapshotRepo, studentID string, opts ...Option) *Recorder {
	r := &Recorder{
		events:    events,
		snapshots: snapshots,
		log:       zap.NewNop(),
		studentID: studentID,
		keep:      DefaultKeep,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// StudentID is the student the recorder writes for.
func (r *Recorder) StudentID() string { return r.studentID }

// Start records the beginning of an attempt.
func (r *Recorder) Start(ctx context.Context, s *session.Session, bankName string) {
	r.appendQuiz(ctx, r.quizEvent(s, bankName, store.ActionStart))
}

// Reset records that the student wiped the attempt and drops its
// resumable snapshot.
func (r *Recorder) Reset(ctx context.Context, s *session.Session, bankName string) {
	r.appendQuiz(ctx, r.quizEvent(s, bankName, store.ActionReset))
	r.Discard(ctx, bankName)
}

// Graded records one answer event per feedback item.
func (r *Recorder) Graded(ctx context.Context, s *session.Session, items []session.Feedback) {
	if r.events == nil {
		return
	}
	for _, fb := range items {
		err := r.events.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID:   s.ID,
			StudentID:   r.studentID,
			RecordID:    fb.RecordID,
			Topic:       fb.Topic,
			Category:    fb.Category,
			Chosen:      fb.Chosen,
			CorrectText: fb.CorrectText,
			Outcome:     fb.Outcome.String(),
			Correct:     fb.Correct(),
		})
		if err != nil {
			r.log.Warn("record answer failed",
				zap.String("session_id", s.ID),
				zap.String("record_id", fb.RecordID),
				zap.Error(err))
		}
	}
}

// Finish records the end of an attempt with its summary and drops the
// resumable snapshot, since there is nothing left to resume.
func (r *Recorder) Finish(ctx context.Context, s *session.Session, bankName string, sum session.Summary) {
	ev := r.quizEvent(s, bankName, store.ActionEnd)
	ev.Answered = sum.Answered
	ev.Correct = sum.Correct
	ev.Percent = sum.Percent
	ev.Basis = sum.Basis.String()
	ev.Total = sum.Total
	r.appendQuiz(ctx, ev)
	r.Discard(ctx, bankName)
}

// Checkpoint saves the session's answers and position so it can be
// resumed later. Nothing is saved for a session without answers.
func (r *Recorder) Checkpoint(ctx context.Context, s *session.Session, bankName string) {
	if r.snapshots == nil {
		return
	}
	answers := s.Answers()
	if len(answers) == 0 {
		return
	}
	err := r.snapshots.Save(ctx, &store.Snapshot{
		StudentID: r.studentID,
		Bank:      bankName,
		Data: store.ProgressData{
			Version:  SnapshotVersion,
			Selector: s.Selector().Category,
			Index:    s.Index(),
			Answers:  answers,
		},
	})
	if err != nil {
		r.log.Warn("save progress failed", zap.String("bank", bankName), zap.Error(err))
		return
	}
	if err := r.snapshots.Prune(ctx, r.studentID, r.keep); err != nil {
		r.log.Warn("prune progress failed", zap.Error(err))
	}
}

// Resume loads the latest snapshot for bankName into s. It reports whether
// any progress was restored.
func (r *Recorder) Resume(ctx context.Context, s *session.Session, bankName string) bool {
	if r.snapshots == nil {
		return false
	}
	snap, err := r.snapshots.Latest(ctx, r.studentID, bankName)
	if err != nil {
		r.log.Warn("load progress failed", zap.String("bank", bankName), zap.Error(err))
		return false
	}
	if snap == nil || snap.Data.Version != SnapshotVersion {
		return false
	}

	sel := bank.All
	if snap.Data.Selector != "" {
		sel = bank.ForCategory(snap.Data.Selector)
	}
	s.SetFilter(sel)
	s.Restore(snap.Data.Answers, snap.Data.Index)
	r.log.Debug("progress resumed",
		zap.String("bank", bankName),
		zap.Int("answers", s.AnsweredCount()),
		zap.Int("index", s.Index()))
	return s.AnsweredCount() > 0
}

// Discard deletes the saved progress for bankName.
func (r *Recorder) Discard(ctx context.Context, bankName string) {
	if r.snapshots == nil {
		return
	}
	if err := r.snapshots.Clear(ctx, r.studentID, bankName); err != nil {
		r.log.Warn("clear progress failed", zap.String("bank", bankName), zap.Error(err))
	}
}

func (r *Recorder) quizEvent(s *session.Session, bankName, action string) store.QuizEventData {
	return store.QuizEventData{
		SessionID:    s.ID,
		StudentID:    r.studentID,
		Action:       action,
		Mode:         s.Config().Mode.String(),
		Selector:     s.Selector().Label(),
		Bank:         bankName,
		Total:        s.Count(),
		Answered:     s.AnsweredCount(),
		DurationSecs: int(time.Since(s.StartedAt).Seconds()),
	}
}

func (r *Recorder) appendQuiz(ctx context.Context, ev store.QuizEventData) {
	if r.events == nil {
		return
	}
	if err := r.events.AppendQuizEvent(ctx, ev); err != nil {
		r.log.Warn("record quiz event failed",
			zap.String("session_id", ev.SessionID),
			zap.String("action", ev.Action),
			zap.Error(err))
	}
}
