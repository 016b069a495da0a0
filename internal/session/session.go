package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studyzone/internal/bank"
)

// Session is one quiz attempt over a filtered view of a bank. It is not
// safe for concurrent use; the owning screen mutates it from the update
// loop only.
type Session struct {
	// ID identifies the attempt in the event log.
	ID string

	// StartedAt is when the session was created or last reset.
	StartedAt time.Time

	cfg      Config
	source   []bank.Record
	records  []bank.Record
	selector bank.Selector

	index     int
	answers   map[string]string // record ID -> chosen option text
	submitted bool
	feedback  []Feedback
}

// New starts a session over records with every question selected.
func New(records []bank.Record, cfg Config) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		cfg:       cfg,
		source:    records,
		records:   bank.Filter(records, bank.All),
		selector:  bank.All,
		answers:   make(map[string]string),
	}
}

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// Selector returns the active filter.
func (s *Session) Selector() bank.Selector { return s.selector }

// Records returns the filtered set. Callers must not modify it.
func (s *Session) Records() []bank.Record { return s.records }

// Bank returns the unfiltered records the session was created with.
func (s *Session) Bank() []bank.Record { return s.source }

// Count is the size of the filtered set.
func (s *Session) Count() int { return len(s.records) }

// Index is the current position in the filtered set.
func (s *Session) Index() int { return s.index }

// Current returns the question at the current position.
func (s *Session) Current() (bank.Record, bool) {
	if len(s.records) == 0 {
		return bank.Record{}, false
	}
	return s.records[s.index], true
}

// State reports the phase of the current question.
func (s *Session) State() State {
	if s.submitted {
		return StateSubmitted
	}
	if rec, ok := s.Current(); ok {
		if _, answered := s.answers[rec.ID]; answered {
			return StateAnswered
		}
	}
	return StateViewing
}

// Submitted reports whether feedback is showing.
func (s *Session) Submitted() bool { return s.submitted }

// Answer returns the recorded choice for a record.
func (s *Session) Answer(id string) (string, bool) {
	a, ok := s.answers[id]
	return a, ok
}

// Answers returns a copy of all recorded choices keyed by record ID.
func (s *Session) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// AnsweredCount is the number of questions in the filtered set that have
// a recorded choice.
func (s *Session) AnsweredCount() int {
	n := 0
	for _, r := range s.records {
		if _, ok := s.answers[r.ID]; ok {
			n++
		}
	}
	return n
}

// Feedback returns the feedback from the last Submit: one item in
// per-question mode, the whole set in batch mode. It is nil when nothing
// has been submitted since the last navigation.
func (s *Session) Feedback() []Feedback { return s.feedback }

// Select records choice, trimmed, for the current question. Selecting
// after a submit hides the stale feedback. A blank choice is rejected with
// ErrNoAnswer and leaves any earlier answer in place.
func (s *Session) Select(choice string) error {
	rec, ok := s.Current()
	if !ok {
		return ErrNoQuestions
	}
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return ErrNoAnswer
	}
	s.answers[rec.ID] = choice
	s.clearSubmission()
	return nil
}

// SelectIndex records the option at position i of the current question.
func (s *Session) SelectIndex(i int) error {
	rec, ok := s.Current()
	if !ok {
		return ErrNoQuestions
	}
	if i < 0 || i >= len(rec.Options) {
		return ErrIndexOutOfRange
	}
	return s.Select(rec.Options[i])
}

// Submit grades the current question, or in batch mode the whole set, and
// stores the result as the session feedback.
func (s *Session) Submit() ([]Feedback, error) {
	rec, ok := s.Current()
	if !ok {
		return nil, ErrNoQuestions
	}

	if s.cfg.Mode == ModeBatch {
		if s.cfg.RequireComplete {
			if n := s.AnsweredCount(); n < len(s.records) {
				return nil, &IncompleteError{Total: len(s.records), Answered: n}
			}
		}
		s.feedback = s.Summary().Items
		s.submitted = true
		return s.feedback, nil
	}

	choice, answered := s.answers[rec.ID]
	if !answered {
		return nil, ErrNoAnswer
	}
	s.feedback = []Feedback{NewFeedback(rec, choice)}
	s.submitted = true
	return s.feedback, nil
}

// Summary scores the filtered set with the session's basis.
func (s *Session) Summary() Summary {
	return Summarize(s.records, s.answers, s.cfg.Basis)
}

// Advance moves to the next question. It returns false, leaving the
// session untouched, when already at the last question.
func (s *Session) Advance() bool {
	if s.index >= len(s.records)-1 {
		return false
	}
	s.moveTo(s.index + 1)
	return true
}

// Retreat moves to the previous question. It returns false at the first.
func (s *Session) Retreat() bool {
	if s.index <= 0 {
		return false
	}
	s.moveTo(s.index - 1)
	return true
}

// JumpTo moves to position i of the filtered set.
func (s *Session) JumpTo(i int) error {
	if len(s.records) == 0 {
		return ErrNoQuestions
	}
	if i < 0 || i >= len(s.records) {
		return ErrIndexOutOfRange
	}
	s.moveTo(i)
	return nil
}

// ResetProgress clears every answer and returns to the first question.
func (s *Session) ResetProgress() {
	s.index = 0
	s.answers = make(map[string]string)
	s.clearSubmission()
	s.StartedAt = time.Now()
}

// ClearAnswers drops the recorded choices for the filtered set only and
// hides feedback. The position is kept.
func (s *Session) ClearAnswers() {
	for _, r := range s.records {
		delete(s.answers, r.ID)
	}
	s.clearSubmission()
}

// SetFilter switches the filtered set. A different selector resets the
// position and discards all answers so none is shown against a question
// it was not given for. It reports whether anything changed.
func (s *Session) SetFilter(sel bank.Selector) bool {
	if sel == s.selector {
		return false
	}
	s.selector = sel
	s.records = bank.Filter(s.source, sel)
	s.ResetProgress()
	return true
}

// Restore reapplies saved progress: answers for records that still exist
// in the bank and a position clamped to the filtered set. The selector must
// already be set.
func (s *Session) Restore(answers map[string]string, index int) {
	known := make(map[string]bool, len(s.source))
	for _, r := range s.source {
		known[r.ID] = true
	}
	s.answers = make(map[string]string, len(answers))
	for id, choice := range answers {
		if known[id] {
			s.answers[id] = choice
		}
	}
	switch {
	case len(s.records) == 0 || index < 0:
		index = 0
	case index >= len(s.records):
		index = len(s.records) - 1
	}
	s.moveTo(index)
}

func (s *Session) moveTo(i int) {
	s.index = i
	s.clearSubmission()
}

func (s *Session) clearSubmission() {
	s.submitted = false
	s.feedback = nil
}
