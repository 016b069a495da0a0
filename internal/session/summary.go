package session

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/studyzone/internal/bank"
)

// Feedback is the graded view of one question. It is recomputed from the
// answers on demand and never stored as the source of truth.
type Feedback struct {
	RecordID    string
	Topic       string
	Prompt      string
	Chosen      string
	CorrectText string
	Outcome     Outcome

	// Category is the error type behind a wrong choice: the chosen
	// distractor's tag when known, else the question's category.
	Category string

	Message string
	Err     error
}

// Correct reports whether the question was verified correct.
func (f Feedback) Correct() bool {
	return f.Outcome == OutcomeCorrect
}

// NewFeedback grades one record against the chosen option text.
func NewFeedback(rec bank.Record, chosen string) Feedback {
	v := Resolve(rec, chosen)
	fb := Feedback{
		RecordID:    rec.ID,
		Topic:       rec.Topic,
		Prompt:      rec.Prompt,
		Chosen:      strings.TrimSpace(chosen),
		CorrectText: v.CorrectText,
		Outcome:     v.Outcome,
		Category:    rec.Category,
		Err:         v.Err,
	}
	if v.Outcome == OutcomeIncorrect {
		if tag, ok := rec.Distractors[fb.Chosen]; ok && tag != "" {
			fb.Category = tag
		}
	}

	switch v.Outcome {
	case OutcomeCorrect:
		fb.Message = "✅ Excellent! Your answer is correct!"
	case OutcomeIncorrect:
		fb.Message = fmt.Sprintf("❌ Incorrect! The correct answer is %s.", v.CorrectText)
	case OutcomeUnverifiable:
		fb.Message = "⚠️ This answer can't be checked: the question has no usable answer key."
	default:
		fb.Message = "Not answered."
	}
	return fb
}

// Band is the coarse grade shown with a score.
type Band int

const (
	BandPractice  Band = iota // Below 60%
	BandGood                  // 60% and above
	BandExcellent             // 80% and above
)

// BandFor returns the band for a whole-number percentage.
func BandFor(percent int) Band {
	switch {
	case percent >= 80:
		return BandExcellent
	case percent >= 60:
		return BandGood
	default:
		return BandPractice
	}
}

func (b Band) String() string {
	switch b {
	case BandExcellent:
		return "excellent"
	case BandGood:
		return "good"
	default:
		return "practice"
	}
}

// Label is the band's display heading.
func (b Band) Label() string {
	switch b {
	case BandExcellent:
		return "🎉 Excellent!"
	case BandGood:
		return "👍 Good job!"
	default:
		return "💪 Keep practicing!"
	}
}

// Summary aggregates the feedback for a filtered set.
type Summary struct {
	Total        int // questions in the set
	Answered     int
	Correct      int
	Unverifiable int // answered but ungradable

	Basis   Basis
	Percent int // rounded half away from zero
	Band    Band

	Items []Feedback
}

// Denominator is the question count the percentage is taken over.
func (s Summary) Denominator() int {
	if s.Basis == BasisAnswered {
		return s.Answered
	}
	return s.Total
}

// Unanswered is the number of questions without an answer.
func (s Summary) Unanswered() int {
	return s.Total - s.Answered
}

// Headline renders the band with the score, e.g. "👍 Good job! Score: 3/5 (60%)".
func (s Summary) Headline() string {
	return fmt.Sprintf("%s Score: %d/%d (%d%%)", s.Band.Label(), s.Correct, s.Denominator(), s.Percent)
}

// Summarize grades every record in order against answers, which maps
// record ID to chosen option text. Missing answers are unanswered.
func Summarize(records []bank.Record, answers map[string]string, basis Basis) Summary {
	s := Summary{
		Total: len(records),
		Basis: basis,
		Items: make([]Feedback, 0, len(records)),
	}
	for _, rec := range records {
		fb := NewFeedback(rec, answers[rec.ID])
		switch fb.Outcome {
		case OutcomeCorrect:
			s.Answered++
			s.Correct++
		case OutcomeIncorrect:
			s.Answered++
		case OutcomeUnverifiable:
			s.Answered++
			s.Unverifiable++
		}
		s.Items = append(s.Items, fb)
	}

	if d := s.Denominator(); d > 0 {
		s.Percent = int(math.Round(float64(s.Correct) * 100 / float64(d)))
	}
	s.Band = BandFor(s.Percent)
	return s
}
