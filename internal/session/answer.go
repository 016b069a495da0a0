package session

import (
	"strings"

	"github.com/abhisek/studyzone/internal/bank"
)

// UnknownAnswer is reported as the correct text when none can be determined.
const UnknownAnswer = "unknown"

// Outcome classifies a graded question.
type Outcome int

const (
	OutcomeUnanswered   Outcome = iota // No option recorded
	OutcomeCorrect                     // Verified correct
	OutcomeIncorrect                   // Verified incorrect
	OutcomeUnverifiable                // No usable answer key; never correct
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeUnverifiable:
		return "unverifiable"
	default:
		return "unanswered"
	}
}

// Verdict is the result of checking one selection against a record.
type Verdict struct {
	Outcome     Outcome
	Correct     bool
	CorrectText string

	// Err is ErrNoIndicator or ErrAnswerIndexOutOfRange when the answer key
	// could not be resolved.
	Err error
}

// Verifiable reports whether the answer key was usable.
func (v Verdict) Verifiable() bool {
	return v.Err == nil
}

// CorrectText resolves the display text of rec's correct answer.
//
// A single letter A-D (either case) selects the option at that position.
// Any other indicator is the correct text itself, trimmed.
func CorrectText(rec bank.Record) (string, error) {
	if !rec.HasIndicator {
		return UnknownAnswer, ErrNoIndicator
	}
	ind := strings.TrimSpace(rec.Indicator)
	if ind == "" {
		return UnknownAnswer, ErrNoIndicator
	}
	if i, ok := bank.LetterIndex(ind); ok {
		if rec.IsPlaceholder(i) {
			return UnknownAnswer, ErrAnswerIndexOutOfRange
		}
		return strings.TrimSpace(rec.Options[i]), nil
	}
	return ind, nil
}

// Resolve grades selected against rec. Comparison is exact and
// case-sensitive after trimming both sides. An empty selection is
// unanswered.
func Resolve(rec bank.Record, selected string) Verdict {
	text, err := CorrectText(rec)
	v := Verdict{CorrectText: text, Err: err}

	chosen := strings.TrimSpace(selected)
	switch {
	case chosen == "":
		v.Outcome = OutcomeUnanswered
	case err != nil:
		v.Outcome = OutcomeUnverifiable
	case chosen == text:
		v.Outcome = OutcomeCorrect
		v.Correct = true
	default:
		v.Outcome = OutcomeIncorrect
	}
	return v
}
