package session

import (
	"errors"
	"fmt"
	"strings"
)

// State is the phase of the question currently on screen.
type State int

const (
	StateViewing   State = iota // Showing a question, no answer recorded
	StateAnswered                // Option selected, not yet submitted
	StateSubmitted               // Feedback computed for the question or batch
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateAnswered:
		return "answered"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode controls what Submit grades.
type Mode int

const (
	ModePerQuestion Mode = iota // Submit grades the current question
	ModeBatch                   // Submit grades the whole filtered set
)

func (m Mode) String() string {
	if m == ModeBatch {
		return "batch"
	}
	return "per_question"
}

// Basis selects the score denominator.
type Basis int

const (
	// BasisAll divides by every question in the filtered set, so
	// unanswered questions count against the score.
	BasisAll Basis = iota

	// BasisAnswered divides by answered questions only.
	BasisAnswered
)

func (b Basis) String() string {
	if b == BasisAnswered {
		return "answered"
	}
	return "all"
}

// ParseBasis reads a basis name as used in configuration.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return BasisAll, nil
	case "answered":
		return BasisAnswered, nil
	default:
		return BasisAll, fmt.Errorf("unknown score basis %q (want \"all\" or \"answered\")", s)
	}
}

// Config holds the per-variant knobs of a quiz session.
type Config struct {
	Mode Mode

	// RequireComplete makes batch Submit fail until every question in the
	// filtered set has an answer.
	RequireComplete bool

	Basis Basis
}

var (
	// ErrNoQuestions is returned when the filtered set is empty.
	ErrNoQuestions = errors.New("no questions available for the selected filter")

	// ErrIndexOutOfRange is returned by JumpTo and SelectIndex for invalid
	// positions.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNoAnswer is returned by a per-question Submit with nothing selected
	// and by Select for a blank choice.
	ErrNoAnswer = errors.New("select an answer before submitting")

	// ErrAnswerIndexOutOfRange marks a letter indicator that points at a
	// missing or padded option.
	ErrAnswerIndexOutOfRange = errors.New("correct answer letter points past the available options")

	// ErrNoIndicator marks a question with no correct-answer value.
	ErrNoIndicator = errors.New("question has no correct answer")
)

// IncompleteError is returned by batch Submit when RequireComplete is set
// and some questions are unanswered.
type IncompleteError struct {
	Total    int
	Answered int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("Please answer all %d questions before submitting", e.Total)
}

// Missing is the number of unanswered questions.
func (e *IncompleteError) Missing() int {
	return e.Total - e.Answered
}
