// Package feedback renders graded answers and turns quiz errors into the
// notices shown to students.
package feedback

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/session"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Notice is a one-line message under the question area.
type Notice struct {
	Level Level
	Text  string
}

// Info builds an informational notice.
func Info(format string, args ...any) Notice {
	return Notice{Level: LevelInfo, Text: fmt.Sprintf(format, args...)}
}

// Warn builds a warning notice.
func Warn(format string, args ...any) Notice {
	return Notice{Level: LevelWarning, Text: fmt.Sprintf(format, args...)}
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool { return n.Text == "" }

// View renders the notice in its level's color.
func (n Notice) View() string {
	if n.Empty() {
		return ""
	}
	return StyleFor(n.Level).Render(n.Text)
}

// StyleFor maps a level to its text style.
func StyleFor(l Level) lipgloss.Style {
	switch l {
	case LevelSuccess:
		return theme.Correct
	case LevelWarning:
		return theme.Notice
	case LevelError:
		return theme.Incorrect
	default:
		return theme.Info
	}
}

// FromError converts a quiz or load error into a notice. Nothing here is
// fatal; the screen stays usable with the notice on show.
func FromError(err error) Notice {
	var (
		incomplete *session.IncompleteError
		srcErr     *bank.SourceError
	)
	switch {
	case err == nil:
		return Notice{}
	case errors.As(err, &incomplete):
		return Warn("⚠️ %s", incomplete.Error())
	case errors.Is(err, session.ErrNoQuestions):
		return Notice{Level: LevelError, Text: "No questions available for the selected error type."}
	case errors.Is(err, session.ErrNoAnswer):
		return Warn("Please choose an answer first.")
	case errors.Is(err, session.ErrIndexOutOfRange):
		return Warn("That question number does not exist.")
	case errors.As(err, &srcErr) && errors.Is(err, bank.ErrSourceUnavailable):
		return Warn("⚠️ %s file not found. Please ensure the file is in the working directory.", srcErr.Path)
	case errors.As(err, &srcErr) && srcErr.Field != "":
		return Notice{Level: LevelError, Text: fmt.Sprintf("❌ %s is missing the %q field.", srcErr.Path, srcErr.Field)}
	case errors.Is(err, bank.ErrSourceMalformed):
		return Notice{Level: LevelError, Text: "❌ Error reading the question file: " + err.Error()}
	default:
		return Notice{Level: LevelError, Text: err.Error()}
	}
}

// Message renders the one-line verdict for a graded question.
func Message(fb session.Feedback) string {
	return StyleFor(levelFor(fb.Outcome)).Render(fb.Message)
}

func levelFor(o session.Outcome) Level {
	switch o {
	case session.OutcomeCorrect:
		return LevelSuccess
	case session.OutcomeIncorrect:
		return LevelError
	case session.OutcomeUnverifiable:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// Badge is the short verdict used in lists.
func Badge(o session.Outcome) string {
	var text string
	switch o {
	case session.OutcomeCorrect:
		text = "✅ Correct"
	case session.OutcomeIncorrect:
		text = "❌ Incorrect"
	case session.OutcomeUnverifiable:
		text = "⚠️ Cannot verify"
	default:
		text = "○ Not answered"
	}
	return StyleFor(levelFor(o)).Render(text)
}

// Item renders one question of a results list: the verdict, the prompt
// cut to width, the student's answer, the key and the error type.
func Item(n int, fb session.Feedback, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Q%d", n)), Badge(fb.Outcome))
	if fb.Prompt != "" {
		b.WriteString(dim.Render(Truncate(fb.Prompt, width-4)))
		b.WriteString("\n")
	}
	chosen := fb.Chosen
	if chosen == "" {
		chosen = "(none)"
	}
	fmt.Fprintf(&b, "Your answer: %s\n", chosen)
	fmt.Fprintf(&b, "Correct answer: %s", fb.CorrectText)
	if fb.Category != "" && fb.Outcome != session.OutcomeCorrect {
		fmt.Fprintf(&b, "\nError type: %s", fb.Category)
	}
	return b.String()
}

// Truncate cuts s to at most n display cells, ending with "..." when cut.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 3 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
