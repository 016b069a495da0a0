package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/diagnosis"
	"github.com/abhisek/studyzone/internal/ui/components"
	"github.com/abhisek/studyzone/internal/ui/feedback"
	"github.com/abhisek/studyzone/internal/ui/layout"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.sess == nil {
		return components.Center(components.Card(s.notice.View(), cw), width, height)
	}
	if s.picker != nil {
		body := theme.Heading.Render("Choose an error type") + "\n\n" + s.picker.View()
		return components.Center(components.Card(body, cw), width, height)
	}

	var b strings.Builder
	b.WriteString(s.renderStatus(cw))
	b.WriteString("\n")
	b.WriteString(layout.Divider(cw))
	b.WriteString("\n\n")

	rec, ok := s.sess.Current()
	if !ok {
		b.WriteString(s.notice.View())
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press F to pick another error type."))
		return components.Center(b.String(), width, height)
	}

	if rec.Topic != "" {
		b.WriteString(theme.Subtitle.Render("Topic: " + rec.Topic))
		b.WriteString("\n")
	}
	b.WriteString(theme.Body.Width(cw).Render(rec.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.jump != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Go to question (1-%d): %s\n", s.sess.Count(), s.jump.View())
	}
	if !s.notice.Empty() {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Render(s.notice.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(components.TitledCard("Ms. Tammy's Diagnosis", s.renderDiagnosis(cw-8), cw))

	content := lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
	if lipgloss.Height(content) <= height {
		return content
	}
	return s.scroll.Render(content, width, height, -1)
}

func (s *QuizScreen) renderStatus(cw int) string {
	left := theme.Heading.Render(fmt.Sprintf("Question %d of %d", s.sess.Index()+1, s.sess.Count()))
	if s.sess.Count() == 0 {
		left = theme.Heading.Render("No questions")
	}
	right := theme.Hint.Render(fmt.Sprintf("%s · Answered %d/%d",
		s.sess.Selector().Label(), s.sess.AnsweredCount(), s.sess.Count()))
	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (s *QuizScreen) renderDiagnosis(w int) string {
	fbs := s.sess.Feedback()
	if !s.sess.Submitted() || len(fbs) == 0 {
		return theme.Hint.Render("Waiting for your answer to analyze...")
	}
	fb := fbs[0]
	wrap := lipgloss.NewStyle().Width(w)

	var b strings.Builder
	b.WriteString(wrap.Render(feedback.Message(fb)))

	if d := s.diag; d != nil && d.Source != diagnosis.SourceNone {
		b.WriteString("\n\n")
		if d.Label != "" {
			b.WriteString(theme.Subtitle.Render(d.Label))
			b.WriteString("\n")
		}
		b.WriteString(wrap.Render(d.Explanation))
		if d.Tip != "" {
			b.WriteString("\n")
			b.WriteString(wrap.Inherit(theme.Info).Render("Tip: " + d.Tip))
		}
	}

	switch {
	case s.explaining:
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Ms. Tammy is thinking..."))
	case s.explanation != nil:
		b.WriteString("\n\n")
		b.WriteString(wrap.Render("Ms. Tammy says: " + s.explanation.Explanation))
		if s.explanation.Tip != "" {
			b.WriteString("\n")
			b.WriteString(wrap.Inherit(theme.Info).Render("Tip: " + s.explanation.Tip))
		}
	}
	return b.String()
}
