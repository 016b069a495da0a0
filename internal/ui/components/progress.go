package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/ui/theme"
)

// ScoreBar is a horizontal bar for a score between 0 and 1. The filled part
// takes the color of the score band.
type ScoreBar struct {
	Label string
	Score float64
	// Detail replaces the percentage at the right, e.g. "3/4".
	Detail string
	Width  int
}

// NewScoreBar creates a bar that fills the given width.
func NewScoreBar(label string, score float64, width int) ScoreBar {
	return ScoreBar{Label: label, Score: score, Width: width}
}

// WithDetail sets the text shown after the bar.
func (b ScoreBar) WithDetail(format string, args ...any) ScoreBar {
	b.Detail = fmt.Sprintf(format, args...)
	return b
}

// ScoreColor maps a score to the success, primary or warning color using
// the same 80% and 60% cut-offs as the summary headline.
func ScoreColor(score float64) color.Color {
	switch {
	case score >= 0.8:
		return theme.Success
	case score >= 0.6:
		return theme.Primary
	default:
		return theme.Warning
	}
}

func (b ScoreBar) View() string {
	var label string
	if b.Label != "" {
		label = theme.Body.Render(b.Label) + "  "
	}
	detail := b.Detail
	if detail == "" {
		detail = fmt.Sprintf("%d%%", int(b.Score*100+0.5))
	}
	detail = "  " + detail

	width := b.Width - lipgloss.Width(label) - lipgloss.Width(detail)
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * b.Score)
	filled = max(0, min(filled, width))

	bar := lipgloss.NewStyle().Background(ScoreColor(b.Score)).Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))
	return label + bar + lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)
}
