package components

import (
	"charm.land/bubbles/v2/viewport"
	"charm.land/lipgloss/v2"
)

// ScrollView shows a window of content taller than the screen. The offset
// is kept here rather than in the viewport so that screens can rebuild
// their content every frame without losing the scroll position.
type ScrollView struct {
	Offset int
}

// Up scrolls toward the top by n lines.
func (s *ScrollView) Up(n int) {
	s.Offset -= n
	if s.Offset < 0 {
		s.Offset = 0
	}
}

// Down scrolls toward the bottom by n lines. Render clamps the result.
func (s *ScrollView) Down(n int) {
	s.Offset += n
}

// Top resets the scroll position.
func (s *ScrollView) Top() {
	s.Offset = 0
}

// Render returns the visible window of content. When focus is a line
// index (>= 0) the window moves just enough to keep that line on screen.
func (s *ScrollView) Render(content string, width, height, focus int) string {
	if height <= 0 {
		return ""
	}
	total := lipgloss.Height(content)
	if focus >= 0 {
		if focus < s.Offset {
			s.Offset = focus
		} else if focus >= s.Offset+height {
			s.Offset = focus - height + 1
		}
	}
	if maxOffset := total - height; s.Offset > maxOffset {
		s.Offset = max(maxOffset, 0)
	}

	vp := viewport.New(viewport.WithWidth(width), viewport.WithHeight(height))
	vp.SetContent(content)
	vp.SetYOffset(s.Offset)
	return vp.View()
}
