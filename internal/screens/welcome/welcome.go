package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyzone/internal/router"
	"github.com/abhisek/studyzone/internal/screen"
	"github.com/abhisek/studyzone/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	sparkleAt    = 500 * time.Millisecond
	bannerAt     = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
	// tipTicks is how long each study tip stays up.
	tipTicks = 30
)

// Ms. Tammy with her book.
const mascotArt = `     .-"""-.
    /  ^ ^  \
   |   \_/   |
    \_______/
   __/     \__
  |  A B C D  |
  |___________|`

var sparkleFrames = []string{"★", "✦"}

// tips rotate under the banner while the splash waits for a key.
var tips = []string{
	"Tip: read the whole sentence before you choose.",
	"Tip: time words like yesterday and now point to the tense.",
	"Tip: check whether the subject is one person or many.",
	"Tip: a wrong answer is a clue, not a failure.",
}

type phase int

const (
	phaseMascot phase = iota
	phaseSparkle
	phaseBanner
)

type tickMsg time.Time

// WelcomeScreen shows a splash animation, then hands over to the screen
// produced by next (the login form, or home in dev mode).
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) phase() phase {
	switch {
	case w.elapsed >= bannerAt:
		return phaseBanner
	case w.elapsed >= sparkleAt:
		return phaseSparkle
	default:
		return phaseMascot
	}
}

func (w *WelcomeScreen) tip() string {
	return tips[(w.tickCount/tipTicks)%len(tips)]
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the rest of the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	nextScreen := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: nextScreen}
	}
}

// sparkle frames the mascot's top, middle and bottom rows.
func (w *WelcomeScreen) sparkle(art string) string {
	s := sparkleFrames[w.tickCount%len(sparkleFrames)]
	a := lipgloss.NewStyle().Foreground(theme.Accent).Render(s)
	b := lipgloss.NewStyle().Foreground(theme.Secondary).Render(s)

	lines := strings.Split(art, "\n")
	for i, row := range []int{0, 3, 5} {
		if row >= len(lines) {
			break
		}
		l, r := a, b
		if i%2 == 1 {
			l, r = b, a
		}
		lines[row] = l + "  " + lines[row] + "  " + r
	}
	return strings.Join(lines, "\n")
}

func (w *WelcomeScreen) View(width, height int) string {
	p := w.phase()
	art := lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt)
	if p >= phaseSparkle {
		art = w.sparkle(art)
	}
	sections := []string{art}

	if p == phaseBanner {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Let's practice English together!"),
			theme.Info.Render(w.tip()),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
