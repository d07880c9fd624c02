package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/tasker/internal/domain/task"
)

// Theme represents a color scheme for the board.
type Theme struct {
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color
	Primary       lipgloss.Color
	Accent        lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Border        lipgloss.Color
	Selection     lipgloss.Color
}

// TokyoNight is the default color theme.
var TokyoNight = Theme{
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),
	Primary:       lipgloss.Color("#7aa2f7"),
	Accent:        lipgloss.Color("#7dcfff"),
	Success:       lipgloss.Color("#9ece6a"),
	Warning:       lipgloss.Color("#e0af68"),
	Error:         lipgloss.Color("#f7768e"),
	Border:        lipgloss.Color("#3b4261"),
	Selection:     lipgloss.Color("#33467c"),
}

// Styles holds the pre-computed styles for the board.
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	FilterBar  lipgloss.Style
	Group      lipgloss.Style
	Row        lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
	StatusBar  lipgloss.Style
	Confirm    lipgloss.Style

	badges map[task.Status]lipgloss.Style
}

func NewStyles(t Theme) *Styles {
	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),
		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),
		FilterBar: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		Group: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			MarginTop(1),
		Row: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),
		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
		Confirm: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true).
			Padding(0, 1),
		badges: map[task.Status]lipgloss.Style{
			task.StatusTake:       badge.Foreground(t.Accent),
			task.StatusInProgress: badge.Foreground(t.Primary),
			task.StatusCheck:      badge.Foreground(t.Warning),
			task.StatusBlocked:    badge.Foreground(t.Error),
		},
	}
}

// Badge renders the status label in its status color.
func (s *Styles) Badge(st task.Status) string {
	style, ok := s.badges[st]
	if !ok {
		style = s.Muted
	}
	return style.Render(st.Label())
}
