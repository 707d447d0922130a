package ui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	blue      = lipgloss.Color("#247BFF")
	green     = lipgloss.Color("#2ECC71")
	amber     = lipgloss.Color("#F39C12")
	red       = lipgloss.Color("#E74C3C")
	gray      = lipgloss.Color("#5C5C5C")
	lightGray = lipgloss.Color("#DCDFE6")
	white     = lipgloss.Color("#FFFFFF")
)

var appStyle = lipgloss.NewStyle().Padding(1, 2)

var titleStyle = lipgloss.NewStyle().Bold(true)

var subtitleStyle = lipgloss.NewStyle().Foreground(gray)

var welcomeCardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lightGray).
	Padding(2, 4).
	Align(lipgloss.Center)

var buttonStyle = lipgloss.NewStyle().Foreground(white).Background(blue).Bold(true).Padding(0, 2)

var buttonDisabledStyle = lipgloss.NewStyle().Foreground(gray).Background(lightGray).Padding(0, 2)

var tabStyle = lipgloss.NewStyle().
	Foreground(gray).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lightGray).
	Padding(0, 2)

var tabActiveStyle = tabStyle.
	Foreground(white).
	Background(blue).
	Bold(true).
	BorderForeground(blue)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lightGray).
	Padding(0, 1)

var cardSelectedStyle = cardStyle.BorderForeground(blue)

var badgeStyle = lipgloss.NewStyle().Foreground(white).Bold(true).Padding(0, 1)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(blue).
	Padding(1, 2)

// Text
var (
	descriptionStyle  = lipgloss.NewStyle().Foreground(gray)
	labelStyle        = lipgloss.NewStyle().Foreground(gray)
	emptyStyle        = lipgloss.NewStyle().Foreground(gray).Italic(true)
	helpStyle         = lipgloss.NewStyle().Foreground(gray)
	actionStyle       = lipgloss.NewStyle().Foreground(blue)
	reopenActionStyle = lipgloss.NewStyle().Foreground(amber)
	deleteActionStyle = lipgloss.NewStyle().Foreground(red)
	errorStyle        = lipgloss.NewStyle().Foreground(red)
	noticeStyle       = lipgloss.NewStyle().Foreground(green)
)

func badge(t string, done bool) string {
	bg := amber
	if done {
		bg = green
	}
	return badgeStyle.Background(bg).Render(t)
}
