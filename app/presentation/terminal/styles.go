package terminal

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
)

var (
	lightForeground = lipgloss.Color("#101F38")
	lightMuted      = lipgloss.Color("#6a737d")
	lightAccent     = lipgloss.Color("#2e7d32")
	darkForeground  = lipgloss.Color("#f2f2f2")
	darkMuted       = lipgloss.Color("#9aa5b1")
	darkAccent      = lipgloss.Color("#8BC34A")

	colorSuccess = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// Styles holds the lipgloss styles of one theme.
type Styles struct {
	Heading    lipgloss.Style
	Book       lipgloss.Style
	Muted      lipgloss.Style
	severities map[shelf.Severity]lipgloss.Style
}

// NewStyles creates the styles for theme, bound to the color profile of out.
func NewStyles(out io.Writer, theme preferences.Theme) Styles {
	renderer := lipgloss.NewRenderer(out)

	foreground, muted, accent := lightForeground, lightMuted, lightAccent
	if theme == preferences.ThemeDark {
		foreground, muted, accent = darkForeground, darkMuted, darkAccent
		renderer.SetHasDarkBackground(true)
	}

	return Styles{
		Heading: renderer.NewStyle().Bold(true).Foreground(accent),
		Book:    renderer.NewStyle().Foreground(foreground),
		Muted:   renderer.NewStyle().Italic(true).Foreground(muted),
		severities: map[shelf.Severity]lipgloss.Style{
			shelf.SeveritySuccess: renderer.NewStyle().Bold(true).Foreground(colorSuccess),
			shelf.SeverityError:   renderer.NewStyle().Bold(true).Foreground(colorError),
			shelf.SeverityWarning: renderer.NewStyle().Bold(true).Foreground(colorWarning),
			shelf.SeverityInfo:    renderer.NewStyle().Foreground(colorInfo),
		},
	}
}

// Severity returns the style of a notification severity.
func (s Styles) Severity(severity shelf.Severity) lipgloss.Style {
	if style, ok := s.severities[severity]; ok {
		return style
	}

	return s.Book
}
