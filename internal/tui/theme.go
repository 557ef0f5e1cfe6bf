package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/azkar/internal/prefs"
)

type palette struct {
	text   lipgloss.Color
	muted  lipgloss.Color
	accent lipgloss.Color
	done   lipgloss.Color
	border lipgloss.Color
}

var palettes = map[string]palette{
	prefs.ThemeLight: {
		text:   lipgloss.Color("#2B2B2B"),
		muted:  lipgloss.Color("#7A7A7A"),
		accent: lipgloss.Color("#1F7A5C"),
		done:   lipgloss.Color("#C89A3A"),
		border: lipgloss.Color("#B8B8B8"),
	},
	prefs.ThemeDark: {
		text:   lipgloss.Color("#F0F0F0"),
		muted:  lipgloss.Color("#8C8C8C"),
		accent: lipgloss.Color("#C89A3A"),
		done:   lipgloss.Color("#6FCF97"),
		border: lipgloss.Color("#4A4A4A"),
	},
	prefs.ThemeSolarized: {
		text:   lipgloss.Color("#839496"),
		muted:  lipgloss.Color("#586E75"),
		accent: lipgloss.Color("#B58900"),
		done:   lipgloss.Color("#859900"),
		border: lipgloss.Color("#073642"),
	},
}

type styles struct {
	title    lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	counter  lipgloss.Style
	done     lipgloss.Style
	card     lipgloss.Style
}

// stylesFor returns the styles of a theme. Unknown names use the light palette.
func stylesFor(theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[prefs.ThemeLight]
	}
	return styles{
		title:    lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		text:     lipgloss.NewStyle().Foreground(p.text),
		muted:    lipgloss.NewStyle().Foreground(p.muted),
		selected: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		counter:  lipgloss.NewStyle().Foreground(p.text).Bold(true).Padding(0, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(p.accent),
		done:     lipgloss.NewStyle().Foreground(p.done).Bold(true).Padding(0, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(p.done),
		card:     lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(p.border),
	}
}
