package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Lesmash/spotify-playlist-creator/internal/models"
)

var palettes = map[models.Theme]*Palette{
	models.ThemeDark:  NewPalette("#1DB954", "#04B575", "#FF5F5F", "#FFA500", "#8A8A8A", "#FFFFFF"),
	models.ThemeLight: NewPalette("#117A37", "#0B7A4B", "#C62828", "#B25E00", "#5A5A5A", "#1A1A1A"),
}

// paletteFor returns the stylesheet for theme, defaulting to dark.
func paletteFor(theme models.Theme) *Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[models.ThemeDark]
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	heading lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	text    lipgloss.Style
	alert   lipgloss.Style
	box     lipgloss.Style
}

func NewPalette(t, s, e, w, h, fg string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		heading: NewBold(t).Underline(true),
		ok:      NewBold(s),
		err:     NewBold(e),
		warn:    NewStyle(w),
		help:    NewEm(h),
		text:    NewStyle(fg),
		alert: NewBold(e).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(e)).
			Padding(0, 1),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(h)).
			Padding(0, 1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
