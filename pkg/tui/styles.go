package tui

import (
	"holdersnap/pkg/chains"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the colours one theme is built from.
type palette struct {
	subtle   string
	titleFg  string
	titleBg  string
	info     string
	positive string
	err      string
	border   string
	header   string
}

var (
	darkPalette = palette{
		subtle:   "241",
		titleFg:  "#FAFAFA",
		titleBg:  "#7D56F4",
		info:     "#61AFEF",
		positive: "#04B575",
		err:      "#FF5F56",
		border:   "#874BFD",
		header:   "#FAFAFA",
	}
	lightPalette = palette{
		subtle:   "245",
		titleFg:  "#FFFFFF",
		titleBg:  "#5A3FC0",
		info:     "#0B62C4",
		positive: "#027A4B",
		err:      "#C62828",
		border:   "#5A3FC0",
		header:   "#1A1A1A",
	}
)

// --- Styles ---
type styles struct {
	dark        bool
	subtle      lipgloss.Style
	title       lipgloss.Style
	info        lipgloss.Style
	positive    lipgloss.Style
	err         lipgloss.Style
	box         lipgloss.Style
	focusedBox  lipgloss.Style
	tableHeader lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		dark:   dark,
		subtle: lipgloss.NewStyle().Foreground(lipgloss.Color(p.subtle)),
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.titleFg)).
			Background(lipgloss.Color(p.titleBg)).
			Padding(0, 1).
			Bold(true),
		info:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.info)),
		positive: lipgloss.NewStyle().Foreground(lipgloss.Color(p.positive)).Bold(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.subtle)).
			Padding(0, 1),
		focusedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		tableHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.header)).
			Bold(true).
			Padding(0, 1),
	}
}

// chainColor picks the network colour matching the current theme.
func (s styles) chainColor(c chains.Chain) lipgloss.Color {
	if s.dark {
		return lipgloss.Color(c.Color.Dark)
	}
	return lipgloss.Color(c.Color.Light)
}

func (s styles) chain(c chains.Chain) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.chainColor(c)).Bold(true)
}
