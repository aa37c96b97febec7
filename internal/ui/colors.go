package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	section lipgloss.Style
	focused lipgloss.Style
	cursor  lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
	help    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		section: NewBold(h),
		focused: NewBold(t),
		cursor:  NewBold(s),
		ok:      NewBold(s),
		err:     NewBold(e),
		warn:    NewStyle(w),
		dim:     NewStyle(h),
		help:    NewEm(h),
	}
}

// ThemePalette maps the persisted theme preference to a palette. The system
// theme uses adaptive mid-range colors that read on either background.
func ThemePalette(theme string) *Palette {
	switch theme {
	case "light":
		return NewPalette("#5A32B4", "#037952", "#C00000", "#B36B00", "#6B6B6B")
	case "dark":
		return NewPalette("#9D7CFF", "#2EE6A8", "#FF5C5C", "#FFC24B", "#8A8A8A")
	default:
		return NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")
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
