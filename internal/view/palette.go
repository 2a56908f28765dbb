package view

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Palette is the color set for one theme. Colors are ANSI 256 codes.
type Palette struct {
	Text       lipgloss.Color
	Faint      lipgloss.Color
	Border     lipgloss.Color
	Selected   lipgloss.Color
	Header     lipgloss.Color
	Accent     lipgloss.Color
	PendingFg  lipgloss.Color
	PendingBg  lipgloss.Color
	DoneFg     lipgloss.Color
	DoneBg     lipgloss.Color
	ErrorText  lipgloss.Color
	Background lipgloss.Color
}

var darkPalette = Palette{
	Text:       lipgloss.Color("252"),
	Faint:      lipgloss.Color("245"),
	Border:     lipgloss.Color("240"),
	Selected:   lipgloss.Color("75"),
	Header:     lipgloss.Color("255"),
	Accent:     lipgloss.Color("75"),
	PendingFg:  lipgloss.Color("94"),  // yellow-800
	PendingBg:  lipgloss.Color("229"), // yellow-200
	DoneFg:     lipgloss.Color("22"),  // green-800
	DoneBg:     lipgloss.Color("157"), // green-200
	ErrorText:  lipgloss.Color("196"),
	Background: lipgloss.Color("235"),
}

var lightPalette = Palette{
	Text:       lipgloss.Color("236"),
	Faint:      lipgloss.Color("243"),
	Border:     lipgloss.Color("250"),
	Selected:   lipgloss.Color("25"),
	Header:     lipgloss.Color("234"),
	Accent:     lipgloss.Color("25"),
	PendingFg:  lipgloss.Color("94"),
	PendingBg:  lipgloss.Color("229"),
	DoneFg:     lipgloss.Color("22"),
	DoneBg:     lipgloss.Color("157"),
	ErrorText:  lipgloss.Color("160"),
	Background: lipgloss.Color("255"),
}

// PaletteFor returns the palette of theme.
func PaletteFor(theme domain.Theme) Palette {
	if theme == domain.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// Badge renders a status pill in its tone.
func (p Palette) Badge(status string, tone Tone) string {
	fg, bg := p.DoneFg, p.DoneBg
	if tone == TonePending {
		fg, bg = p.PendingFg, p.PendingBg
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1).
		Render(status)
}
