package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Terminal renders cards and the detail popup for a fixed width and theme.
type Terminal struct {
	Theme   domain.Theme
	Width   int
	palette Palette
}

// NewTerminal returns a renderer for theme. width is the full screen width.
func NewTerminal(theme domain.Theme, width int) Terminal {
	if width < 30 {
		width = 30
	}
	return Terminal{Theme: theme, Width: width, palette: PaletteFor(theme)}
}

// Palette exposes the active colors.
func (t Terminal) Palette() Palette {
	return t.palette
}

// Card renders one list entry. selected highlights its border.
func (t Terminal) Card(card Card, selected bool) string {
	inner := t.Width - 4
	p := t.palette

	title := lipgloss.NewStyle().Bold(true).Foreground(p.Header).Render(Truncate(card.Title, inner))
	meta := lipgloss.NewStyle().Foreground(p.Faint).Render(
		Truncate(fmt.Sprintf("%s · %s", card.CreatedBy, card.CreatedAt), inner))
	desc := lipgloss.NewStyle().Foreground(p.Text).Render(Truncate(firstLine(card.Description), inner))
	assigned := lipgloss.NewStyle().Foreground(p.Faint).Render(Truncate("Assigned to: "+card.AssignedTo, inner))

	lines := []string{title, meta, desc, assigned, p.Badge(card.Status, card.Tone)}
	if card.Attachment != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(p.Accent).Render(Truncate(card.Attachment, inner)))
	}

	border := p.Border
	if selected {
		border = p.Selected
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(t.Width - 2).
		Render(strings.Join(lines, "\n"))
}

// Detail renders the popup for the selected ticket.
func (t Terminal) Detail(detail Detail) string {
	inner := t.Width - 6
	p := t.palette
	label := lipgloss.NewStyle().Foreground(p.Faint)
	heading := lipgloss.NewStyle().Bold(true).Foreground(p.Header)

	var b strings.Builder
	b.WriteString(heading.Render(Truncate(detail.Title, inner)))
	b.WriteString("\n")
	b.WriteString(label.Render(fmt.Sprintf("Created by %s on %s", detail.CreatedBy, detail.CreatedAt)))
	b.WriteString("\n\n")
	if body := RenderMarkdown(detail.Description, t.Theme, inner); body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	b.WriteString(label.Render("Assigned to: " + detail.AssignedTo))
	b.WriteString("  ")
	b.WriteString(p.Badge(detail.Status, detail.Tone))
	b.WriteString("\n")
	if detail.Attachment != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(p.Accent).Render("Attachment: " + detail.Attachment))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(heading.Render("Response"))
	b.WriteString("\n")
	if r := detail.Response; r != nil {
		b.WriteString(RenderMarkdown(r.Description, t.Theme, inner))
		b.WriteString("\n")
		b.WriteString(label.Render(fmt.Sprintf("%s · %s", r.CreatedBy, r.CreatedAt)))
		b.WriteString("\n")
		if r.Attachment != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(p.Accent).Render("Attachment: " + r.Attachment))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(label.Render(detail.NoResponse))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if detail.CanRespond {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Render("[r] Respond"))
		b.WriteString("  ")
	}
	b.WriteString(label.Render("[esc] Close"))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Selected).
		Padding(1, 2).
		Width(t.Width - 2).
		Render(b.String())
}

// FilterBar renders the three filter buttons with the active one marked.
func (t Terminal) FilterBar(active string) string {
	p := t.palette
	items := []struct{ key, name string }{{"p", "pending"}, {"c", "completed"}, {"a", "all"}}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(p.Faint)
		if item.name == active {
			style = style.Bold(true).Foreground(p.Header).Background(p.Selected)
		}
		parts = append(parts, style.Render(fmt.Sprintf("[%s] %s", item.key, item.name)))
	}
	return strings.Join(parts, " ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
