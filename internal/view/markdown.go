package view

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

type rendererKey struct {
	theme domain.Theme
	width int
}

var (
	renderersMu sync.Mutex
	renderers   = map[rendererKey]*glamour.TermRenderer{}
)

func markdownRenderer(theme domain.Theme, width int) (*glamour.TermRenderer, error) {
	key := rendererKey{theme: theme, width: width}

	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[key] = r
	return r, nil
}

// RenderMarkdown styles a ticket description for the terminal. Plain text
// is returned when rendering fails.
func RenderMarkdown(input string, theme domain.Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	r, err := markdownRenderer(theme, width)
	if err != nil {
		return input
	}
	out, err := r.Render(input)
	if err != nil {
		return input
	}
	return strings.Trim(out, "\n")
}
