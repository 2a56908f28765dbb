// Package tui is the terminal rendition of the My Tickets dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/stream"
	"github.com/spec-kit/ticket-dashboard/internal/theme"
	"github.com/spec-kit/ticket-dashboard/internal/view"
)

const defaultThemeKey = "default"

// Options configure a Model.
type Options struct {
	// FilesBaseURL prefixes attachment links.
	FilesBaseURL string
	// WebBaseURL, when set, turns navigation routes into full links.
	WebBaseURL string
	Themes     theme.Store
	Theme      domain.Theme
	Keys       *KeyMap
}

type changeMsg struct {
	change dashboard.Change
}

type feedClosedMsg struct{}

type themeMsg struct {
	theme domain.Theme
	err   error
}

// Model renders one mounted session.
type Model struct {
	session *dashboard.Session
	feed    <-chan dashboard.Change
	stop    func()

	opts   Options
	keys   KeyMap
	theme  domain.Theme
	width  int
	height int
	cursor int

	notice  string
	live    stream.Status
	liveErr error
}

// New builds a model over a mounted session and subscribes to its board.
func New(session *dashboard.Session, opts Options) Model {
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	if opts.Theme == "" {
		opts.Theme = domain.ThemeLight
	}
	feed, stop := session.Board().Subscribe()
	live, liveErr := session.LiveStatus()
	return Model{
		session: session,
		feed:    feed,
		stop:    stop,
		opts:    opts,
		keys:    keys,
		theme:   opts.Theme,
		width:   80,
		height:  24,
		live:    live,
		liveErr: liveErr,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return listenForChange(m.feed)
}

// listenForChange blocks until the board reports a change.
func listenForChange(feed <-chan dashboard.Change) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-feed
		if !ok {
			return feedClosedMsg{}
		}
		return changeMsg{change: change}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case changeMsg:
		if msg.change.Kind == dashboard.ChangeStatus {
			m.live, m.liveErr = msg.change.Status, msg.change.Err
		}
		m.clampCursor()
		return m, listenForChange(m.feed)

	case feedClosedMsg:
		return m, nil

	case themeMsg:
		if msg.err != nil {
			m.notice = "Theme not saved: " + msg.err.Error()
			return m, nil
		}
		m.theme = msg.theme
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.stop != nil {
			m.stop()
		}
		return m, tea.Quit
	}

	if _, open := m.session.Selected(); open {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.session.ClosePopup()
		case key.Matches(msg, m.keys.Respond):
			m.session.Respond(dashboard.NavigatorFunc(m.navigate))
		case key.Matches(msg, m.keys.Theme):
			return m, m.toggleTheme()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Pending):
		m.session.SetFilter(dashboard.FilterPending)
		m.cursor = 0
	case key.Matches(msg, m.keys.Completed):
		m.session.SetFilter(dashboard.FilterCompleted)
		m.cursor = 0
	case key.Matches(msg, m.keys.All):
		m.session.SetFilter(dashboard.FilterAll)
		m.cursor = 0
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Open):
		visible := m.session.Visible()
		if m.cursor < len(visible) {
			m.session.View(visible[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.NewTicket):
		m.navigate(dashboard.NewTicketRoute)
	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleTheme()
	}
	return m, nil
}

// navigate cannot leave the terminal, so it shows where to go instead.
func (m *Model) navigate(route string) {
	target := route
	if m.opts.WebBaseURL != "" {
		target = strings.TrimRight(m.opts.WebBaseURL, "/") + route
	}
	m.notice = "Continue at " + target
}

func (m Model) toggleTheme() tea.Cmd {
	store := m.opts.Themes
	current := m.theme
	themeKey := defaultThemeKey
	if employee := m.session.Employee(); employee != nil {
		themeKey = employee.ID
	}
	return func() tea.Msg {
		if store == nil {
			return themeMsg{theme: current.Toggle()}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		next, err := theme.Toggle(ctx, store, themeKey)
		return themeMsg{theme: next, err: err}
	}
}

func (m *Model) clampCursor() {
	n := len(m.session.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	term := view.NewTerminal(m.theme, m.width)
	p := term.Palette()

	var b strings.Builder
	b.WriteString(m.header(term))
	b.WriteString("\n")
	b.WriteString(term.FilterBar(string(m.session.Filter())))
	b.WriteString("\n\n")

	if selected, open := m.session.Selected(); open {
		b.WriteString(term.Detail(view.NewDetail(selected, m.opts.FilesBaseURL)))
	} else {
		b.WriteString(m.list(term))
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(p.Accent).Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.help(p))
	return b.String()
}

func (m Model) header(term view.Terminal) string {
	p := term.Palette()
	title := "My Tickets"
	if employee := m.session.Employee(); employee != nil {
		title += " · " + employee.DisplayName()
	}
	live := fmt.Sprintf("live: %s", m.live)
	liveStyle := lipgloss.NewStyle().Foreground(p.Faint)
	if m.live == stream.StatusError {
		liveStyle = liveStyle.Foreground(p.ErrorText)
		if m.liveErr != nil {
			live += " (" + m.liveErr.Error() + ")"
		}
	}
	return lipgloss.NewStyle().Bold(true).Foreground(p.Header).Render(title) + "  " + liveStyle.Render(live)
}

// list renders the cards that fit the screen, keeping the cursor visible.
func (m Model) list(term view.Terminal) string {
	visible := m.session.Visible()
	if len(visible) == 0 {
		return lipgloss.NewStyle().Foreground(term.Palette().Faint).Render(m.emptyText())
	}

	perPage := (m.height - 6) / 8
	if perPage < 1 {
		perPage = 1
	}
	start := 0
	if m.cursor >= perPage {
		start = m.cursor - perPage + 1
	}
	end := start + perPage
	if end > len(visible) {
		end = len(visible)
	}

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, term.Card(view.NewCard(visible[i], m.opts.FilesBaseURL), i == m.cursor))
	}
	return strings.Join(cards, "\n")
}

func (m Model) emptyText() string {
	switch m.session.Result().Outcome {
	case dashboard.OutcomeNoCredential:
		return "No access token found. Sign in and try again."
	case dashboard.OutcomeMalformedCredential, dashboard.OutcomeEmployeeNotFound:
		return "Your account could not be resolved."
	case dashboard.OutcomeEmployeeFetchFailed, dashboard.OutcomeTicketsFetchFailed:
		return "Tickets could not be loaded."
	default:
		return "No tickets to show."
	}
}

func (m Model) help(p view.Palette) string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return lipgloss.NewStyle().Foreground(p.Faint).Render(view.Truncate(strings.Join(parts, " · "), m.width))
}

// Cursor returns the highlighted row.
func (m Model) Cursor() int {
	return m.cursor
}

// Theme returns the active theme.
func (m Model) Theme() domain.Theme {
	return m.theme
}

// Notice returns the last navigation or error notice.
func (m Model) Notice() string {
	return m.notice
}
