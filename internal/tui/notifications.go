package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/pagination"
)

// NotificationPageSize is the number of rows shown per page.
const NotificationPageSize = pagination.DefaultSize

// LoadNotificationsFunc fetches the complete notification list.
type LoadNotificationsFunc func(ctx context.Context) ([]model.Notification, error)

type notificationsLoadedMsg struct {
	items []model.Notification
	err   error
}

// NotificationsModel pages through a notification list fetched once at start.
// The page index lives in a Cursor owned by the view; a reload resets it.
type NotificationsModel struct {
	ctx      context.Context
	load     LoadNotificationsFunc
	tr       *i18n.Translator
	lang     language.Tag
	items    []model.Notification
	cursor   pagination.Cursor
	selected int
	loading  bool
	spinner  spinner.Model
	err      error
}

func NewNotificationsModel(ctx context.Context, load LoadNotificationsFunc, tr *i18n.Translator, lang language.Tag) *NotificationsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = mutedStyle
	return &NotificationsModel{ctx: ctx, load: load, tr: tr, lang: lang, loading: true, spinner: sp}
}

func (m *NotificationsModel) Init() tea.Cmd {
	return tea.Batch(m.fetch, m.spinner.Tick)
}

func (m *NotificationsModel) fetch() tea.Msg {
	items, err := m.load(m.ctx)
	return notificationsLoadedMsg{items: items, err: err}
}

// Page is the page currently displayed.
func (m *NotificationsModel) Page() pagination.Page[model.Notification] {
	return pagination.Of(m.items, m.cursor.Index(), NotificationPageSize)
}

func (m *NotificationsModel) Err() error { return m.err }

func (m *NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.items = msg.items
		m.cursor.Reset()
		m.selected = 0
		return m, nil
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *NotificationsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := pagination.Count(len(m.items), NotificationPageSize)
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l":
		if m.cursor.Next(count) {
			m.selected = 0
		}
	case "left", "h":
		if m.cursor.Prev(count) {
			m.selected = 0
		}
	case "down", "j":
		if m.selected < len(m.Page().Items)-1 {
			m.selected++
		}
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "r":
		m.loading = true
		return m, tea.Batch(m.fetch, m.spinner.Tick)
	}
	return m, nil
}

func (m *NotificationsModel) View() string {
	if m.loading {
		return m.spinner.View() + " " + mutedStyle.Render("Loading notifications...") + "\n"
	}
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(ColorError).Render("Error: "+m.err.Error()) + "\n"
	}

	page := m.Page()
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-12s %-32s %s", "Type", "Location", "Message")))
	b.WriteString("\n")
	for i, n := range page.Items {
		line := fmt.Sprintf("%s %-32s %s",
			severityStyle(string(n.Severity)).Render(fmt.Sprintf("%-12s", n.Severity)),
			truncate(n.Location, 32), n.Message)
		if i == m.selected {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(page.Items) == 0 {
		b.WriteString(mutedStyle.Render("  no notifications"))
		b.WriteString("\n")
	}

	if m.selected < len(page.Items) {
		n := page.Items[m.selected]
		desc := m.tr.Format(m.lang, "This is a {severity} notification", i18n.Args{"severity": n.Severity}) +
			". " + m.tr.Format(m.lang, "Location is {location}", i18n.Args{"location": n.Location})
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("page %d/%d · %d total · ←/→ page · ↑/↓ select · r reload · q quit",
		page.Index, page.Count, page.Total)))
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
