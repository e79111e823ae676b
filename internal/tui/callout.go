package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
)

// CalloutChoice is what the user picked in an error callout.
type CalloutChoice int

const (
	CalloutPending CalloutChoice = iota
	CalloutRetry
	CalloutCancel
)

// ErrorCalloutModel shows an error report with "Try again" and "Cancel".
type ErrorCalloutModel struct {
	report model.ErrorReport
	labels [2]string
	focus  int
	choice CalloutChoice
}

func NewErrorCalloutModel(report model.ErrorReport, tr *i18n.Translator, lang language.Tag) *ErrorCalloutModel {
	return &ErrorCalloutModel{
		report: report,
		labels: [2]string{tr.Format(lang, "Try again", nil), tr.Format(lang, "Cancel", nil)},
	}
}

// Choice is CalloutPending until the user decides.
func (m *ErrorCalloutModel) Choice() CalloutChoice { return m.choice }

func (m *ErrorCalloutModel) Init() tea.Cmd { return nil }

func (m *ErrorCalloutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		m.focus = 1 - m.focus
	case "enter", " ":
		if m.focus == 0 {
			m.choice = CalloutRetry
		} else {
			m.choice = CalloutCancel
		}
		return m, tea.Quit
	case "r":
		m.choice = CalloutRetry
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.choice = CalloutCancel
		return m, tea.Quit
	}
	return m, nil
}

func (m *ErrorCalloutModel) View() string {
	var buttons []string
	for i, label := range m.labels {
		if i == m.focus {
			buttons = append(buttons, activeButtonStyle.Render(label))
		} else {
			buttons = append(buttons, buttonStyle.Render(label))
		}
	}
	body := strings.Join([]string{
		lipgloss.NewStyle().Foreground(ColorError).Bold(true).Render(m.report.Title),
		m.report.Message,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
	}, "\n")
	return calloutStyle.Render(body) + "\n"
}
