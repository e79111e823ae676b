package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
)

func sampleNotifications(n int) []model.Notification {
	out := make([]model.Notification, n)
	for i := range out {
		out[i] = model.Notification{ID: int64(i + 1), Severity: model.SeverityWarning, Location: fmt.Sprintf("d%d.dialog", i), Message: fmt.Sprintf("m%d", i)}
	}
	return out
}

func newLoadedModel(t *testing.T, items []model.Notification) *NotificationsModel {
	t.Helper()
	tr, err := i18n.New("en-US")
	require.NoError(t, err)
	calls := 0
	m := NewNotificationsModel(context.Background(), func(context.Context) ([]model.Notification, error) {
		calls++
		return items, nil
	}, tr, language.MustParse("en-US"))

	require.NotNil(t, m.Init())
	m.Update(m.fetch())
	require.Equal(t, 1, calls)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNotificationsModel_Paging(t *testing.T) {
	m := newLoadedModel(t, sampleNotifications(25))

	page := m.Page()
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, 3, page.Count)
	assert.Len(t, page.Items, 10)

	m.Update(key("right"))
	m.Update(key("l"))
	page = m.Page()
	assert.Equal(t, 3, page.Index)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "m20", page.Items[0].Message)

	// navigation stops at the last page
	m.Update(key("right"))
	assert.Equal(t, 3, m.Page().Index)

	m.Update(key("left"))
	m.Update(key("h"))
	m.Update(key("h"))
	assert.Equal(t, 1, m.Page().Index)
}

func TestNotificationsModel_ReloadResetsPage(t *testing.T) {
	m := newLoadedModel(t, sampleNotifications(25))
	m.Update(key("right"))
	require.Equal(t, 2, m.Page().Index)

	m.Update(notificationsLoadedMsg{items: sampleNotifications(3)})
	page := m.Page()
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, 1, page.Count)
	assert.Len(t, page.Items, 3)
}

func TestNotificationsModel_ViewAndQuit(t *testing.T) {
	m := newLoadedModel(t, sampleNotifications(12))
	view := m.View()
	assert.Contains(t, view, "page 1/2")
	assert.Contains(t, view, "This is a warning notification")
	assert.Contains(t, view, "Location is d0.dialog")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestNotificationsModel_EmptyAndError(t *testing.T) {
	m := newLoadedModel(t, nil)
	assert.Equal(t, 1, m.Page().Count)
	assert.Contains(t, m.View(), "no notifications")

	m.Update(notificationsLoadedMsg{err: errors.New("connection refused")})
	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "connection refused")
}

func TestNotificationsModel_LoadingSpinner(t *testing.T) {
	tr, err := i18n.New("en-US")
	require.NoError(t, err)
	m := NewNotificationsModel(context.Background(), func(context.Context) ([]model.Notification, error) {
		return nil, nil
	}, tr, language.MustParse("en-US"))

	assert.Contains(t, m.View(), "Loading notifications")
	_, cmd := m.Update(m.spinner.Tick())
	assert.NotNil(t, cmd, "spinner keeps ticking while loading")

	m.Update(m.fetch())
	_, cmd = m.Update(m.spinner.Tick())
	assert.Nil(t, cmd)
}
