package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/composer-workspace-service/internal/repository"
	"github.com/maxviazov/composer-workspace-service/internal/repository/memory"
	"github.com/maxviazov/composer-workspace-service/internal/service"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestProjectService_RecentWithRelativeLabels(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := service.NewProjectService(memory.New().Projects(), newTestTranslator(t), clock.Now, discardLogger())
	ctx := context.Background()

	_, err := svc.TouchProject(ctx, "EchoBot", "/bots/echo")
	require.NoError(t, err)

	clock.now = clock.now.Add(72 * time.Hour)
	touched, err := svc.TouchProject(ctx, "  TodoBot ", "/bots/todo")
	require.NoError(t, err)
	assert.Equal(t, "TodoBot", touched.Name)
	assert.Equal(t, "now", touched.DateModifiedLabel)

	recent, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "TodoBot", recent[0].Name)
	assert.Equal(t, "EchoBot", recent[1].Name)
	assert.Equal(t, "3 days ago", recent[1].DateModifiedLabel)

	recent, err = svc.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "TodoBot", recent[0].Name)
}

func TestProjectService_TouchMovesToFront(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := service.NewProjectService(memory.New().Projects(), newTestTranslator(t), clock.Now, discardLogger())
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		clock.now = clock.now.Add(time.Minute)
		_, err := svc.TouchProject(ctx, name, "/bots/"+name)
		require.NoError(t, err)
	}
	clock.now = clock.now.Add(time.Minute)
	_, err := svc.TouchProject(ctx, "a", "/bots/a2")
	require.NoError(t, err)

	recent, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	names := make([]string, 0, len(recent))
	for _, p := range recent {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "c", "b"}, names)
	assert.Equal(t, "/bots/a2", recent[0].Path)
}

func TestProjectService_Validation(t *testing.T) {
	svc := service.NewProjectService(memory.New().Projects(), newTestTranslator(t), nil, discardLogger())
	ctx := context.Background()

	_, err := svc.TouchProject(ctx, " ", "/x")
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, "Must have a name", fieldMessages(service.FieldErrors(err))["name"])

	assert.ErrorIs(t, svc.RemoveProject(ctx, ""), service.ErrInvalidInput)
	assert.ErrorIs(t, svc.RemoveProject(ctx, "missing"), repository.ErrNotFound)

	_, err = svc.TouchProject(ctx, "EchoBot", "/x")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveProject(ctx, "EchoBot"))
	recent, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
