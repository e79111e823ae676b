package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
	"github.com/maxviazov/composer-workspace-service/internal/repository/memory"
	"github.com/maxviazov/composer-workspace-service/internal/service"
)

// spyNotificationRepo records the page it was asked for.
type spyNotificationRepo struct {
	repository.NotificationRepository
	lastPage repository.Page
	listErr  error
}

func (s *spyNotificationRepo) List(ctx context.Context, f repository.NotificationFilter, p repository.Page) (repository.PageResult[model.Notification], error) {
	s.lastPage = p
	if s.listErr != nil {
		return repository.PageResult[model.Notification]{}, s.listErr
	}
	return s.NotificationRepository.List(ctx, f, p)
}

func seedNotifications(t *testing.T, svc service.NotificationService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		sev := []string{"error", "warning", "information"}[i%3]
		_, err := svc.CreateNotification(context.Background(), sev, fmt.Sprintf("dialogs/d%d.dialog", i), fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}
}

func TestNotificationService_ListPages(t *testing.T) {
	svc := service.NewNotificationService(memory.New().Notifications(), newTestTranslator(t), discardLogger())
	seedNotifications(t, svc, 25)

	ctx := context.Background()
	page, err := svc.ListNotifications(ctx, nil, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "message 20", page.Items[0].Message)
	assert.Equal(t, "message 24", page.Items[4].Message)

	// past the end: empty, but count and total still describe the collection
	page, err = svc.ListNotifications(ctx, nil, 7, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 7, page.Index)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 25, page.Total)

	page, err = svc.ListNotifications(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestNotificationService_EmptyHasOnePage(t *testing.T) {
	svc := service.NewNotificationService(memory.New().Notifications(), newTestTranslator(t), discardLogger())
	page, err := svc.ListNotifications(context.Background(), nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
}

func TestNotificationService_SeverityFilter(t *testing.T) {
	svc := service.NewNotificationService(memory.New().Notifications(), newTestTranslator(t), discardLogger())
	seedNotifications(t, svc, 9)

	sev := model.SeverityWarning
	page, err := svc.ListNotifications(context.Background(), &sev, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	for _, n := range page.Items {
		assert.Equal(t, model.SeverityWarning, n.Severity)
	}
}

func TestNotificationService_PageSizeNormalization(t *testing.T) {
	cases := []struct {
		name string
		size int
		want int
	}{
		{"zero defaults", 0, 10},
		{"negative defaults", -5, 10},
		{"in range kept", 25, 25},
		{"capped", 1000, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spy := &spyNotificationRepo{NotificationRepository: memory.New().Notifications()}
			svc := service.NewNotificationService(spy, newTestTranslator(t), discardLogger())
			page, err := svc.ListNotifications(context.Background(), nil, 2, tc.size)
			require.NoError(t, err)
			if spy.lastPage.Size != tc.want || page.Size != tc.want {
				t.Fatalf("size %d: repo got %d, page has %d; want %d", tc.size, spy.lastPage.Size, page.Size, tc.want)
			}
			assert.Equal(t, 2, spy.lastPage.Index)
		})
	}
}

func TestNotificationService_ListError(t *testing.T) {
	boom := errors.New("boom")
	spy := &spyNotificationRepo{NotificationRepository: memory.New().Notifications(), listErr: boom}
	svc := service.NewNotificationService(spy, newTestTranslator(t), discardLogger())
	_, err := svc.ListNotifications(context.Background(), nil, 1, 10)
	assert.ErrorIs(t, err, boom)
}

func TestNotificationService_CreateValidation(t *testing.T) {
	svc := service.NewNotificationService(memory.New().Notifications(), newTestTranslator(t), discardLogger())

	_, err := svc.CreateNotification(context.Background(), "fatal", "a.dialog", "  ")
	require.ErrorIs(t, err, service.ErrInvalidInput)
	msgs := fieldMessages(service.FieldErrors(err))
	assert.Equal(t, "Must be one of error, warning, information", msgs["severity"])
	assert.Equal(t, "Must not be empty", msgs["message"])

	ctx := i18n.WithLanguage(context.Background(), language.MustParse("de-DE"))
	_, err = svc.CreateNotification(ctx, "error", "", "")
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, "Darf nicht leer sein", fieldMessages(service.FieldErrors(err))["message"])
}

func TestNotificationService_GetAndClear(t *testing.T) {
	svc := service.NewNotificationService(memory.New().Notifications(), newTestTranslator(t), discardLogger())
	ctx := context.Background()

	created, err := svc.CreateNotification(ctx, "Warning", " dialogs/main.dialog ", "unused trigger")
	require.NoError(t, err)
	assert.Equal(t, model.SeverityWarning, created.Severity)
	assert.Equal(t, "dialogs/main.dialog", created.Location)

	got, err := svc.GetNotification(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetNotification(ctx, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.GetNotification(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err := svc.ClearNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = svc.GetNotification(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
