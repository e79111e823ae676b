package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/pagination"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
)

// notificationService serves the paginated notification list.
type notificationService struct {
	repo repository.NotificationRepository
	tr   *i18n.Translator
	log  zerolog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, tr *i18n.Translator, logger zerolog.Logger) NotificationService {
	l := logger.With().Str("module", "service").Str("component", "notification").Logger()
	return &notificationService{repo: repo, tr: tr, log: l}
}

// ListNotifications returns one page. The index is used as given: a page
// past the end is empty but still reports the real count and total.
func (s *notificationService) ListNotifications(ctx context.Context, severity *model.Severity, index, size int) (pagination.Page[model.Notification], error) {
	size = normalizePageSize(size)
	res, err := s.repo.List(ctx, repository.NotificationFilter{Severity: severity}, repository.Page{Index: index, Size: size})
	if err != nil {
		s.log.Error().Err(err).Int("page", index).Int("page_size", size).Msg("list notifications failed")
		return pagination.Page[model.Notification]{}, err
	}
	return pagination.FromTotal(res.Items, res.Total, index, size), nil
}

func (s *notificationService) CreateNotification(ctx context.Context, severity, location, message string) (model.Notification, error) {
	start := time.Now()
	message = strings.TrimSpace(message)

	var ferrs []FieldError
	sev, ok := model.ParseSeverity(severity)
	if !ok {
		ferrs = append(ferrs, FieldError{Field: "severity", Message: s.tr.Localize(ctx, "Must be one of {values}", i18n.Args{
			"values": strings.Join([]string{string(model.SeverityError), string(model.SeverityWarning), string(model.SeverityInformation)}, ", "),
		})})
	}
	if message == "" {
		ferrs = append(ferrs, FieldError{Field: "message", Message: s.tr.Localize(ctx, "Must not be empty", nil)})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("notification validation failed")
		return model.Notification{}, err
	}

	out, err := s.repo.Create(ctx, model.Notification{
		Severity: sev,
		Location: strings.TrimSpace(location),
		Message:  message,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("create notification failed")
		return model.Notification{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("notification_id", out.ID).Str("severity", string(out.Severity)).Msg("notification created")
	return out, nil
}

func (s *notificationService) GetNotification(ctx context.Context, id int64) (model.Notification, error) {
	if id <= 0 {
		return model.Notification{}, newInvalidInput([]FieldError{{Field: "id", Message: s.tr.Localize(ctx, "Must be greater than zero", nil)}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *notificationService) ClearNotifications(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("clear notifications failed")
		return 0, err
	}
	s.log.Info().Int64("removed", n).Msg("notifications cleared")
	return n, nil
}
