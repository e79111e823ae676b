package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/metrics"
	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/pagination"
	"github.com/maxviazov/composer-workspace-service/internal/publish"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
	"github.com/maxviazov/composer-workspace-service/internal/timefmt"
)

// MaxCommentLength is the longest publish comment accepted, in runes.
const MaxCommentLength = 500

// publishService submits profiles to the publisher, one submission per
// target at a time.
type publishService struct {
	targets   repository.PublishTargetRepository
	history   repository.PublishHistoryRepository
	publisher publish.Publisher
	tr        *i18n.Translator
	clock     timefmt.Clock
	log       zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewPublishService(targets repository.PublishTargetRepository, history repository.PublishHistoryRepository, publisher publish.Publisher, tr *i18n.Translator, clock timefmt.Clock, logger zerolog.Logger) PublishService {
	if clock == nil {
		clock = timefmt.SystemClock
	}
	l := logger.With().Str("module", "service").Str("component", "publish").Logger()
	return &publishService{
		targets:   targets,
		history:   history,
		publisher: publisher,
		tr:        tr,
		clock:     clock,
		log:       l,
		inFlight:  map[string]struct{}{},
	}
}

// Publish submits target to the publisher and records the outcome in its
// history. A second submission for a target that is still publishing is
// rejected with repository.ErrConflict.
func (s *publishService) Publish(ctx context.Context, target, comment string) (model.PublishRecord, error) {
	target = strings.TrimSpace(target)
	comment = strings.TrimSpace(comment)

	var ferrs []FieldError
	if target == "" {
		ferrs = append(ferrs, FieldError{Field: "target", Message: s.tr.Localize(ctx, "Must have a name", nil)})
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		ferrs = append(ferrs, FieldError{Field: "comment", Message: s.tr.Localize(ctx, "Comment must be at most {max} characters", i18n.Args{"max": MaxCommentLength})})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.PublishRecord{}, err
	}

	t, err := s.targets.GetByName(ctx, target)
	if err != nil {
		return model.PublishRecord{}, err
	}

	release, ok := s.acquire(t.Name)
	if !ok {
		s.log.Warn().Str("target", t.Name).Msg("publish rejected, already in progress")
		return model.PublishRecord{}, &reportError{
			kind: repository.ErrConflict,
			report: model.ErrorReport{
				Title:   s.tr.Localize(ctx, "Publish failed", nil),
				Message: s.tr.Localize(ctx, "A publish to {target} is already in progress", i18n.Args{"target": t.Name}),
			},
		}
	}
	defer release()

	metrics.PublishInFlight.Inc()
	start := time.Now()
	res, pubErr := s.publisher.Publish(ctx, publish.Submission{
		Target:        t.Name,
		Type:          t.Type,
		Configuration: json.RawMessage(t.Configuration),
		Comment:       comment,
	})
	metrics.PublishInFlight.Dec()
	metrics.PublishDuration.WithLabelValues(t.Type).Observe(time.Since(start).Seconds())

	rec := model.PublishRecord{
		ID:        uuid.NewString(),
		Target:    t.Name,
		Comment:   comment,
		Status:    model.PublishSucceeded,
		Message:   res.Message,
		CreatedAt: s.clock(),
	}
	if pubErr != nil {
		rec.Status = model.PublishFailed
		rec.Message = pubErr.Error()
	}
	metrics.PublishSubmissions.WithLabelValues(t.Type, string(rec.Status)).Inc()

	// the outcome is recorded even when the request context is gone
	saved, err := s.history.Append(context.WithoutCancel(ctx), rec)
	if err != nil {
		s.log.Error().Err(err).Str("target", t.Name).Str("record_id", rec.ID).Msg("record publish history failed")
		if pubErr == nil {
			return model.PublishRecord{}, err
		}
	}

	if pubErr != nil {
		s.log.Warn().Err(pubErr).Str("target", t.Name).Str("type", t.Type).Dur("took", time.Since(start)).Msg("publish failed")
		return model.PublishRecord{}, &reportError{
			kind:  ErrPublishFailed,
			cause: pubErr,
			report: model.ErrorReport{
				Title:   s.tr.Localize(ctx, "Publish failed", nil),
				Message: s.tr.Localize(ctx, "Could not publish to {target}: {detail}", i18n.Args{"target": t.Name, "detail": pubErr.Error()}),
			},
		}
	}
	s.log.Info().Str("target", t.Name).Str("type", t.Type).Str("record_id", saved.ID).Dur("took", time.Since(start)).Msg("publish succeeded")
	return saved, nil
}

func (s *publishService) History(ctx context.Context, target string, index, size int) (pagination.Page[model.PublishRecord], error) {
	size = normalizePageSize(size)
	t, err := s.targets.GetByName(ctx, strings.TrimSpace(target))
	if err != nil {
		return pagination.Page[model.PublishRecord]{}, err
	}
	res, err := s.history.ListByTarget(ctx, t.Name, repository.Page{Index: index, Size: size})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("target", t.Name).Msg("list publish history failed")
		}
		return pagination.Page[model.PublishRecord]{}, err
	}
	return pagination.FromTotal(res.Items, res.Total, index, size), nil
}

func (s *publishService) acquire(target string) (release func(), ok bool) {
	k := strings.ToLower(target)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[k]; busy {
		return nil, false
	}
	s.inFlight[k] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inFlight, k)
		s.mu.Unlock()
	}, true
}
