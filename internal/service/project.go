package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
	"github.com/maxviazov/composer-workspace-service/internal/timefmt"
)

// projectService keeps the recently opened project list.
type projectService struct {
	repo  repository.ProjectRepository
	tr    *i18n.Translator
	clock timefmt.Clock
	log   zerolog.Logger
}

// NewProjectService uses clock for both modification stamps and relative
// labels; nil means the system clock.
func NewProjectService(repo repository.ProjectRepository, tr *i18n.Translator, clock timefmt.Clock, logger zerolog.Logger) ProjectService {
	if clock == nil {
		clock = timefmt.SystemClock
	}
	l := logger.With().Str("module", "service").Str("component", "project").Logger()
	return &projectService{repo: repo, tr: tr, clock: clock, log: l}
}

func (s *projectService) ListRecent(ctx context.Context, limit int) ([]model.BotProject, error) {
	if limit <= 0 {
		limit = 10
	}
	out, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.log.Error().Err(err).Int("limit", limit).Msg("list recent projects failed")
		return nil, err
	}
	now := s.clock()
	for i := range out {
		out[i].DateModifiedLabel = timefmt.Since(out[i].DateModified, now)
	}
	return out, nil
}

func (s *projectService) TouchProject(ctx context.Context, name, path string) (model.BotProject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.BotProject{}, newInvalidInput([]FieldError{{Field: "name", Message: s.tr.Localize(ctx, "Must have a name", nil)}})
	}
	now := s.clock()
	out, err := s.repo.Upsert(ctx, model.BotProject{Name: name, Path: strings.TrimSpace(path), DateModified: now})
	if err != nil {
		s.log.Error().Err(err).Str("project", name).Msg("touch project failed")
		return model.BotProject{}, err
	}
	out.DateModifiedLabel = timefmt.Since(out.DateModified, now)
	s.log.Debug().Str("project", name).Msg("project touched")
	return out, nil
}

func (s *projectService) RemoveProject(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return newInvalidInput([]FieldError{{Field: "name", Message: s.tr.Localize(ctx, "Must have a name", nil)}})
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("project", name).Msg("remove project failed")
		}
		return err
	}
	return nil
}
