package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/publish"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
)

// TypeRegistry resolves publish types and checks configurations against them.
type TypeRegistry interface {
	Types() []model.PublishType
	Lookup(name string) (model.PublishType, bool)
	// Validate returns the compacted configuration or a publish.ErrUnknownType,
	// publish.ErrNotObject or *publish.SchemaError.
	Validate(typeName, configuration string) (string, error)
}

// targetService manages publish profiles.
type targetService struct {
	repo     repository.PublishTargetRepository
	tx       repository.TxManager
	registry TypeRegistry
	tr       *i18n.Translator
	log      zerolog.Logger
}

func NewTargetService(repo repository.PublishTargetRepository, tx repository.TxManager, registry TypeRegistry, tr *i18n.Translator, logger zerolog.Logger) TargetService {
	l := logger.With().Str("module", "service").Str("component", "target").Logger()
	return &targetService{repo: repo, tx: tx, registry: registry, tr: tr, log: l}
}

func (s *targetService) ListTypes(_ context.Context) []model.PublishType {
	return s.registry.Types()
}

func (s *targetService) ListTargets(ctx context.Context) ([]model.PublishTarget, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list publish targets failed")
		return nil, err
	}
	return out, nil
}

func (s *targetService) GetTarget(ctx context.Context, name string) (model.PublishTarget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.PublishTarget{}, newInvalidInput([]FieldError{{Field: "name", Message: s.tr.Localize(ctx, "Must have a name", nil)}})
	}
	return s.repo.GetByName(ctx, name)
}

func (s *targetService) CheckName(ctx context.Context, current *string, name string) error {
	existing, err := s.takenNames(ctx, current)
	if err != nil {
		return err
	}
	if err := ValidateProfileName(name, existing); err != nil {
		return newInvalidInput([]FieldError{{Field: "name", Message: s.tr.Localize(ctx, nameMessageKey(err), nil)}})
	}
	return nil
}

func (s *targetService) SaveTarget(ctx context.Context, current *string, name, typeName, configuration string) (model.PublishTarget, error) {
	start := time.Now()
	name = strings.TrimSpace(name)
	typeName = strings.TrimSpace(typeName)

	var out model.PublishTarget
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.takenNames(ctx, current)
		if err != nil {
			return err
		}

		var ferrs []FieldError
		if err := ValidateProfileName(name, existing); err != nil {
			ferrs = append(ferrs, FieldError{Field: "name", Message: s.tr.Localize(ctx, nameMessageKey(err), nil)})
		}
		compact, cfgErr := s.checkConfiguration(ctx, typeName, configuration)
		ferrs = append(ferrs, cfgErr...)
		if err := newInvalidInput(ferrs); err != nil {
			s.log.Debug().Str("name", name).Str("type", typeName).Interface("field_errors", ferrs).Msg("publish target validation failed")
			return err
		}

		t := model.PublishTarget{Name: name, Type: typeName, Configuration: compact}
		if current == nil {
			out, err = s.repo.Create(ctx, t)
		} else {
			out, err = s.repo.Update(ctx, strings.TrimSpace(*current), t)
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, repository.ErrAlreadyExists) {
			s.log.Error().Err(err).Str("name", name).Msg("save publish target failed")
		}
		return model.PublishTarget{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("name", out.Name).Str("type", out.Type).Bool("created", current == nil).Msg("publish target saved")
	return out, nil
}

func (s *targetService) DeleteTarget(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return newInvalidInput([]FieldError{{Field: "name", Message: s.tr.Localize(ctx, "Must have a name", nil)}})
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("name", name).Msg("delete publish target failed")
		}
		return err
	}
	s.log.Info().Str("name", name).Msg("publish target deleted")
	return nil
}

// takenNames lists profile names a candidate must not collide with. When
// current is set it must exist, and its own name is left out.
func (s *targetService) takenNames(ctx context.Context, current *string) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	found := current == nil
	for _, t := range all {
		if current != nil && strings.EqualFold(t.Name, strings.TrimSpace(*current)) {
			found = true
			continue
		}
		names = append(names, t.Name)
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	return names, nil
}

func (s *targetService) checkConfiguration(ctx context.Context, typeName, configuration string) (string, []FieldError) {
	if typeName == "" {
		return "", []FieldError{{Field: "type", Message: s.tr.Localize(ctx, "Choose a publish destination type", nil)}}
	}
	compact, err := s.registry.Validate(typeName, configuration)
	if err == nil {
		return compact, nil
	}

	var se *publish.SchemaError
	switch {
	case errors.Is(err, publish.ErrUnknownType):
		return "", []FieldError{{Field: "type", Message: s.tr.Localize(ctx, "Unknown publish destination type {type}", i18n.Args{"type": typeName})}}
	case errors.As(err, &se):
		return "", []FieldError{{Field: "configuration", Message: s.tr.Localize(ctx, "Publish configuration does not match the {type} schema: {detail}", i18n.Args{"type": se.Type, "detail": se.Detail})}}
	default:
		return "", []FieldError{{Field: "configuration", Message: s.tr.Localize(ctx, "Publish configuration must be a JSON object", nil)}}
	}
}
