// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/pagination"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrPublishFailed marks a publish the collaborator rejected (maps to HTTP 502).
// The user-facing title and message are retrieved via Report(err).
var ErrPublishFailed = errors.New("publish failed")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// NewInvalidInputError lets transport layers report request shape problems
// (unparsable path or query values) in the same envelope as service validation.
func NewInvalidInputError(fe []FieldError) error { return newInvalidInput(fe) }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var v interface{ Fields() []FieldError }
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// reportError pairs a domain error kind with the localized report a client shows.
type reportError struct {
	kind   error
	cause  error
	report model.ErrorReport
}

func (e *reportError) Error() string {
	if e.cause == nil {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *reportError) Is(target error) bool      { return target == e.kind }
func (e *reportError) Unwrap() error             { return e.cause }
func (e *reportError) Report() model.ErrorReport { return e.report }

// Report extracts the user-facing error report, if err carries one.
func Report(err error) (model.ErrorReport, bool) {
	var v interface{ Report() model.ErrorReport }
	if errors.As(err, &v) {
		return v.Report(), true
	}
	return model.ErrorReport{}, false
}

// NotificationService defines notification list use cases.
type NotificationService interface {
	ListNotifications(ctx context.Context, severity *model.Severity, index, size int) (pagination.Page[model.Notification], error)
	CreateNotification(ctx context.Context, severity, location, message string) (model.Notification, error)
	GetNotification(ctx context.Context, id int64) (model.Notification, error)
	ClearNotifications(ctx context.Context) (int64, error)
}

// ProjectService defines recent bot project use cases.
type ProjectService interface {
	ListRecent(ctx context.Context, limit int) ([]model.BotProject, error)
	TouchProject(ctx context.Context, name, path string) (model.BotProject, error)
	RemoveProject(ctx context.Context, name string) error
}

// TargetService defines publish profile use cases.
type TargetService interface {
	ListTypes(ctx context.Context) []model.PublishType
	ListTargets(ctx context.Context) ([]model.PublishTarget, error)
	GetTarget(ctx context.Context, name string) (model.PublishTarget, error)
	// SaveTarget creates a profile when current is nil, otherwise updates
	// (and possibly renames) the profile currently named *current.
	SaveTarget(ctx context.Context, current *string, name, typeName, configuration string) (model.PublishTarget, error)
	DeleteTarget(ctx context.Context, name string) error
	// CheckName runs the profile name rule alone, for live form validation.
	CheckName(ctx context.Context, current *string, name string) error
}

// PublishService defines publish submission use cases.
type PublishService interface {
	Publish(ctx context.Context, target, comment string) (model.PublishRecord, error)
	History(ctx context.Context, target string, index, size int) (pagination.Page[model.PublishRecord], error)
}
