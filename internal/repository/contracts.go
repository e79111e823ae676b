package repository

import (
	"context"

	"github.com/maxviazov/composer-workspace-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// NotificationFilter narrows a notification listing. Zero value matches all.
type NotificationFilter struct {
	Severity *model.Severity
}

// NotificationRepository stores notifications in insertion (ID) order.
type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
	GetByID(ctx context.Context, id int64) (model.Notification, error)
	List(ctx context.Context, f NotificationFilter, p Page) (PageResult[model.Notification], error)
	// DeleteAll removes every notification and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// ProjectRepository keeps the recently opened bot projects, keyed by name.
type ProjectRepository interface {
	Upsert(ctx context.Context, p model.BotProject) (model.BotProject, error)
	// ListRecent returns up to limit projects, most recently modified first.
	ListRecent(ctx context.Context, limit int) ([]model.BotProject, error)
	Delete(ctx context.Context, name string) error
}

// PublishTargetRepository stores publish profiles. Names are unique
// case-insensitively and lookups ignore case.
type PublishTargetRepository interface {
	Create(ctx context.Context, t model.PublishTarget) (model.PublishTarget, error)
	// Update replaces the profile currently named current; t.Name may differ (rename).
	Update(ctx context.Context, current string, t model.PublishTarget) (model.PublishTarget, error)
	GetByName(ctx context.Context, name string) (model.PublishTarget, error)
	List(ctx context.Context) ([]model.PublishTarget, error)
	Delete(ctx context.Context, name string) error
}

// PublishHistoryRepository records publish submissions per target.
// History follows its target on rename and is removed with it.
type PublishHistoryRepository interface {
	Append(ctx context.Context, r model.PublishRecord) (model.PublishRecord, error)
	// ListByTarget pages a target's history, newest first.
	ListByTarget(ctx context.Context, target string, p Page) (PageResult[model.PublishRecord], error)
}
