package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
)

type notificationRepository struct{ pool *pgxpool.Pool }

func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Notification{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO notifications (severity, location, message) VALUES ($1, $2, $3)
		 RETURNING id, severity, location, message, created_at`,
		string(n.Severity), n.Location, n.Message,
	)
	out, err := scanNotification(row)
	if err != nil {
		return model.Notification{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (model.Notification, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Notification{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT id, severity, location, message, created_at FROM notifications WHERE id = $1`, id,
	)
	out, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Notification{}, repository.ErrNotFound
		}
		return model.Notification{}, repository.MapPgError(err)
	}
	return out, nil
}

// List counts separately from the window so that a page past the end still
// reports the real total.
func (r *notificationRepository) List(ctx context.Context, f repository.NotificationFilter, p repository.Page) (repository.PageResult[model.Notification], error) {
	var res repository.PageResult[model.Notification]
	if err := ensurePool(r.pool); err != nil {
		return res, err
	}
	var severity *string
	if f.Severity != nil {
		s := string(*f.Severity)
		severity = &s
	}
	exec := getQ(ctx, r.pool)
	if err := exec.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE ($1::TEXT IS NULL OR severity = $1)`, severity,
	).Scan(&res.Total); err != nil {
		return res, repository.MapPgError(err)
	}

	res.Items = []model.Notification{}
	offset, limit, ok := p.Bounds()
	if !ok || offset >= res.Total {
		return res, nil
	}
	rows, err := exec.Query(ctx,
		`SELECT id, severity, location, message, created_at
		 FROM notifications
		 WHERE ($1::TEXT IS NULL OR severity = $1)
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		severity, limit, offset,
	)
	if err != nil {
		return res, repository.MapPgError(err)
	}
	defer rows.Close()
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return res, repository.MapPgError(err)
		}
		res.Items = append(res.Items, n)
	}
	return res, repository.MapPgError(rows.Err())
}

func (r *notificationRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM notifications`)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return tag.RowsAffected(), nil
}

func scanNotification(row pgx.Row) (model.Notification, error) {
	var (
		n        model.Notification
		severity string
	)
	if err := row.Scan(&n.ID, &severity, &n.Location, &n.Message, &n.CreatedAt); err != nil {
		return model.Notification{}, err
	}
	n.Severity = model.Severity(severity)
	return n, nil
}

var _ repository.NotificationRepository = (*notificationRepository)(nil)
