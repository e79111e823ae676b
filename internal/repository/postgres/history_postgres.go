package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
)

type historyRepository struct{ pool *pgxpool.Pool }

func NewPublishHistoryRepository(pool *pgxpool.Pool) repository.PublishHistoryRepository {
	return &historyRepository{pool: pool}
}

// Append stores r under the canonical spelling of its target's name.
func (r *historyRepository) Append(ctx context.Context, rec model.PublishRecord) (model.PublishRecord, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.PublishRecord{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO publish_history (id, target, comment, status, message, created_at)
		 SELECT $1::UUID, t.name, $3::TEXT, $4::TEXT, $5::TEXT, $6::TIMESTAMPTZ FROM publish_targets t WHERE lower(t.name) = lower($2)
		 RETURNING id::TEXT, target, comment, status, message, created_at`,
		rec.ID, rec.Target, rec.Comment, string(rec.Status), rec.Message, rec.CreatedAt,
	)
	out, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PublishRecord{}, repository.ErrNotFound
		}
		return model.PublishRecord{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *historyRepository) ListByTarget(ctx context.Context, target string, p repository.Page) (repository.PageResult[model.PublishRecord], error) {
	var res repository.PageResult[model.PublishRecord]
	if err := ensurePool(r.pool); err != nil {
		return res, err
	}
	exec := getQ(ctx, r.pool)
	if err := exec.QueryRow(ctx,
		`SELECT COUNT(*) FROM publish_history WHERE lower(target) = lower($1)`, target,
	).Scan(&res.Total); err != nil {
		return res, repository.MapPgError(err)
	}

	res.Items = []model.PublishRecord{}
	offset, limit, ok := p.Bounds()
	if !ok || offset >= res.Total {
		return res, nil
	}
	rows, err := exec.Query(ctx,
		`SELECT id::TEXT, target, comment, status, message, created_at
		 FROM publish_history
		 WHERE lower(target) = lower($1)
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		target, limit, offset,
	)
	if err != nil {
		return res, repository.MapPgError(err)
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return res, repository.MapPgError(err)
		}
		res.Items = append(res.Items, rec)
	}
	return res, repository.MapPgError(rows.Err())
}

func scanRecord(row pgx.Row) (model.PublishRecord, error) {
	var (
		rec    model.PublishRecord
		status string
	)
	if err := row.Scan(&rec.ID, &rec.Target, &rec.Comment, &status, &rec.Message, &rec.CreatedAt); err != nil {
		return model.PublishRecord{}, err
	}
	rec.Status = model.PublishStatus(status)
	return rec, nil
}

var _ repository.PublishHistoryRepository = (*historyRepository)(nil)
