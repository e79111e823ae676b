package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
)

const targetColumns = `name, type, configuration, created_at, updated_at`

type targetRepository struct{ pool *pgxpool.Pool }

func NewPublishTargetRepository(pool *pgxpool.Pool) repository.PublishTargetRepository {
	return &targetRepository{pool: pool}
}

func (r *targetRepository) Create(ctx context.Context, t model.PublishTarget) (model.PublishTarget, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.PublishTarget{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO publish_targets (name, type, configuration) VALUES ($1, $2, $3)
		 RETURNING `+targetColumns,
		t.Name, t.Type, t.Configuration,
	)
	out, err := scanTarget(row)
	if err != nil {
		return model.PublishTarget{}, repository.MapPgError(err)
	}
	return out, nil
}

// Update matches current case-insensitively. Renaming cascades to
// publish_history through the foreign key.
func (r *targetRepository) Update(ctx context.Context, current string, t model.PublishTarget) (model.PublishTarget, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.PublishTarget{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE publish_targets
		 SET name = $2, type = $3, configuration = $4, updated_at = now()
		 WHERE lower(name) = lower($1)
		 RETURNING `+targetColumns,
		current, t.Name, t.Type, t.Configuration,
	)
	out, err := scanTarget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PublishTarget{}, repository.ErrNotFound
		}
		return model.PublishTarget{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *targetRepository) GetByName(ctx context.Context, name string) (model.PublishTarget, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.PublishTarget{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT `+targetColumns+` FROM publish_targets WHERE lower(name) = lower($1)`, name,
	)
	out, err := scanTarget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PublishTarget{}, repository.ErrNotFound
		}
		return model.PublishTarget{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *targetRepository) List(ctx context.Context) ([]model.PublishTarget, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+targetColumns+` FROM publish_targets ORDER BY lower(name)`,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := []model.PublishTarget{}
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, t)
	}
	return out, repository.MapPgError(rows.Err())
}

func (r *targetRepository) Delete(ctx context.Context, name string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM publish_targets WHERE lower(name) = lower($1)`, name)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTarget(row pgx.Row) (model.PublishTarget, error) {
	var t model.PublishTarget
	err := row.Scan(&t.Name, &t.Type, &t.Configuration, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

var _ repository.PublishTargetRepository = (*targetRepository)(nil)
