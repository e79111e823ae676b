package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
)

type projectRepository struct{ pool *pgxpool.Pool }

func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Upsert(ctx context.Context, p model.BotProject) (model.BotProject, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.BotProject{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO bot_projects (name, path, date_modified) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET path = EXCLUDED.path, date_modified = EXCLUDED.date_modified
		 RETURNING name, path, date_modified`,
		p.Name, p.Path, p.DateModified,
	)
	var out model.BotProject
	if err := row.Scan(&out.Name, &out.Path, &out.DateModified); err != nil {
		return model.BotProject{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *projectRepository) ListRecent(ctx context.Context, limit int) ([]model.BotProject, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT name, path, date_modified FROM bot_projects
		 ORDER BY date_modified DESC, name
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]model.BotProject, 0, limit)
	for rows.Next() {
		var p model.BotProject
		if err := rows.Scan(&p.Name, &p.Path, &p.DateModified); err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, p)
	}
	return out, repository.MapPgError(rows.Err())
}

func (r *projectRepository) Delete(ctx context.Context, name string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM bot_projects WHERE name = $1`, name)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ProjectRepository = (*projectRepository)(nil)
