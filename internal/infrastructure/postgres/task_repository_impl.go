package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dayline-app/dayline/internal/domain/entity"
	"github.com/dayline-app/dayline/internal/domain/repository"
)

// TaskRepository scopes every read and write by owner_id so a foreign task is
// indistinguishable from a missing one at this layer already.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(t *entity.Task) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (owner_id, title, description, priority, due_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, t.OwnerID, t.Title, t.Description, t.Priority, t.DueDate, t.Completed)

	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) GetByID(id, ownerID string) (*entity.Task, error) {
	ctx := context.Background()
	t := &entity.Task{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, description, priority, due_date, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Priority,
		&t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return t, nil
}

func (r *TaskRepository) ListByOwner(ownerID string) ([]entity.Task, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, title, description, priority, due_date, completed, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Priority,
			&t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(t *entity.Task) error {
	ctx := context.Background()
	t.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, due_date = $4, completed = $5, updated_at = $6
		WHERE id = $7 AND owner_id = $8
	`, t.Title, t.Description, t.Priority, t.DueDate, t.Completed, t.UpdatedAt, t.ID, t.OwnerID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *TaskRepository) Delete(id, ownerID string) error {
	ctx := context.Background()

	res, err := r.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
