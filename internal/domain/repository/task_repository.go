package repository

import "github.com/dayline-app/dayline/internal/domain/entity"

// TaskRepository defines the interface for task-related database operations.
// Every lookup is scoped by owner: a task that exists but belongs to someone
// else behaves exactly like a missing one (ErrNotFound).
type TaskRepository interface {
	Create(t *entity.Task) error
	GetByID(id, ownerID string) (*entity.Task, error)
	ListByOwner(ownerID string) ([]entity.Task, error)
	Update(t *entity.Task) error
	Delete(id, ownerID string) error
}
