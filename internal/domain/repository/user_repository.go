package repository

import (
	"errors"

	"github.com/dayline-app/dayline/internal/domain/entity"
)

// Sentinel errors shared by every repository implementation.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(u *entity.User) error
	UpdatePassword(id, passwordHash string) error
}
