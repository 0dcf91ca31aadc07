package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dayline-app/dayline/internal/domain/entity"
	repo "github.com/dayline-app/dayline/internal/domain/repository"
	"github.com/dayline-app/dayline/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNameRequired       = errors.New("name is required")
)

const profileCacheTTL = 15 * time.Minute

// UserService owns registration, login and account maintenance. Tokens are
// issued here; the Redis client is optional and only backs a read-through
// profile cache.
type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, JWT: jwt, Redis: rdb, Logger: logger}
}

// NormalizeEmail lowercases and trims; the users table enforces uniqueness on
// the lowercased value.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

// cachedProfile deliberately excludes the password hash.
type cachedProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Register creates the account and signs a session token.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", ErrNameRequired
	}
	email = NormalizeEmail(email)

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &entity.User{Email: email, Password: hash, Name: name}
	if err := s.Repo.Create(u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", err
	}

	s.cacheProfile(ctx, u)
	return u, token, nil
}

// Login validates credentials and issues a token. Unknown email and wrong
// password return the same error so account existence never leaks.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(NormalizeEmail(email))
	if err != nil || u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", err
	}

	s.cacheProfile(ctx, u)
	return u, token, nil
}

// GetProfile returns the account behind userID, consulting the cache first.
// The returned user never carries the password hash when served from cache.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if s.Redis != nil {
		var p cachedProfile
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(userID), &p); err == nil && ok {
			return &entity.User{ID: p.ID, Email: p.Email, Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}, nil
		}
	}

	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.cacheProfile(ctx, u)
	return u, nil
}

type UpdateProfileInput struct {
	Name  string
	Email string
}

// UpdateProfile applies only the supplied fields. A new email colliding with a
// different account yields ErrEmailTaken.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// a name that trims to nothing counts as absent
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if in.Email != "" {
		newEmail := NormalizeEmail(in.Email)
		if newEmail != NormalizeEmail(u.Email) {
			if other, err := s.Repo.GetByEmail(newEmail); err == nil && other != nil && other.ID != u.ID {
				return nil, ErrEmailTaken
			}
		}
		u.Email = newEmail
	}

	if err := s.Repo.Update(u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.cacheProfile(ctx, u)
	return u, nil
}

// ChangePassword swaps the stored hash after verifying the current password.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, currentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(u.ID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, profileKey(u.ID))
	}
	return nil
}

func (s *UserService) cacheProfile(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	p := cachedProfile{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
	if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(u.ID), p, profileCacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache write failed")
	}
}
