package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayline-app/dayline/internal/domain/entity"
	"github.com/dayline-app/dayline/internal/domain/repository"
	"github.com/dayline-app/dayline/pkg/helpers"
)

type userRepoStub struct {
	users map[string]*entity.User
	seq   int
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]*entity.User)}
}

func (s *userRepoStub) Create(u *entity.User) error {
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	s.seq++
	u.ID = fmt.Sprintf("user-%d", s.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *userRepoStub) GetByID(id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userRepoStub) GetByEmail(email string) (*entity.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *userRepoStub) Update(u *entity.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range s.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	u.UpdatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *userRepoStub) UpdatePassword(id, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

// brokenUserRepo fails every call with a fixed storage error.
type brokenUserRepo struct{ err error }

func (b *brokenUserRepo) Create(*entity.User) error               { return b.err }
func (b *brokenUserRepo) GetByID(string) (*entity.User, error)    { return nil, b.err }
func (b *brokenUserRepo) GetByEmail(string) (*entity.User, error) { return nil, b.err }
func (b *brokenUserRepo) Update(*entity.User) error               { return b.err }
func (b *brokenUserRepo) UpdatePassword(string, string) error     { return b.err }

func newTestUserService() (*UserService, *userRepoStub) {
	repo := newUserRepoStub()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewUserService(repo, jwt, nil, nil), repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestUserService()

	u, token, err := svc.Register(context.Background(), "Alice", "Alice@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.NotEmpty(t, u.ID)

	// plaintext never stored
	stored := repo.users[u.ID]
	assert.NotEqual(t, "password123", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "password123"))

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestRegisterWhitespaceName(t *testing.T) {
	svc, _ := newTestUserService()

	_, _, err := svc.Register(context.Background(), "   ", "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	// case differs, name and password differ; still a conflict
	_, _, err = svc.Register(ctx, "Someone Else", "ALICE@example.com", "otherpassword")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "pw1-long-enough")
	require.NoError(t, err)

	// wrong password and unknown email are indistinguishable
	_, _, errWrongPw := svc.Login(ctx, "alice@example.com", "pw2-long-enough")
	_, _, errNoUser := svc.Login(ctx, "nobody@example.com", "pw1-long-enough")

	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPw, errNoUser)
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	reg, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "Alice@Example.COM", "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.NotEmpty(t, token)
}

func TestGetProfileNotFound(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	// only name supplied; email untouched
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: "Alice B"})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)

	// only email supplied; normalized on write
	updated, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Email: "Alice.New@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice.new@example.com", updated.Email)
	assert.Equal(t, "Alice B", updated.Name)

	// whitespace-only name counts as absent, never stored
	updated, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: "   "})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	bob, _, err := svc.Register(ctx, "Bob", "bob@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, bob.ID, UpdateProfileInput{Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// keeping your own email is not a conflict
	_, err = svc.UpdateProfile(ctx, bob.ID, UpdateProfileInput{Email: "BOB@example.com", Name: "Robert"})
	assert.NoError(t, err)
}

func TestStorageErrorsSurface(t *testing.T) {
	boom := errors.New("connection reset by peer")
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	svc := NewUserService(&brokenUserRepo{err: boom}, jwt, nil, nil)
	ctx := context.Background()

	// infrastructure failures are not the same as a missing account
	_, err := svc.GetProfile(ctx, "user-1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	_, err = svc.UpdateProfile(ctx, "user-1", UpdateProfileInput{Name: "Alice"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	err = svc.ChangePassword(ctx, "user-1", "oldpassword", "newpassword1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	// login keeps folding everything into the generic credential error
	_, _, err = svc.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "Alice", "alice@example.com", "oldpassword")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, "wrongpassword", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, u.ID, "oldpassword", "newpassword1")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "alice@example.com", "newpassword1")
	assert.NoError(t, err)
}
