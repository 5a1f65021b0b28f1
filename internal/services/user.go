package services

import (
	"context"
	"errors"

	"github.com/stocktrack/apiserver/internal/apperr"
	"github.com/stocktrack/apiserver/internal/store"
	"github.com/stocktrack/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates registration and login use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register validates the credentials, hashes the password, and persists a
// new user. The returned user never carries the plaintext password.
func (s *UserService) Register(ctx context.Context, username, password string) (types.User, error) {
	if username == "" || password == "" {
		return types.User{}, apperr.Validation("Username and password are required")
	}
	if len(username) < minUsernameLength {
		return types.User{}, apperr.Validation("Username must be at least 3 characters long")
	}
	if len(password) < minPasswordLength {
		return types.User{}, apperr.Validation("Password must be at least 6 characters long")
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return types.User{}, apperr.Conflict("Username already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, apperr.Internal("Internal server error", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, apperr.Internal("Internal server error", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     username,
		PasswordHash: string(hashed),
	})
	if err != nil {
		// The unique index is authoritative; a concurrent registration can
		// slip past the pre-check above.
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, apperr.Conflict("Username already exists")
		}
		return types.User{}, apperr.Internal("Internal server error", err)
	}

	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords fail identically so usernames cannot be enumerated.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	if username == "" || password == "" {
		return types.User{}, apperr.Validation("Username and password are required")
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, apperr.Auth("Invalid credentials")
		}
		return types.User{}, apperr.Internal("Internal server error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, apperr.Auth("Invalid credentials")
	}

	return user, nil
}

// GetByID loads a user by id. Used by the auth middleware to confirm the
// token's subject still exists.
func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, apperr.NotFound("User not found")
		}
		return types.User{}, apperr.Internal("Internal server error", err)
	}
	return user, nil
}
