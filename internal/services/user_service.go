package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
	minPasswordLen = 8
)

// UserService registers and authenticates accounts
type UserService struct {
	users domain.UserRepository
	cost  int
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users, cost: bcrypt.DefaultCost}
}

// Register creates an account; a taken username is a validation error
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, apperrors.NewValidationError("username must be between 3 and 64 characters")
	}
	if len(password) < minPasswordLen {
		return nil, apperrors.NewValidationError("password must be at least 8 characters long")
	}

	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewValidationError("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("User registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks the credentials and returns the account
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid username or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid username or password")
	}
	return user, nil
}

// GetByID loads an account
func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
