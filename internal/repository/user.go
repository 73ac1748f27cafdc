package repository

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/sweet-friend/internal/database"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account and fills in its ID
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	row := database.User{Username: user.Username, PasswordHash: user.PasswordHash}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err, "user")
	}
	user.ID = row.ID
	user.CreatedAt = row.CreatedAt
	return nil
}

// GetByUsername looks an account up by its login name
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row database.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		return nil, translate(err, "user")
	}
	u := row.ToDomain()
	return &u, nil
}

// GetByID gets a user by primary key
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var row database.User
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	u := row.ToDomain()
	return &u, nil
}

// Exists reports whether the username is taken
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var row database.User
	err := r.db.WithContext(ctx).Select("id").Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "user")
	}
	return true, nil
}
