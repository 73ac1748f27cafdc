package repository

import (
	"errors"

	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"gorm.io/gorm"
)

// Repositories bundles every gorm-backed store over one connection
type Repositories struct {
	Users        *UserRepository
	LogEntries   *LogEntryRepository
	Glucose      *GlucoseRepository
	DexcomTokens *DexcomTokenRepository
}

// New creates all repositories sharing db
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		LogEntries:   NewLogEntryRepository(db),
		Glucose:      NewGlucoseRepository(db),
		DexcomTokens: NewDexcomTokenRepository(db),
	}
}

// translate maps gorm failures onto the application error taxonomy
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(resource)
	}
	return apperrors.NewDatabaseError(err).WithContext("resource", resource)
}
