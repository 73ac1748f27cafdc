package repository

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/sweet-friend/internal/database"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DexcomTokenRepository keeps one OAuth token per user
type DexcomTokenRepository struct {
	db *gorm.DB
}

func NewDexcomTokenRepository(db *gorm.DB) *DexcomTokenRepository {
	return &DexcomTokenRepository{db: db}
}

// Save stores or replaces the user's token
func (r *DexcomTokenRepository) Save(ctx context.Context, userID uint, tok *oauth2.Token) error {
	row := database.DexcomToken{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "token_type", "expiry", "updated_at"}),
	}).Create(&row).Error
	return translate(err, "dexcom token")
}

// Get returns the stored token, or nil if the user never connected Dexcom
func (r *DexcomTokenRepository) Get(ctx context.Context, userID uint) (*oauth2.Token, error) {
	var row database.DexcomToken
	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "dexcom token")
	}
	return &oauth2.Token{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		TokenType:    row.TokenType,
		Expiry:       row.Expiry,
	}, nil
}

// ListUserIDs returns every user with a stored token
func (r *DexcomTokenRepository) ListUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&database.DexcomToken{}).Pluck("user_id", &ids).Error; err != nil {
		return nil, translate(err, "dexcom token")
	}
	return ids, nil
}
