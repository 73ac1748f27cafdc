package repository

import (
	"context"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/database"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GlucoseRepository stores glucose readings keyed by (user, system time)
type GlucoseRepository struct {
	db *gorm.DB
}

func NewGlucoseRepository(db *gorm.DB) *GlucoseRepository {
	return &GlucoseRepository{db: db}
}

func (r *GlucoseRepository) Add(ctx context.Context, reading *domain.GlucoseReading) error {
	row := toGlucoseRow(*reading)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err, "glucose reading")
	}
	*reading = row.ToDomain()
	return nil
}

// Upsert inserts readings, overwriting the value of any reading already stored
// for the same user and time. It returns the number of rows written.
func (r *GlucoseRepository) Upsert(ctx context.Context, readings []domain.GlucoseReading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}
	rows := make([]database.GlucoseReading, 0, len(readings))
	for _, reading := range readings {
		rows = append(rows, toGlucoseRow(reading))
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "system_time"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "source"}),
	}).CreateInBatches(&rows, 200)
	if result.Error != nil {
		return 0, translate(result.Error, "glucose reading")
	}
	return int(result.RowsAffected), nil
}

// Since returns the user's readings at or after since, oldest first
func (r *GlucoseRepository) Since(ctx context.Context, userID uint, since time.Time) ([]domain.GlucoseReading, error) {
	rows := []database.GlucoseReading{}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND system_time >= ?", userID, since).
		Order("system_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "glucose reading")
	}
	out := make([]domain.GlucoseReading, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out, nil
}

func toGlucoseRow(r domain.GlucoseReading) database.GlucoseReading {
	source := r.Source
	if source == "" {
		source = "manual"
	}
	return database.GlucoseReading{
		ID:         r.ID,
		UserID:     r.UserID,
		SystemTime: r.Time.UTC(),
		Value:      r.Value,
		Source:     source,
	}
}
