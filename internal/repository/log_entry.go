package repository

import (
	"context"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/database"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// timestamp is a keyword in postgres, so let gorm quote it
var timestampColumn = clause.Column{Name: "timestamp"}

// LogEntryRepository stores food and exercise entries
type LogEntryRepository struct {
	db *gorm.DB
}

func NewLogEntryRepository(db *gorm.DB) *LogEntryRepository {
	return &LogEntryRepository{db: db}
}

func (r *LogEntryRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	row := database.LogEntryFromDomain(*entry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err, "log entry")
	}
	*entry = row.ToDomain()
	return nil
}

// Get returns the entry only if it belongs to userID
func (r *LogEntryRepository) Get(ctx context.Context, userID, id uint) (*domain.LogEntry, error) {
	var row database.LogEntry
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&row).Error; err != nil {
		return nil, translate(err, "log entry")
	}
	e := row.ToDomain()
	return &e, nil
}

// List returns every entry of the user, newest first
func (r *LogEntryRepository) List(ctx context.Context, userID uint) ([]domain.LogEntry, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// ListSince returns the entries recorded at or after since, oldest first
func (r *LogEntryRepository) ListSince(ctx context.Context, userID uint, since time.Time) ([]domain.LogEntry, error) {
	rows := []database.LogEntry{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(clause.Gte{Column: timestampColumn, Value: since}).
		Order(clause.OrderByColumn{Column: timestampColumn}).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "log entry")
	}
	return toDomainEntries(rows), nil
}

// ListStarred returns the user's starred entries, newest first
func (r *LogEntryRepository) ListStarred(ctx context.Context, userID uint) ([]domain.LogEntry, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("user_id = ? AND starred = ?", userID, true))
}

// SetStarred updates the star flag and returns the updated entry
func (r *LogEntryRepository) SetStarred(ctx context.Context, userID, id uint, starred bool) (*domain.LogEntry, error) {
	result := r.db.WithContext(ctx).
		Model(&database.LogEntry{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("starred", starred)
	if result.Error != nil {
		return nil, translate(result.Error, "log entry")
	}
	if result.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "log entry")
	}
	return r.Get(ctx, userID, id)
}

func (r *LogEntryRepository) find(ctx context.Context, q *gorm.DB) ([]domain.LogEntry, error) {
	rows := []database.LogEntry{}
	if err := q.Order(clause.OrderByColumn{Column: timestampColumn, Desc: true}).Find(&rows).Error; err != nil {
		return nil, translate(err, "log entry")
	}
	return toDomainEntries(rows), nil
}

func toDomainEntries(rows []database.LogEntry) []domain.LogEntry {
	out := make([]domain.LogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out
}
