package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"gorm.io/gorm"
)

// Files holds the SQL migrations shipped with the binary
//
//go:embed *.sql
var Files embed.FS

// Migration represents a database migration
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

var (
	mu         sync.Mutex
	migrations = make(map[string]Migration)
)

// Register adds a new migration to the registry
func Register(id string, up, down func(*gorm.DB) error) {
	mu.Lock()
	defer mu.Unlock()
	migrations[id] = Migration{
		ID:   id,
		Up:   up,
		Down: down,
	}
}

// Pending returns the IDs not yet recorded in the database, in run order
func Pending(db *gorm.DB) ([]string, error) {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return nil, fmt.Errorf("failed to get executed migrations: %w", err)
	}
	done := make(map[string]bool, len(executed))
	for _, m := range executed {
		done[m.ID] = true
	}

	mu.Lock()
	defer mu.Unlock()
	var ids []string
	for id := range migrations {
		if !done[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// RunMigrations executes all pending migrations, each in its own transaction,
// and returns the IDs it applied
func RunMigrations(db *gorm.DB) ([]string, error) {
	ids, err := Pending(db)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(ids))

	for _, id := range ids {
		mu.Lock()
		migration := migrations[id]
		mu.Unlock()

		logger.Info("Running migration", "id", id)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: id}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		applied = append(applied, id)
		logger.Info("Completed migration", "id", id)
	}

	return applied, nil
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// LoadSQLMigrations registers every .sql file found at the root of fsys
func LoadSQLMigrations(fsys fs.FS) error {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		id := strings.TrimSuffix(file.Name(), ".sql")

		content, err := fs.ReadFile(fsys, file.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		statements := splitStatements(string(content))
		Register(id, func(db *gorm.DB) error {
			for _, stmt := range statements {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		}, nil) // No down migration for SQL files
	}

	return nil
}

// splitStatements breaks a file on ';' so drivers that reject multi-statement Exec still work
func splitStatements(sql string) []string {
	var out []string
	for _, part := range strings.Split(sql, ";") {
		lines := strings.Split(part, "\n")
		kept := lines[:0]
		for _, l := range lines {
			if !strings.HasPrefix(strings.TrimSpace(l), "--") {
				kept = append(kept, l)
			}
		}
		if stmt := strings.TrimSpace(strings.Join(kept, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
