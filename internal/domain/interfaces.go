package domain

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// UserRepository persists accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	Exists(ctx context.Context, username string) (bool, error)
}

// LogEntryRepository persists food and exercise entries
type LogEntryRepository interface {
	Create(ctx context.Context, entry *LogEntry) error
	Get(ctx context.Context, userID, id uint) (*LogEntry, error)
	List(ctx context.Context, userID uint) ([]LogEntry, error)
	ListSince(ctx context.Context, userID uint, since time.Time) ([]LogEntry, error)
	ListStarred(ctx context.Context, userID uint) ([]LogEntry, error)
	SetStarred(ctx context.Context, userID, id uint, starred bool) (*LogEntry, error)
}

// GlucoseRepository persists glucose readings
type GlucoseRepository interface {
	Add(ctx context.Context, reading *GlucoseReading) error
	Upsert(ctx context.Context, readings []GlucoseReading) (int, error)
	Since(ctx context.Context, userID uint, since time.Time) ([]GlucoseReading, error)
}

// DexcomTokenRepository persists the OAuth tokens of linked Dexcom accounts
type DexcomTokenRepository interface {
	Save(ctx context.Context, userID uint, tok *oauth2.Token) error
	Get(ctx context.Context, userID uint) (*oauth2.Token, error)
	ListUserIDs(ctx context.Context) ([]uint, error)
}

// AIProvider is the language model backend used by the chat, advice and image flows
type AIProvider interface {
	Chat(ctx context.Context, history []ChatMessage) (string, error)
	AnalyzeFoodImage(ctx context.Context, image []byte, mimeType string) (*FoodAnalysis, error)
	Complete(ctx context.Context, prompt string) (string, error)
}
