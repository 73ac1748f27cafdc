package interfaces

import (
	"context"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"github.com/vladimiradmaev/sweet-friend/internal/logbook"
	"github.com/vladimiradmaev/sweet-friend/internal/services"
)

// UserServiceInterface defines the contract for account operations
type UserServiceInterface interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
}

// ChatServiceInterface defines the contract for the chatbot
type ChatServiceInterface interface {
	Send(ctx context.Context, userID uint, in services.ChatInput) (string, error)
	History(ctx context.Context, userID uint) ([]domain.ChatMessage, error)
	Reset(ctx context.Context, userID uint) error
}

// FoodAnalysisServiceInterface defines the contract for meal photo analysis
type FoodAnalysisServiceInterface interface {
	AnalyzeImage(ctx context.Context, userID uint, up services.Upload) (*domain.FoodAnalysis, error)
	PendingAnalysis(ctx context.Context, userID uint) (*domain.FoodAnalysis, error)
	ClearPending(ctx context.Context, userID uint) error
}

// LogServiceInterface defines the contract for food and exercise entries
type LogServiceInterface interface {
	Create(ctx context.Context, userID uint, entryType domain.EntryType, entry *domain.LogEntry) (*domain.LogEntry, error)
	CreateFromForm(ctx context.Context, userID uint, form logbook.EntryForm) (*domain.LogEntry, error)
	List(ctx context.Context, userID uint, f logbook.Filter, s logbook.Sort) ([]domain.LogEntry, error)
	Since(ctx context.Context, userID uint, since time.Time) ([]domain.LogEntry, error)
	Get(ctx context.Context, userID, id uint) (*domain.LogEntry, error)
	ToggleStar(ctx context.Context, userID, id uint, starred bool) (*domain.LogEntry, error)
	Starred(ctx context.Context, userID uint) ([]domain.LogEntry, error)
}

// GlucoseServiceInterface defines the contract for glucose readings
type GlucoseServiceInterface interface {
	AddReading(ctx context.Context, userID uint, value float64, at time.Time) (*domain.GlucoseReading, error)
	Readings(ctx context.Context, userID uint, since time.Time) ([]domain.GlucoseReading, error)
	Recent(ctx context.Context, userID uint, window time.Duration) ([]domain.GlucoseReading, error)
}

// AdviceServiceInterface defines the contract for AI suggestions
type AdviceServiceInterface interface {
	Advice(ctx context.Context, userID uint) (string, error)
}

// DexcomServiceInterface defines the contract for the CGM integration
type DexcomServiceInterface interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, userID uint, code string) error
	Linked(ctx context.Context, userID uint) (bool, error)
	Sync(ctx context.Context, userID uint, window time.Duration) (int, error)
}

var (
	_ UserServiceInterface         = (*services.UserService)(nil)
	_ ChatServiceInterface         = (*services.ChatService)(nil)
	_ FoodAnalysisServiceInterface = (*services.FoodAnalysisService)(nil)
	_ LogServiceInterface          = (*services.LogService)(nil)
	_ GlucoseServiceInterface      = (*services.GlucoseService)(nil)
	_ AdviceServiceInterface       = (*services.AdviceService)(nil)
	_ DexcomServiceInterface       = (*services.DexcomService)(nil)
)
