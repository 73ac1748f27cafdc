package state

import (
	"context"
	"sync"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
)

// MaxHistory caps the stored conversation per user
const MaxHistory = 20

// Temp data keys
const (
	KeyPendingAnalysis = "pending_analysis"
	KeyDexcomState     = "dexcom_state"
)

// Store keeps per-user conversation history and short-lived temporary data
type Store interface {
	History(ctx context.Context, userID uint) ([]domain.ChatMessage, error)
	AppendHistory(ctx context.Context, userID uint, msgs ...domain.ChatMessage) error
	ReplaceHistory(ctx context.Context, userID uint, msgs []domain.ChatMessage) error
	ClearHistory(ctx context.Context, userID uint) error
	SetTempData(ctx context.Context, userID uint, key, value string, ttl time.Duration) error
	GetTempData(ctx context.Context, userID uint, key string) (string, bool, error)
	ClearTempData(ctx context.Context, userID uint, key string) error
	Close() error
}

type tempValue struct {
	value   string
	expires time.Time
}

// Manager is the in-process Store used when no redis is configured
type Manager struct {
	history  map[uint][]domain.ChatMessage
	tempData map[uint]map[string]tempValue
	now      func() time.Time
	mu       sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		history:  make(map[uint][]domain.ChatMessage),
		tempData: make(map[uint]map[string]tempValue),
		now:      time.Now,
	}
}

// History returns a copy of the user's conversation
func (m *Manager) History(_ context.Context, userID uint) ([]domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ChatMessage, len(m.history[userID]))
	copy(out, m.history[userID])
	return out, nil
}

// AppendHistory adds messages, dropping the oldest past MaxHistory
func (m *Manager) AppendHistory(_ context.Context, userID uint, msgs ...domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[userID] = trim(append(m.history[userID], msgs...))
	return nil
}

// ReplaceHistory overwrites the user's conversation
func (m *Manager) ReplaceHistory(_ context.Context, userID uint, msgs []domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]domain.ChatMessage, len(msgs))
	copy(cp, msgs)
	m.history[userID] = trim(cp)
	return nil
}

// ClearHistory forgets the user's conversation
func (m *Manager) ClearHistory(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.history, userID)
	return nil
}

// SetTempData sets temporary data for a user
func (m *Manager) SetTempData(_ context.Context, userID uint, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tempData[userID] == nil {
		m.tempData[userID] = make(map[string]tempValue)
	}
	m.tempData[userID][key] = tempValue{value: value, expires: m.now().Add(ttl)}
	return nil
}

// GetTempData gets temporary data for a user
func (m *Manager) GetTempData(_ context.Context, userID uint, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, exists := m.tempData[userID][key]
	if !exists || m.now().After(v.expires) {
		return "", false, nil
	}
	return v.value, true, nil
}

// ClearTempData clears one temporary key for a user
func (m *Manager) ClearTempData(_ context.Context, userID uint, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tempData[userID], key)
	return nil
}

// Close is a no-op for the in-memory store
func (m *Manager) Close() error {
	return nil
}

func trim(msgs []domain.ChatMessage) []domain.ChatMessage {
	if len(msgs) > MaxHistory {
		return msgs[len(msgs)-MaxHistory:]
	}
	return msgs
}
