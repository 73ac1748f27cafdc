package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
)

// historyTTL expires idle conversations
const historyTTL = 24 * time.Hour

// RedisManager keeps state in redis so it survives restarts and is shared between instances
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager creates a new Redis-based state manager
func NewRedisManager(addr, password string) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisManager{client: client}, nil
}

func historyKey(userID uint) string {
	return fmt.Sprintf("user:%d:chat", userID)
}

func tempKey(userID uint, key string) string {
	return fmt.Sprintf("user:%d:temp:%s", userID, key)
}

// History returns the stored conversation, oldest first
func (m *RedisManager) History(ctx context.Context, userID uint) ([]domain.ChatMessage, error) {
	raw, err := m.client.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}
	out := make([]domain.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg domain.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// AppendHistory pushes messages and trims the list to MaxHistory
func (m *RedisManager) AppendHistory(ctx context.Context, userID uint, msgs ...domain.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := m.writeHistory(ctx, userID, msgs, false); err != nil {
		return fmt.Errorf("failed to append chat history: %w", err)
	}
	return nil
}

// ReplaceHistory overwrites the conversation in a single MULTI/EXEC
func (m *RedisManager) ReplaceHistory(ctx context.Context, userID uint, msgs []domain.ChatMessage) error {
	if err := m.writeHistory(ctx, userID, msgs, true); err != nil {
		return fmt.Errorf("failed to reset chat history: %w", err)
	}
	return nil
}

func (m *RedisManager) writeHistory(ctx context.Context, userID uint, msgs []domain.ChatMessage, reset bool) error {
	values := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	key := historyKey(userID)
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if reset {
			pipe.Del(ctx, key)
		}
		if len(values) == 0 {
			return nil
		}
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, -MaxHistory, -1)
		pipe.Expire(ctx, key, historyTTL)
		return nil
	})
	return err
}

// ClearHistory forgets the conversation
func (m *RedisManager) ClearHistory(ctx context.Context, userID uint) error {
	return m.client.Del(ctx, historyKey(userID)).Err()
}

// SetTempData sets temporary data for a user with TTL
func (m *RedisManager) SetTempData(ctx context.Context, userID uint, key, value string, ttl time.Duration) error {
	return m.client.Set(ctx, tempKey(userID, key), value, ttl).Err()
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(ctx context.Context, userID uint, key string) (string, bool, error) {
	val, err := m.client.Get(ctx, tempKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// ClearTempData clears one temporary key for a user
func (m *RedisManager) ClearTempData(ctx context.Context, userID uint, key string) error {
	return m.client.Del(ctx, tempKey(userID, key)).Err()
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}
