package services

import (
	"context"
	"strings"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/state"
)

// ChatInput is what the client sent: a single message or a full history
type ChatInput struct {
	Message string
	History []domain.ChatMessage
}

// ChatService keeps the per-user conversation and asks the model for replies
type ChatService struct {
	ai    domain.AIProvider
	state state.Store
}

func NewChatService(ai domain.AIProvider, store state.Store) *ChatService {
	return &ChatService{ai: ai, state: store}
}

// Send records the user's turn, asks the model and records the reply.
// A History replaces the stored conversation; its last message must come from the user.
func (s *ChatService) Send(ctx context.Context, userID uint, in ChatInput) (string, error) {
	if in.History != nil {
		if err := s.replace(ctx, userID, in.History); err != nil {
			return "", err
		}
	} else {
		msg := strings.TrimSpace(in.Message)
		if msg == "" {
			return "", apperrors.NewValidationError("message cannot be empty")
		}
		if err := s.state.AppendHistory(ctx, userID, domain.ChatMessage{Content: msg, Sender: domain.SenderUser}); err != nil {
			return "", apperrors.NewInternalError(err)
		}
	}

	history, err := s.state.History(ctx, userID)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	reply, err := s.ai.Chat(ctx, history)
	if err != nil {
		logger.WithContext(ctx).Error("Chat completion failed", "user_id", userID, "error", err)
		return "", apperrors.NewExternalAPIError(err, "AI")
	}

	if err := s.state.AppendHistory(ctx, userID, domain.ChatMessage{Content: reply, Sender: domain.SenderRobot}); err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return reply, nil
}

// History returns the stored conversation
func (s *ChatService) History(ctx context.Context, userID uint) ([]domain.ChatMessage, error) {
	h, err := s.state.History(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return h, nil
}

// Reset forgets the conversation
func (s *ChatService) Reset(ctx context.Context, userID uint) error {
	if err := s.state.ClearHistory(ctx, userID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *ChatService) replace(ctx context.Context, userID uint, history []domain.ChatMessage) error {
	if len(history) == 0 {
		return apperrors.NewValidationError("message cannot be empty")
	}
	for _, m := range history {
		if m.Sender != domain.SenderUser && m.Sender != domain.SenderRobot {
			return apperrors.NewValidationError("sender must be user or robot")
		}
	}
	last := history[len(history)-1]
	if last.Sender != domain.SenderUser || strings.TrimSpace(last.Content) == "" {
		return apperrors.NewValidationError("the last message must be a non-empty user message")
	}
	if err := s.state.ReplaceHistory(ctx, userID, history); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
