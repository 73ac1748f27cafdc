package testutil

import (
	"context"
	"sync"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
)

// FakeAI is a scripted AIProvider that records what it was asked
type FakeAI struct {
	mu sync.Mutex

	Reply    string
	Analysis *domain.FoodAnalysis
	Err      error

	ChatCalls  [][]domain.ChatMessage
	Prompts    []string
	ImageMimes []string
}

func (f *FakeAI) Chat(_ context.Context, history []domain.ChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]domain.ChatMessage, len(history))
	copy(cp, history)
	f.ChatCalls = append(f.ChatCalls, cp)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

func (f *FakeAI) AnalyzeFoodImage(_ context.Context, _ []byte, mimeType string) (*domain.FoodAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ImageMimes = append(f.ImageMimes, mimeType)
	if f.Err != nil {
		return nil, f.Err
	}
	a := *f.Analysis
	return &a, nil
}

func (f *FakeAI) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}
