package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"google.golang.org/api/option"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	geminiModel = "gemini-1.5-flash"
	openaiModel = openai.GPT4o
)

const chatSystemPrompt = `You are Sweet Friend, a friendly assistant for people living with diabetes.
Answer questions about carbohydrates, meals, exercise and glucose trends in plain language.
Keep answers short and practical. You are not a doctor: for dosing decisions or
emergencies always tell the user to contact their care team.`

const foodImagePrompt = `You are a certified diabetes educator specializing in nutrition analysis.
Analyze the meal in the image and estimate its carbohydrate content for diabetes management.

TASK:
1. Identify the meal
2. Estimate total carbohydrates in grams based on standard nutritional databases
3. Explain briefly how you reached the number

REQUIREMENTS:
- Include visible ingredients and likely hidden ingredients that contain carbs
- Consider portion sizes carefully
- If the image shows nutritional information or packaging, prioritize that data

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object
- Do not include any text before or after the JSON
- The JSON must have these exact fields:
  {
    "meal_name": "Spaghetti bolognese",
    "total_carbs": 62.5,
    "reason": "One plate of pasta (about 200 g cooked) plus tomato sauce"
  }`

// AIService talks to Gemini or OpenAI depending on the configured provider
type AIService struct {
	provider     string
	geminiClient *genai.Client
	openaiClient *openai.Client
}

var _ domain.AIProvider = (*AIService)(nil)

// NewAIService creates the clients for whichever keys are present and checks that
// the selected provider has one.
func NewAIService(ctx context.Context, provider, geminiAPIKey, openaiAPIKey string) (*AIService, error) {
	s := &AIService{provider: strings.ToLower(provider)}

	if geminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(geminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
	}
	if openaiAPIKey != "" {
		s.openaiClient = openai.NewClient(openaiAPIKey)
	}

	switch s.provider {
	case ProviderGemini:
		if s.geminiClient == nil {
			return nil, errors.New("gemini provider selected but GEMINI_API_KEY is empty")
		}
	case ProviderOpenAI:
		if s.openaiClient == nil {
			return nil, errors.New("openai provider selected but OPENAI_API_KEY is empty")
		}
	default:
		return nil, fmt.Errorf("unknown AI provider %q", provider)
	}
	return s, nil
}

// NewOpenAIService wraps an already configured OpenAI client
func NewOpenAIService(client *openai.Client) *AIService {
	return &AIService{provider: ProviderOpenAI, openaiClient: client}
}

// Provider returns the name of the active backend
func (s *AIService) Provider() string {
	return s.provider
}

// Close releases the Gemini client
func (s *AIService) Close() error {
	if s.geminiClient != nil {
		return s.geminiClient.Close()
	}
	return nil
}

// Chat answers the last user message given the whole conversation
func (s *AIService) Chat(ctx context.Context, history []domain.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", errors.New("empty conversation")
	}
	if s.provider == ProviderOpenAI {
		return s.chatWithOpenAI(ctx, history)
	}
	return s.chatWithGemini(ctx, history)
}

// Complete answers a single prompt
func (s *AIService) Complete(ctx context.Context, prompt string) (string, error) {
	return s.Chat(ctx, []domain.ChatMessage{{Content: prompt, Sender: domain.SenderUser}})
}

// AnalyzeFoodImage estimates the carbs of the meal in the image
func (s *AIService) AnalyzeFoodImage(ctx context.Context, image []byte, mimeType string) (*domain.FoodAnalysis, error) {
	var (
		text string
		err  error
	)
	if s.provider == ProviderOpenAI {
		text, err = s.analyzeWithOpenAI(ctx, image, mimeType)
	} else {
		text, err = s.analyzeWithGemini(ctx, image, mimeType)
	}
	if err != nil {
		return nil, err
	}
	return parseFoodAnalysis(text)
}

func (s *AIService) chatWithGemini(ctx context.Context, history []domain.ChatMessage) (string, error) {
	model := s.geminiClient.GenerativeModel(geminiModel)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(chatSystemPrompt)}}

	cs := model.StartChat()
	cs.History = toGeminiHistory(history[:len(history)-1])

	resp, err := cs.SendMessage(ctx, genai.Text(history[len(history)-1].Content))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return geminiText(resp)
}

func (s *AIService) analyzeWithGemini(ctx context.Context, image []byte, mimeType string) (string, error) {
	model := s.geminiClient.GenerativeModel(geminiModel)

	// genai.ImageData wants the subtype only, e.g. "jpeg"
	format := strings.TrimPrefix(mimeType, "image/")
	resp, err := model.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(foodImagePrompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return geminiText(resp)
}

func (s *AIService) chatWithOpenAI(ctx context.Context, history []domain.ChatMessage) (string, error) {
	resp, err := s.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    openaiModel,
		Messages: toOpenAIMessages(history),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	return openAIText(resp)
}

func (s *AIService) analyzeWithOpenAI(ctx context.Context, image []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	resp, err := s.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openaiModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: foodImagePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	return openAIText(resp)
}

func toGeminiHistory(history []domain.ChatMessage) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Sender == domain.SenderRobot {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return out
}

func toOpenAIMessages(history []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Sender == domain.SenderRobot {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from Gemini")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text in Gemini response")
	}
	return sb.String(), nil
}

func openAIText(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseFoodAnalysis(text string) (*domain.FoodAnalysis, error) {
	// Extract JSON from the response, handling code blocks or text wrapping
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		logger.Warn("No JSON in food analysis reply", "reply", text)
		return nil, fmt.Errorf("no valid JSON found in response")
	}
	var result domain.FoodAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.MealName == "" {
		return nil, errors.New("response has no meal name")
	}
	if result.TotalCarbs < 0 {
		result.TotalCarbs = 0
	}
	return &result, nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
