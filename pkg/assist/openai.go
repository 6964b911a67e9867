package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	defaultModel          = openai.ChatModelGPT5Mini2025_08_07
	maxOutputTokens int64 = 512
)

// OpenAIService calls OpenAI's Responses API for summaries and chat.
type OpenAIService struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIService builds a Service on the given API key. The model is
// optional; empty selects the default.
func NewOpenAIService(apiKey, model string) (*OpenAIService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrDisabled
	}
	m := openai.ChatModel(model)
	if model == "" {
		m = defaultModel
	}
	return &OpenAIService{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}, nil
}

func (s *OpenAIService) Summarize(ctx context.Context, texts []string) (string, error) {
	if len(texts) == 0 {
		return "", errors.New("no messages to summarize")
	}
	return s.generate(ctx, chatPersona, buildSummaryPrompt(texts))
}

func (s *OpenAIService) Chat(ctx context.Context, history []ChatTurn, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", errors.New("empty chat message")
	}
	return s.generate(ctx, chatPersona, buildChatPrompt(history, userText))
}

func (s *OpenAIService) generate(ctx context.Context, instructions, input string) (string, error) {
	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           s.model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(input),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}
	return out, nil
}
