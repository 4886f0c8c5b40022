package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// AnswerGenerator sends one combined user turn to a hosted model and returns
// its text answer.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, model string, parts []string) (string, error)
}

type geminiService struct {
	client          *genai.Client
	temperature     float32
	maxOutputTokens int32
}

func NewGeminiService(apiKey string, temperature float32, maxOutputTokens int32) (AnswerGenerator, error) {
	ctx := context.Background()

	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:          client,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

// GenerateAnswer implements AnswerGenerator. An empty answer is returned as
// is; only transport and API errors fail.
func (g *geminiService) GenerateAnswer(ctx context.Context, model string, parts []string) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxOutputTokens,
	}

	content := &genai.Content{Role: "user"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, []*genai.Content{content}, config)
	if err != nil {
		log.Error().Err(err).Str("model", model).Msg("❌ Gemini API error")
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		log.Warn().Str("model", model).Msg("⚠️ Gemini returned no text content")
	}

	return text, nil
}
