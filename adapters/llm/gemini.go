package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

// GeminiClient implements the ContentGenerator interface using Google's Gemini API
type GeminiClient struct {
	models *genai.Models
	logger *zap.Logger
}

// Ensure GeminiClient implements the ContentGenerator interface
var _ repositories.ContentGenerator = (*GeminiClient)(nil)

// NewGeminiClient creates a new Gemini client for an API key
func NewGeminiClient(ctx context.Context, apiKey string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		models: client.Models,
		logger: logger,
	}, nil
}

// NewGeminiClientFactory returns a factory that creates Gemini clients on demand
func NewGeminiClientFactory(logger *zap.Logger) repositories.ContentGeneratorFactory {
	return func(ctx context.Context, apiKey string) (repositories.ContentGenerator, error) {
		return NewGeminiClient(ctx, apiKey, logger)
	}
}

// GenerateText sends the instruction and the inline audio in a single user turn
func (g *GeminiClient) GenerateText(ctx context.Context, req repositories.GenerateRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(req.Instruction),
			genai.NewPartFromBytes(req.Audio, req.MIMEType),
		}, genai.RoleUser),
	}

	g.logger.Debug("Sending generate content request",
		zap.String("model", req.Model),
		zap.String("mimeType", req.MIMEType),
		zap.Int("audioSize", len(req.Audio)))

	response, err := g.models.GenerateContent(ctx, req.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return responseText(response), nil
}

// responseText joins the text parts of the first candidate
func responseText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 {
		return ""
	}

	candidate := response.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	return text.String()
}
