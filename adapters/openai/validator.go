package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	defaultValidateTimeout = 10 * time.Second
)

// KeyValidator checks Gemini API keys by listing models through the
// OpenAI-compatible endpoint
type KeyValidator struct {
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// Ensure KeyValidator implements the APIKeyValidator interface
var _ repositories.APIKeyValidator = (*KeyValidator)(nil)

// NewKeyValidator creates a validator against baseURL; an empty baseURL
// selects DefaultBaseURL
func NewKeyValidator(baseURL string, logger *zap.Logger) *KeyValidator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
		logger.Info("Using default validation base URL", zap.String("baseURL", baseURL))
	}

	return &KeyValidator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: defaultValidateTimeout,
		logger:  logger,
	}
}

// ValidateAPIKey implements repositories.APIKeyValidator
func (v *KeyValidator) ValidateAPIKey(ctx context.Context, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%w: API key is empty", domain.ErrConfiguration)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	config := goopenai.DefaultConfig(apiKey)
	config.BaseURL = v.baseURL
	client := goopenai.NewClientWithConfig(config)

	models, err := client.ListModels(ctx)
	if err != nil {
		v.logger.Error("Failed to validate API key with Gemini backend", zap.Error(err))
		return fmt.Errorf("%w: invalid API key or Gemini API error: %v", domain.ErrConfiguration, err)
	}

	v.logger.Info("API key validated", zap.Int("models", len(models.Models)))
	return nil
}
