package stt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
	"github.com/satriahrh/gemini-cloud-stt/internal/audio"
)

// DefaultTimeout bounds a transcription from the start of the remote step,
// client construction included, to the receipt of the response.
const DefaultTimeout = 10 * time.Second

// GeminiSpeechToText is the speech-to-text entity backed by Gemini
type GeminiSpeechToText struct {
	config    entities.ProviderConfig
	newClient repositories.ContentGeneratorFactory
	timeout   time.Duration
	logger    *zap.Logger

	// mu guards the lazily created client; it is only ever set once.
	mu     sync.Mutex
	client repositories.ContentGenerator
}

// Ensure GeminiSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*GeminiSpeechToText)(nil)

// Option customizes a GeminiSpeechToText
type Option func(*GeminiSpeechToText)

// WithTimeout overrides the transcription deadline
func WithTimeout(timeout time.Duration) Option {
	return func(g *GeminiSpeechToText) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// NewGeminiSpeechToText creates a provider for config. The Gemini client is
// not created until the first transcription.
func NewGeminiSpeechToText(
	config entities.ProviderConfig,
	newClient repositories.ContentGeneratorFactory,
	logger *zap.Logger,
	opts ...Option,
) (*GeminiSpeechToText, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if newClient == nil {
		return nil, fmt.Errorf("%w: client factory is required", domain.ErrConfiguration)
	}

	g := &GeminiSpeechToText{
		config:    config,
		newClient: newClient,
		timeout:   DefaultTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Name implements repositories.SpeechToText
func (g *GeminiSpeechToText) Name() string {
	return entities.ProviderName
}

// UniqueID returns the entity's unique ID
func (g *GeminiSpeechToText) UniqueID() string {
	return entities.ProviderUniqueID
}

// Config returns the configuration the provider was created with
func (g *GeminiSpeechToText) Config() entities.ProviderConfig {
	return g.config
}

func (g *GeminiSpeechToText) SupportedLanguages() []string {
	return entities.SupportedLanguages
}

func (g *GeminiSpeechToText) SupportedFormats() []entities.AudioFormat {
	return []entities.AudioFormat{entities.AudioFormatWAV, entities.AudioFormatOGG}
}

func (g *GeminiSpeechToText) SupportedCodecs() []entities.AudioCodec {
	return []entities.AudioCodec{entities.AudioCodecPCM, entities.AudioCodecOpus}
}

func (g *GeminiSpeechToText) SupportedBitRates() []entities.AudioBitRate {
	return []entities.AudioBitRate{entities.AudioBitRate16}
}

func (g *GeminiSpeechToText) SupportedSampleRates() []entities.AudioSampleRate {
	return []entities.AudioSampleRate{entities.AudioSampleRate16000}
}

func (g *GeminiSpeechToText) SupportedChannels() []entities.AudioChannels {
	return []entities.AudioChannels{entities.AudioChannelsMono}
}

// SupportedProperties implements repositories.SpeechToText
func (g *GeminiSpeechToText) SupportedProperties() entities.SupportedProperties {
	return entities.SupportedProperties{
		Languages:   g.SupportedLanguages(),
		Formats:     g.SupportedFormats(),
		Codecs:      g.SupportedCodecs(),
		BitRates:    g.SupportedBitRates(),
		SampleRates: g.SupportedSampleRates(),
		Channels:    g.SupportedChannels(),
	}
}

// BuildInstruction returns the text sent to the model alongside the audio.
// With the auto language the configured prompt is sent verbatim; any other
// language gets a fixed template and the prompt is not used.
func BuildInstruction(language, prompt string) string {
	if language == entities.LanguageAuto {
		return prompt
	}
	return fmt.Sprintf("Transcribe this audio clip and translate the transcription into %s. Reply with the transcription only.", language)
}

// ProcessAudioStream implements repositories.SpeechToText
func (g *GeminiSpeechToText) ProcessAudioStream(ctx context.Context, metadata entities.SpeechMetadata, stream <-chan []byte) entities.SpeechResult {
	container := audio.Collect(stream)

	g.logger.Debug("Audio collected",
		zap.String("format", string(metadata.Format)),
		zap.String("codec", string(metadata.Codec)),
		zap.Int("payloadSize", len(container.Payload())))

	text, err := g.Transcribe(ctx, container)
	if err != nil {
		g.logger.Error("Transcription failed",
			zap.String("model", g.config.Model),
			zap.Error(err))
		return entities.ErrorResult()
	}

	g.logger.Info("Transcription completed",
		zap.String("model", g.config.Model),
		zap.String("text", text))

	return entities.SuccessResult(text)
}

type generation struct {
	text string
	err  error
}

// Transcribe sends the container to Gemini and waits at most the provider
// timeout. When the deadline passes the in-flight call is abandoned.
func (g *GeminiSpeechToText) Transcribe(ctx context.Context, container *audio.Container) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := repositories.GenerateRequest{
		Model:       g.config.Model,
		Instruction: BuildInstruction(g.config.Language, g.config.Prompt),
		Audio:       container.Bytes(),
		MIMEType:    audio.MIMEType,
	}

	done := make(chan generation, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- generation{err: fmt.Errorf("panic during generation: %v", r)}
			}
		}()
		text, err := g.generate(ctx, req)
		done <- generation{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", g.contextError(ctx.Err())
	case res := <-done:
		if res.err != nil {
			if ctx.Err() != nil {
				return "", g.contextError(ctx.Err())
			}
			return "", domain.NewTranscriptionError(g.Name(), g.config.Model, domain.ErrTransport, res.err)
		}
		if res.text == "" {
			return "", domain.NewTranscriptionError(g.Name(), g.config.Model, domain.ErrEmptyResponse, nil)
		}
		return res.text, nil
	}
}

func (g *GeminiSpeechToText) generate(ctx context.Context, req repositories.GenerateRequest) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}
	return client.GenerateText(ctx, req)
}

// getClient creates the client on first use. A failed attempt is not
// remembered, so the next request tries again.
func (g *GeminiSpeechToText) getClient(ctx context.Context) (repositories.ContentGenerator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	client, err := g.newClient(ctx, g.config.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}

	g.logger.Info("Gemini client initialized", zap.String("model", g.config.Model))
	g.client = client
	return client, nil
}

func (g *GeminiSpeechToText) contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTranscriptionError(g.Name(), g.config.Model, domain.ErrTimeout, err)
	}
	return domain.NewTranscriptionError(g.Name(), g.config.Model, domain.ErrTransport, err)
}
