package stt

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
	"github.com/satriahrh/gemini-cloud-stt/internal/audio"
)

// MockSpeechToText is a placeholder provider that collects the stream and
// answers with a scripted result
type MockSpeechToText struct {
	logger *zap.Logger
	result entities.SpeechResult

	mu        sync.Mutex
	metadata  []entities.SpeechMetadata
	payloads  [][]byte
	processed chan struct{}
}

// NewMockSpeechToText creates a new mock speech-to-text provider
func NewMockSpeechToText(result entities.SpeechResult, logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{
		logger:    logger,
		result:    result,
		processed: make(chan struct{}, 64),
	}
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// Name implements repositories.SpeechToText
func (m *MockSpeechToText) Name() string {
	return "Mock"
}

// SupportedProperties implements repositories.SpeechToText
func (m *MockSpeechToText) SupportedProperties() entities.SupportedProperties {
	return entities.SupportedProperties{
		Languages:   entities.SupportedLanguages,
		Formats:     []entities.AudioFormat{entities.AudioFormatWAV, entities.AudioFormatOGG},
		Codecs:      []entities.AudioCodec{entities.AudioCodecPCM, entities.AudioCodecOpus},
		BitRates:    []entities.AudioBitRate{entities.AudioBitRate16},
		SampleRates: []entities.AudioSampleRate{entities.AudioSampleRate16000},
		Channels:    []entities.AudioChannels{entities.AudioChannelsMono},
	}
}

// ProcessAudioStream implements repositories.SpeechToText
func (m *MockSpeechToText) ProcessAudioStream(ctx context.Context, metadata entities.SpeechMetadata, stream <-chan []byte) entities.SpeechResult {
	container := audio.Collect(stream)

	m.logger.Info("Processing mock audio stream",
		zap.String("language", metadata.Language),
		zap.Int("audioSize", len(container.Payload())))

	m.mu.Lock()
	m.metadata = append(m.metadata, metadata)
	m.payloads = append(m.payloads, container.Payload())
	m.mu.Unlock()

	select {
	case m.processed <- struct{}{}:
	default:
	}

	return m.result
}

// Payloads returns the collected audio of every processed stream
func (m *MockSpeechToText) Payloads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.payloads...)
}

// Metadata returns the metadata of every processed stream
func (m *MockSpeechToText) Metadata() []entities.SpeechMetadata {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.SpeechMetadata(nil), m.metadata...)
}

// Processed is signalled once per processed stream
func (m *MockSpeechToText) Processed() <-chan struct{} {
	return m.processed
}
