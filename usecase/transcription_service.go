package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

// ProviderInfo describes the provider of one entry
type ProviderInfo struct {
	EntryID    string                       `json:"entry_id"`
	Name       string                       `json:"name"`
	UniqueID   string                       `json:"unique_id"`
	Properties entities.SupportedProperties `json:"supported"`
}

// TranscriptionService routes audio streams to the provider of a config entry
type TranscriptionService struct {
	registry *ProviderRegistry
	logger   *zap.Logger
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(registry *ProviderRegistry, logger *zap.Logger) *TranscriptionService {
	return &TranscriptionService{
		registry: registry,
		logger:   logger,
	}
}

// Info returns the name and supported properties of an entry's provider
func (s *TranscriptionService) Info(entryID string) (*ProviderInfo, error) {
	provider, err := s.registry.Get(entryID)
	if err != nil {
		return nil, err
	}
	return &ProviderInfo{
		EntryID:    entryID,
		Name:       provider.Name(),
		UniqueID:   entities.ProviderUniqueID,
		Properties: provider.SupportedProperties(),
	}, nil
}

// Check verifies that the entry exists and its provider accepts metadata
func (s *TranscriptionService) Check(entryID string, metadata entities.SpeechMetadata) (repositories.SpeechToText, error) {
	provider, err := s.registry.Get(entryID)
	if err != nil {
		return nil, err
	}
	if err := provider.SupportedProperties().Check(metadata); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedMetadata, err)
	}
	return provider, nil
}

// Process transcribes stream with the provider of entryID. When the request
// is rejected the stream is drained so its producer is not left blocked.
func (s *TranscriptionService) Process(
	ctx context.Context,
	entryID string,
	metadata entities.SpeechMetadata,
	stream <-chan []byte,
) (entities.SpeechResult, error) {
	provider, err := s.Check(entryID, metadata)
	if err != nil {
		go drain(stream)
		s.logger.Warn("Transcription request rejected",
			zap.String("entryID", entryID),
			zap.Error(err))
		return entities.SpeechResult{}, err
	}

	return s.Transcribe(ctx, entryID, provider, metadata, stream), nil
}

// Transcribe runs stream through a provider already accepted by Check. The
// stream is consumed until it is closed.
func (s *TranscriptionService) Transcribe(
	ctx context.Context,
	entryID string,
	provider repositories.SpeechToText,
	metadata entities.SpeechMetadata,
	stream <-chan []byte,
) entities.SpeechResult {
	s.logger.Debug("Processing audio stream",
		zap.String("entryID", entryID),
		zap.String("language", metadata.Language))

	result := provider.ProcessAudioStream(ctx, metadata, stream)

	s.logger.Info("Audio stream processed",
		zap.String("entryID", entryID),
		zap.String("result", string(result.Result)))

	return result
}

func drain(stream <-chan []byte) {
	for range stream {
	}
}
