package repositories

import (
	"context"

	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
)

// SpeechToText abstracts a speech-to-text provider entity
type SpeechToText interface {
	// Name returns the display name of the provider
	Name() string
	// SupportedProperties returns the languages and audio formats the provider accepts
	SupportedProperties() entities.SupportedProperties
	// ProcessAudioStream collects the stream until it is closed and transcribes it.
	// Failures are reported as an error result, never as a panic or error value.
	ProcessAudioStream(ctx context.Context, metadata entities.SpeechMetadata, stream <-chan []byte) entities.SpeechResult
}
