package domain

import (
	"errors"
	"fmt"
)

// Error kinds for a single transcription request. None of them are retried
// and none outlive the request that produced them.
var (
	// ErrConfiguration is returned when the API key is rejected or the
	// provider settings are invalid.
	ErrConfiguration = errors.New("invalid provider configuration")

	// ErrEmptyResponse is returned when the remote call succeeded but carried no text.
	ErrEmptyResponse = errors.New("empty transcription response")

	// ErrTimeout is returned when the remote call did not finish before the deadline.
	ErrTimeout = errors.New("transcription timed out")

	// ErrTransport covers network, authentication and malformed-response failures.
	ErrTransport = errors.New("transcription transport failure")

	// ErrEntryNotFound is returned when no config entry exists for an ID.
	ErrEntryNotFound = errors.New("config entry not found")

	// ErrEntryExists is returned when a config entry already uses the API key.
	ErrEntryExists = errors.New("config entry already exists")

	// ErrUnsupportedMetadata is returned when the audio metadata does not match
	// what the provider supports.
	ErrUnsupportedMetadata = errors.New("unsupported audio metadata")
)

// TranscriptionError describes a failed transcription request.
type TranscriptionError struct {
	// Provider is the provider name.
	Provider string

	// Model is the model identifier the request was sent to.
	Model string

	// Kind is one of the sentinel errors above.
	Kind error

	// Cause is the underlying error, if any.
	Cause error
}

// NewTranscriptionError creates a new TranscriptionError.
func NewTranscriptionError(provider, model string, kind, cause error) *TranscriptionError {
	return &TranscriptionError{
		Provider: provider,
		Model:    model,
		Kind:     kind,
		Cause:    cause,
	}
}

// Error implements the error interface.
func (e *TranscriptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s [%s]: %v: %v", e.Provider, e.Model, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Provider, e.Model, e.Kind)
}

// Unwrap returns the underlying error.
func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}

// Is matches both the error kind and the underlying cause.
func (e *TranscriptionError) Is(target error) bool {
	if e.Kind != nil && e.Kind == target {
		return true
	}
	return e.Cause != nil && errors.Is(e.Cause, target)
}
