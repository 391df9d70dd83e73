package api

import (
	"time"

	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Entries int    `json:"entries"`
}

// EntryResponse is a config entry as listed by the API. The API key is
// never returned.
type EntryResponse struct {
	ID        string                   `json:"id"`
	Title     string                   `json:"title"`
	Options   entities.ProviderOptions `json:"options"`
	Loaded    bool                     `json:"loaded"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// TranscriptionResponse is the result of a transcription request
type TranscriptionResponse struct {
	Result entities.SpeechResultState `json:"result"`
	Text   string                     `json:"text,omitempty"`
}
