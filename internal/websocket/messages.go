package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeListeningStart MessageType = "listening_start"
	MessageTypeListeningEnd   MessageType = "listening_end"
	MessageTypeTranscription  MessageType = "transcription"
	MessageTypePing           MessageType = "ping"
	MessageTypePong           MessageType = "pong"
	MessageTypeError          MessageType = "error"
)

// Error codes sent in ErrorMessage
const (
	ErrorCodeInvalidMessage      = "invalid_message"
	ErrorCodeEntryNotFound       = "entry_not_found"
	ErrorCodeUnsupportedMetadata = "unsupported_metadata"
	ErrorCodeSessionActive       = "session_active"
	ErrorCodeNoActiveSession     = "no_active_session"
	ErrorCodeInternal            = "internal_error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type" validate:"required"`
	Timestamp string      `json:"timestamp"`
	MessageID string      `json:"message_id,omitempty"`
}

// ListeningStartMessage opens an audio stream for a config entry. The audio
// itself follows as binary frames.
type ListeningStartMessage struct {
	BaseMessage
	EntryID  string                  `json:"entry_id" validate:"required"`
	Metadata entities.SpeechMetadata `json:"metadata"`
}

// ListeningStartedMessage acknowledges a ListeningStartMessage
type ListeningStartedMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ListeningEndMessage closes the current audio stream
type ListeningEndMessage struct {
	BaseMessage
	SessionID string `json:"session_id,omitempty"`
}

// TranscriptionMessage carries the result of a closed audio stream
type TranscriptionMessage struct {
	BaseMessage
	SessionID  string                     `json:"session_id"`
	Result     entities.SpeechResultState `json:"result"`
	Text       string                     `json:"text,omitempty"`
	ChunkCount int                        `json:"chunk_count"`
	DurationMs int64                      `json:"duration_ms"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct {
	validate *validator.Validate
}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{validate: validator.New()}
}

// ValidateMessage parses and validates an incoming text message
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	// First parse as base message to get type
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}
	if base.Type == "" {
		return nil, errors.New("message type is required")
	}

	switch base.Type {
	case MessageTypeListeningStart:
		var msg ListeningStartMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening start message: %w", err)
		}
		if err := v.validate.Struct(&msg); err != nil {
			return nil, fmt.Errorf("invalid listening start message: %w", err)
		}
		stamp(&msg.BaseMessage)
		return &msg, nil

	case MessageTypeListeningEnd:
		var msg ListeningEndMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening end message: %w", err)
		}
		stamp(&msg.BaseMessage)
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		stamp(&msg.BaseMessage)
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// stamp adds a timestamp if missing
func stamp(base *BaseMessage) {
	if base.Timestamp == "" {
		base.Timestamp = now()
	}
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message, details string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeError,
			Timestamp: now(),
		},
		Code:    code,
		Message: message,
		Details: details,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePong,
			Timestamp: now(),
		},
		Data: data,
	}
}

// CreateListeningStartedMessage acknowledges a new audio stream
func CreateListeningStartedMessage(sessionID string) *ListeningStartedMessage {
	return &ListeningStartedMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeListeningStart,
			Timestamp: now(),
		},
		SessionID: sessionID,
		Message:   "listening started",
	}
}

// CreateTranscriptionMessage wraps a speech result
func CreateTranscriptionMessage(sessionID string, result entities.SpeechResult, chunkCount int, duration time.Duration) *TranscriptionMessage {
	return &TranscriptionMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeTranscription,
			Timestamp: now(),
		},
		SessionID:  sessionID,
		Result:     result.Result,
		Text:       result.Text,
		ChunkCount: chunkCount,
		DurationMs: duration.Milliseconds(),
	}
}
