package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
)

func TestMessageValidator_ValidateListeningStart(t *testing.T) {
	validator := NewMessageValidator()

	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{
			name: "valid listening start",
			message: `{
				"type": "listening_start",
				"entry_id": "entry-1",
				"metadata": {
					"language": "en-US",
					"format": "wav",
					"codec": "pcm",
					"bit_rate": 16,
					"sample_rate": 16000,
					"channel": 1
				}
			}`,
			wantErr: false,
		},
		{
			name:    "missing entry_id",
			message: `{"type": "listening_start", "metadata": {"language": "en-US"}}`,
			wantErr: true,
		},
		{
			name:    "metadata of wrong type",
			message: `{"type": "listening_start", "entry_id": "entry-1", "metadata": {"sample_rate": "fast"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.ValidateMessage([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessageValidator_ParsesMetadata(t *testing.T) {
	validator := NewMessageValidator()

	msg, err := validator.ValidateMessage([]byte(`{
		"type": "listening_start",
		"entry_id": "entry-1",
		"metadata": {"language": "pl-PL", "format": "wav", "codec": "pcm", "bit_rate": 16, "sample_rate": 16000, "channel": 1}
	}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	start, ok := msg.(*ListeningStartMessage)
	if !ok {
		t.Fatalf("Expected *ListeningStartMessage, got %T", msg)
	}

	want := entities.SpeechMetadata{
		Language:   "pl-PL",
		Format:     entities.AudioFormatWAV,
		Codec:      entities.AudioCodecPCM,
		BitRate:    entities.AudioBitRate16,
		SampleRate: entities.AudioSampleRate16000,
		Channel:    entities.AudioChannelsMono,
	}
	if start.Metadata != want {
		t.Errorf("Expected metadata %+v, got %+v", want, start.Metadata)
	}
	if start.Timestamp == "" {
		t.Error("Expected timestamp to be added")
	}
}

func TestMessageValidator_ValidatePingAndEnd(t *testing.T) {
	validator := NewMessageValidator()

	msg, err := validator.ValidateMessage([]byte(`{"type": "ping", "data": "hi"}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ping, ok := msg.(*PingMessage); !ok || ping.Data != "hi" {
		t.Errorf("Expected ping with data, got %#v", msg)
	}

	msg, err = validator.ValidateMessage([]byte(`{"type": "listening_end"}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := msg.(*ListeningEndMessage); !ok {
		t.Errorf("Expected *ListeningEndMessage, got %T", msg)
	}
}

func TestMessageValidator_Invalid(t *testing.T) {
	validator := NewMessageValidator()

	tests := []struct {
		name    string
		message string
	}{
		{"invalid JSON", `{"type": "ping"`},
		{"missing type", `{"data": "x"}`},
		{"unsupported type", `{"type": "audio_chunk"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := validator.ValidateMessage([]byte(tt.message)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestCreateMessages(t *testing.T) {
	errMsg := CreateErrorMessage(ErrorCodeEntryNotFound, "Entry not found", "entry-1")
	data, err := json.Marshal(errMsg)
	if err != nil {
		t.Fatalf("Failed to marshal error message: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal error message: %v", err)
	}
	if decoded["type"] != "error" || decoded["error_code"] != ErrorCodeEntryNotFound {
		t.Errorf("Unexpected error message %v", decoded)
	}

	pong := CreatePongMessage("hi")
	if pong.Type != MessageTypePong || pong.Data != "hi" {
		t.Errorf("Unexpected pong %+v", pong)
	}

	result := CreateTranscriptionMessage("s-1", entities.SuccessResult("hello"), 3, 1500*time.Millisecond)
	if result.Type != MessageTypeTranscription || result.Text != "hello" || result.Result != entities.SpeechResultSuccess {
		t.Errorf("Unexpected transcription message %+v", result)
	}
	if result.DurationMs != 1500 || result.ChunkCount != 3 {
		t.Errorf("Expected counters to be set, got %+v", result)
	}

	failed := CreateTranscriptionMessage("s-2", entities.ErrorResult(), 0, 0)
	data, _ = json.Marshal(failed)
	decoded = map[string]interface{}{}
	_ = json.Unmarshal(data, &decoded)
	if _, ok := decoded["text"]; ok {
		t.Errorf("Expected no text on error result, got %v", decoded)
	}
	if decoded["result"] != "error" {
		t.Errorf("Expected error result, got %v", decoded["result"])
	}
}
