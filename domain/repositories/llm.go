package repositories

import "context"

// GenerateRequest is a single multimodal request to a generative model
type GenerateRequest struct {
	Model       string
	Instruction string
	Audio       []byte
	MIMEType    string
}

// ContentGenerator abstracts the generative-language API used for transcription
type ContentGenerator interface {
	// GenerateText sends the instruction and audio and returns the generated text.
	// An empty string with a nil error means the model produced no text.
	GenerateText(ctx context.Context, req GenerateRequest) (string, error)
}

// ContentGeneratorFactory creates a ContentGenerator for an API key
type ContentGeneratorFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

// APIKeyValidator checks that an API key is accepted by the remote API
type APIKeyValidator interface {
	ValidateAPIKey(ctx context.Context, apiKey string) error
}
