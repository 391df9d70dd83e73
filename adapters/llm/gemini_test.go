package llm

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"

	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	logger := zaptest.NewLogger(t)

	if _, err := NewGeminiClient(context.Background(), "", logger); err == nil {
		t.Error("Expected error when API key is empty")
	}

	factory := NewGeminiClientFactory(logger)
	if _, err := factory(context.Background(), ""); err == nil {
		t.Error("Expected factory to reject an empty API key")
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name     string
		response *genai.GenerateContentResponse
		want     string
	}{
		{
			name:     "nil response",
			response: nil,
			want:     "",
		},
		{
			name:     "no candidates",
			response: &genai.GenerateContentResponse{},
			want:     "",
		},
		{
			name: "candidate without content",
			response: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{}},
			},
			want: "",
		},
		{
			name: "single text part",
			response: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: genai.NewContentFromText("turn on the lights", genai.RoleModel),
				}},
			},
			want: "turn on the lights",
		},
		{
			name: "multiple parts skip thoughts",
			response: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{
						Role: genai.RoleModel,
						Parts: []*genai.Part{
							{Text: "thinking about it", Thought: true},
							{Text: "open the "},
							{Text: "garage"},
						},
					},
				}},
			},
			want: "open the garage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := responseText(tt.response); got != tt.want {
				t.Errorf("responseText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockGeminiClient(t *testing.T) {
	mock := NewMockGeminiClient("hello world")

	text, err := mock.GenerateText(context.Background(), repositories.GenerateRequest{
		Model:       "gemini-2.0-flash",
		Instruction: "Transcribe this audio clip",
		Audio:       []byte{1, 2, 3},
		MIMEType:    "audio/wav",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("Expected hello world, got %q", text)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 || reqs[0].Instruction != "Transcribe this audio clip" {
		t.Errorf("Expected recorded request, got %+v", reqs)
	}
}
