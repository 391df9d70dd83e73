package llm

import (
	"context"
	"sync"
	"time"

	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

// MockGeminiClient is a scripted ContentGenerator for tests and local runs
type MockGeminiClient struct {
	// Text is returned by every call
	Text string
	// Err is returned instead of Text when set
	Err error
	// Delay is waited before answering
	Delay time.Duration
	// IgnoreContext keeps waiting for Delay even after the context is done
	IgnoreContext bool

	mu       sync.Mutex
	requests []repositories.GenerateRequest
}

// NewMockGeminiClient creates a mock client that always answers text
func NewMockGeminiClient(text string) *MockGeminiClient {
	return &MockGeminiClient{Text: text}
}

// GenerateText implements repositories.ContentGenerator
func (m *MockGeminiClient) GenerateText(ctx context.Context, req repositories.GenerateRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Delay > 0 {
		if m.IgnoreContext {
			time.Sleep(m.Delay)
		} else {
			select {
			case <-time.After(m.Delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

// Requests returns the requests received so far
func (m *MockGeminiClient) Requests() []repositories.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repositories.GenerateRequest(nil), m.requests...)
}

// MockGeminiFactory hands out a fixed client and counts how often it was asked to
type MockGeminiFactory struct {
	Client repositories.ContentGenerator
	Err    error
	Delay  time.Duration

	mu    sync.Mutex
	calls int
	keys  []string
}

// NewMockGeminiFactory creates a factory returning client
func NewMockGeminiFactory(client repositories.ContentGenerator) *MockGeminiFactory {
	return &MockGeminiFactory{Client: client}
}

// Create matches repositories.ContentGeneratorFactory
func (f *MockGeminiFactory) Create(ctx context.Context, apiKey string) (repositories.ContentGenerator, error) {
	f.mu.Lock()
	f.calls++
	f.keys = append(f.keys, apiKey)
	f.mu.Unlock()

	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}

	if f.Err != nil {
		return nil, f.Err
	}
	return f.Client, nil
}

// Calls returns the number of clients created
func (f *MockGeminiFactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Keys returns the API keys clients were created for
func (f *MockGeminiFactory) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}
