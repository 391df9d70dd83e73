package adapters

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

// MemoryConfigEntryRepository is an in-memory implementation of ConfigEntryRepository.
// It is used when no MongoDB URI is configured and in tests.
type MemoryConfigEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*entities.ConfigEntry // id -> entry
	apiKeys map[string]string                // api key -> id
}

// Ensure MemoryConfigEntryRepository implements the ConfigEntryRepository interface
var _ repositories.ConfigEntryRepository = (*MemoryConfigEntryRepository)(nil)

// NewMemoryConfigEntryRepository creates a new in-memory config entry repository
func NewMemoryConfigEntryRepository() *MemoryConfigEntryRepository {
	return &MemoryConfigEntryRepository{
		entries: make(map[string]*entities.ConfigEntry),
		apiKeys: make(map[string]string),
	}
}

// Create implements ConfigEntryRepository interface
func (m *MemoryConfigEntryRepository) Create(ctx context.Context, entry *entities.ConfigEntry) error {
	if entry == nil {
		return errors.New("config entry cannot be nil")
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apiKeys[entry.Data.APIKey]; exists {
		return fmt.Errorf("%w: API key already in use", domain.ErrEntryExists)
	}

	// Generate ID if not provided
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	entryCopy := *entry
	m.entries[entry.ID] = &entryCopy
	m.apiKeys[entry.Data.APIKey] = entry.ID

	return nil
}

// GetByID implements ConfigEntryRepository interface
func (m *MemoryConfigEntryRepository) GetByID(ctx context.Context, id string) (*entities.ConfigEntry, error) {
	if id == "" {
		return nil, errors.New("config entry ID cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}

	// Return a copy to prevent external modifications
	entryCopy := *entry
	return &entryCopy, nil
}

// FindByAPIKey implements ConfigEntryRepository interface
func (m *MemoryConfigEntryRepository) FindByAPIKey(ctx context.Context, apiKey string) (*entities.ConfigEntry, error) {
	m.mu.RLock()
	id, exists := m.apiKeys[apiKey]
	m.mu.RUnlock()

	if !exists {
		return nil, domain.ErrEntryNotFound
	}
	return m.GetByID(ctx, id)
}

// List implements ConfigEntryRepository interface, oldest entry first
func (m *MemoryConfigEntryRepository) List(ctx context.Context) ([]*entities.ConfigEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*entities.ConfigEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		entryCopy := *entry
		result = append(result, &entryCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// UpdateOptions implements ConfigEntryRepository interface
func (m *MemoryConfigEntryRepository) UpdateOptions(ctx context.Context, id string, options entities.ProviderOptions) (*entities.ConfigEntry, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.entries[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}

	entry.Options = options
	entry.UpdatedAt = time.Now()

	entryCopy := *entry
	return &entryCopy, nil
}

// Delete implements ConfigEntryRepository interface
func (m *MemoryConfigEntryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.entries[id]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}

	delete(m.apiKeys, entry.Data.APIKey)
	delete(m.entries, id)

	return nil
}
