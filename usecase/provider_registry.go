package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

// ProviderFactory creates the speech-to-text entity of one config entry
type ProviderFactory func(config entities.ProviderConfig) (repositories.SpeechToText, error)

// ProviderRegistry keeps one live provider per config entry
type ProviderRegistry struct {
	entries     repositories.ConfigEntryRepository
	newProvider ProviderFactory
	logger      *zap.Logger

	mu        sync.RWMutex
	providers map[string]repositories.SpeechToText
}

// NewProviderRegistry creates an empty registry
func NewProviderRegistry(entries repositories.ConfigEntryRepository, newProvider ProviderFactory, logger *zap.Logger) *ProviderRegistry {
	return &ProviderRegistry{
		entries:     entries,
		newProvider: newProvider,
		logger:      logger,
		providers:   make(map[string]repositories.SpeechToText),
	}
}

// Setup creates a provider for every stored entry. An entry that fails to
// load is logged and skipped.
func (r *ProviderRegistry) Setup(ctx context.Context) error {
	entries, err := r.entries.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list config entries: %w", err)
	}

	for _, entry := range entries {
		if err := r.Load(entry); err != nil {
			r.logger.Error("Failed to set up provider",
				zap.String("entryID", entry.ID),
				zap.Error(err))
		}
	}

	r.logger.Info("Providers set up", zap.Int("count", len(r.List())))
	return nil
}

// Load creates the provider of entry, replacing any previous one
func (r *ProviderRegistry) Load(entry *entities.ConfigEntry) error {
	provider, err := r.newProvider(entry.ProviderConfig())
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.providers[entry.ID] = provider
	r.mu.Unlock()

	r.logger.Info("Provider loaded",
		zap.String("entryID", entry.ID),
		zap.String("model", entry.ProviderConfig().Model))
	return nil
}

// Reload re-reads the entry and recreates its provider so new options take effect
func (r *ProviderRegistry) Reload(ctx context.Context, id string) error {
	entry, err := r.entries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return r.Load(entry)
}

// Unload drops the provider of an entry
func (r *ProviderRegistry) Unload(id string) {
	r.mu.Lock()
	delete(r.providers, id)
	r.mu.Unlock()
}

// Get returns the provider of an entry
func (r *ProviderRegistry) Get(id string) (repositories.SpeechToText, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	return provider, nil
}

// List returns the IDs of the loaded entries in sorted order
func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
