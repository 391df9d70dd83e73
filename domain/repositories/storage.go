package repositories

import (
	"context"

	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
)

// ConfigEntryRepository defines data access methods for config entries
type ConfigEntryRepository interface {
	Create(ctx context.Context, entry *entities.ConfigEntry) error
	GetByID(ctx context.Context, id string) (*entities.ConfigEntry, error)
	// FindByAPIKey returns domain.ErrEntryNotFound when no entry uses the key
	FindByAPIKey(ctx context.Context, apiKey string) (*entities.ConfigEntry, error)
	List(ctx context.Context) ([]*entities.ConfigEntry, error)
	UpdateOptions(ctx context.Context, id string, options entities.ProviderOptions) (*entities.ConfigEntry, error)
	Delete(ctx context.Context, id string) error
}
