package mongo

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
)

// TestConfigEntryRepository_Integration requires a running MongoDB instance
// and is skipped if MONGODB_URI is not set.
func TestConfigEntryRepository_Integration(t *testing.T) {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		t.Skip("Skipping MongoDB integration test - MONGODB_URI not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, mongoURI, "gemini_cloud_stt_test", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = client.Database.Drop(ctx)
		_ = client.Close(ctx)
	}()

	repo := NewConfigEntryRepository(client.Database)
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	entry := entities.NewConfigEntry("integration-key")

	t.Run("CreateAndGet", func(t *testing.T) {
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("Failed to create entry: %v", err)
		}

		got, err := repo.GetByID(ctx, entry.ID)
		if err != nil {
			t.Fatalf("Failed to get entry: %v", err)
		}
		if got.Data.APIKey != "integration-key" {
			t.Errorf("Expected API key to round-trip, got %q", got.Data.APIKey)
		}

		found, err := repo.FindByAPIKey(ctx, "integration-key")
		if err != nil || found.ID != entry.ID {
			t.Errorf("Expected to find entry by API key, got %v, %v", found, err)
		}
	})

	t.Run("DuplicateAPIKey", func(t *testing.T) {
		if err := repo.Create(ctx, entities.NewConfigEntry("integration-key")); !errors.Is(err, domain.ErrEntryExists) {
			t.Errorf("Expected ErrEntryExists for duplicate API key, got %v", err)
		}
	})

	t.Run("UpdateOptions", func(t *testing.T) {
		opts := entities.ProviderOptions{Model: "gemini-1.5-pro", Language: "de-DE"}
		updated, err := repo.UpdateOptions(ctx, entry.ID, opts)
		if err != nil {
			t.Fatalf("Failed to update options: %v", err)
		}
		if updated.Options != opts {
			t.Errorf("Expected options %+v, got %+v", opts, updated.Options)
		}
	})

	t.Run("ListAndDelete", func(t *testing.T) {
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("Failed to list entries: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(list))
		}

		if err := repo.Delete(ctx, entry.ID); err != nil {
			t.Fatalf("Failed to delete entry: %v", err)
		}
		if _, err := repo.GetByID(ctx, entry.ID); !errors.Is(err, domain.ErrEntryNotFound) {
			t.Errorf("Expected ErrEntryNotFound, got %v", err)
		}
		if err := repo.Delete(ctx, entry.ID); !errors.Is(err, domain.ErrEntryNotFound) {
			t.Errorf("Expected ErrEntryNotFound on second delete, got %v", err)
		}
	})
}
