package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
)

func TestMemoryConfigEntryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConfigEntryRepository()

	entry := entities.NewConfigEntry("key-1")
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}

	if entry.ID == "" {
		t.Fatal("Expected ID to be generated")
	}

	got, err := repo.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if got.Data.APIKey != "key-1" || got.Title != entities.EntryTitle {
		t.Errorf("Unexpected entry %+v", got)
	}

	// Returned entries are copies.
	got.Title = "changed"
	again, _ := repo.GetByID(ctx, entry.ID)
	if again.Title != entities.EntryTitle {
		t.Error("Expected stored entry to be unaffected by caller changes")
	}

	found, err := repo.FindByAPIKey(ctx, "key-1")
	if err != nil || found.ID != entry.ID {
		t.Errorf("Expected to find entry by API key, got %v, %v", found, err)
	}

	if _, err := repo.FindByAPIKey(ctx, "other"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestMemoryConfigEntryRepository_CreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConfigEntryRepository()

	if err := repo.Create(ctx, nil); err == nil {
		t.Error("Expected error for nil entry")
	}

	if err := repo.Create(ctx, entities.NewConfigEntry("")); err == nil {
		t.Error("Expected error for missing API key")
	}

	if err := repo.Create(ctx, entities.NewConfigEntry("dup")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := repo.Create(ctx, entities.NewConfigEntry("dup")); !errors.Is(err, domain.ErrEntryExists) {
		t.Errorf("Expected ErrEntryExists for duplicate API key, got %v", err)
	}
}

func TestMemoryConfigEntryRepository_UpdateOptions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConfigEntryRepository()

	entry := entities.NewConfigEntry("key")
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}

	opts := entities.ProviderOptions{Model: "gemini-1.5-flash", Language: "pl-PL", Prompt: "Hi"}
	updated, err := repo.UpdateOptions(ctx, entry.ID, opts)
	if err != nil {
		t.Fatalf("Failed to update options: %v", err)
	}
	if updated.Options != opts {
		t.Errorf("Expected options %+v, got %+v", opts, updated.Options)
	}
	if !updated.UpdatedAt.After(entry.CreatedAt) && !updated.UpdatedAt.Equal(entry.CreatedAt) {
		t.Error("Expected UpdatedAt to move forward")
	}

	if _, err := repo.UpdateOptions(ctx, entry.ID, entities.ProviderOptions{Model: "bogus"}); err == nil {
		t.Error("Expected invalid options to be rejected")
	}

	if _, err := repo.UpdateOptions(ctx, "missing", opts); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestMemoryConfigEntryRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryConfigEntryRepository()

	first := entities.NewConfigEntry("a")
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := entities.NewConfigEntry("b")

	for _, e := range []*entities.ConfigEntry{second, first} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Failed to create entry: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID {
		t.Errorf("Expected oldest entry first, got %+v", list)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}
	if _, err := repo.GetByID(ctx, first.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("Expected entry to be gone, got %v", err)
	}
	if err := repo.Create(ctx, entities.NewConfigEntry("a")); err != nil {
		t.Errorf("Expected API key to be reusable after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}
