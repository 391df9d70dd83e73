package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

const configEntriesCollection = "config_entries"

type ConfigEntryRepository struct {
	collection *mongo.Collection
}

// Ensure ConfigEntryRepository implements the ConfigEntryRepository interface
var _ repositories.ConfigEntryRepository = (*ConfigEntryRepository)(nil)

// NewConfigEntryRepository creates a new MongoDB config entry repository
func NewConfigEntryRepository(db *mongo.Database) *ConfigEntryRepository {
	return &ConfigEntryRepository{
		collection: db.Collection(configEntriesCollection),
	}
}

// EnsureIndexes creates the unique API key index. A key can only be set up once.
func (r *ConfigEntryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "data.api_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("data_api_key_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create config entry indexes: %w", err)
	}
	return nil
}

// Create implements repositories.ConfigEntryRepository
func (r *ConfigEntryRepository) Create(ctx context.Context, entry *entities.ConfigEntry) error {
	if entry == nil {
		return errors.New("config entry cannot be nil")
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", domain.ErrEntryExists, err)
		}
		return fmt.Errorf("failed to create config entry: %w", err)
	}

	return nil
}

// GetByID implements repositories.ConfigEntryRepository
func (r *ConfigEntryRepository) GetByID(ctx context.Context, id string) (*entities.ConfigEntry, error) {
	if id == "" {
		return nil, errors.New("config entry ID cannot be empty")
	}
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

// FindByAPIKey implements repositories.ConfigEntryRepository
func (r *ConfigEntryRepository) FindByAPIKey(ctx context.Context, apiKey string) (*entities.ConfigEntry, error) {
	return r.findOne(ctx, bson.M{"data.api_key": apiKey}, "")
}

func (r *ConfigEntryRepository) findOne(ctx context.Context, filter bson.M, id string) (*entities.ConfigEntry, error) {
	var entry entities.ConfigEntry
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if id != "" {
				return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
			}
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get config entry: %w", err)
	}
	return &entry, nil
}

// List implements repositories.ConfigEntryRepository, oldest entry first
func (r *ConfigEntryRepository) List(ctx context.Context) ([]*entities.ConfigEntry, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list config entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*entities.ConfigEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode config entries: %w", err)
	}
	return entries, nil
}

// UpdateOptions implements repositories.ConfigEntryRepository
func (r *ConfigEntryRepository) UpdateOptions(ctx context.Context, id string, opts entities.ProviderOptions) (*entities.ConfigEntry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"options":    opts,
			"updated_at": time.Now(),
		},
	}

	var entry entities.ConfigEntry
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
		}
		return nil, fmt.Errorf("failed to update config entry options: %w", err)
	}

	return &entry, nil
}

// Delete implements repositories.ConfigEntryRepository
func (r *ConfigEntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete config entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	return nil
}
