package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
)

// FlowResultType is the outcome of a flow step
type FlowResultType string

const (
	FlowResultForm        FlowResultType = "form"
	FlowResultCreateEntry FlowResultType = "create_entry"
	FlowResultAbort       FlowResultType = "abort"
)

const (
	StepIDUser = "user"
	StepIDInit = "init"

	ErrorBaseKey      = "base"
	ErrorUnknown      = "unknown"
	AbortAlreadyExist = "already_configured"
)

// FormField describes one input of a form
type FormField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Default  string   `json:"default,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// FlowResult is what a flow step hands back to the user
type FlowResult struct {
	Type   FlowResultType        `json:"type"`
	StepID string                `json:"step_id,omitempty"`
	Fields []FormField           `json:"data_schema,omitempty"`
	Errors map[string]string     `json:"errors,omitempty"`
	Reason string                `json:"reason,omitempty"`
	Title  string                `json:"title,omitempty"`
	Entry  *entities.ConfigEntry `json:"entry,omitempty"`
}

// UserInput is the submission of the setup form
type UserInput struct {
	APIKey string `json:"api_key"`
}

// ConfigFlow is the setup wizard that creates a config entry from an API key
type ConfigFlow struct {
	entries   repositories.ConfigEntryRepository
	validator repositories.APIKeyValidator
	registry  *ProviderRegistry
	logger    *zap.Logger
}

// NewConfigFlow creates a new setup wizard
func NewConfigFlow(
	entries repositories.ConfigEntryRepository,
	validator repositories.APIKeyValidator,
	registry *ProviderRegistry,
	logger *zap.Logger,
) *ConfigFlow {
	return &ConfigFlow{
		entries:   entries,
		validator: validator,
		registry:  registry,
		logger:    logger,
	}
}

func userForm(errs map[string]string) *FlowResult {
	return &FlowResult{
		Type:   FlowResultForm,
		StepID: StepIDUser,
		Fields: []FormField{
			{Name: "api_key", Type: "string", Required: true},
		},
		Errors: errs,
	}
}

// StepUser shows the API key form when input is nil, otherwise validates the
// key and creates the entry.
func (f *ConfigFlow) StepUser(ctx context.Context, input *UserInput) (*FlowResult, error) {
	if input == nil {
		return userForm(nil), nil
	}

	if input.APIKey != "" {
		_, err := f.entries.FindByAPIKey(ctx, input.APIKey)
		if err == nil {
			return &FlowResult{Type: FlowResultAbort, Reason: AbortAlreadyExist}, nil
		}
		if !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, fmt.Errorf("failed to look up config entry: %w", err)
		}
	}

	if err := f.validator.ValidateAPIKey(ctx, input.APIKey); err != nil {
		f.logger.Error("API key validation failed", zap.Error(err))
		return userForm(map[string]string{ErrorBaseKey: ErrorUnknown}), nil
	}

	entry := entities.NewConfigEntry(input.APIKey)
	if err := f.entries.Create(ctx, entry); err != nil {
		// Another setup registered the key after the lookup above.
		if errors.Is(err, domain.ErrEntryExists) {
			return &FlowResult{Type: FlowResultAbort, Reason: AbortAlreadyExist}, nil
		}
		return nil, fmt.Errorf("failed to create config entry: %w", err)
	}

	if err := f.registry.Load(entry); err != nil {
		// Roll back so the same key can be set up again.
		if delErr := f.entries.Delete(ctx, entry.ID); delErr != nil {
			f.logger.Error("Failed to remove config entry after setup failure",
				zap.String("entryID", entry.ID),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to set up provider: %w", err)
	}

	f.logger.Info("Config entry created", zap.String("entryID", entry.ID))

	return &FlowResult{
		Type:  FlowResultCreateEntry,
		Title: entry.Title,
		Entry: entry,
	}, nil
}

// OptionsFlow edits the model, language and prompt of an existing entry
type OptionsFlow struct {
	entries  repositories.ConfigEntryRepository
	registry *ProviderRegistry
	logger   *zap.Logger
}

// NewOptionsFlow creates a new options editor
func NewOptionsFlow(entries repositories.ConfigEntryRepository, registry *ProviderRegistry, logger *zap.Logger) *OptionsFlow {
	return &OptionsFlow{
		entries:  entries,
		registry: registry,
		logger:   logger,
	}
}

func optionsForm(current entities.ProviderOptions, errs map[string]string) *FlowResult {
	current = current.WithDefaults()
	return &FlowResult{
		Type:   FlowResultForm,
		StepID: StepIDInit,
		Fields: []FormField{
			{Name: "model", Type: "select", Required: true, Default: current.Model, Options: entities.SupportedModels},
			{Name: "language", Type: "select", Required: true, Default: current.Language, Options: entities.OptionLanguages()},
			{Name: "prompt", Type: "string", Required: true, Default: current.Prompt},
		},
		Errors: errs,
	}
}

// StepInit shows the options form of entryID when input is nil, otherwise
// saves the options and reloads the entry's provider.
func (f *OptionsFlow) StepInit(ctx context.Context, entryID string, input *entities.ProviderOptions) (*FlowResult, error) {
	entry, err := f.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if input == nil {
		return optionsForm(entry.Options, nil), nil
	}

	if err := input.ValidateSubmission(); err != nil {
		var verr *entities.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		errs := make(map[string]string, len(verr.Fields))
		for _, field := range verr.Fields {
			errs[field.Field] = "invalid_" + field.Field
		}
		return optionsForm(*input, errs), nil
	}

	updated, err := f.entries.UpdateOptions(ctx, entryID, *input)
	if err != nil {
		return nil, fmt.Errorf("failed to save options: %w", err)
	}

	if err := f.registry.Reload(ctx, entryID); err != nil {
		return nil, fmt.Errorf("failed to reload provider: %w", err)
	}

	f.logger.Info("Options updated",
		zap.String("entryID", entryID),
		zap.String("model", updated.Options.Model),
		zap.String("language", updated.Options.Language))

	return &FlowResult{
		Type:  FlowResultCreateEntry,
		Entry: updated,
	}, nil
}
