package entities

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// Domain identifies the integration.
	Domain = "gemini_cloud_stt"

	// EntryTitle is the title given to every config entry.
	EntryTitle = "Gemini Cloud STT"

	// ProviderName is the display name of the speech-to-text entity.
	ProviderName = "Gemini Cloud"

	// ProviderUniqueID is the unique ID of the speech-to-text entity.
	ProviderUniqueID = "gemini-cloud-speech-to-text"

	// LanguageAuto lets the model detect the spoken language and use the
	// configured prompt as-is.
	LanguageAuto = "auto"

	DefaultModel    = "gemini-2.0-flash"
	DefaultLanguage = LanguageAuto
	DefaultPrompt   = "Transcribe this audio clip"
)

// SupportedModels lists the Gemini models that accept audio input.
var SupportedModels = []string{
	"gemini-1.5-flash",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-2.5-flash-preview-05-20",
	"gemini-2.5-flash-preview-native-audio-dialog",
	"gemini-2.5-pro-preview-05-06",
}

// IsSupportedModel reports whether model is one of SupportedModels.
func IsSupportedModel(model string) bool {
	for _, m := range SupportedModels {
		if m == model {
			return true
		}
	}
	return false
}

// OptionLanguages returns the values accepted for the language option.
func OptionLanguages() []string {
	langs := make([]string, 0, len(SupportedLanguages)+1)
	langs = append(langs, LanguageAuto)
	return append(langs, SupportedLanguages...)
}

// ProviderConfig is the immutable configuration of one provider instance.
type ProviderConfig struct {
	APIKey   string `json:"api_key" validate:"required"`
	Model    string `json:"model" validate:"required,stt_model"`
	Language string `json:"language" validate:"required,stt_language"`
	Prompt   string `json:"prompt"`
}

// Validate checks the configuration against the supported models and languages.
func (c ProviderConfig) Validate() error {
	return validateStruct(c)
}

// EntryData holds the settings collected by the setup wizard.
type EntryData struct {
	APIKey string `json:"api_key" bson:"api_key" validate:"required"`
}

// ProviderOptions holds the settings edited by the options editor.
type ProviderOptions struct {
	Model    string `json:"model,omitempty" bson:"model,omitempty" validate:"omitempty,stt_model"`
	Language string `json:"language,omitempty" bson:"language,omitempty" validate:"omitempty,stt_language"`
	Prompt   string `json:"prompt,omitempty" bson:"prompt,omitempty"`
}

// Validate checks the options against the supported models and languages.
func (o ProviderOptions) Validate() error {
	return validateStruct(o)
}

// optionsSubmission mirrors ProviderOptions with every field required.
type optionsSubmission struct {
	Model    string `json:"model" validate:"required,stt_model"`
	Language string `json:"language" validate:"required,stt_language"`
	Prompt   string `json:"prompt" validate:"required"`
}

// ValidateSubmission checks options sent through the options editor, which
// must set every field. Stored options may leave fields unset.
func (o ProviderOptions) ValidateSubmission() error {
	return validateStruct(optionsSubmission(o))
}

// WithDefaults fills unset options with their defaults.
func (o ProviderOptions) WithDefaults() ProviderOptions {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Prompt == "" {
		o.Prompt = DefaultPrompt
	}
	return o
}

// ConfigEntry is a persisted provider setup: the API key from the setup
// wizard plus the options from the options editor.
type ConfigEntry struct {
	ID        string          `json:"id" bson:"_id"`
	Title     string          `json:"title" bson:"title"`
	Data      EntryData       `json:"-" bson:"data"`
	Options   ProviderOptions `json:"options" bson:"options"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// NewConfigEntry creates a config entry for an API key with default options.
func NewConfigEntry(apiKey string) *ConfigEntry {
	now := time.Now()
	return &ConfigEntry{
		Title:     EntryTitle,
		Data:      EntryData{APIKey: apiKey},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProviderConfig resolves the entry into the configuration of its provider.
func (e *ConfigEntry) ProviderConfig() ProviderConfig {
	opts := e.Options.WithDefaults()
	return ProviderConfig{
		APIKey:   e.Data.APIKey,
		Model:    opts.Model,
		Language: opts.Language,
		Prompt:   opts.Prompt,
	}
}

// Validate validates the entry data
func (e *ConfigEntry) Validate() error {
	if e.Title == "" {
		return errors.New("title is required")
	}
	if err := validateStruct(e.Data); err != nil {
		return err
	}
	return e.Options.Validate()
}

// FieldError is a single failed field of a settings struct, keyed by its JSON name.
type FieldError struct {
	Field string
	Tag   string
}

// ValidationError collects the failed fields of a settings struct.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", f.Field, f.Tag))
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("stt_model", func(fl validator.FieldLevel) bool {
			return IsSupportedModel(fl.Field().String())
		})
		_ = validate.RegisterValidation("stt_language", func(fl validator.FieldLevel) bool {
			lang := fl.Field().String()
			return lang == LanguageAuto || IsSupportedLanguage(lang)
		})
	})
	return validate
}

func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return &ValidationError{Fields: fields}
}
