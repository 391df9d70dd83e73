package entities

import (
	"errors"
	"testing"
)

func TestProviderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ProviderConfig
		wantErr bool
		field   string
	}{
		{
			name:   "auto language",
			config: ProviderConfig{APIKey: "key", Model: DefaultModel, Language: LanguageAuto, Prompt: "hi"},
		},
		{
			name:   "explicit language",
			config: ProviderConfig{APIKey: "key", Model: "gemini-1.5-flash", Language: "de-DE"},
		},
		{
			name:    "missing api key",
			config:  ProviderConfig{Model: DefaultModel, Language: LanguageAuto},
			wantErr: true,
			field:   "api_key",
		},
		{
			name:    "unknown model",
			config:  ProviderConfig{APIKey: "key", Model: "gpt-4o", Language: LanguageAuto},
			wantErr: true,
			field:   "model",
		},
		{
			name:    "unknown language",
			config:  ProviderConfig{APIKey: "key", Model: DefaultModel, Language: "xx-YY"},
			wantErr: true,
			field:   "language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %T", err)
			}
			if len(verr.Fields) != 1 || verr.Fields[0].Field != tt.field {
				t.Errorf("Expected failure on %s, got %+v", tt.field, verr.Fields)
			}
		})
	}
}

func TestProviderOptions_Validate(t *testing.T) {
	if err := (ProviderOptions{}).Validate(); err != nil {
		t.Errorf("Expected empty options to be valid, got %v", err)
	}

	if err := (ProviderOptions{Model: "gemini-2.0-flash-lite", Language: "ja-JP"}).Validate(); err != nil {
		t.Errorf("Expected options to be valid, got %v", err)
	}

	if err := (ProviderOptions{Language: "klingon"}).Validate(); err == nil {
		t.Error("Expected invalid language to fail")
	}
}

func TestProviderOptions_ValidateSubmission(t *testing.T) {
	tests := []struct {
		name    string
		opts    ProviderOptions
		invalid []string
	}{
		{"complete", ProviderOptions{Model: DefaultModel, Language: LanguageAuto, Prompt: "Say it"}, nil},
		{"empty prompt", ProviderOptions{Model: DefaultModel, Language: LanguageAuto}, []string{"prompt"}},
		{"empty", ProviderOptions{}, []string{"model", "language", "prompt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateSubmission()
			if len(tt.invalid) == 0 {
				if err != nil {
					t.Errorf("Expected valid submission, got %v", err)
				}
				return
			}

			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Expected *ValidationError, got %T (%v)", err, err)
			}
			got := map[string]bool{}
			for _, f := range verr.Fields {
				got[f.Field] = true
			}
			for _, field := range tt.invalid {
				if !got[field] {
					t.Errorf("Expected %s to be invalid, got %v", field, verr.Fields)
				}
			}
		})
	}
}

func TestProviderOptions_WithDefaults(t *testing.T) {
	opts := ProviderOptions{Language: "fr-FR"}.WithDefaults()

	if opts.Model != DefaultModel {
		t.Errorf("Expected model %s, got %s", DefaultModel, opts.Model)
	}
	if opts.Language != "fr-FR" {
		t.Errorf("Expected language fr-FR, got %s", opts.Language)
	}
	if opts.Prompt != DefaultPrompt {
		t.Errorf("Expected prompt %q, got %q", DefaultPrompt, opts.Prompt)
	}
}

func TestConfigEntry_ProviderConfig(t *testing.T) {
	entry := NewConfigEntry("secret")

	if entry.Title != EntryTitle {
		t.Errorf("Expected title %s, got %s", EntryTitle, entry.Title)
	}

	cfg := entry.ProviderConfig()
	if cfg.APIKey != "secret" {
		t.Errorf("Expected api key to be carried over")
	}
	if cfg.Model != DefaultModel || cfg.Language != DefaultLanguage || cfg.Prompt != DefaultPrompt {
		t.Errorf("Expected defaults, got %+v", cfg)
	}

	entry.Options = ProviderOptions{Model: "gemini-1.5-flash", Language: "it-IT", Prompt: "ciao"}
	cfg = entry.ProviderConfig()
	if cfg.Model != "gemini-1.5-flash" || cfg.Language != "it-IT" || cfg.Prompt != "ciao" {
		t.Errorf("Expected stored options, got %+v", cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected resolved config to be valid, got %v", err)
	}
}

func TestConfigEntry_Validate(t *testing.T) {
	entry := NewConfigEntry("")
	if err := entry.Validate(); err == nil {
		t.Error("Expected missing api key to fail")
	}

	entry = NewConfigEntry("key")
	entry.Options.Model = "unknown"
	if err := entry.Validate(); err == nil {
		t.Error("Expected invalid model to fail")
	}

	entry.Options.Model = ""
	if err := entry.Validate(); err != nil {
		t.Errorf("Expected entry to be valid, got %v", err)
	}
}

func TestOptionLanguages(t *testing.T) {
	langs := OptionLanguages()

	if langs[0] != LanguageAuto {
		t.Errorf("Expected first option to be %s, got %s", LanguageAuto, langs[0])
	}
	if len(langs) != len(SupportedLanguages)+1 {
		t.Errorf("Expected %d options, got %d", len(SupportedLanguages)+1, len(langs))
	}
	if !IsSupportedLanguage("en-US") || IsSupportedLanguage(LanguageAuto) {
		t.Error("Unexpected IsSupportedLanguage result")
	}
}
