package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/satriahrh/gemini-cloud-stt/adapters/openai"
)

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultDatabase = "gemini_cloud_stt"
)

// Config is the service configuration read from the environment
type Config struct {
	Port          string `validate:"required,numeric"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	JWTSecret     string `validate:"required"`
	MongoURI      string
	MongoDatabase string `validate:"required"`
	GeminiBaseURL string `validate:"required,url"`
}

// Load reads an optional .env file (or the given files) and then the
// environment. Variables already set in the environment take precedence.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", DefaultPort),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", DefaultDatabase),
		GeminiBaseURL: getEnv("GEMINI_OPENAI_BASE_URL", openai.DefaultBaseURL),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// UseMongo reports whether config entries are persisted in MongoDB
func (c *Config) UseMongo() bool {
	return c.MongoURI != ""
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// NewLogger builds a production logger, or a development logger at debug level
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.LogLevel == "debug" {
		return zap.NewDevelopment()
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
