package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Extract  ExtractConfig  `mapstructure:"extract"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig selects the persistence backend. When URL is set the
// PostgreSQL store is used, otherwise sessions live in a local SQLite file
// at LocalPath.
type DatabaseConfig struct {
	URL       string `mapstructure:"url"        validate:"omitempty,url"`
	LocalPath string `mapstructure:"local_path" validate:"required_without=URL"`
}

// UsePostgres reports whether a remote PostgreSQL database is configured.
func (c DatabaseConfig) UsePostgres() bool {
	return c.URL != ""
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gtfield=TokenLifetimeMinutes"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// LLMConfig contains the settings for both completion providers. Gemini is
// the primary provider and is optional; Groq is the secondary provider and
// is required because every request may end up there.
type LLMConfig struct {
	GeminiAPIKey             string  `mapstructure:"gemini_api_key"`
	GeminiModel              string  `mapstructure:"gemini_model"               validate:"required"`
	GroqAPIKey               string  `mapstructure:"groq_api_key"               validate:"required"`
	GroqModel                string  `mapstructure:"groq_model"                 validate:"required"`
	GroqBaseURL              string  `mapstructure:"groq_base_url"              validate:"required,url"`
	Temperature              float64 `mapstructure:"temperature"                validate:"gte=0,lte=2"`
	MaxTokens                int     `mapstructure:"max_tokens"                 validate:"gt=0"`
	RequestTimeoutSeconds    int     `mapstructure:"request_timeout_seconds"    validate:"gt=0"`
	DefaultSystemInstruction string  `mapstructure:"default_system_instruction" validate:"required"`
}

// RequestTimeout bounds a single provider call.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ExtractConfig controls document upload handling.
type ExtractConfig struct {
	TimeoutSeconds int   `mapstructure:"timeout_seconds"  validate:"gt=0"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"gt=0"`
	MaxSourceChars int   `mapstructure:"max_source_chars" validate:"gt=0"`
}

// Timeout bounds a single extraction.
func (c ExtractConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
