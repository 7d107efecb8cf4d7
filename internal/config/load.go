package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the
// environment, e.g. MINDFLOW_SERVER_PORT.
const EnvPrefix = "MINDFLOW"

// legacyEnvNames maps configuration keys to the bare variable names used by
// earlier deployments. They are consulted after the prefixed name.
var legacyEnvNames = map[string]string{
	"server.port":        "PORT",
	"database.url":       "DATABASE_URL",
	"auth.jwt_secret":    "JWT_SECRET",
	"llm.gemini_api_key": "GEMINI_API_KEY",
	"llm.groq_api_key":   "GROQ_API_KEY",
}

// Options customises where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit path to a config file. When empty, a file
	// named config.{yaml,json,toml} in the working directory is used if present.
	ConfigFile string
	// EnvFile is a dotenv file loaded into the process environment before
	// reading variables. Missing files are ignored.
	EnvFile string
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithOptions(Options{EnvFile: ".env"})
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.url", "")
	v.SetDefault("database.local_path", "data/mindflow.db")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60*24)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 60*24*30)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	v.SetDefault("llm.groq_api_key", "")
	v.SetDefault("llm.groq_model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.groq_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.request_timeout_seconds", 30)
	v.SetDefault("llm.default_system_instruction", "You are a helpful study assistant.")

	v.SetDefault("extract.timeout_seconds", 15)
	v.SetDefault("extract.max_upload_bytes", 32<<20)
	v.SetDefault("extract.max_source_chars", 300000)
}

// bindEnvs registers the prefixed and legacy names for keys that have one.
// Keys without a legacy name are covered by AutomaticEnv.
func bindEnvs(v *viper.Viper) error {
	for key, legacy := range legacyEnvNames {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}
