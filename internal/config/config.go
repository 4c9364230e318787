// Package config loads gapquiz configuration from defaults, an optional
// YAML file, a .env file and GAPQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/gapquiz/internal/llm"
	"github.com/abhisek/gapquiz/internal/logging"
	"github.com/abhisek/gapquiz/internal/pinning"
	"github.com/abhisek/gapquiz/internal/questiongen"
	"github.com/abhisek/gapquiz/internal/tracing"
)

// Config is the full process configuration.
type Config struct {
	Server     ServerConfig       `mapstructure:"server"`
	LLM        llm.Config         `mapstructure:"llm"`
	Generation questiongen.Config `mapstructure:"generation"`
	Pinning    pinning.Config     `mapstructure:"pinning"`
	Store      StoreConfig        `mapstructure:"store"`
	Log        logging.Config     `mapstructure:"log"`
	RateLimit  RateLimitConfig    `mapstructure:"rate_limit"`
	Tracing    tracing.Config     `mapstructure:"tracing"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`

	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	// Path is the SQLite file. Empty means the default data directory.
	Path string `mapstructure:"path"`
}

// RateLimitConfig limits generation and pin requests per client IP.
// MaxRequests of zero disables limiting.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// Load reads configuration. configFile may be empty, in which case
// gapquiz.yaml is looked up in the working directory and in
// $XDG_CONFIG_HOME/gapquiz; a missing file is not an error.
func Load(configFile string) (*Config, error) {
	// .env values never override the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GAPQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gapquiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "gapquiz"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.LLM.DiscoverKeys()
	cfg.Generation.Timeout = cfg.LLM.Timeout
	if cfg.Pinning.Pinata.JWT == "" {
		cfg.Pinning.Pinata.JWT = os.Getenv("PINATA_JWT")
	}

	return &cfg, nil
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if _, err := questiongen.ParseProfile(c.Generation.Reference); err != nil {
		return fmt.Errorf("generation.reference: %w", err)
	}
	if c.Generation.QuestionCount < 1 {
		return fmt.Errorf("generation.question_count must be at least 1, got %d", c.Generation.QuestionCount)
	}
	if err := c.Pinning.Validate(); err != nil {
		return err
	}
	if c.RateLimit.MaxRequests > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive when rate limiting is enabled")
	}
	if c.Tracing.Enabled && c.Tracing.CollectorEndpoint == "" {
		return fmt.Errorf("tracing.collector_endpoint is required when tracing is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	llmDefaults := llm.DefaultConfig()
	v.SetDefault("llm.provider", llmDefaults.Provider)
	v.SetDefault("llm.sambanova.model", llmDefaults.SambaNova.Model)
	v.SetDefault("llm.sambanova.base_url", llmDefaults.SambaNova.BaseURL)
	v.SetDefault("llm.sambanova.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", llmDefaults.OpenRouter.BaseURL)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.retry.max_attempts", llmDefaults.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", llmDefaults.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", llmDefaults.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", llmDefaults.Retry.Multiplier)
	v.SetDefault("llm.timeout", llmDefaults.Timeout)

	genDefaults := questiongen.DefaultConfig()
	v.SetDefault("generation.reference", genDefaults.Reference)
	v.SetDefault("generation.question_count", genDefaults.QuestionCount)
	v.SetDefault("generation.max_tokens", genDefaults.MaxTokens)
	v.SetDefault("generation.temperature", genDefaults.Temperature)
	v.SetDefault("generation.top_p", genDefaults.TopP)
	v.SetDefault("generation.text_dependent_categories", genDefaults.TextDependentCategories)

	v.SetDefault("pinning.backend", "none")
	v.SetDefault("pinning.pinata.jwt", "")
	v.SetDefault("pinning.pinata.url", "https://api.pinata.cloud/pinning/pinJSONToIPFS")
	v.SetDefault("pinning.pinata.timeout", 10*time.Second)
	v.SetDefault("pinning.minio.endpoint", "")
	v.SetDefault("pinning.minio.access_key", "")
	v.SetDefault("pinning.minio.secret_key", "")
	v.SetDefault("pinning.minio.bucket", "")
	v.SetDefault("pinning.minio.use_ssl", false)
	v.SetDefault("pinning.minio.region", "")

	v.SetDefault("store.path", "")

	logDefaults := logging.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", logDefaults.MaxSizeMB)
	v.SetDefault("log.max_backups", logDefaults.MaxBackups)
	v.SetDefault("log.max_age_days", logDefaults.MaxAgeDays)
	v.SetDefault("log.console", logDefaults.Console)

	v.SetDefault("rate_limit.max_requests", 30)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.collector_endpoint", "")
	v.SetDefault("tracing.service_name", "gapquiz")
}

// bindEnv maps the conventional unprefixed variables used by hosting
// platforms and the providers' own tooling.
func bindEnv(v *viper.Viper) {
	v.BindEnv("server.addr", "GAPQUIZ_SERVER_ADDR", "ADDR")
	v.BindEnv("server.mode", "GAPQUIZ_SERVER_MODE", "GIN_MODE")
	v.BindEnv("pinning.pinata.jwt", "GAPQUIZ_PINNING_PINATA_JWT", "PINATA_JWT")
	v.BindEnv("pinning.minio.endpoint", "GAPQUIZ_PINNING_MINIO_ENDPOINT", "MINIO_ENDPOINT")
	v.BindEnv("pinning.minio.access_key", "GAPQUIZ_PINNING_MINIO_ACCESS_KEY", "MINIO_ACCESS_KEY")
	v.BindEnv("pinning.minio.secret_key", "GAPQUIZ_PINNING_MINIO_SECRET_KEY", "MINIO_SECRET_KEY")
	v.BindEnv("pinning.minio.bucket", "GAPQUIZ_PINNING_MINIO_BUCKET", "MINIO_BUCKET")
	v.BindEnv("tracing.collector_endpoint", "GAPQUIZ_TRACING_COLLECTOR_ENDPOINT", "TRACING_COLLECTOR_ENDPOINT")
}
