package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. LESSON_SERVER_PORT or LESSON_LLM_GEMINI_API_KEY.
const EnvPrefix = "LESSON"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

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

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("auth.audience", "authenticated")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.image_model_name", "")
	v.SetDefault("llm.image_style_prefix",
		"Flat vector illustration, thick clean outlines, soft pastel colours, child friendly, no text: ")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.request_timeout_seconds", 60)
	v.SetDefault("llm.image_timeout_seconds", 30)

	v.SetDefault("sharing.max_content_length", 20000)

	v.SetDefault("export.page_size", "A4")
	v.SetDefault("export.margins_mm", 15)
	v.SetDefault("export.font_family", "Helvetica")
}

// bindEnvs registers every key explicitly. AutomaticEnv alone only resolves
// keys viper already knows about, so keys without defaults (secrets, URLs)
// would otherwise never be read from the environment during Unmarshal.
func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.port", "server.log_level", "server.shutdown_timeout_seconds",
		"database.url", "database.max_open_conns", "database.max_idle_conns", "database.auto_migrate",
		"auth.jwt_secret", "auth.audience", "auth.token_lifetime_minutes",
		"llm.gemini_api_key", "llm.model_name", "llm.image_model_name", "llm.image_style_prefix",
		"llm.temperature", "llm.request_timeout_seconds", "llm.image_timeout_seconds",
		"llm.prompt_template_path",
		"storage.bucket", "storage.public_base_url",
		"sharing.max_content_length",
		"export.page_size", "export.margins_mm", "export.font_family", "export.utf8_font_path",
	}
	for _, key := range keys {
		// BindEnv only fails when called without arguments.
		_ = v.BindEnv(key)
	}
}
