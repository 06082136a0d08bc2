package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Sharing  SharingConfig  `mapstructure:"sharing"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// AuthConfig holds the hosted identity provider's token verification settings.
// JWTSecret is the HMAC secret the provider signs access tokens with.
// An empty Audience skips the aud check.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Audience             string `mapstructure:"audience"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
//
// GeminiAPIKey is intentionally optional at load time: a server without it
// still serves history and the community feed, and answers generation
// requests with "Missing configuration".
type LLMConfig struct {
	GeminiAPIKey          string  `mapstructure:"gemini_api_key"`
	ModelName             string  `mapstructure:"model_name" validate:"required"`
	ImageModelName        string  `mapstructure:"image_model_name"`
	ImageStylePrefix      string  `mapstructure:"image_style_prefix"`
	Temperature           float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"gt=0"`
	ImageTimeoutSeconds   int     `mapstructure:"image_timeout_seconds" validate:"gt=0"`
	PromptTemplatePath    string  `mapstructure:"prompt_template_path"`
}

// StorageConfig configures the optional object store for lesson illustrations.
// An empty Bucket disables uploads.
type StorageConfig struct {
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url" validate:"omitempty,url"`
}

// SharingConfig bounds what may be published to the community feed.
type SharingConfig struct {
	MaxContentLength int `mapstructure:"max_content_length" validate:"gt=0"`
}

// ExportConfig controls the PDF rendering of stored lessons.
// UTF8FontPath points at a TrueType font used instead of the core font;
// lessons in scripts outside Windows-1252 (Devanagari, Bengali, Tamil)
// need one to export legibly.
type ExportConfig struct {
	PageSize     string  `mapstructure:"page_size" validate:"omitempty,oneof=A4 A5 Letter Legal"`
	MarginsMM    float64 `mapstructure:"margins_mm" validate:"gte=0,lte=50"`
	FontFamily   string  `mapstructure:"font_family"`
	UTF8FontPath string  `mapstructure:"utf8_font_path" validate:"omitempty,file"`
}
