package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env holds process settings read from the environment (and an optional .env file).
type Env struct {
	Port        int    `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	LLMProvider   string `envconfig:"LLM_PROVIDER" default:"gemini" validate:"oneof=gemini openai"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" validate:"omitempty,url"`
	AIEnabled     bool   `envconfig:"AI_ENABLED" default:"true"`
	AIContract    string `envconfig:"AI_CONTRACT" default:"marker" validate:"oneof=marker json"`

	AIMaxRetries     int           `envconfig:"AI_MAX_RETRIES" default:"3" validate:"min=0,max=10"`
	AIBackoffBase    time.Duration `envconfig:"AI_BACKOFF_BASE" default:"2s"`
	AIBackoffJitter  time.Duration `envconfig:"AI_BACKOFF_JITTER" default:"1s"`
	AIRequestTimeout time.Duration `envconfig:"AI_REQUEST_TIMEOUT" default:"60s"`

	JobTTL    time.Duration `envconfig:"JOB_TTL" default:"1h" validate:"gt=0"`
	Workers   int           `envconfig:"WORKERS" default:"4" validate:"min=1"`
	QueueSize int           `envconfig:"QUEUE_SIZE" default:"64" validate:"min=1"`

	FetchTimeout    time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s" validate:"gt=0"`
	FetchRetries    int           `envconfig:"FETCH_RETRIES" default:"2" validate:"min=0"`
	FetchRetryDelay time.Duration `envconfig:"FETCH_RETRY_DELAY" default:"1s"`
	UseBrowser      bool          `envconfig:"USE_BROWSER" default:"false"`
	PdftotextPath   string        `envconfig:"PDFTOTEXT_PATH" default:"pdftotext"`

	JWTSecret          string `envconfig:"JWT_SECRET"`
	JWTExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24" validate:"min=1"`

	LogLevel        string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogDevelopment  bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
	JanitorSchedule string `envconfig:"JANITOR_SCHEDULE" default:"@every 10m"`
}

// Load reads .env (if present) and the process environment into an Env.
func Load() (*Env, error) {
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// Validate checks field ranges and enumerations.
func (e *Env) Validate() error {
	if err := validator.New().Struct(e); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (e *Env) APIKey() string {
	if e.LLMProvider == "openai" {
		return e.OpenAIAPIKey
	}
	return e.GeminiAPIKey
}

// JWT returns the token settings, or an error when no secret is configured.
func (e *Env) JWT() (*JWTConfig, error) {
	cfg := &JWTConfig{Secret: e.JWTSecret, ExpirationHours: e.JWTExpirationHours}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
