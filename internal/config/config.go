package config

import (
	"time"

	"github.com/google/uuid"
)

// Config is the root application configuration.
type Config struct {
	User     UserConfig     `yaml:"user"`
	Database DatabaseConfig `yaml:"database"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Session  SessionConfig  `yaml:"session"`
	Planner  PlannerConfig  `yaml:"planner"`
	Log      LogConfig      `yaml:"log"`
}

// UserConfig identifies the single local user whose records are tracked.
type UserConfig struct {
	IDRaw string `yaml:"id" env:"USER_ID" env-default:"e7a7e6a2-0000-4000-8000-000000000001"`

	// ID is parsed from IDRaw during validation.
	ID uuid.UUID `yaml:"-" env:"-"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"5"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	Migrate         bool          `yaml:"migrate"            env:"DATABASE_MIGRATE"            env-default:"true"`
}

// GeminiConfig holds settings for the Gemini inference provider.
type GeminiConfig struct {
	APIKey      string        `yaml:"api_key"      env:"GEMINI_API_KEY"      env-required:"true"`
	BaseURL     string        `yaml:"base_url"     env:"GEMINI_BASE_URL"     env-default:"https://generativelanguage.googleapis.com/v1beta"`
	TextModel   string        `yaml:"text_model"   env:"GEMINI_TEXT_MODEL"   env-default:"gemini-2.5-flash"`
	VisionModel string        `yaml:"vision_model" env:"GEMINI_VISION_MODEL" env-default:"gemini-3-pro-preview"`
	PlanModel   string        `yaml:"plan_model"   env:"GEMINI_PLAN_MODEL"   env-default:"gemini-2.5-flash"`
	Timeout     time.Duration `yaml:"timeout"      env:"GEMINI_TIMEOUT"      env-default:"60s"`
}

// SessionConfig holds session state-machine settings.
type SessionConfig struct {
	// ErrorRevertDelay is how long the session stays in the Error state
	// before automatically returning to Idle.
	ErrorRevertDelay time.Duration `yaml:"error_revert_delay" env:"SESSION_ERROR_REVERT_DELAY" env-default:"3s"`

	// MaxImageBytes caps image payloads before submission to the provider.
	MaxImageBytes int `yaml:"max_image_bytes" env:"SESSION_MAX_IMAGE_BYTES" env-default:"5242880"`
}

// PlannerConfig holds the numeric tolerance rules sent with every plan
// generation request.
type PlannerConfig struct {
	CalorieTolerancePct int `yaml:"calorie_tolerance_pct" env:"PLANNER_CALORIE_TOLERANCE_PCT" env-default:"5"`
	MacroTolerancePct   int `yaml:"macro_tolerance_pct"   env:"PLANNER_MACRO_TOLERANCE_PCT"   env-default:"8"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
