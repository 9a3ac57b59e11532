package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`      // current application environment (local, dev, production etc)
	TelegramAPIToken string  `mapstructure:"-"`        // Telegram API token loaded from environment
	Gemini           Gemini  `mapstructure:"gemini"`   // generative service section
	Exam             Exam    `mapstructure:"exam"`     // exam session parameters
	Session          Session `mapstructure:"session"`  // inactivity logout
	Storage          Storage `mapstructure:"storage"`  // key-value backend selection
	DB               DB      `mapstructure:"database"` // database configuration section
	Redis            Redis   `mapstructure:"redis"`    // redis configuration section
	Janitor          Janitor `mapstructure:"janitor"`  // idle profile eviction
}

// Gemini configures the question generator backend.
type Gemini struct {
	APIKey      string  `mapstructure:"-"`
	Model       string  `mapstructure:"model" validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// Exam configures every exam session.
type Exam struct {
	QuestionCount int           `mapstructure:"question_count" validate:"gte=2,lte=100"`
	Duration      time.Duration `mapstructure:"duration" validate:"gte=1s"`
}

// Session configures the inactivity logout.
type Session struct {
	InactivityTimeout time.Duration `mapstructure:"inactivity_timeout" validate:"gte=1s"`
}

// Storage selects the key-value backend.
type Storage struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory postgres redis"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis contains connection parameters of the redis backend.
type Redis struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Janitor configures eviction of idle chat profiles.
type Janitor struct {
	Schedule  string        `mapstructure:"schedule" validate:"required"`
	IdleAfter time.Duration `mapstructure:"idle_after" validate:"gte=1m"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("exam.question_count", 30)
	v.SetDefault("exam.duration", "60m")
	v.SetDefault("session.inactivity_timeout", "30m")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("janitor.schedule", "@every 10m")
	v.SetDefault("janitor.idle_after", "2h")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.model", "GEMINI_MODEL")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.Gemini.APIKey = v.GetString("gemini_api_key")
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.Storage.Driver == DriverPostgres && cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
