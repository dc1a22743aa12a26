package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBSQLitePath      string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Ashby AshbyConfig
	Slack SlackConfig

	OutboundTimeout time.Duration
	AdminToken      string

	RateLimit RateLimitConfig

	SubmissionWorkers   int
	SubmissionQueueSize int

	RuntimeConfigPath string
}

type AshbyConfig struct {
	APIKey        string
	WebhookSecret string
	BaseURL       string
}

type SlackConfig struct {
	BotToken      string
	SigningSecret string
	BaseURL       string
}

type RateLimitConfig struct {
	Enabled          bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	WebhookPerMinute int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "feedbackrelay"),
		AppVersion:  getenv("APP_VERSION", "dev"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "feedbackrelay"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBSQLitePath:      getenv("DATABASE_SQLITE_PATH", "feedbackrelay.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONNS", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONNS", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME_SECONDS", 1800),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_SECONDS", 300),

		Ashby: AshbyConfig{
			APIKey:        strings.TrimSpace(getenv("ASHBY_API_KEY", "")),
			WebhookSecret: strings.TrimSpace(getenv("ASHBY_WEBHOOK_SECRET", "")),
			BaseURL:       strings.TrimRight(getenv("ASHBY_BASE_URL", "https://api.ashbyhq.com"), "/"),
		},
		Slack: SlackConfig{
			BotToken:      strings.TrimSpace(getenv("SLACK_BOT_TOKEN", "")),
			SigningSecret: strings.TrimSpace(getenv("SLACK_SIGNING_SECRET", "")),
			BaseURL:       strings.TrimRight(getenv("SLACK_BASE_URL", "https://slack.com/api"), "/"),
		},

		OutboundTimeout: time.Duration(getenvInt("OUTBOUND_TIMEOUT_SECONDS", 10)) * time.Second,
		AdminToken:      strings.TrimSpace(getenv("ADMIN_TOKEN", "")),

		RateLimit: RateLimitConfig{
			Enabled:          getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:        strings.TrimSpace(getenv("REDIS_ADDR", "")),
			RedisPassword:    getenv("REDIS_PASSWORD", ""),
			RedisDB:          getenvInt("REDIS_DB", 0),
			WebhookPerMinute: getenvInt("WEBHOOK_RATE_PER_MINUTE", 100),
		},

		SubmissionWorkers:   getenvInt("SUBMISSION_WORKERS", 4),
		SubmissionQueueSize: getenvInt("SUBMISSION_QUEUE_SIZE", 64),

		RuntimeConfigPath: getenv("RELAY_CONFIG_PATH", "."),
	}

	return cfg
}

// Validate reports every missing secret at once.
func (c Config) Validate() error {
	var errs []error
	if c.Ashby.APIKey == "" {
		errs = append(errs, errors.New("ASHBY_API_KEY is required"))
	}
	if c.Ashby.WebhookSecret == "" {
		errs = append(errs, errors.New("ASHBY_WEBHOOK_SECRET is required"))
	}
	if c.Slack.BotToken == "" {
		errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
	}
	switch c.DBType {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_TYPE %q", c.DBType))
	}
	if c.RateLimit.Enabled && c.RateLimit.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required when RATE_LIMIT_ENABLED is set"))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
