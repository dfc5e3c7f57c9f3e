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

// Store drivers supported by the snapshot persistence layer.
const (
	StoreDriverFile   = "file"
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Sync      SyncConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects where the catalog and ledger snapshots are kept.
type StoreConfig struct {
	Driver        string
	Namespace     string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// SyncConfig configures the best-effort mirror of sales, stock-ins and conversions.
type SyncConfig struct {
	ScriptURL   string
	QueueSize   int
	Timeout     time.Duration
	BuddhistEra bool
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// The sheets sink is enabled only when both fields are set.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the Google Sheets sink should be wired.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// MongoDBConfig holds settings for the daily report archive. An empty URI
// disables archiving.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// MetricsConfig holds prometheus options.
type MetricsConfig struct {
	Prefix string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	redisDB, err := strconv.Atoi(getenvWithDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}

	queueSize, err := strconv.Atoi(getenvWithDefault("SYNC_QUEUE_SIZE", "64"))
	if err != nil {
		return nil, fmt.Errorf("SYNC_QUEUE_SIZE must be an integer: %w", err)
	}

	timeout, err := time.ParseDuration(getenvWithDefault("SYNC_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("SYNC_TIMEOUT must be a duration: %w", err)
	}

	buddhistEra, err := strconv.ParseBool(getenvWithDefault("SYNC_BUDDHIST_ERA", "true"))
	if err != nil {
		return nil, fmt.Errorf("SYNC_BUDDHIST_ERA must be a boolean: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level:  getenvWithDefault("LOG_LEVEL", "info"),
			Format: strings.ToLower(getenvWithDefault("LOG_FORMAT", "json")),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getenvWithDefault("STORE_DRIVER", StoreDriverFile)),
			Namespace:     getenvWithDefault("STORE_NAMESPACE", "oden-pos-v4"),
			DataDir:       getenvWithDefault("DATA_DIR", "data"),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
		},
		Sync: SyncConfig{
			ScriptURL:   os.Getenv("GOOGLE_SCRIPT_URL"),
			QueueSize:   queueSize,
			Timeout:     timeout,
			BuddhistEra: buddhistEra,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "5 0 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Bangkok"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "oden"),
		},
		Metrics: MetricsConfig{
			Prefix: getenvWithDefault("METRICS_PREFIX", "oden_pos"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.Log.Format)
	}

	switch c.Store.Driver {
	case StoreDriverFile:
		if c.Store.DataDir == "" {
			return errors.New("DATA_DIR must be provided for the file store")
		}
	case StoreDriverRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("REDIS_ADDR must be provided for the redis store")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Store.Namespace == "" {
		return errors.New("STORE_NAMESPACE must not be empty")
	}

	if c.Sync.QueueSize < 1 {
		return errors.New("SYNC_QUEUE_SIZE must be positive")
	}

	if c.Sync.Timeout <= 0 {
		return errors.New("SYNC_TIMEOUT must be positive")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.Metrics.Prefix == "" {
		return errors.New("METRICS_PREFIX must not be empty")
	}

	return nil
}

// Location returns the configured business timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
